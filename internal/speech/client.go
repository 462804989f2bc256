package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// v3 API — принимает разметку пауз, отдает аудио чанками
	defaultV3URL = "https://tts.api.cloud.yandex.net/tts/v3/utteranceSynthesis"
	// v1 API — единственный, который принимает SSML
	defaultV1URL = "https://tts.api.cloud.yandex.net/speech/v1/tts:synthesize"

	// Потолок на один вызов синтеза; превышение — транспортная ошибка,
	// а не отказ бэкенда
	synthesisTimeout = 20 * time.Second
)

// Config конфигурация синтезатора
type Config struct {
	APIKey       string
	FolderID     string
	DefaultSpeed string
}

// Synthesizer выполняет запросы синтеза к SpeechKit, выбирая бэкенд
// по форме содержимого: SSML идет в v1, обычный текст — в v3.
type Synthesizer struct {
	apiKey       string
	folderID     string
	defaultSpeed string
	v3URL        string
	v1URL        string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewSynthesizer создает новый синтезатор
func NewSynthesizer(cfg Config, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		apiKey:       cfg.APIKey,
		folderID:     cfg.FolderID,
		defaultSpeed: cfg.DefaultSpeed,
		v3URL:        defaultV3URL,
		v1URL:        defaultV1URL,
		httpClient: &http.Client{
			Timeout: synthesisTimeout,
		},
		logger: logger,
	}
}

// Synthesize преобразует запрос в аудио. Маршрутизация жесткая:
// бэкенды не взаимозаменяемы.
func (s *Synthesizer) Synthesize(ctx context.Context, req *Request) ([]byte, error) {
	switch req.Content.(type) {
	case Text:
		return s.synthesizeV3(ctx, req)
	case SSML:
		return s.synthesizeV1(ctx, req)
	default:
		return nil, &RequestError{Reason: "неизвестный тип содержимого"}
	}
}

// synthesizeV3 синтезирует обычный текст через v3 API
func (s *Synthesizer) synthesizeV3(ctx context.Context, req *Request) ([]byte, error) {
	payload, err := buildMarkupPayload(req, s.defaultSpeed)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	s.logger.Debug("отправляем запрос к SpeechKit v3",
		zap.String("voice", req.Voice),
		zap.Int("hints_count", len(payload.Hints)),
		zap.Bool("unsafe_mode", payload.UnsafeMode),
		zap.Int("text_length", len(payload.Text)))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.v3URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Api-Key "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса к SpeechKit v3: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{StatusCode: resp.StatusCode, Body: string(responseBody)}
	}

	return s.decodeV3Response(resp.Header.Get("Content-Type"), responseBody)
}

// decodeV3Response извлекает аудио из ответа v3 API.
// JSON-ответ может состоять из нескольких объектов, разделенных переводами
// строк (потоковый режим); каждая строка несет base64-чанк аудио.
func (s *Synthesizer) decodeV3Response(contentType string, body []byte) ([]byte, error) {
	if !strings.Contains(contentType, "application/json") {
		// Иногда API возвращает сырые байты
		if len(body) == 0 {
			return nil, &DecodeError{Reason: "пустой ответ без аудио"}
		}
		return body, nil
	}

	// Чанк может быть обернут в result, проверяем оба расположения
	type audioChunk struct {
		Data string `json:"data"`
	}
	type chunkLine struct {
		AudioChunk *audioChunk `json:"audioChunk"`
		Result     struct {
			AudioChunk *audioChunk `json:"audioChunk"`
		} `json:"result"`
	}

	var audio bytes.Buffer
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var parsed chunkLine
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			// Испорченная строка пропускается, остальные чанки сохраняются
			s.logger.Error("не удалось разобрать строку потокового ответа",
				zap.Error(err),
				zap.String("line", truncate(line, 100)))
			continue
		}

		chunk := parsed.AudioChunk
		if chunk == nil {
			chunk = parsed.Result.AudioChunk
		}
		if chunk == nil || chunk.Data == "" {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(chunk.Data)
		if err != nil {
			s.logger.Error("не удалось декодировать base64 аудио", zap.Error(err))
			continue
		}
		audio.Write(data)
	}

	if audio.Len() == 0 {
		return nil, &DecodeError{Reason: "потоковый ответ не содержит аудио"}
	}

	return audio.Bytes(), nil
}

// synthesizeV1 синтезирует SSML через устаревший v1 API
func (s *Synthesizer) synthesizeV1(ctx context.Context, req *Request) ([]byte, error) {
	form, err := buildSSMLForm(req, s.folderID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("отправляем SSML запрос к SpeechKit v1",
		zap.String("voice", req.Voice),
		zap.String("format", req.Format))

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.v1URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Api-Key "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса к SpeechKit v1: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{StatusCode: resp.StatusCode, Body: string(responseBody)}
	}

	// v1 всегда отдает сырые байты
	if len(responseBody) == 0 {
		return nil, &DecodeError{Reason: "v1 API вернул пустой ответ"}
	}

	return responseBody, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
