// Package gpt содержит клиент YandexGPT для генерации TTS-разметки.
package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://llm.api.cloud.yandex.net/foundationModels/v1"

// Системный промпт: модель выступает экспертом по подготовке текста к синтезу
const systemPrompt = "Ты — эксперт по подготовке текстов для синтеза речи с использованием технологий Yandex. " +
	"Твоя задача — оптимизировать текст так, чтобы синтезированная речь звучала естественно и чётко, " +
	"соответствуя интонациям живого общения и улучшая восприятие информации слушателем."

const userPromptTemplate = `Отформатируй русский текст для максимально естественного синтеза речи Yandex SpeechKit v3.

Используй разметку:
1. sil<[t]> для пауз (где t - миллисекунды: 100-5000)
2. + перед ударной гласной (м+олоко)
3. **слово** для выделения важных слов

Правила естественной речи:
- Делай паузы разной длины: после точки (300-500мс), запятой (150-200мс)
- Используй паузы для эмоционального эффекта, например: "Я думал... sil<[500]> что ты знаешь"
- Сокращай паузу между тесно связанными фразами
- Расставляй ударения в сложных или редких словах
- Отмечай **выделением** эмоционально значимые слова

ОЧЕНЬ ВАЖНО: Текст должен звучать как естественная человеческая речь, а не робот.
Используй знание о том, как русскоговорящие люди выражают эмоции через интонацию.

Входной текст: %s

Текст с разметкой:`

// Client клиент для работы с YandexGPT API
type Client struct {
	apiKey     string
	folderID   string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создает новый клиент YandexGPT
func NewClient(apiKey, folderID, model string, logger *zap.Logger) *Client {
	if model == "" {
		model = "yandexgpt-lite"
	}

	return &Client{
		apiKey:   apiKey,
		folderID: folderID,
		model:    model,
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// completionRequest представляет запрос к YandexGPT API
type completionRequest struct {
	ModelURI          string              `json:"modelUri"`
	CompletionOptions completionOptions   `json:"completionOptions"`
	Messages          []completionMessage `json:"messages"`
}

type completionOptions struct {
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

type completionMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// completionResponse представляет ответ YandexGPT API
type completionResponse struct {
	Result struct {
		Alternatives []struct {
			Message completionMessage `json:"message"`
			Status  string            `json:"status"`
		} `json:"alternatives"`
		ModelVersion string `json:"modelVersion"`
	} `json:"result"`
}

// FormatText генерирует TTS-разметку для текста через YandexGPT.
// Все сбои (сеть, не-200 статус, пустой ответ) возвращаются одной ошибкой;
// повторов внутри клиента нет — деградацию до правил решает конвейер.
func (c *Client) FormatText(ctx context.Context, text string) (string, error) {
	if c.folderID == "" {
		return "", fmt.Errorf("для YandexGPT необходимо указать YANDEX_FOLDER_ID")
	}

	c.logger.Debug("отправляем запрос в YandexGPT",
		zap.String("model", c.model),
		zap.Int("text_length", len(text)))

	// Лимит токенов пропорционален длине текста: защитный потолок, не точный расчет
	request := completionRequest{
		ModelURI: fmt.Sprintf("gpt://%s/%s", c.folderID, c.model),
		CompletionOptions: completionOptions{
			Stream:      false,
			Temperature: 0.1,
			MaxTokens:   len(text) * 2,
		},
		Messages: []completionMessage{
			{Role: "system", Text: systemPrompt},
			{Role: "user", Text: fmt.Sprintf(userPromptTemplate, text)},
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/completion", bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка отправки запроса: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("ошибка YandexGPT API",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(responseBody)))
		return "", fmt.Errorf("ошибка YandexGPT API (статус %d): %s", resp.StatusCode, string(responseBody))
	}

	var completion completionResponse
	if err := json.Unmarshal(responseBody, &completion); err != nil {
		return "", fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	if len(completion.Result.Alternatives) == 0 {
		return "", fmt.Errorf("нет вариантов ответа от YandexGPT")
	}

	formatted := strings.TrimSpace(completion.Result.Alternatives[0].Message.Text)

	c.logger.Debug("получен ответ от YandexGPT",
		zap.String("model_version", completion.Result.ModelVersion),
		zap.Int("formatted_length", len(formatted)))

	return formatted, nil
}

// GetName возвращает название провайдера
func (c *Client) GetName() string {
	return "YandexGPT"
}
