package speech

import (
	"context"
	"errors"
	"time"

	"github.com/cybenv/EchoSage/internal/markup"

	"go.uber.org/zap"
)

// MetricsRecorder получает наблюдения о запросах синтеза
type MetricsRecorder interface {
	RecordSynthesis(backend string, success bool, seconds float64)
	RecordFormatRetry()
}

// Service каркас вокруг синтезатора: предобработка текста и
// восстановление после отказов, вызванных форматированием.
type Service struct {
	synth    *Synthesizer
	pipeline *markup.Pipeline
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewService создает сервис синтеза. pipeline может быть nil,
// тогда автоформатирование недоступно. metrics может быть nil.
func NewService(synth *Synthesizer, pipeline *markup.Pipeline, metrics MetricsRecorder, logger *zap.Logger) *Service {
	return &Service{
		synth:    synth,
		pipeline: pipeline,
		metrics:  metrics,
		logger:   logger,
	}
}

// SynthesizeText синтезирует обычный текст с предобработкой и
// восстановлением: если бэкенд отклонил запрос со статусом 4xx при
// включенном форматировании, выполняется ровно один повтор с исходным
// текстом и выключенными форматированием и разметкой. Ошибка повтора
// становится итоговой; дальнейших попыток нет.
func (s *Service) SynthesizeText(ctx context.Context, text string, opts Options) ([]byte, error) {
	sendText := text
	if opts.AutoFormat && s.pipeline != nil {
		sendText = s.pipeline.Process(ctx, text, true)
	} else if opts.UseMarkup {
		// Пользовательская разметка без автоформатирования проверяется
		// жестко: некорректную мы не отправляем и не чиним
		if err := markup.Validate(text); err != nil {
			return nil, err
		}
	}

	req, err := NewTextRequest(sendText, opts)
	if err != nil {
		return nil, err
	}

	audio, err := s.dispatch(ctx, "v3", req)
	if err == nil {
		return audio, nil
	}

	var backendErr *BackendError
	if !opts.AutoFormat || !errors.As(err, &backendErr) || !backendErr.IsClientError() {
		return nil, err
	}

	// Бэкенд отклонил отформатированный текст: повторяем один раз
	// с исходным текстом без форматирования и разметки
	s.logger.Warn("бэкенд отклонил отформатированный текст, повторяем без форматирования",
		zap.Int("status_code", backendErr.StatusCode))
	if s.metrics != nil {
		s.metrics.RecordFormatRetry()
	}

	retryOpts := opts
	retryOpts.AutoFormat = false
	retryOpts.UseMarkup = false

	retryReq, err := NewTextRequest(text, retryOpts)
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, "v3", retryReq)
}

// SynthesizeSSML синтезирует SSML-разметку через v1 API без предобработки
func (s *Service) SynthesizeSSML(ctx context.Context, ssml string, opts Options) ([]byte, error) {
	req, err := NewSSMLRequest(ssml, opts)
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, "v1", req)
}

func (s *Service) dispatch(ctx context.Context, backend string, req *Request) ([]byte, error) {
	start := time.Now()
	audio, err := s.synth.Synthesize(ctx, req)
	elapsed := time.Since(start).Seconds()

	if s.metrics != nil {
		s.metrics.RecordSynthesis(backend, err == nil, elapsed)
	}

	if err != nil {
		return nil, err
	}

	s.logger.Info("аудио успешно синтезировано",
		zap.String("backend", backend),
		zap.String("voice", req.Voice),
		zap.Int("audio_size", len(audio)),
		zap.Float64("seconds", elapsed))

	return audio, nil
}
