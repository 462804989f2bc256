package markup

import (
	"context"

	"go.uber.org/zap"
)

// Formatter генерирует TTS-разметку для сложного текста.
// Реализуется клиентом YandexGPT.
type Formatter interface {
	FormatText(ctx context.Context, text string) (string, error)
}

// FallbackRecorder получает события деградации AI-форматирования
// до правил. Сбои YandexGPT не видны вызывающей стороне, поэтому
// частоту откатов нужно наблюдать через метрики.
type FallbackRecorder interface {
	RecordFormatFallback(reason string)
}

// Pipeline выполняет полную предобработку текста перед синтезом:
// очистка -> классификация -> AI или правила -> валидация.
type Pipeline struct {
	formatter Formatter
	metrics   FallbackRecorder
	logger    *zap.Logger
}

// NewPipeline создает новый конвейер предобработки.
// formatter может быть nil, тогда используются только правила.
func NewPipeline(formatter Formatter, metrics FallbackRecorder, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		formatter: formatter,
		metrics:   metrics,
		logger:    logger,
	}
}

// Process форматирует текст для синтеза. Никогда не возвращает ошибку:
// худший случай — детерминированная разметка по правилам.
func (p *Pipeline) Process(ctx context.Context, text string, useAI bool) string {
	// Убираем существующую разметку, чтобы избежать конфликтов
	text = Clean(text)

	if useAI && p.formatter != nil && IsComplex(text) {
		formatted, err := p.formatter.FormatText(ctx, text)
		if err != nil {
			p.logger.Error("ошибка AI-форматирования, переходим на правила", zap.Error(err))
			p.recordFallback("gpt_error")
		} else if verr := Validate(formatted); verr != nil {
			p.logger.Warn("AI-разметка не прошла валидацию, переходим на правила", zap.Error(verr))
			p.recordFallback("validation_failed")
		} else {
			return formatted
		}
	}

	// Разметка по правилам как основной или запасной путь.
	// Правила построены так, что их результат всегда проходит валидацию.
	return ApplyRules(text)
}

func (p *Pipeline) recordFallback(reason string) {
	if p.metrics != nil {
		p.metrics.RecordFormatFallback(reason)
	}
}
