package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics содержит все метрики приложения
type Metrics struct {
	logger *zap.Logger

	// Счетчики
	synthRequests   *prometheus.CounterVec
	formatFallbacks *prometheus.CounterVec
	formatRetries   prometheus.Counter
	botCommands     *prometheus.CounterVec
	userMessages    *prometheus.CounterVec

	// Гистограммы
	synthDuration *prometheus.HistogramVec
}

// New создает новый экземпляр метрик
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,

		// Счетчики запросов синтеза
		synthRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_requests_total",
				Help: "Общее количество запросов синтеза речи",
			},
			[]string{"backend", "status"}, // backend: v3, v1; status: success, failed
		),

		// Счетчики откатов автоформатирования на правила
		formatFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_format_fallbacks_total",
				Help: "Количество откатов AI-форматирования на правила",
			},
			[]string{"reason"}, // gpt_error, validation_failed
		),

		// Счетчик повторов синтеза без форматирования
		formatRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tts_format_retries_total",
				Help: "Количество повторов синтеза после отказа бэкенда на отформатированном тексте",
			},
		),

		// Счетчики команд бота
		botCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_commands_total",
				Help: "Общее количество команд бота",
			},
			[]string{"command"},
		),

		// Счетчики сообщений пользователей
		userMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_messages_total",
				Help: "Общее количество сообщений пользователей",
			},
			[]string{"type"}, // text, ssml
		),

		// Гистограмма времени синтеза
		synthDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tts_synthesis_duration_seconds",
				Help:    "Время синтеза речи в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
	}

	// Регистрируем все метрики
	prometheus.MustRegister(
		m.synthRequests,
		m.formatFallbacks,
		m.formatRetries,
		m.botCommands,
		m.userMessages,
		m.synthDuration,
	)

	return m
}

// RecordSynthesis записывает результат запроса синтеза
func (m *Metrics) RecordSynthesis(backend string, success bool, seconds float64) {
	status := "success"
	if !success {
		status = "failed"
	}

	m.synthRequests.WithLabelValues(backend, status).Inc()
	m.synthDuration.WithLabelValues(backend).Observe(seconds)

	m.logger.Debug("метрика синтеза записана",
		zap.String("backend", backend),
		zap.String("status", status),
		zap.Float64("seconds", seconds))
}

// RecordFormatFallback записывает откат AI-форматирования на правила
func (m *Metrics) RecordFormatFallback(reason string) {
	m.formatFallbacks.WithLabelValues(reason).Inc()
	m.logger.Debug("откат форматирования записан", zap.String("reason", reason))
}

// RecordFormatRetry записывает повтор синтеза без форматирования
func (m *Metrics) RecordFormatRetry() {
	m.formatRetries.Inc()
}

// RecordCommand записывает выполненную команду бота
func (m *Metrics) RecordCommand(command string) {
	m.botCommands.WithLabelValues(command).Inc()
}

// RecordUserMessage записывает сообщение пользователя
func (m *Metrics) RecordUserMessage(messageType string) {
	m.userMessages.WithLabelValues(messageType).Inc()
}
