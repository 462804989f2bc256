package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// Метрики регистрируются в глобальном реестре prometheus,
// поэтому экземпляр один на все тесты пакета
var testMetrics = New(zap.NewNop())

func TestRecordSynthesis(t *testing.T) {
	// Запись не должна паниковать ни для успеха, ни для сбоя
	testMetrics.RecordSynthesis("v3", true, 0.42)
	testMetrics.RecordSynthesis("v3", false, 1.3)
	testMetrics.RecordSynthesis("v1", true, 0.2)
}

func TestRecordFormatEvents(t *testing.T) {
	testMetrics.RecordFormatFallback("gpt_error")
	testMetrics.RecordFormatFallback("validation_failed")
	testMetrics.RecordFormatRetry()
}

func TestRecordBotActivity(t *testing.T) {
	testMetrics.RecordCommand("start")
	testMetrics.RecordUserMessage("text")
	testMetrics.RecordUserMessage("ssml")
}

func TestHealthHandler(t *testing.T) {
	handler := NewHandler(testMetrics, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("ожидался статус 200, получен %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("ожидался Content-Type application/json, получен %s", rec.Header().Get("Content-Type"))
	}
}

func TestMetricsHandler(t *testing.T) {
	handler := NewHandler(testMetrics, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	handler.MetricsHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("ожидался статус 200, получен %d", rec.Code)
	}
}
