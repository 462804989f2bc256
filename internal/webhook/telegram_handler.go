package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// UpdateHandler обрабатывает обновления Telegram независимо от транспорта
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// TelegramWebhookHandler принимает обновления Telegram через webhook
type TelegramWebhookHandler struct {
	handler UpdateHandler
	logger  *zap.Logger
}

// NewTelegramWebhookHandler создает новый обработчик webhook'ов Telegram
func NewTelegramWebhookHandler(handler UpdateHandler, logger *zap.Logger) *TelegramWebhookHandler {
	return &TelegramWebhookHandler{
		handler: handler,
		logger:  logger,
	}
}

// HandleWebhook обрабатывает входящее обновление от Telegram
func (h *TelegramWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.logger.Warn("неверный метод webhook запроса", zap.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("ошибка чтения тела запроса", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		h.logger.Error("ошибка парсинга обновления Telegram", zap.Error(err))
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	h.logger.Debug("получено обновление через webhook", zap.Int("update_id", update.UpdateID))

	if err := h.handler.HandleUpdate(r.Context(), update); err != nil {
		// Telegram повторяет доставку при не-2xx ответе, поэтому ошибки
		// обработки логируем, но отвечаем успехом
		h.logger.Error("ошибка обработки обновления", zap.Error(err))
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
