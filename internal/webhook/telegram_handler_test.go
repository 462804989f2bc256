package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUpdateHandler struct {
	updates []tgbotapi.Update
	err     error
}

func (f *fakeUpdateHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	f.updates = append(f.updates, update)
	return f.err
}

func TestHandleWebhookDispatchesUpdate(t *testing.T) {
	fake := &fakeUpdateHandler{}
	h := NewTelegramWebhookHandler(fake, zap.NewNop())

	body := `{"update_id":123,"message":{"message_id":1,"text":"привет","chat":{"id":42},"from":{"id":42}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleWebhook(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fake.updates, 1)
	assert.Equal(t, 123, fake.updates[0].UpdateID)
	assert.Equal(t, "привет", fake.updates[0].Message.Text)
}

func TestHandleWebhookRejectsGet(t *testing.T) {
	h := NewTelegramWebhookHandler(&fakeUpdateHandler{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	w := httptest.NewRecorder()

	h.HandleWebhook(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleWebhookRejectsBadJSON(t *testing.T) {
	h := NewTelegramWebhookHandler(&fakeUpdateHandler{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("не json"))
	w := httptest.NewRecorder()

	h.HandleWebhook(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleWebhookAcknowledgesHandlerError(t *testing.T) {
	fake := &fakeUpdateHandler{err: assert.AnError}
	h := NewTelegramWebhookHandler(fake, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1}`))
	w := httptest.NewRecorder()

	h.HandleWebhook(w, req)

	// Ошибка обработки не должна провоцировать повторную доставку
	assert.Equal(t, http.StatusOK, w.Code)
}
