package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/cybenv/EchoSage/internal/config"
	"github.com/cybenv/EchoSage/internal/markup"
	"github.com/cybenv/EchoSage/internal/metrics"
	"github.com/cybenv/EchoSage/internal/speech"
	"github.com/cybenv/EchoSage/internal/store"
	"github.com/cybenv/EchoSage/pkg/models"
)

const (
	// Лимиты безопасности
	MaxTextLength = 4000 // Максимальная длина текста сообщения

	// Rate limiting
	MaxRequestsPerMinute = 30 // Максимум запросов в минуту на пользователя
	RateLimitWindow      = time.Minute
)

// RateLimiter простой rate limiter для пользователей
type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.RWMutex
}

// NewRateLimiter создает новый rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
	}
}

// IsAllowed проверяет, разрешен ли запрос для пользователя
func (rl *RateLimiter) IsAllowed(userID int64) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	userRequests := rl.requests[userID]

	// Удаляем старые запросы
	var validRequests []time.Time
	for _, reqTime := range userRequests {
		if now.Sub(reqTime) < RateLimitWindow {
			validRequests = append(validRequests, reqTime)
		}
	}

	// Проверяем лимит
	if len(validRequests) >= MaxRequestsPerMinute {
		rl.requests[userID] = validRequests
		return false
	}

	// Добавляем текущий запрос
	validRequests = append(validRequests, now)
	rl.requests[userID] = validRequests
	return true
}

// Handler представляет обработчик сообщений Telegram
type Handler struct {
	bot         *tgbotapi.BotAPI
	speech      *speech.Service
	settings    store.SettingsRepository
	cfg         *config.Config
	messages    *Messages
	metrics     *metrics.Metrics
	logger      *zap.Logger
	rateLimiter *RateLimiter
}

// NewHandler создает новый обработчик
func NewHandler(
	bot *tgbotapi.BotAPI,
	speechService *speech.Service,
	settings store.SettingsRepository,
	cfg *config.Config,
	botMetrics *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:         bot,
		speech:      speechService,
		settings:    settings,
		cfg:         cfg,
		messages:    NewMessages(cfg),
		metrics:     botMetrics,
		logger:      logger,
		rateLimiter: NewRateLimiter(),
	}
}

// HandleUpdate обрабатывает входящее обновление
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	// Получаем ID пользователя для rate limiting
	var userID int64
	if update.Message != nil {
		userID = update.Message.From.ID
	} else if update.CallbackQuery != nil {
		userID = update.CallbackQuery.From.ID
	}

	// Проверяем rate limit
	if userID != 0 && !h.rateLimiter.IsAllowed(userID) {
		h.logger.Warn("превышен лимит запросов", zap.Int64("user_id", userID))
		if update.Message != nil {
			return h.sendMessage(update.Message.Chat.ID, h.messages.RateLimited())
		}
		// Для callback просто игнорируем
		return nil
	}

	// Обрабатываем inline кнопки
	if update.CallbackQuery != nil {
		return h.handleCallbackQuery(ctx, update.CallbackQuery)
	}

	if update.Message == nil {
		return nil
	}

	h.logger.Debug("получено обновление",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
		zap.String("username", update.Message.From.UserName))

	if update.Message.IsCommand() {
		return h.handleCommand(ctx, update.Message)
	}

	return h.handleText(ctx, update.Message)
}

// handleCommand обрабатывает команды
func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	command := message.Command()
	h.metrics.RecordCommand(command)

	switch command {
	case "start":
		return h.sendMessage(message.Chat.ID, h.messages.Welcome())
	case "help":
		return h.sendHTMLMessage(message.Chat.ID, h.messages.Help())
	case "set_voice":
		return h.handleSetVoice(message)
	case "set_role":
		return h.handleSetRole(ctx, message)
	case "set_speed":
		return h.handleSetSpeed(message)
	case "settings":
		return h.handleSettings(ctx, message)
	case "reset":
		return h.handleReset(ctx, message)
	case "speak_ssml":
		return h.handleSpeakSSML(ctx, message)
	case "toggle_format":
		return h.handleToggleFormat(ctx, message)
	case "toggle_markup":
		return h.handleToggleMarkup(ctx, message)
	case "demo_markup":
		return h.sendHTMLMessage(message.Chat.ID, h.messages.DemoMarkup())
	default:
		return h.sendMessage(message.Chat.ID, h.messages.UnknownCommand())
	}
}

// handleText преобразует текстовое сообщение в голосовое
func (h *Handler) handleText(ctx context.Context, message *tgbotapi.Message) error {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return nil
	}

	h.metrics.RecordUserMessage("text")

	// SSML, отправленный без команды, перенаправляем на /speak_ssml
	if strings.HasPrefix(text, "<speak>") && strings.HasSuffix(text, "</speak>") {
		return h.sendHTMLMessage(message.Chat.ID, h.messages.SSMLRedirect(text))
	}

	if !containsRussian(text) {
		return h.sendMessage(message.Chat.ID, h.messages.NotRussian())
	}

	if len(text) > MaxTextLength {
		return h.sendMessage(message.Chat.ID, h.messages.TooLongText())
	}

	h.sendChatAction(message.Chat.ID, "upload_voice")

	settings := h.loadSettings(ctx, message.From.ID)
	audio, err := h.speech.SynthesizeText(ctx, text, h.synthesisOptions(settings))
	if err != nil {
		h.logger.Error("ошибка синтеза текста",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		return h.sendMessage(message.Chat.ID, h.textErrorMessage(err))
	}

	return h.sendVoice(message.Chat.ID, audio)
}

// handleSpeakSSML обрабатывает команду синтеза SSML-разметки
func (h *Handler) handleSpeakSSML(ctx context.Context, message *tgbotapi.Message) error {
	h.metrics.RecordUserMessage("ssml")

	ssml := strings.TrimSpace(message.CommandArguments())
	if ssml == "" {
		return h.sendHTMLMessage(message.Chat.ID, h.messages.SSMLUsage())
	}

	if !strings.HasPrefix(ssml, "<speak>") || !strings.HasSuffix(ssml, "</speak>") {
		return h.sendHTMLMessage(message.Chat.ID, h.messages.SSMLNotWrapped())
	}

	h.sendChatAction(message.Chat.ID, "upload_voice")

	settings := h.loadSettings(ctx, message.From.ID)
	audio, err := h.speech.SynthesizeSSML(ctx, ssml, h.synthesisOptions(settings))
	if err != nil {
		h.logger.Error("ошибка синтеза SSML",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		return h.sendMessage(message.Chat.ID, h.ssmlErrorMessage(err))
	}

	return h.sendVoice(message.Chat.ID, audio)
}

// handleSetVoice показывает клавиатуру выбора голоса
func (h *Handler) handleSetVoice(message *tgbotapi.Message) error {
	return h.sendMessageWithInlineKeyboard(message.Chat.ID, "Выбери голос:",
		buildKeyboard(models.Voices, "voice"))
}

// handleSetRole показывает эмоции, совместимые с текущим голосом
func (h *Handler) handleSetRole(ctx context.Context, message *tgbotapi.Message) error {
	settings := h.loadSettings(ctx, message.From.ID)
	roles := models.RolesForVoice(settings.Voice)

	return h.sendMessageWithInlineKeyboard(message.Chat.ID,
		"Эмоция для голоса: "+voiceDisplay(settings.Voice),
		buildKeyboard(roles, "role"))
}

// handleSetSpeed показывает клавиатуру выбора скорости
func (h *Handler) handleSetSpeed(message *tgbotapi.Message) error {
	return h.sendMessageWithInlineKeyboard(message.Chat.ID, "Скорость речи:",
		buildKeyboard(models.Speeds, "speed"))
}

// handleSettings показывает текущие настройки пользователя
func (h *Handler) handleSettings(ctx context.Context, message *tgbotapi.Message) error {
	settings := h.loadSettings(ctx, message.From.ID)
	return h.sendHTMLMessage(message.Chat.ID, h.messages.Settings(settings))
}

// handleReset сбрасывает настройки пользователя к значениям по умолчанию
func (h *Handler) handleReset(ctx context.Context, message *tgbotapi.Message) error {
	if err := h.settings.Delete(ctx, message.From.ID); err != nil {
		h.logger.Error("ошибка сброса настроек", zap.Error(err), zap.Int64("user_id", message.From.ID))
		return h.sendMessage(message.Chat.ID, "❌ Ошибка при сбросе настроек. Попробуй позже.")
	}

	defaults := h.defaultSettings(message.From.ID)
	return h.sendHTMLMessage(message.Chat.ID, h.messages.ResetDone(defaults))
}

// handleToggleFormat переключает автоформатирование
func (h *Handler) handleToggleFormat(ctx context.Context, message *tgbotapi.Message) error {
	settings := h.loadSettings(ctx, message.From.ID)
	settings.AutoFormat = !settings.AutoFormat

	if err := h.settings.Upsert(ctx, settings); err != nil {
		h.logger.Error("ошибка сохранения настроек", zap.Error(err), zap.Int64("user_id", message.From.ID))
		return h.sendMessage(message.Chat.ID, h.messages.SynthesisFailed())
	}

	return h.sendHTMLMessage(message.Chat.ID, h.messages.ToggleFormat(settings.AutoFormat))
}

// handleToggleMarkup переключает TTS разметку
func (h *Handler) handleToggleMarkup(ctx context.Context, message *tgbotapi.Message) error {
	settings := h.loadSettings(ctx, message.From.ID)
	settings.UseMarkup = !settings.UseMarkup

	if err := h.settings.Upsert(ctx, settings); err != nil {
		h.logger.Error("ошибка сохранения настроек", zap.Error(err), zap.Int64("user_id", message.From.ID))
		return h.sendMessage(message.Chat.ID, h.messages.SynthesisFailed())
	}

	return h.sendHTMLMessage(message.Chat.ID, h.messages.ToggleMarkup(settings.UseMarkup))
}

// handleCallbackQuery обрабатывает нажатия inline кнопок
func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Отвечаем на callback (убираем "загрузку" кнопки)
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.bot.Request(callbackConfig); err != nil {
		h.logger.Error("ошибка ответа на callback", zap.Error(err))
	}

	h.metrics.RecordUserMessage("callback")

	data := callback.Data
	key, value, ok := strings.Cut(data, ":")
	if !ok {
		h.logger.Warn("неизвестный callback", zap.String("data", data))
		return nil
	}

	switch key {
	case "voice":
		return h.handleVoiceSelection(ctx, callback, value)
	case "role":
		return h.handleSettingSelection(ctx, callback, "role", value)
	case "speed":
		return h.handleSettingSelection(ctx, callback, "speed", value)
	default:
		h.logger.Warn("неизвестный callback", zap.String("data", data))
		return nil
	}
}

// handleVoiceSelection сохраняет выбранный голос. Эмоция и скорость
// сбрасываются к значениям по умолчанию, чтобы не осталась несовместимая
// пара голос/эмоция; если и эмоция по умолчанию несовместима, берется
// первая совместимая для нового голоса.
func (h *Handler) handleVoiceSelection(ctx context.Context, callback *tgbotapi.CallbackQuery, voice string) error {
	if !models.IsKnownVoice(voice) {
		h.logger.Warn("выбран неизвестный голос", zap.String("voice", voice))
		return nil
	}

	settings := h.loadSettings(ctx, callback.From.ID)
	settings.Voice = voice
	settings.Role = h.cfg.TTS.DefaultRole
	settings.Speed = h.cfg.TTS.DefaultSpeed

	compatible := models.RolesForVoice(voice)
	if !models.VoiceSupportsRole(voice, settings.Role) {
		settings.Role = compatible[0]
	}

	if err := h.settings.Upsert(ctx, settings); err != nil {
		h.logger.Error("ошибка сохранения настроек", zap.Error(err), zap.Int64("user_id", callback.From.ID))
		return err
	}

	h.editMessage(callback, "Ты выбрал голос: "+voiceDisplay(voice))

	// Сразу предлагаем выбрать эмоцию из совместимых с новым голосом
	return h.sendMessageWithInlineKeyboard(callback.Message.Chat.ID,
		"Эмоция для голоса '"+voiceDisplay(voice)+"':",
		buildKeyboard(compatible, "role"))
}

// handleSettingSelection сохраняет выбранную эмоцию или скорость
func (h *Handler) handleSettingSelection(ctx context.Context, callback *tgbotapi.CallbackQuery, key, value string) error {
	settings := h.loadSettings(ctx, callback.From.ID)

	var display string
	switch key {
	case "role":
		if !models.VoiceSupportsRole(settings.Voice, value) {
			h.logger.Warn("эмоция несовместима с голосом",
				zap.String("voice", settings.Voice),
				zap.String("role", value))
			h.editMessage(callback, "Эмоция '"+roleDisplay(value)+"' недоступна для голоса "+voiceDisplay(settings.Voice))
			return nil
		}
		settings.Role = value
		display = roleDisplay(value)
	case "speed":
		if !models.IsValidSpeed(value) {
			h.logger.Warn("выбрана недопустимая скорость", zap.String("speed", value))
			return nil
		}
		settings.Speed = value
		display = speedDisplay(value)
	}

	if err := h.settings.Upsert(ctx, settings); err != nil {
		h.logger.Error("ошибка сохранения настроек", zap.Error(err), zap.Int64("user_id", callback.From.ID))
		return err
	}

	h.editMessage(callback, "Ты выбрал "+settingNamesRU[key]+": "+display)
	return nil
}

// loadSettings возвращает сохраненные настройки пользователя или
// значения по умолчанию из конфигурации
func (h *Handler) loadSettings(ctx context.Context, userID int64) *models.UserSettings {
	settings, err := h.settings.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("ошибка загрузки настроек", zap.Error(err), zap.Int64("user_id", userID))
		}
		return h.defaultSettings(userID)
	}
	return settings
}

// defaultSettings настройки по умолчанию для нового пользователя
func (h *Handler) defaultSettings(userID int64) *models.UserSettings {
	return &models.UserSettings{
		UserID:     userID,
		Voice:      h.cfg.TTS.DefaultVoice,
		Role:       h.cfg.TTS.DefaultRole,
		Speed:      h.cfg.TTS.DefaultSpeed,
		AutoFormat: h.cfg.GPT.EnableAutoFormat,
		UseMarkup:  h.cfg.GPT.UseTTSMarkup,
	}
}

// synthesisOptions переводит настройки пользователя в параметры синтеза
func (h *Handler) synthesisOptions(s *models.UserSettings) speech.Options {
	return speech.Options{
		Voice:        s.Voice,
		Role:         s.Role,
		Speed:        s.Speed,
		Format:       h.cfg.TTS.DefaultFormat,
		SampleRateHz: h.cfg.TTS.SampleRateHz,
		UseMarkup:    s.UseMarkup,
		AutoFormat:   s.AutoFormat,
	}
}

// textErrorMessage переводит ошибку синтеза текста в ответ пользователю
func (h *Handler) textErrorMessage(err error) string {
	var validationErr *markup.ValidationError
	if errors.As(err, &validationErr) {
		return h.messages.BadMarkup(validationErr.Reason)
	}

	var backendErr *speech.BackendError
	if errors.As(err, &backendErr) && strings.Contains(backendErr.Body, "Too long text") {
		return h.messages.TooLongText()
	}

	return h.messages.SynthesisFailed()
}

// ssmlErrorMessage переводит ошибку синтеза SSML в ответ пользователю
func (h *Handler) ssmlErrorMessage(err error) string {
	var precondErr *speech.PreconditionError
	if errors.As(err, &precondErr) {
		return h.messages.MissingFolderID()
	}

	var backendErr *speech.BackendError
	if errors.As(err, &backendErr) && backendErr.StatusCode == 400 {
		return h.messages.BadSSML()
	}

	return h.messages.SynthesisFailed()
}

// sendMessage отправляет обычное текстовое сообщение
func (h *Handler) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("ошибка отправки сообщения",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return err
	}
	return nil
}

// sendHTMLMessage отправляет сообщение с HTML-разметкой
func (h *Handler) sendHTMLMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("ошибка отправки HTML сообщения",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		// Если HTML парсинг не удался, пробуем отправить как обычный текст
		fallback := tgbotapi.NewMessage(chatID, text)
		_, fallbackErr := h.bot.Send(fallback)
		return fallbackErr
	}
	return nil
}

// sendMessageWithInlineKeyboard отправляет сообщение с inline клавиатурой
func (h *Handler) sendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("ошибка отправки сообщения с клавиатурой",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return err
	}
	return nil
}

// sendVoice отправляет синтезированное аудио голосовым сообщением
func (h *Handler) sendVoice(chatID int64, audio []byte) error {
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{
		Name:  "speech.ogg",
		Bytes: audio,
	})
	if _, err := h.bot.Send(voice); err != nil {
		h.logger.Error("ошибка отправки голосового сообщения",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return err
	}
	return nil
}

// sendChatAction показывает индикатор записи голосового сообщения
func (h *Handler) sendChatAction(chatID int64, action string) {
	chatAction := tgbotapi.NewChatAction(chatID, action)
	if _, err := h.bot.Request(chatAction); err != nil {
		h.logger.Debug("ошибка отправки chat action", zap.Error(err))
	}
}

// editMessage редактирует сообщение с клавиатурой после выбора
func (h *Handler) editMessage(callback *tgbotapi.CallbackQuery, text string) {
	edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, text)
	if _, err := h.bot.Send(edit); err != nil {
		h.logger.Error("ошибка редактирования сообщения", zap.Error(err))
	}
}

// buildKeyboard строит inline клавиатуру с русскими подписями,
// кнопки раскладываются рядами по три
func buildKeyboard(options []string, prefix string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, opt := range options {
		var label string
		switch prefix {
		case "voice":
			label = voiceDisplay(opt)
		case "role":
			label = roleDisplay(opt)
		case "speed":
			label = speedDisplay(opt)
		default:
			label = opt
		}

		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, prefix+":"+opt))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// containsRussian проверяет, есть ли в тексте хотя бы одна русская буква
func containsRussian(text string) bool {
	for _, ch := range text {
		lower := unicode.ToLower(ch)
		if lower >= 'а' && lower <= 'я' || lower == 'ё' {
			return true
		}
	}
	return false
}
