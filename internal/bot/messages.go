package bot

import (
	"fmt"
	"strings"

	"github.com/cybenv/EchoSage/internal/config"
	"github.com/cybenv/EchoSage/pkg/models"
)

// Русские названия настроек для подтверждений в интерфейсе
var settingNamesRU = map[string]string{
	"voice": "голос",
	"role":  "эмоцию",
	"speed": "скорость",
}

// Messages содержит тексты сообщений бота
type Messages struct {
	cfg *config.Config
}

// NewMessages создает хранилище текстов
func NewMessages(cfg *config.Config) *Messages {
	return &Messages{cfg: cfg}
}

// Welcome приветственное сообщение со списком команд
func (m *Messages) Welcome() string {
	return "Привет! Отправь мне текст на русском, и я пришлю ответ в виде голосового сообщения.\n\n" +
		"Доступные команды:\n" +
		"- /start — краткая справка\n" +
		"- /help — подробная помощь и примеры\n" +
		"- /set_voice — выбрать голос\n" +
		"- /set_role — выбрать эмоцию\n" +
		"- /set_speed — выбрать скорость\n" +
		"- /settings — показать текущие настройки\n" +
		"- /reset — сбросить настройки по умолчанию\n" +
		"- /speak_ssml — синтез речи с SSML-разметкой\n" +
		"- /toggle_format — включить/выключить автоформатирование\n" +
		"- /toggle_markup — включить/выключить TTS разметку\n" +
		"- /demo_markup — примеры TTS разметки"
}

// Help подробная помощь с настройками по умолчанию
func (m *Messages) Help() string {
	voiceRU := voiceDisplay(m.cfg.TTS.DefaultVoice)
	roleRU := roleDisplay(m.cfg.TTS.DefaultRole)
	speedRU := speedDisplay(m.cfg.TTS.DefaultSpeed)

	return "<b>Как мною пользоваться</b>\n\n" +
		"1. Просто пришли мне сообщение на русском.\n" +
		"2. Я преобразую текст в речь и пришлю его в виде голосового сообщения.\n\n" +
		"<b>Параметры синтеза</b>\n\n" +
		fmt.Sprintf("Голос по умолчанию: <code>%s</code>\n", voiceRU) +
		fmt.Sprintf("Эмоция по умолчанию: <code>%s</code>\n", roleRU) +
		fmt.Sprintf("Скорость по умолчанию: <code>%s</code>\n\n", speedRU) +
		"Поддерживаются только русскоязычные сообщения.\n\n" +
		"<b>SSML-разметка</b>\n" +
		"Используй команду /speak_ssml для синтеза с разметкой SSML.\n" +
		"Пример: <code>/speak_ssml &lt;speak&gt;Привет, &lt;break time=\"500ms\"/&gt; мир!&lt;/speak&gt;</code>\n\n" +
		"Дополнительные команды:\n" +
		"/set_voice, /set_role, /set_speed, /settings, /reset, /speak_ssml, /toggle_format, /toggle_markup, /demo_markup"
}

// Settings отображение текущих настроек пользователя
func (m *Messages) Settings(s *models.UserSettings) string {
	return "<b>Текущие настройки</b>\n" +
		fmt.Sprintf("Голос: <code>%s</code>\n", voiceDisplay(s.Voice)) +
		fmt.Sprintf("Эмоция: <code>%s</code>\n", roleDisplay(s.Role)) +
		fmt.Sprintf("Скорость: <code>%s</code>\n", speedDisplay(s.Speed)) +
		fmt.Sprintf("Автоформатирование: <code>%s</code>\n", onOff(s.AutoFormat)) +
		fmt.Sprintf("TTS разметка: <code>%s</code>", onOff(s.UseMarkup))
}

// ResetDone подтверждение сброса настроек
func (m *Messages) ResetDone(s *models.UserSettings) string {
	return "✅ Настройки сброшены!\n\n" + m.Settings(s)
}

// ToggleFormat подтверждение переключения автоформатирования
func (m *Messages) ToggleFormat(enabled bool) string {
	status := "выключено ❌"
	detail := "Текст будет синтезироваться без дополнительной обработки."
	if enabled {
		status = "включено ✅"
		detail = "Теперь я буду автоматически добавлять паузы и ударения для естественного звучания речи."
	}
	return fmt.Sprintf("<b>Автоформатирование %s</b>\n\n%s", status, detail)
}

// ToggleMarkup подтверждение переключения TTS разметки
func (m *Messages) ToggleMarkup(enabled bool) string {
	status := "выключена ❌"
	detail := "Паузы sil<[мс]> в тексте будут озвучены как есть."
	if enabled {
		status = "включена ✅"
		detail = "Паузы sil<[мс]> и ударения в тексте будут учитываться при синтезе."
	}
	return fmt.Sprintf("<b>TTS разметка %s</b>\n\n%s", status, detail)
}

// DemoMarkup примеры TTS разметки
func (m *Messages) DemoMarkup() string {
	examples := []struct {
		title string
		text  string
	}{
		{"Без разметки", "Привет, мир! Как дела?"},
		{"С паузами", "Привет, sil<[300]> мир! sil<[500]> Как дела?"},
		{"Паузы после знаков", "Стоп! sil<[300]> Подумай об этом."},
		{"Поэзия с паузами", "Унылая пора! sil<[300]> Очей очарованье!"},
		{"Ударения в словах", "Зам+ок на двери и з+амок короля"},
	}

	var b strings.Builder
	b.WriteString("<b>Примеры TTS разметки v3:</b>\n\n")
	for _, ex := range examples {
		escaped := strings.ReplaceAll(strings.ReplaceAll(ex.text, "<", "&lt;"), ">", "&gt;")
		fmt.Fprintf(&b, "<b>%s:</b>\n<code>%s</code>\n\n", ex.title, escaped)
	}
	b.WriteString("<b>Доступные элементы разметки:</b>\n" +
		"• <code>sil&lt;[мс]&gt;</code> — пауза заданной длительности (100-5000мс)\n" +
		"• <code>+</code> — ударение на гласной (напр: м+олоко)\n\n" +
		"<b>Важно:</b> Разметка работает только при включенной TTS разметке.\n" +
		"Текущие настройки можно проверить командой /settings\n\n" +
		"Попробуй отправить текст с разметкой!")
	return b.String()
}

// NotRussian ответ на сообщение без русских букв
func (m *Messages) NotRussian() string {
	return "Пожалуйста, отправь сообщение на русском."
}

// SSMLRedirect подсказка при SSML, отправленном без команды
func (m *Messages) SSMLRedirect(text string) string {
	preview := text
	if len(preview) > 50 {
		preview = preview[:50]
	}
	escaped := strings.ReplaceAll(strings.ReplaceAll(preview, "<", "&lt;"), ">", "&gt;")
	return "Похоже, ты отправил SSML-разметку. Используй команду:\n" +
		"<code>/speak_ssml " + escaped + "...</code>"
}

// SSMLUsage подсказка по использованию /speak_ssml без аргументов
func (m *Messages) SSMLUsage() string {
	return "Пожалуйста, укажи SSML-разметку после команды.\n" +
		"Пример: <code>/speak_ssml &lt;speak&gt;Привет, &lt;break time=\"500ms\"/&gt; мир!&lt;/speak&gt;</code>"
}

// SSMLNotWrapped ошибка обертки SSML
func (m *Messages) SSMLNotWrapped() string {
	return "SSML-разметка должна быть обёрнута в теги &lt;speak&gt;...&lt;/speak&gt;\n" +
		"Пример: <code>&lt;speak&gt;Ваш текст здесь&lt;/speak&gt;</code>"
}

// TooLongText ответ на отказ бэкенда из-за длины текста
func (m *Messages) TooLongText() string {
	return "Текст слишком длинный. Попробуй отправить более короткое сообщение.\n" +
		"Если ты хотел использовать SSML-разметку, используй команду /speak_ssml"
}

// MissingFolderID ответ при отсутствии folder_id для SSML-синтеза
func (m *Messages) MissingFolderID() string {
	return "Для использования SSML необходимо указать YANDEX_FOLDER_ID в файле .env\n" +
		"Получить folder_id следует в консоли Yandex Cloud."
}

// BadSSML ответ на синтаксическую ошибку в SSML
func (m *Messages) BadSSML() string {
	return "Ошибка в SSML-разметке. Проверь правильность синтаксиса.\n" +
		"Подробнее о SSML: https://yandex.cloud/ru/docs/speechkit/tts/ssml"
}

// BadMarkup ответ на некорректную TTS разметку в тексте
func (m *Messages) BadMarkup(reason string) string {
	return fmt.Sprintf("Некорректная TTS разметка: %s\n"+
		"Примеры правильной разметки: /demo_markup", reason)
}

// SynthesisFailed общая ошибка синтеза
func (m *Messages) SynthesisFailed() string {
	return "Ошибка при обращении к SpeechKit API. Попробуй позже."
}

// UnknownCommand ответ на неизвестную команду
func (m *Messages) UnknownCommand() string {
	return "Неизвестная команда. Используй /help для списка доступных команд."
}

// RateLimited ответ при превышении лимита запросов
func (m *Messages) RateLimited() string {
	return "⚠️ Слишком много запросов. Подожди минуту."
}

func voiceDisplay(voice string) string {
	if name, ok := models.VoiceNamesRU[voice]; ok {
		return name
	}
	return voice
}

func roleDisplay(role string) string {
	if role == "" {
		return "—"
	}
	if name, ok := models.RoleNamesRU[role]; ok {
		return name
	}
	return role
}

func speedDisplay(speed string) string {
	if name, ok := models.SpeedNamesRU[speed]; ok {
		return name
	}
	return speed
}

func onOff(enabled bool) string {
	if enabled {
		return "✅ Вкл"
	}
	return "❌ Выкл"
}
