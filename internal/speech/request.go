// Package speech содержит ядро синтеза речи: запросы к SpeechKit,
// построение полезной нагрузки для двух несовместимых API,
// декодирование аудио и восстановление после сбоев форматирования.
package speech

import (
	"fmt"

	"github.com/cybenv/EchoSage/pkg/models"
)

// Язык синтеза фиксирован: система работает только с русским текстом
const LangRU = "ru-RU"

// Поддерживаемые форматы аудио
const (
	FormatOggOpus = "oggopus"
	FormatLPCM    = "lpcm"
)

// Content содержимое запроса синтеза: обычный текст или SSML.
// Ровно один вариант, третьего состояния не существует.
type Content interface {
	content()
}

// Text обычный текст, допускает разметку пауз sil<[t]>
type Text string

func (Text) content() {}

// SSML разметка для устаревшего v1 API
type SSML string

func (SSML) content() {}

// Options параметры синтеза, разрешенные вызывающей стороной
// (настройки пользователя поверх значений из конфигурации)
type Options struct {
	Voice        string
	Role         string
	Speed        string
	Format       string
	SampleRateHz int
	UseMarkup    bool
	AutoFormat   bool
}

// Request описывает один запрос синтеза. Создается заново на каждый вызов,
// после построения не изменяется.
type Request struct {
	Content      Content
	Voice        string
	Role         string
	Speed        string
	Lang         string
	Format       string
	SampleRateHz int
	UseMarkup    bool
	AutoFormat   bool
}

// NewTextRequest создает запрос синтеза обычного текста.
// Несовместимая пара голос/эмоция — ошибка построения: сущность не
// исправляет ее сама, разрешить конфликт обязан вызывающий код.
func NewTextRequest(text string, opts Options) (*Request, error) {
	if text == "" {
		return nil, &RequestError{Reason: "пустой текст"}
	}
	return newRequest(Text(text), opts)
}

// NewSSMLRequest создает запрос синтеза SSML-разметки.
// Автоформатирование и разметка пауз к SSML не применяются.
func NewSSMLRequest(ssml string, opts Options) (*Request, error) {
	if ssml == "" {
		return nil, &RequestError{Reason: "пустая SSML-разметка"}
	}
	opts.UseMarkup = false
	opts.AutoFormat = false
	return newRequest(SSML(ssml), opts)
}

func newRequest(content Content, opts Options) (*Request, error) {
	if opts.Voice == "" {
		return nil, &RequestError{Reason: "не указан голос"}
	}
	if !models.IsKnownVoice(opts.Voice) {
		return nil, &RequestError{Reason: fmt.Sprintf("неизвестный голос: %s", opts.Voice)}
	}
	if !models.VoiceSupportsRole(opts.Voice, opts.Role) {
		return nil, &RequestError{Reason: fmt.Sprintf("голос %s не поддерживает эмоцию %s", opts.Voice, opts.Role)}
	}
	if opts.Speed != "" && !models.IsValidSpeed(opts.Speed) {
		return nil, &RequestError{Reason: fmt.Sprintf("недопустимая скорость: %s", opts.Speed)}
	}

	format := opts.Format
	if format == "" {
		format = FormatOggOpus
	}
	if format != FormatOggOpus && format != FormatLPCM {
		return nil, &RequestError{Reason: fmt.Sprintf("неподдерживаемый формат аудио: %s", format)}
	}

	return &Request{
		Content:      content,
		Voice:        opts.Voice,
		Role:         opts.Role,
		Speed:        opts.Speed,
		Lang:         LangRU,
		Format:       format,
		SampleRateHz: opts.SampleRateHz,
		UseMarkup:    opts.UseMarkup,
		AutoFormat:   opts.AutoFormat,
	}, nil
}
