// Package markup содержит обработку текста перед синтезом речи:
// валидацию TTS-разметки, классификацию сложности и детерминированную
// расстановку пауз по правилам.
package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Границы длительности паузы sil<[t]>, допустимые SpeechKit v3
const (
	MinPauseMs = 100
	MaxPauseMs = 5000
)

var (
	silencePattern        = regexp.MustCompile(`sil<\[\d+\]>`)
	silenceCapturePattern = regexp.MustCompile(`sil<\[(\d+)\]>`)
	sentenceEndPattern    = regexp.MustCompile(`([.!?])\s+`)
	semicolonPattern      = regexp.MustCompile(`;\s+`)
	conjunctionPattern    = regexp.MustCompile(`,\s+(но|а|однако|хотя|чтобы|если|когда|пока|после того как)\s+`)
	introPhrasePattern    = regexp.MustCompile(`^(Когда|После того как|Если|Хотя|Несмотря на то что)[^,]+,\s+`)
	multipleSpacesPattern = regexp.MustCompile(`\s+`)
	ssmlTagPattern        = regexp.MustCompile(`<[^>]+>`)
	consecutiveSilence    = regexp.MustCompile(`sil<\[\d+\]>\s*sil<\[\d+\]>`)
	leadingSilence        = regexp.MustCompile(`^sil<\[\d+\]>`)
	complexPunctPattern   = regexp.MustCompile(`[;:—]`)
	poetryPattern         = regexp.MustCompile(`!.*!`)
	sentenceSplitPattern  = regexp.MustCompile(`[.!?]+`)
)

// ValidationError описывает причину отклонения разметки
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("недопустимая TTS разметка: %s", e.Reason)
}

// Validate проверяет корректность TTS-разметки в тексте.
// Разрешены только паузы sil<[t]> с длительностью 100-5000 мс;
// пауза не может открывать текст и не может стоять вплотную к другой паузе.
func Validate(text string) error {
	// Убираем корректные паузы и смотрим, не осталось ли посторонних тегов
	stripped := silencePattern.ReplaceAllString(text, "")
	if ssmlTagPattern.MatchString(stripped) {
		return &ValidationError{Reason: "SSML-теги здесь не поддерживаются"}
	}

	// Проверяем длительности всех пауз
	for _, match := range silenceCapturePattern.FindAllStringSubmatch(text, -1) {
		duration, err := strconv.Atoi(match[1])
		if err != nil {
			return &ValidationError{Reason: fmt.Sprintf("некорректная длительность паузы: %s", match[1])}
		}
		if duration < MinPauseMs || duration > MaxPauseMs {
			return &ValidationError{Reason: fmt.Sprintf("длительность паузы %d мс вне диапазона %d-%d", duration, MinPauseMs, MaxPauseMs)}
		}
	}

	// Паузы должны быть внутри речи, а не подряд и не в начале
	if consecutiveSilence.MatchString(text) {
		return &ValidationError{Reason: "две паузы подряд без текста между ними"}
	}
	if leadingSilence.MatchString(text) {
		return &ValidationError{Reason: "текст не может начинаться с паузы"}
	}

	return nil
}

// Clean удаляет существующую TTS-разметку и нормализует пробелы
func Clean(text string) string {
	text = silencePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(text, " "))
}

// IsComplex определяет, достаточно ли текст сложен для AI-форматирования.
// Простые тексты обрабатываются правилами без обращения к YandexGPT.
func IsComplex(text string) bool {
	sentenceCount := len(sentenceSplitPattern.Split(text, -1)) - 1
	hasComplexPunct := complexPunctPattern.MatchString(text)
	wordCount := len(strings.Fields(text))
	hasPoetryMarkers := poetryPattern.MatchString(text) || strings.Count(text, "\n") > 2

	return sentenceCount > 2 ||
		hasComplexPunct ||
		wordCount > 50 ||
		hasPoetryMarkers
}

// ApplyRules расставляет паузы по детерминированным правилам.
// Работает всегда, в том числе как запасной путь при сбое YandexGPT:
// паузы после концов предложений, точек с запятой, союзов после запятой
// и длинных вводных оборотов.
func ApplyRules(text string) string {
	formatted := text

	// Паузы после концов предложений
	formatted = sentenceEndPattern.ReplaceAllString(formatted, "$1 sil<[300]> ")

	// Паузы после точки с запятой
	formatted = semicolonPattern.ReplaceAllString(formatted, "; sil<[200]> ")

	// Паузы перед союзами после запятой
	formatted = conjunctionPattern.ReplaceAllString(formatted, ", sil<[200]> $1 ")

	// Паузы после длинных вводных оборотов
	formatted = introPhrasePattern.ReplaceAllStringFunc(formatted, func(m string) string {
		return strings.TrimRight(m, " \t") + " sil<[200]> "
	})

	// Схлопываем кратные пробелы
	formatted = strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(formatted, " "))

	return formatted
}
