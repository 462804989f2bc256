package markup

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePauseDurations(t *testing.T) {
	// Граничные и промежуточные значения в допустимом диапазоне
	for _, d := range []int{100, 101, 300, 2500, 4999, 5000} {
		text := fmt.Sprintf("Привет, sil<[%d]> мир!", d)
		if err := Validate(text); err != nil {
			t.Errorf("пауза %d мс должна быть допустимой, получена ошибка: %v", d, err)
		}
	}

	// Значения за границами
	for _, d := range []int{0, 50, 99, 5001, 10000} {
		text := fmt.Sprintf("Привет, sil<[%d]> мир!", d)
		if err := Validate(text); err == nil {
			t.Errorf("пауза %d мс должна быть отклонена", d)
		}
	}
}

func TestValidateRejectsConsecutivePauses(t *testing.T) {
	// Две паузы подряд запрещены независимо от длительностей
	err := Validate("Привет sil<[300]> sil<[200]> мир")
	assert.Error(t, err)

	err = Validate("Привет sil<[300]>sil<[200]> мир")
	assert.Error(t, err)
}

func TestValidateRejectsLeadingPause(t *testing.T) {
	err := Validate("sil<[300]> Привет, мир")
	assert.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestValidateRejectsSSMLTags(t *testing.T) {
	err := Validate("<speak>Привет</speak>")
	assert.Error(t, err)

	err = Validate("Привет <break time=\"500ms\"/> мир")
	assert.Error(t, err)

	// Контекстные паузы вида <[small]> тоже не проходят как посторонний тег
	err = Validate("Привет <[small]> мир")
	assert.Error(t, err)
}

func TestValidateAcceptsPlainText(t *testing.T) {
	assert.NoError(t, Validate("Привет, мир! Как дела?"))
	assert.NoError(t, Validate(""))
	assert.NoError(t, Validate("Текст с ударением: м+олоко"))
}

func TestValidateAcceptsInteriorPause(t *testing.T) {
	// 3000 мс внутри диапазона, пауза окружена речью
	assert.NoError(t, Validate("Я думал... sil<[3000]> что ты знаешь"))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Привет, мир", Clean("Привет, sil<[300]> мир"))
	assert.Equal(t, "Раз два", Clean("  Раз   два  "))
	assert.Equal(t, "", Clean(""))
}

func TestIsComplexSentenceCount(t *testing.T) {
	// Три предложения — сложный текст
	assert.True(t, IsComplex("Раз. Два. Три."))

	// Два предложения без прочих маркеров — простой
	assert.False(t, IsComplex("Привет! Как дела у тебя сегодня?"))
}

func TestIsComplexPunctuation(t *testing.T) {
	assert.True(t, IsComplex("Слева — направо"))
	assert.True(t, IsComplex("Список: яблоки"))
	assert.True(t, IsComplex("Раз; два"))
}

func TestIsComplexWordCount(t *testing.T) {
	words := make([]string, 51)
	for i := range words {
		words[i] = "слово"
	}
	assert.True(t, IsComplex(strings.Join(words, " ")))
	assert.False(t, IsComplex("короткий текст"))
}

func TestIsComplexPoetryMarkers(t *testing.T) {
	assert.True(t, IsComplex("Унылая пора! Очей очарованье!"))
	assert.True(t, IsComplex("строка\nстрока\nстрока\nстрока"))
}

func TestApplyRules(t *testing.T) {
	got := ApplyRules("Привет! Как дела?")
	assert.Equal(t, "Привет! sil<[300]> Как дела?", got)

	got = ApplyRules("Раз; два")
	assert.Equal(t, "Раз; sil<[200]> два", got)

	got = ApplyRules("Я пришел, но тебя не было")
	assert.Equal(t, "Я пришел, sil<[200]> но тебя не было", got)
}

func TestApplyRulesIntroPhrase(t *testing.T) {
	got := ApplyRules("Когда наступит вечер, мы пойдем гулять")
	assert.Contains(t, got, "sil<[200]>")
	assert.True(t, strings.HasPrefix(got, "Когда наступит вечер,"))
}

func TestApplyRulesDegenerateInput(t *testing.T) {
	// Пустая строка проходит без изменений и без паники
	assert.Equal(t, "", ApplyRules(""))
	assert.Equal(t, "слово", ApplyRules("слово"))
}

func TestApplyRulesOutputAlwaysValid(t *testing.T) {
	// Результат правил обязан проходить валидатор на любом чистом тексте
	inputs := []string{
		"",
		"Привет!",
		"Привет! Как дела? Отлично. Супер.",
		"Раз; два; три",
		"Я пришел, но тебя не было, а жаль",
		"Когда наступит вечер, мы пойдем гулять. Потом домой.",
		"Унылая пора! Очей очарованье! Приятна мне твоя прощальная краса.",
		"Длинное    нестандартное     форматирование   пробелов.",
	}

	for _, in := range inputs {
		out := ApplyRules(Clean(in))
		if err := Validate(out); err != nil {
			t.Errorf("результат правил не прошел валидацию для %q: %v (результат: %q)", in, err, out)
		}
	}
}
