package models

// Voices список всех доступных голосов SpeechKit v3
// Полный список: https://yandex.cloud/en/docs/speechkit/tts/voices
var Voices = []string{
	"alena",
	"alexander",
	"anton",
	"dasha",
	"ermil",
	"filipp",
	"jane",
	"julia",
	"kirill",
	"lera",
	"masha",
	"marina",
	"omazh",
	"zahar",
	// Джон говорит по-английски, но и русский у него неплох
	"john",
}

// Roles список всех эмоций синтеза
var Roles = []string{
	"neutral",
	"good",
	"evil",
	"friendly",
	"strict",
	"whisper",
}

// Speeds допустимые значения скорости речи
var Speeds = []string{"0.8", "1.0", "1.2"}

// VoiceRoleMap совместимость голосов и эмоций.
// Не каждый голос поддерживает все эмоции; голос, которого нет в карте,
// поддерживает только "neutral".
var VoiceRoleMap = map[string][]string{
	"alena":     {"neutral", "good"},
	"alexander": {"neutral", "good"},
	"anton":     {"neutral", "good"},
	"dasha":     {"neutral", "good", "friendly"},
	"ermil":     {"neutral", "good"},
	"filipp":    {"neutral"},
	"jane":      {"neutral", "good", "evil"},
	"julia":     {"neutral", "strict"},
	"kirill":    {"neutral", "good", "strict"},
	"lera":      {"neutral", "friendly"},
	"masha":     {"neutral", "good", "strict", "friendly"},
	"marina":    {"neutral", "whisper", "friendly"},
	"omazh":     {"neutral", "evil"},
	"zahar":     {"neutral", "good"},
	"john":      {"neutral"},
}

// VoiceNamesRU русские названия голосов для интерфейса
var VoiceNamesRU = map[string]string{
	"alena":     "Алёна",
	"alexander": "Александр",
	"anton":     "Антон",
	"dasha":     "Даша",
	"ermil":     "Ермил",
	"filipp":    "Филипп",
	"jane":      "Джейн",
	"julia":     "Юлия",
	"kirill":    "Кирилл",
	"lera":      "Лера",
	"masha":     "Маша",
	"marina":    "Марина",
	"omazh":     "Омаж",
	"zahar":     "Захар",
	"john":      "Джон",
}

// RoleNamesRU русские названия эмоций для интерфейса
var RoleNamesRU = map[string]string{
	"neutral":  "Покой",
	"good":     "Добро",
	"evil":     "Злоба",
	"friendly": "Дружба",
	"strict":   "Строгий",
	"whisper":  "Шёпот",
}

// SpeedNamesRU русские названия скоростей для интерфейса
var SpeedNamesRU = map[string]string{
	"0.8": "Медленная",
	"1.0": "Обычная",
	"1.2": "Быстрая",
}

// IsKnownVoice проверяет, есть ли голос в каталоге
func IsKnownVoice(voice string) bool {
	for _, v := range Voices {
		if v == voice {
			return true
		}
	}
	return false
}

// RolesForVoice возвращает список совместимых эмоций для голоса.
// Любой голос как минимум поддерживает "neutral".
func RolesForVoice(voice string) []string {
	roles, ok := VoiceRoleMap[voice]
	if !ok || len(roles) == 0 {
		return []string{"neutral"}
	}
	return roles
}

// VoiceSupportsRole проверяет совместимость голоса и эмоции
func VoiceSupportsRole(voice, role string) bool {
	if role == "" || role == "neutral" {
		return true
	}
	for _, r := range RolesForVoice(voice) {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidSpeed проверяет, что скорость входит в список допустимых
func IsValidSpeed(speed string) bool {
	for _, s := range Speeds {
		if s == speed {
			return true
		}
	}
	return false
}
