package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Устанавливаем переменные окружения для теста
	os.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	os.Setenv("YANDEX_API_KEY", "test_yandex_key")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_USER", "test_user")
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("DB_NAME", "test_db")

	// Загружаем конфигурацию
	cfg, err := Load()

	// Проверяем, что конфигурация загружена без ошибок
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Проверяем значения
	assert.Equal(t, "test_token", cfg.Telegram.BotToken)
	assert.Equal(t, "test_yandex_key", cfg.Yandex.APIKey)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "test_user", cfg.Database.User)
	assert.Equal(t, "test_password", cfg.Database.Password)
	assert.Equal(t, "test_db", cfg.Database.Name)

	// Проверяем значения по умолчанию
	assert.Equal(t, "alena", cfg.TTS.DefaultVoice)
	assert.Equal(t, "neutral", cfg.TTS.DefaultRole)
	assert.Equal(t, "1.0", cfg.TTS.DefaultSpeed)
	assert.Equal(t, "oggopus", cfg.TTS.DefaultFormat)
	assert.Equal(t, 48000, cfg.TTS.SampleRateHz)
	assert.Equal(t, "yandexgpt-lite", cfg.GPT.Model)
	assert.True(t, cfg.GPT.EnableAutoFormat)
	assert.True(t, cfg.GPT.UseTTSMarkup)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 8080, cfg.App.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "test_user",
		Password: "test_password",
		Name:     "test_db",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestAppConfigMethods(t *testing.T) {
	cfg := &AppConfig{
		Env:      "development",
		LogLevel: "debug",
	}

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestValidateConfig(t *testing.T) {
	// Тест с пустыми обязательными полями
	cfg := &Config{}
	err := validateConfig(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")

	// Без ключа Yandex Cloud тоже не работаем
	cfg.Telegram.BotToken = "test_token"
	err = validateConfig(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "YANDEX_API_KEY")

	// Тест с корректной конфигурацией
	cfg = &Config{
		Telegram: TelegramConfig{
			BotToken: "test_token",
		},
		Yandex: YandexConfig{
			APIKey: "test_key",
		},
		TTS: TTSConfig{
			DefaultFormat: "oggopus",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			User:     "test_user",
			Password: "test_password",
			Name:     "test_db",
		},
	}
	err = validateConfig(cfg)
	assert.NoError(t, err)
}

func TestValidateConfigBadFormat(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{BotToken: "t"},
		Yandex:   YandexConfig{APIKey: "k"},
		TTS:      TTSConfig{DefaultFormat: "mp3"},
		Database: DatabaseConfig{Host: "h", User: "u", Password: "p", Name: "n"},
	}

	err := validateConfig(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_AUDIO_FORMAT")
}
