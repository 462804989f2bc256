package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	Telegram TelegramConfig
	Yandex   YandexConfig
	TTS      TTSConfig
	GPT      GPTConfig
	Database DatabaseConfig
	App      AppConfig
}

// TelegramConfig содержит настройки Telegram бота
type TelegramConfig struct {
	BotToken   string
	WebhookURL string
}

// YandexConfig содержит учетные данные Yandex Cloud
type YandexConfig struct {
	APIKey string
	// FolderID нужен только для SSML-синтеза (v1 API) и YandexGPT.
	// Для обычного синтеза через v3 достаточно ключа сервисного аккаунта.
	FolderID string
}

// TTSConfig содержит настройки синтеза речи по умолчанию
type TTSConfig struct {
	DefaultVoice  string
	DefaultRole   string
	DefaultSpeed  string
	DefaultFormat string // oggopus или lpcm
	SampleRateHz  int    // имеет смысл только для lpcm
}

// GPTConfig содержит настройки автоформатирования через YandexGPT
type GPTConfig struct {
	Model            string
	EnableAutoFormat bool
	UseTTSMarkup     bool
}

// DatabaseConfig содержит настройки PostgreSQL
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationPath string
}

// AppConfig содержит общие настройки приложения
type AppConfig struct {
	Env      string
	LogLevel string
	Port     int
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Telegram
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.WebhookURL = os.Getenv("TELEGRAM_WEBHOOK_URL")

	// Yandex Cloud
	cfg.Yandex.APIKey = os.Getenv("YANDEX_API_KEY")
	cfg.Yandex.FolderID = os.Getenv("YANDEX_FOLDER_ID")

	// TTS
	cfg.TTS.DefaultVoice = getEnvDefault("DEFAULT_VOICE", "alena")
	cfg.TTS.DefaultRole = getEnvDefault("DEFAULT_ROLE", "neutral")
	cfg.TTS.DefaultSpeed = getEnvDefault("DEFAULT_SPEED", "1.0")
	cfg.TTS.DefaultFormat = getEnvDefault("DEFAULT_AUDIO_FORMAT", "oggopus")
	cfg.TTS.SampleRateHz = getEnvIntDefault("DEFAULT_SAMPLE_RATE", 48000)

	// YandexGPT
	cfg.GPT.Model = getEnvDefault("GPT_MODEL", "yandexgpt-lite")
	cfg.GPT.EnableAutoFormat = getEnvBoolDefault("ENABLE_AUTO_FORMAT", true)
	cfg.GPT.UseTTSMarkup = getEnvBoolDefault("USE_TTS_MARKUP", true)

	// Database
	cfg.Database.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.Database.Port = getEnvIntDefault("DB_PORT", 5432)
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = getEnvDefault("DB_SSL_MODE", "disable")
	cfg.Database.MigrationPath = getEnvDefault("MIGRATION_PATH", "scripts/migrations")

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.Port = getEnvIntDefault("APP_PORT", 8080)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN не установлен")
	}
	if config.Yandex.APIKey == "" {
		return fmt.Errorf("YANDEX_API_KEY не установлен")
	}
	if config.TTS.DefaultFormat != "oggopus" && config.TTS.DefaultFormat != "lpcm" {
		return fmt.Errorf("поддерживаются только DEFAULT_AUDIO_FORMAT: oggopus, lpcm")
	}
	if config.Database.Host == "" {
		return fmt.Errorf("DB_HOST не установлен")
	}
	if config.Database.User == "" {
		return fmt.Errorf("DB_USER не установлен")
	}
	if config.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD не установлен")
	}
	if config.Database.Name == "" {
		return fmt.Errorf("DB_NAME не установлен")
	}

	return nil
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
