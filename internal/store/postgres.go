package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cybenv/EchoSage/internal/config"
	"github.com/cybenv/EchoSage/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound возвращается, когда настройки пользователя не сохранены
var ErrNotFound = errors.New("настройки не найдены")

// Store представляет интерфейс для работы с базой данных
type Store interface {
	Settings() SettingsRepository
	DB() *pgxpool.Pool
	Close() error
}

// SettingsRepository интерфейс для работы с настройками пользователей
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserSettings, error)
	Upsert(ctx context.Context, settings *models.UserSettings) error
	Delete(ctx context.Context, userID int64) error
	DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// store реализует интерфейс Store
type store struct {
	db       *pgxpool.Pool
	logger   *zap.Logger
	settings SettingsRepository
}

// NewStore создает новое подключение к базе данных
func NewStore(cfg *config.Config, logger *zap.Logger) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Создание пула подключений
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	// Настройка пула
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	// Создание пула
	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Проверка подключения
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ошибка проверки подключения к базе данных: %w", err)
	}

	logger.Info("успешное подключение к базе данных PostgreSQL")

	s := &store{
		db:     db,
		logger: logger,
	}

	s.settings = NewSettingsRepository(db, logger)

	return s, nil
}

// Settings возвращает репозиторий настроек пользователей
func (s *store) Settings() SettingsRepository {
	return s.settings
}

// DB возвращает подключение к базе данных
func (s *store) DB() *pgxpool.Pool {
	return s.db
}

// Close закрывает подключение к базе данных
func (s *store) Close() error {
	s.logger.Info("закрытие подключения к базе данных")
	s.db.Close()
	return nil
}

// settingsRepository реализует SettingsRepository
type settingsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSettingsRepository создает новый репозиторий настроек
func NewSettingsRepository(db *pgxpool.Pool, logger *zap.Logger) SettingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID получает настройки пользователя.
// Для пользователя без сохраненных настроек возвращается ErrNotFound:
// значения по умолчанию подставляет сервис настроек, не репозиторий.
func (r *settingsRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserSettings, error) {
	query := `
		SELECT user_id, voice, role, speed, auto_format, use_markup, created_at, updated_at
		FROM user_settings WHERE user_id = $1`

	settings := &models.UserSettings{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&settings.UserID, &settings.Voice, &settings.Role, &settings.Speed,
		&settings.AutoFormat, &settings.UseMarkup, &settings.CreatedAt, &settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения настроек пользователя: %w", err)
	}

	return settings, nil
}

// Upsert сохраняет настройки пользователя, создавая или обновляя запись
func (r *settingsRepository) Upsert(ctx context.Context, settings *models.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, voice, role, speed, auto_format, use_markup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			voice = EXCLUDED.voice,
			role = EXCLUDED.role,
			speed = EXCLUDED.speed,
			auto_format = EXCLUDED.auto_format,
			use_markup = EXCLUDED.use_markup,
			updated_at = EXCLUDED.updated_at`

	now := time.Now()
	_, err := r.db.Exec(ctx, query,
		settings.UserID, settings.Voice, settings.Role, settings.Speed,
		settings.AutoFormat, settings.UseMarkup, now,
	)

	if err != nil {
		return fmt.Errorf("ошибка сохранения настроек пользователя: %w", err)
	}

	r.logger.Debug("настройки пользователя сохранены",
		zap.Int64("user_id", settings.UserID),
		zap.String("voice", settings.Voice),
		zap.String("role", settings.Role),
		zap.String("speed", settings.Speed))

	return nil
}

// Delete удаляет настройки пользователя
func (r *settingsRepository) Delete(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_settings WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления настроек пользователя: %w", err)
	}

	r.logger.Info("настройки пользователя удалены", zap.Int64("user_id", userID))
	return nil
}

// DeleteStale удаляет настройки, не менявшиеся дольше указанного срока
func (r *settingsRepository) DeleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	tag, err := r.db.Exec(ctx, `DELETE FROM user_settings WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления устаревших настроек: %w", err)
	}

	return tag.RowsAffected(), nil
}
