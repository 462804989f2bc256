package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cybenv/EchoSage/internal/store"
)

// StaleSettingsJob удаляет настройки пользователей, давно не пользовавшихся ботом
type StaleSettingsJob struct {
	settings  store.SettingsRepository
	olderThan time.Duration
	logger    *zap.Logger
}

// NewStaleSettingsJob создает джобу очистки устаревших настроек
func NewStaleSettingsJob(settings store.SettingsRepository, olderThan time.Duration, logger *zap.Logger) *StaleSettingsJob {
	return &StaleSettingsJob{
		settings:  settings,
		olderThan: olderThan,
		logger:    logger,
	}
}

// Name возвращает имя джобы
func (j *StaleSettingsJob) Name() string {
	return "stale_settings_cleanup"
}

// Run запускает очистку устаревших настроек
func (j *StaleSettingsJob) Run(ctx context.Context) error {
	j.logger.Info("запуск очистки устаревших настроек",
		zap.Duration("older_than", j.olderThan))

	deleted, err := j.settings.DeleteStale(ctx, j.olderThan)
	if err != nil {
		return fmt.Errorf("ошибка очистки устаревших настроек: %w", err)
	}

	if deleted > 0 {
		j.logger.Info("устаревшие настройки удалены", zap.Int64("count", deleted))
	} else {
		j.logger.Debug("устаревших настроек не найдено")
	}

	return nil
}
