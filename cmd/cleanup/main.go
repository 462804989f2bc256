package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/cybenv/EchoSage/internal/config"
	"github.com/cybenv/EchoSage/internal/store"

	"go.uber.org/zap"
)

func main() {
	var (
		days   = flag.Int("days", 180, "Удалять настройки, не менявшиеся дольше указанного числа дней")
		userID = flag.Int64("user", 0, "ID пользователя для сброса настроек (0 = очистка по сроку)")
		dryRun = flag.Bool("dry-run", false, "Показать что будет удалено без фактического удаления")
	)
	flag.Parse()

	// Инициализация логгера
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	// Подключение к базе данных
	db, err := store.NewStore(cfg, logger)
	if err != nil {
		logger.Fatal("Ошибка подключения к базе данных", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	if *userID > 0 {
		err = resetUserSettings(ctx, db, *userID, *dryRun, logger)
	} else {
		err = cleanupStaleSettings(ctx, db, *days, *dryRun, logger)
	}

	if err != nil {
		logger.Fatal("Ошибка очистки настроек", zap.Error(err))
	}

	logger.Info("Очистка настроек завершена успешно")
}

// resetUserSettings сбрасывает настройки конкретного пользователя
func resetUserSettings(ctx context.Context, db store.Store, userID int64, dryRun bool, logger *zap.Logger) error {
	settings, err := db.Settings().GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if dryRun {
		logger.Info("DRY RUN: Будут сброшены настройки пользователя",
			zap.Int64("user_id", userID),
			zap.String("voice", settings.Voice),
			zap.Time("updated_at", settings.UpdatedAt))
		return nil
	}

	if err := db.Settings().Delete(ctx, userID); err != nil {
		return err
	}

	logger.Info("Настройки пользователя сброшены", zap.Int64("user_id", userID))
	return nil
}

// cleanupStaleSettings удаляет настройки, не менявшиеся дольше указанного срока
func cleanupStaleSettings(ctx context.Context, db store.Store, days int, dryRun bool, logger *zap.Logger) error {
	olderThan := time.Duration(days) * 24 * time.Hour

	if dryRun {
		logger.Info("DRY RUN: Будут удалены настройки старше указанного срока",
			zap.Int("days", days))
		return nil
	}

	deleted, err := db.Settings().DeleteStale(ctx, olderThan)
	if err != nil {
		return err
	}

	logger.Info("Устаревшие настройки удалены",
		zap.Int64("deleted_count", deleted),
		zap.Int("days", days))

	return nil
}
