package db

import (
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Application{},
		&model.FileMetadata{},
	}
}

// Migrate runs database migrations against the global connection.
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs migrations against database.
func MigrateDB(database *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := database.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
