package database

import (
	"fmt"
	"time"

	"github.com/vidhub/backend/internal/config"
	"github.com/vidhub/backend/internal/models"
	"github.com/vidhub/backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database with a bounded retry loop, then runs the lazy
// migration. It gives up after cfg.ConnectAttempts failed attempts.
func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}

		logger.Warn("database_connect_failed", map[string]interface{}{
			"attempt":  attempt,
			"attempts": cfg.ConnectAttempts,
			"error":    err.Error(),
		})
		if attempt < cfg.ConnectAttempts {
			time.Sleep(cfg.ConnectDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to database after %d attempts: %w", cfg.ConnectAttempts, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema only when it is absent, so restarting against an
// already-migrated database is a no-op.
func Migrate(db *gorm.DB) error {
	if db.Migrator().HasTable(&models.User{}) && db.Migrator().HasTable(&models.Video{}) {
		return nil
	}

	logger.Info("database_migrating", map[string]interface{}{
		"tables": []string{"users", "videos"},
	})

	return db.AutoMigrate(
		&models.User{},
		&models.Video{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
