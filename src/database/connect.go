package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"oddslens/src/model"
)

// DB is the application database connection, set by Init. It stays nil when
// persistence is disabled; repositories treat a nil DB as a no-op store.
var DB *gorm.DB

// Init opens the database connection and runs migrations. This should be
// called once at application startup (e.g. in main()).
func Init() error {
	config := GetConfig()

	var dialector gorm.Dialector
	switch config.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(config.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(config.DatabaseURL)
	default:
		return fmt.Errorf("unknown database driver %q", config.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	// Assign to the global variable only after a successful connection.
	DB = db

	logrus.WithField("driver", config.DatabaseDriver).Info("[database] connection established")

	if err := DB.AutoMigrate(
		&model.TransactionRecord{},
		&model.Exception{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("[database] migrations completed")

	return nil
}
