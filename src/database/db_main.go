package database

import (
	"fmt"

	"swiftjobs/src/database/migrations"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates the process-wide connection pool. The caller owns the returned handle
// and passes it to every job; Close releases it on shutdown.
func Open(config Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DatabaseURL),
		&gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Configure(db, config); err != nil {
		Close(db)
		return nil, err
	}

	logrus.Info("[database] connection pool established")

	if config.RunMigrations {
		if err := migrations.Run(db, config.RecordFailures); err != nil {
			Close(db)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logrus.Info("[database] migrations completed")
	}

	return db, nil
}

// Configure applies pool limits and verifies the connection.
func Configure(db *gorm.DB, config Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close releases the pool.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Warn("[database] failed to get sql.DB on close")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Warn("[database] failed to close pool")
	}
}
