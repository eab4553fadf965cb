// Package repository provides the data access layer using GORM. It is the
// only component that touches persisted state.
package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fits-community/fits-tracker/internal/config"
	"github.com/fits-community/fits-tracker/internal/models"
	"github.com/fits-community/fits-tracker/pkg/logger"
)

// DB holds the database connection.
type DB struct {
	*gorm.DB
}

// NewDB opens the configured database backend.
func NewDB(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	var gormLogLevel gormlogger.LogLevel
	switch log.GetLogger().GetLevel() {
	case 0: // debug
		gormLogLevel = gormlogger.Info
	default:
		gormLogLevel = gormlogger.Warn
	}
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	}

	var db *gorm.DB
	var err error

	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.User,
			cfg.Postgres.Password,
			cfg.Postgres.Database,
			cfg.Postgres.SSLMode,
		)
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, derr := db.DB()
		if derr != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", derr)
		}
		sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second)

		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		log.Info().
			Str("host", cfg.Postgres.Host).
			Int("port", cfg.Postgres.Port).
			Str("database", cfg.Postgres.Database).
			Msg("Connected to PostgreSQL")

	case "sqlite":
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err = gorm.Open(sqlite.Open(cfg.SQLite.Path), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		db.Exec("PRAGMA foreign_keys = ON")

		log.Info().
			Str("path", cfg.SQLite.Path).
			Msg("Opened SQLite database")

	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	return &DB{db}, nil
}

// AutoMigrate runs database migrations for all models.
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Player{},
		&models.DailyScore{},
		&models.WeeklyAggregate{},
		&models.MonthlyAggregate{},
		&models.FetchRun{},
	)
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks if the database is healthy.
func (db *DB) Health() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
