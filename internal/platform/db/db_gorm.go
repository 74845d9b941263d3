// Package db opens the optional GORM database that backs the symbols catalog.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"
)

// ErrUnknownDriver is returned for a driver name other than sqlite, postgres or mysql.
var ErrUnknownDriver = errors.New("unknown database driver")

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// Config holds the database connection settings.
type Config struct {
	Driver         string        // sqlite / postgres / mysql
	DSN            string        // driver specific data source name
	ConnectTimeout time.Duration // how long to keep retrying the first connection
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// NewOpener returns the Opener for driver.
func NewOpener(driver string) (Opener, error) {
	var dial func(string) gorm.Dialector
	switch driver {
	case "sqlite":
		dial = sqlite.Open
	case "postgres":
		dial = postgres.Open
	case "mysql":
		dial = gmysql.Open
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dial(dsn), &gorm.Config{})
	}, nil
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB connects with retry and migrates the symbols table.
func OpenDB(cfg Config) (*gorm.DB, error) {
	open, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 60 * time.Second
	}

	db, err := openAndMigrate(cfg.DSN, cfg.ConnectTimeout, open, Migrate)
	if err != nil {
		return nil, err
	}
	slog.Info("database connected", "driver", cfg.Driver)
	return db, nil
}

// openAndMigrate connects and runs migrate. The connection is closed if migrate fails.
func openAndMigrate(dsn string, timeout time.Duration, open Opener, migrate func(*gorm.DB) error) (*gorm.DB, error) {
	db, err := ConnectWithRetry(dsn, timeout, open)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				slog.Warn("failed to close database after migration error", "error", cerr)
			}
		}
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables this application owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&catalogentity.Symbol{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
