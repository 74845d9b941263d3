package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func init() {
	retryInterval = 10 * time.Millisecond
}

// TestNewOpener_KnownDrivers はサポートするドライバー名でOpenerが返ることを検証します。
func TestNewOpener_KnownDrivers(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{"sqlite", "postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			t.Parallel()

			open, err := NewOpener(driver)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if open == nil {
				t.Fatal("expected opener, got nil")
			}
		})
	}
}

func TestNewOpener_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := NewOpener("oracle")
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return nil, cause
	}

	_, err := ConnectWithRetry("test-dsn", 30*time.Millisecond, opener)

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if attempts < 2 {
		t.Errorf("expected at least two attempts, got %d", attempts)
	}
}

// TestOpenDB_SQLiteMigrates はSQLiteで接続しsymbolsテーブルが作成されることを検証します。
func TestOpenDB_SQLiteMigrates(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{Driver: "sqlite", DSN: "file::memory:?cache=shared"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.Migrator().HasTable("symbols") {
		t.Error("expected symbols table to exist")
	}
}

func TestOpenDB_UnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := OpenDB(Config{Driver: "oracle", DSN: "x"}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}
}

// TestOpenAndMigrate_ClosesOnMigrateError はマイグレーション失敗時に接続が閉じられることを検証します。
func TestOpenAndMigrate_ClosesOnMigrateError(t *testing.T) {
	t.Parallel()

	open, err := NewOpener("sqlite")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	migrateErr := errors.New("migrate failed")

	var opened *gorm.DB
	db, err := openAndMigrate(":memory:", time.Second, open, func(db *gorm.DB) error {
		opened = db
		return migrateErr
	})
	if !errors.Is(err, migrateErr) {
		t.Fatalf("expected migrate error, got %v", err)
	}
	if db != nil {
		t.Error("expected nil db on migrate error")
	}
	if opened == nil {
		t.Fatal("expected migrate to be called")
	}

	sqlDB, err := opened.DB()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sqlDB.Ping(); err == nil {
		t.Error("expected connection to be closed after migrate error")
	}
}
