package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// TestBuildDSN はPostgreSQL接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{
			name: "explicit sslmode",
			cfg: Config{
				User: "testuser", Password: "testpass", Name: "testdb",
				Host: "localhost", Port: "5432", SSLMode: "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require TimeZone=UTC",
		},
		{
			name: "sslmode defaults to disable",
			cfg: Config{
				User: "u", Password: "p", Name: "d", Host: "db", Port: "5433",
			},
			expected: "host=db port=5433 user=u password=p dbname=d sslmode=disable TimeZone=UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if dsn := BuildDSN(tt.cfg); dsn != tt.expected {
				t.Errorf("expected DSN %q, got %q", tt.expected, dsn)
			}
		})
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attemptCount == 0 {
		t.Error("expected at least one connection attempt")
	}
}

type widgetModel struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func (widgetModel) TableName() string { return "widgets" }

type gadgetModel struct {
	ID uint `gorm:"primaryKey"`
}

func (gadgetModel) TableName() string { return "gadgets" }

// TestOpen_SQLiteRunsAutoMigrate はSQLite接続時に渡したモデルのテーブルが作成されることを検証します。
func TestOpen_SQLiteRunsAutoMigrate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(context.Background(), DriverSQLite, Config{SQLitePath: path}, true, &widgetModel{}, &gadgetModel{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, table := range []string{"widgets", "gadgets"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected %s table to exist", table)
		}
	}
}

// TestMigrate_SQLiteRequiresModels はモデルなしのAutoMigrateをエラーにすることを検証します。
func TestMigrate_SQLiteRequiresModels(t *testing.T) {
	t.Parallel()

	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(context.Background(), db, DriverSQLite); err == nil {
		t.Error("expected error when no models are given")
	}
}

// TestOpen_UnsupportedDriver は未対応のドライバーでエラーを返すことを検証します。
func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "mysql", Config{}, false); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

// TestMigrate_PostgresUsesGoose はPostgreSQLでは埋め込みマイグレーションがgooseで実行されることを検証します。
func TestMigrate_PostgresUsesGoose(t *testing.T) {
	// Not parallel because it swaps a package-level seam

	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var called bool
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		if dir != "." {
			t.Errorf("expected dir %q, got %q", ".", dir)
		}
		return nil
	}

	if err := Migrate(context.Background(), db, DriverPostgres); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected goose to be invoked")
	}

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	if err := Migrate(context.Background(), db, DriverPostgres); err == nil {
		t.Error("expected migration error to be returned")
	}
}
