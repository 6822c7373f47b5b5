// Package db はGORMによるデータベース接続とスキーマ管理を提供します。
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"descripto_backend/internal/platform/db/migrations"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続失敗時の再試行間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"descripto.db"`
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はPostgreSQL接続用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// OpenPostgres はPostgreSQLに接続します。一意制約違反はgorm.ErrDuplicatedKeyに変換されます。
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// OpenSQLite はSQLiteファイル（または ":memory:"）を開きます。
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
}

// ConnectWithRetry はタイムアウトまで一定間隔で接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Open はdriverに応じてデータベースに接続し、必要であればマイグレーションを実行します。
// modelsはSQLiteのAutoMigrateに渡すGORMモデルです。
func Open(ctx context.Context, driver string, cfg Config, runMigrations bool, models ...any) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case DriverPostgres:
		db, err = ConnectWithRetry(BuildDSN(cfg), 60*time.Second, OpenPostgres)
	case DriverSQLite:
		db, err = OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if runMigrations {
		if err := Migrate(ctx, db, driver, models...); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate はスキーマを最新にします。
// PostgreSQLは埋め込みのgooseマイグレーションを、SQLiteはmodelsのAutoMigrateを使用します。
func Migrate(ctx context.Context, db *gorm.DB, driver string, models ...any) error {
	if driver != DriverPostgres {
		if len(models) == 0 {
			return errors.New("failed to migrate: no models given")
		}
		if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
