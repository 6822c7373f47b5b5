package di

import (
	"context"
	"fmt"

	authadapters "descripto_backend/internal/feature/auth/adapters"
	"descripto_backend/internal/feature/auth/usecase"
	chatadapters "descripto_backend/internal/feature/chat/adapters"
	chatusecase "descripto_backend/internal/feature/chat/usecase"
	"descripto_backend/internal/platform/config"
	"descripto_backend/internal/platform/db"
	platformhandler "descripto_backend/internal/platform/http/handler"
	"descripto_backend/internal/platform/mongo"
)

// Store is the persistence selected by STORE_DRIVER: credentials and chat
// history share one database, one health check and one shutdown hook.
type Store struct {
	Users usecase.UserRepository
	Chat  chatusecase.Repository
	Check platformhandler.Check
	Close func() error
}

// models are the GORM models migrated by AutoMigrate on SQLite.
var models = []any{&authadapters.UserModel{}, &chatadapters.TabModel{}, &chatadapters.MessageModel{}}

// NewStore opens the store selected by cfg.StoreDriver.
func NewStore(ctx context.Context, cfg *config.Config, hasher usecase.PasswordHasher) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := mongo.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		mdb := client.Database(cfg.Mongo.Database)
		users, err := authadapters.NewUserMongo(ctx, mdb, hasher)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		chat, err := chatadapters.NewChatMongo(ctx, mdb)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Store{
			Users: users,
			Chat:  chat,
			Check: platformhandler.Check{Name: "mongo", Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			}},
			Close: func() error { return client.Disconnect(context.Background()) },
		}, nil

	case config.StorePostgres, config.StoreSQLite:
		gdb, err := db.Open(ctx, cfg.StoreDriver, cfg.DB, cfg.RunMigrations, models...)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		return &Store{
			Users: authadapters.NewUserGorm(gdb, hasher),
			Chat:  chatadapters.NewChatGorm(gdb),
			Check: platformhandler.Check{Name: "database", Ping: sqlDB.PingContext},
			Close: sqlDB.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
