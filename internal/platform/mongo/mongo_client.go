// Package mongo はMongoDBクライアントの生成を提供します。
package mongo

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Config はMongoDB接続設定です。
type Config struct {
	URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"descripto"`
}

// NewMongoClient はMongoDBに接続し、疎通を確認したクライアントを返します。
func NewMongoClient(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		slog.Error("MongoDB connection failed", "error", err)
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("MongoDB connection successful", "database", cfg.Database)
	return client, nil
}
