// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"descripto_backend/internal/app/router"
	authhandler "descripto_backend/internal/feature/auth/transport/handler"
	authusecase "descripto_backend/internal/feature/auth/usecase"
	chathandler "descripto_backend/internal/feature/chat/transport/handler"
	chatusecase "descripto_backend/internal/feature/chat/usecase"
	deschandler "descripto_backend/internal/feature/description/transport/handler"
	descusecase "descripto_backend/internal/feature/description/usecase"
	"descripto_backend/internal/platform/config"
	platformhandler "descripto_backend/internal/platform/http/handler"
	jwtmw "descripto_backend/internal/platform/jwt"
	"descripto_backend/internal/platform/password"
	infraredis "descripto_backend/internal/platform/redis"
)

// App is the fully wired HTTP application.
type App struct {
	Handler http.Handler
	closers []func() error
}

// Close releases every connection opened by NewApp.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// NewApp constructs every dependency once and wires them into a router.
// Redis is optional: without it the rate limiter is per-process and Google
// certificates are cached in memory only.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{}

	hasher := password.NewBcryptHasher(bcrypt.DefaultCost)
	store, err := NewStore(ctx, cfg, hasher)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)
	checks := []platformhandler.Check{store.Check}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		if c, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without shared cache.", "error", err)
		} else {
			rdb = c
			app.closers = append(app.closers, rdb.Close)
			checks = append(checks, platformhandler.Check{Name: "redis", Ping: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}})
		}
	}

	// Usecase
	tokens := jwtmw.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authUC := authusecase.NewAuthUsecase(store.Users, hasher, tokens, NewGoogleVerifier(cfg.GoogleVerifier(), rdb), cfg.PasswordPolicy())
	descUC := descusecase.NewDescriptionUsecase(NewTextGenerator(ctx, cfg.Gemini))
	chatUC := chatusecase.NewChatUsecase(store.Chat, descUC)

	// Handler
	handlers := router.Handlers{
		Auth:        authhandler.NewAuthHandler(authUC),
		Description: deschandler.NewDescriptionHandler(descUC),
		Chat:        chathandler.NewChatHandler(chatUC),
		Health:      platformhandler.NewHealthHandler(checks...),
	}

	app.Handler = router.NewRouter(handlers, router.Options{
		Authenticator:         authUC,
		Limiter:               NewLimiter(rdb),
		Logger:                logger,
		AllowedOrigins:        cfg.CORSAllowedOrigins,
		DescriptionDailyLimit: cfg.Gemini.DailyLimit,
	})
	return app, nil
}
