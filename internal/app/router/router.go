package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "descripto_backend/internal/feature/auth/transport/handler"
	chathandler "descripto_backend/internal/feature/chat/transport/handler"
	deschandler "descripto_backend/internal/feature/description/transport/handler"
	platformhandler "descripto_backend/internal/platform/http/handler"
	"descripto_backend/internal/platform/http/middleware"
	jwtmw "descripto_backend/internal/platform/jwt"
	"descripto_backend/internal/shared/ratelimiter"
)

// Handlers はルーターに登録するハンドラー群です。
type Handlers struct {
	Auth        *authhandler.AuthHandler
	Description *deschandler.DescriptionHandler
	Chat        *chathandler.ChatHandler
	Health      *platformhandler.HealthHandler
}

// Options はミドルウェアの設定です。
type Options struct {
	Authenticator jwtmw.Authenticator
	Limiter       ratelimiter.Limiter
	Logger        *slog.Logger
	// AllowedOrigins が空の場合はすべてのオリジンを許可します。
	AllowedOrigins []string
	// DescriptionDailyLimit はクライアントIPごとの1日あたりの説明文生成回数です。
	// /generate-description と /generate/chat で共有します。
	DescriptionDailyLimit int
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DescriptionDailyLimit <= 0 {
		opts.DescriptionDailyLimit = 200
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(opts.Logger), cors.New(corsConfig(opts.AllowedOrigins)))

	limit := func(name string, n int, window time.Duration) gin.HandlerFunc {
		return ratelimiter.Middleware(opts.Limiter, ratelimiter.Rule{Name: name, Limit: n, Window: window})
	}

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	generateLimit := limit("generate_description", opts.DescriptionDailyLimit, 24*time.Hour)
	r.POST("/generate-description", generateLimit, h.Description.Generate)

	// 認証不要
	auth := r.Group("/auth")
	auth.POST("/register", limit("register", 5, time.Minute), h.Auth.Register)
	auth.POST("/login", limit("login", 10, time.Minute), h.Auth.Login)
	auth.POST("/google", limit("google", 10, time.Minute), h.Auth.GoogleLogin)
	auth.POST("/refresh", limit("refresh", 20, time.Minute), h.Auth.Refresh)

	// 認証必須のルート
	// → リクエストヘッダーに Bearer トークンが必要になる
	authed := auth.Group("")
	authed.Use(jwtmw.AuthRequired(opts.Authenticator))
	{
		authed.GET("/me", h.Auth.Me)
		authed.GET("/verify", h.Auth.Verify)
		authed.PUT("/profile", limit("profile", 10, time.Minute), h.Auth.UpdateProfile)
		authed.POST("/change-password", limit("change_password", 5, time.Minute), h.Auth.ChangePassword)
		authed.POST("/logout", h.Auth.Logout)
	}

	// 生成履歴（認証必須）
	chat := r.Group("/generate/chat")
	chat.Use(jwtmw.AuthRequired(opts.Authenticator))
	{
		chat.POST("", generateLimit, h.Chat.Send)
		chat.GET("/tabs", h.Chat.Tabs)
		chat.GET("/messages/:tabId", h.Chat.Messages)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
