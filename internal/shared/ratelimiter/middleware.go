package ratelimiter

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// KindRateLimited は429応答のエラー種別です。
const KindRateLimited = "rate_limited"

// Rule はルートごとの上限です。
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Middleware はクライアントIPとルール名をキーにリクエストを制限するGinミドルウェアを返します。
// Limiterがエラーを返した場合はリクエストを通します。
func Middleware(l Limiter, rule Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rule.Name + ":" + c.ClientIP()

		res, err := l.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			slog.Warn("rate limiter unavailable", "rule", rule.Name, "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			secs := int(math.Ceil(res.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			slog.Warn("rate limit exceeded", "rule", rule.Name, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded", "kind": KindRateLimited})
			return
		}
		c.Next()
	}
}
