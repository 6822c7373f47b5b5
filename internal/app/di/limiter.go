package di

import (
	"github.com/redis/go-redis/v9"

	"descripto_backend/internal/shared/ratelimiter"
)

// NewLimiter creates a rate limiter.
// If Redis is available, it returns a Redis-backed implementation shared by every
// instance. Otherwise, it falls back to a per-process in-memory limiter.
func NewLimiter(rdb *redis.Client) ratelimiter.Limiter {
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, "ratelimit")
	}
	return ratelimiter.NewMemoryLimiter()
}
