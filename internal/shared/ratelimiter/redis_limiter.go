package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter は INCR と EXPIRE でカウンタを共有するLimiterです。
// 複数インスタンスで同じ上限を適用できます。
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter は新しいRedisLimiterを生成します。prefixが空の場合は "ratelimit" です。
func NewRedisLimiter(rdb *redis.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix}
}

// Allow はキーのカウンタを進めます。有効期限のないカウンタには毎回ウィンドウを設定し直すので、
// EXPIREが一度失敗しても次のリクエストで回復します。
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	k := l.prefix + ":" + key

	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit incr: %w", err)
	}
	ttl, err := l.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit pttl: %w", err)
	}
	if ttl < 0 {
		if err := l.rdb.Expire(ctx, k, window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		ttl = window
	}

	if n > int64(limit) {
		return Result{Allowed: false, RetryAfter: ttl}, nil
	}
	return Result{Allowed: true, Remaining: limit - int(n)}, nil
}
