// Package ratelimiter はキー単位の固定ウィンドウ方式でリクエスト頻度を制限します。
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// Result は Allow の判定結果です。
type Result struct {
	Allowed bool
	// Remaining はウィンドウ内で残っているリクエスト数です。
	Remaining int
	// RetryAfter は拒否された場合に次のウィンドウが始まるまでの時間です。
	RetryAfter time.Duration
}

// Limiter は、API呼び出しなどの操作の頻度をキーごとに制限するインターフェースです。
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

type bucket struct {
	count     int
	lastReset time.Time
	window    time.Duration
}

// MemoryLimiter はプロセス内で動作するLimiterです。単一インスタンス構成向けです。
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter は新しいMemoryLimiterのインスタンスを生成します。
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: map[string]*bucket{}, now: time.Now}
}

// Allow はキーのカウントを1つ進め、上限を超えていないかを返します。
func (l *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	// window を過ぎたらカウントリセット
	if !ok || now.Sub(b.lastReset) >= window {
		l.sweep(now)
		b = &bucket{lastReset: now, window: window}
		l.buckets[key] = b
	}

	b.count++
	if b.count > limit {
		return Result{Allowed: false, RetryAfter: window - now.Sub(b.lastReset)}, nil
	}
	return Result{Allowed: true, Remaining: limit - b.count}, nil
}

// sweep は期限切れのバケットを削除します。
func (l *MemoryLimiter) sweep(now time.Time) {
	if len(l.buckets) < 1024 {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.lastReset) >= b.window {
			delete(l.buckets, k)
		}
	}
}
