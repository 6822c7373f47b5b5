// Package cache provides caching decorators backed by Redis.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"descripto_backend/internal/platform/externalapi/google"
)

// CachingCertSource decorates a google.CertSource with Redis caching so that
// every server instance shares one copy of Google's signing certificates.
type CachingCertSource struct {
	inner     google.CertSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var (
	_ google.CertSource = (*CachingCertSource)(nil)
	_ google.Refresher  = (*CachingCertSource)(nil)
)

// NewCachingCertSource decorates a CertSource with Redis caching.
// ttl is used when the upstream response carries no max-age; if 0 it defaults to 1 hour.
// If namespace is empty, it uses "google_certs".
func NewCachingCertSource(rdb *redis.Client, ttl time.Duration, inner google.CertSource, namespace string) *CachingCertSource {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if namespace == "" {
		namespace = "google_certs"
	}
	return &CachingCertSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Fetch returns the certificate set, checking Redis first then falling back to the inner source.
func (c *CachingCertSource) Fetch(ctx context.Context) (*google.CertSet, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Fetch(ctx)
	}

	key := c.cacheKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out google.CertSet
		if err := json.Unmarshal(b, &out); err == nil && len(out.Keys) > 0 {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the certificate endpoint
	out, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	c.store(ctx, out)
	return out, nil
}

// Refresh skips the Redis entry, refetches from the inner source and overwrites the entry.
// The inner source is refreshed too when it supports it.
func (c *CachingCertSource) Refresh(ctx context.Context) (*google.CertSet, error) {
	var (
		out *google.CertSet
		err error
	)
	if r, ok := c.inner.(google.Refresher); ok {
		out, err = r.Refresh(ctx)
	} else {
		out, err = c.inner.Fetch(ctx)
	}
	if err != nil {
		return nil, err
	}
	if c.rdb != nil {
		c.store(ctx, out)
	}
	return out, nil
}

func (c *CachingCertSource) store(ctx context.Context, set *google.CertSet) {
	ttl := set.MaxAge
	if ttl <= 0 {
		ttl = c.ttl
	}
	if b, err := json.Marshal(set); err == nil {
		_ = c.rdb.Set(ctx, c.cacheKey(), b, ttl).Err()
	}
}

func (c *CachingCertSource) cacheKey() string {
	return safe(c.namespace) + ":keys"
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
