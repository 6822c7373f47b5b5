package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"descripto_backend/internal/platform/externalapi/google"
)

// mockCertSource はテスト用のCertSourceモック実装です。
type mockCertSource struct {
	fetchFn func(ctx context.Context) (*google.CertSet, error)
	calls   int
}

// Fetch はモックのFetch関数を呼び出します。
func (m *mockCertSource) Fetch(ctx context.Context) (*google.CertSet, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}
	return nil, nil
}

// refreshingCertSource は Refresh を持つ CertSource のモックです。
type refreshingCertSource struct {
	mockCertSource
	refreshed int
	set       *google.CertSet
}

func (m *refreshingCertSource) Refresh(ctx context.Context) (*google.CertSet, error) {
	m.refreshed++
	return m.set, nil
}

func sampleCerts(maxAge time.Duration) *google.CertSet {
	return &google.CertSet{Keys: map[string]string{"k1": "pem-1"}, MaxAge: maxAge}
}

// TestNewCachingCertSource_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingCertSource_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", time.Hour, "google_certs"},
		{"negative ttl uses default", -1 * time.Minute, "", time.Hour, "google_certs"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := NewCachingCertSource(nil, tt.ttl, &mockCertSource{}, tt.namespace)

			if src.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, src.ttl)
			}
			if src.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, src.namespace)
			}
		})
	}
}

// TestCachingCertSource_Fetch_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingCertSource_Fetch_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockCertSource{fetchFn: func(ctx context.Context) (*google.CertSet, error) {
		return sampleCerts(time.Minute), nil
	}}

	src := NewCachingCertSource(nil, time.Hour, inner, "")
	set, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Keys["k1"] != "pem-1" {
		t.Errorf("expected key k1, got %v", set.Keys)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

// TestCachingCertSource_Fetch_CacheHit はキャッシュヒット時に内部ソースを呼ばないことを検証します。
func TestCachingCertSource_Fetch_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(sampleCerts(time.Minute))
	mock.ExpectGet("google_certs:keys").SetVal(string(cached))

	inner := &mockCertSource{}
	src := NewCachingCertSource(rdb, time.Hour, inner, "")

	set, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 0 {
		t.Error("inner source should not be called on cache hit")
	}
	if set.Keys["k1"] != "pem-1" {
		t.Errorf("expected key k1, got %v", set.Keys)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCertSource_Fetch_CacheMiss はキャッシュミス時にmax-ageをTTLとして保存することを検証します。
func TestCachingCertSource_Fetch_CacheMiss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		maxAge  time.Duration
		wantTTL time.Duration
	}{
		{"max-age from upstream", 19204 * time.Second, 19204 * time.Second},
		{"no max-age uses default ttl", 0, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rdb, mock := redismock.NewClientMock()
			defer func() { _ = rdb.Close() }()

			fresh := sampleCerts(tt.maxAge)
			freshJSON, _ := json.Marshal(fresh)

			mock.ExpectGet("google_certs:keys").RedisNil()
			mock.ExpectSet("google_certs:keys", freshJSON, tt.wantTTL).SetVal("OK")

			inner := &mockCertSource{fetchFn: func(ctx context.Context) (*google.CertSet, error) {
				return fresh, nil
			}}
			src := NewCachingCertSource(rdb, time.Hour, inner, "")

			if _, err := src.Fetch(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled mock expectations: %v", err)
			}
		})
	}
}

// TestCachingCertSource_Fetch_CorruptedCache は破損したキャッシュを削除してフォールバックすることを検証します。
func TestCachingCertSource_Fetch_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	fresh := sampleCerts(time.Minute)
	freshJSON, _ := json.Marshal(fresh)

	mock.ExpectGet("google_certs:keys").SetVal("invalid json")
	mock.ExpectDel("google_certs:keys").SetVal(1)
	mock.ExpectSet("google_certs:keys", freshJSON, time.Minute).SetVal("OK")

	inner := &mockCertSource{fetchFn: func(ctx context.Context) (*google.CertSet, error) {
		return fresh, nil
	}}
	src := NewCachingCertSource(rdb, time.Hour, inner, "")

	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCertSource_Fetch_InnerError は内部ソースのエラーが伝播されることを検証します。
func TestCachingCertSource_Fetch_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("certs unavailable")
	mock.ExpectGet("google_certs:keys").RedisNil()

	inner := &mockCertSource{fetchFn: func(ctx context.Context) (*google.CertSet, error) {
		return nil, expectedErr
	}}
	src := NewCachingCertSource(rdb, time.Hour, inner, "")

	_, err := src.Fetch(context.Background())
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingCertSource_Refresh はRedisのエントリを読まずに内部ソースを取り直し、上書きすることを検証します。
func TestCachingCertSource_Refresh(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	fresh := &google.CertSet{Keys: map[string]string{"k2": "pem-2"}, MaxAge: time.Minute}
	freshJSON, _ := json.Marshal(fresh)
	mock.ExpectSet("google_certs:keys", freshJSON, time.Minute).SetVal("OK")

	inner := &refreshingCertSource{set: fresh}
	src := NewCachingCertSource(rdb, time.Hour, inner, "")

	set, err := src.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := set.Keys["k2"]; !ok {
		t.Errorf("expected refreshed key k2, got %v", set.Keys)
	}
	if inner.refreshed != 1 || inner.calls != 0 {
		t.Errorf("expected one inner refresh and no fetch, got refresh=%d fetch=%d", inner.refreshed, inner.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingCertSource_Refresh_PlainInner はRefreshを持たない内部ソースではFetchで取り直すことを検証します。
func TestCachingCertSource_Refresh_PlainInner(t *testing.T) {
	t.Parallel()

	fresh := sampleCerts(0)
	inner := &mockCertSource{fetchFn: func(ctx context.Context) (*google.CertSet, error) {
		return fresh, nil
	}}
	src := NewCachingCertSource(nil, time.Hour, inner, "")

	set, err := src.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != fresh || inner.calls != 1 {
		t.Errorf("expected inner fetch result, got %v after %d calls", set, inner.calls)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"google_certs", "google_certs"},
		{"a b:c", "a_b_c"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := safe(tt.input); got != tt.expected {
			t.Errorf("safe(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
