package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CertSet は kid をキーとする PEM 形式の公開鍵と、その有効期間です。
type CertSet struct {
	Keys   map[string]string `json:"keys"`
	MaxAge time.Duration     `json:"max_age"`
}

// CertSource は署名検証用の証明書を提供します。
type CertSource interface {
	Fetch(ctx context.Context) (*CertSet, error)
}

// Refresher はキャッシュを無視して証明書を取得し直せる CertSource です。
// Verifier は未知の kid を見つけたときに一度だけ Refresh を呼びます。
type Refresher interface {
	Refresh(ctx context.Context) (*CertSet, error)
}

// HTTPCertSource は証明書エンドポイントから取得した CertSet を
// Cache-Control の max-age が切れるまでメモリに保持します。
type HTTPCertSource struct {
	url    string
	client *http.Client
	now    func() time.Time

	mu      sync.Mutex
	cached  *CertSet
	expires time.Time
}

var (
	_ CertSource = (*HTTPCertSource)(nil)
	_ Refresher  = (*HTTPCertSource)(nil)
)

// NewHTTPCertSource は指定URLとHTTPクライアントでHTTPCertSourceを生成します。
func NewHTTPCertSource(url string, client *http.Client) *HTTPCertSource {
	if url == "" {
		url = DefaultCertsURL
	}
	return &HTTPCertSource{url: url, client: client, now: time.Now}
}

// Fetch はキャッシュが有効ならそれを返し、そうでなければエンドポイントから取得します。
func (s *HTTPCertSource) Fetch(ctx context.Context) (*CertSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Before(s.expires) {
		return s.cached, nil
	}
	return s.fetchLocked(ctx)
}

// Refresh はメモ化された CertSet を無視してエンドポイントから取得し直します。
func (s *HTTPCertSource) Refresh(ctx context.Context) (*CertSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchLocked(ctx)
}

func (s *HTTPCertSource) fetchLocked(ctx context.Context) (*CertSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("google certs http %d", res.StatusCode)
	}

	keys := map[string]string{}
	if err := json.NewDecoder(res.Body).Decode(&keys); err != nil {
		return nil, fmt.Errorf("decode google certs: %w", err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("google certs: empty key set")
	}

	set := &CertSet{Keys: keys, MaxAge: parseMaxAge(res.Header.Get("Cache-Control"))}
	s.cached = set
	s.expires = s.now().Add(set.MaxAge)
	return set, nil
}

// parseMaxAge は Cache-Control ヘッダーから max-age を取り出します。見つからなければ0です。
func parseMaxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		secs, err := strconv.Atoi(strings.Trim(value, `"`))
		if err != nil || secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	return 0
}
