package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"descripto_backend/internal/platform/cache"
	"descripto_backend/internal/platform/externalapi/google"
	infrahttp "descripto_backend/internal/platform/http"
)

// NewGoogleVerifier creates a Google ID token verifier.
// Signing certificates are fetched over HTTP and, when Redis is available,
// cached there so every instance shares one copy.
func NewGoogleVerifier(cfg google.Config, rdb *redis.Client) *google.Verifier {
	if cfg.ClientID == "" {
		slog.Warn("GOOGLE_CLIENT_ID is not set; Google sign-in will be rejected")
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	var certs google.CertSource = google.NewHTTPCertSource(cfg.CertsURL, httpClient)
	if rdb != nil {
		certs = cache.NewCachingCertSource(rdb, time.Hour, certs, "google_certs")
	}
	return google.NewVerifier(cfg.ClientID, certs)
}
