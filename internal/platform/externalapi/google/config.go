// Package google verifies Google Sign-In ID tokens.
package google

import "time"

// DefaultCertsURL は Google の署名用証明書（kid → PEM）を返すエンドポイントです。
const DefaultCertsURL = "https://www.googleapis.com/oauth2/v1/certs"

// Config holds configuration for Google ID token verification.
type Config struct {
	ClientID string        // Expected audience of ID tokens
	CertsURL string        // Signing certificate endpoint
	Timeout  time.Duration // HTTP request timeout for certificate fetches
}
