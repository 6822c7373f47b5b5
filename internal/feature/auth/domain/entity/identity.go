package entity

import "time"

// IdentityClaim is the normalized result of a verified Google ID token.
type IdentityClaim struct {
	GoogleID      string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
	ExpiresAt     time.Time
}
