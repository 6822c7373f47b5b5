package entity

import "time"

// TokenClass distinguishes access tokens from refresh tokens.
type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

// TokenClaims is the verified content of a signed token.
type TokenClaims struct {
	UserID    uint
	Class     TokenClass
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is the set of tokens handed to a client after authentication.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime.
	ExpiresIn time.Duration
}
