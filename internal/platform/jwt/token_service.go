package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"descripto_backend/internal/feature/auth/domain/entity"
	"descripto_backend/internal/feature/auth/usecase"
)

// Claims is the payload of tokens issued by TokenService.
type Claims struct {
	UserID uint              `json:"user_id"`
	Type   entity.TokenClass `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access and refresh tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

var _ usecase.TokenService = (*TokenService)(nil)

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccessToken signs a short-lived access token for userID.
func (s *TokenService) IssueAccessToken(userID uint) (string, error) {
	return s.issue(userID, entity.TokenClassAccess, s.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for userID.
func (s *TokenService) IssueRefreshToken(userID uint) (string, error) {
	return s.issue(userID, entity.TokenClassRefresh, s.refreshTTL)
}

// AccessTokenTTL reports the lifetime of access tokens.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) issue(userID uint, class entity.TokenClass, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Type:   class,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature first and the expiry second, so a tampered
// token is ErrInvalidToken even when it has also expired.
func (s *TokenService) Verify(tokenStr string) (*entity.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, usecase.ErrInvalidToken
	}

	if claims.ExpiresAt == nil || claims.UserID == 0 {
		return nil, usecase.ErrInvalidToken
	}
	if claims.Type != entity.TokenClassAccess && claims.Type != entity.TokenClassRefresh {
		return nil, usecase.ErrInvalidToken
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, usecase.ErrExpiredToken
	}

	out := &entity.TokenClaims{
		UserID:    claims.UserID,
		Class:     claims.Type,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
