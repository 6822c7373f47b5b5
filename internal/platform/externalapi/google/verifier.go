package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"descripto_backend/internal/feature/auth/domain/entity"
	"descripto_backend/internal/feature/auth/usecase"
)

// validIssuers は Google が発行する ID トークンの iss です。
var validIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// idTokenClaims は Google ID トークンのペイロードです。
type idTokenClaims struct {
	Email         string   `json:"email"`
	EmailVerified flexBool `json:"email_verified"`
	Name          string   `json:"name"`
	Picture       string   `json:"picture"`
	jwt.RegisteredClaims
}

// flexBool は true と "true" の両方を受け付けます。
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(t == "true")
	default:
		*b = false
	}
	return nil
}

// Verifier は usecase.IdentityVerifier の Google 実装です。
// 署名、発行者、オーディエンス、有効期限の順に検証します。
type Verifier struct {
	clientID string
	certs    CertSource
	now      func() time.Time
}

var _ usecase.IdentityVerifier = (*Verifier)(nil)

// NewVerifier は clientID をオーディエンスとして期待する Verifier を生成します。
func NewVerifier(clientID string, certs CertSource) *Verifier {
	return &Verifier{clientID: clientID, certs: certs, now: time.Now}
}

var errUnknownKey = errors.New("unknown key id")

// parseIDToken は set の公開鍵で署名を検証します。kid が set にない場合は errUnknownKey を返します。
func parseIDToken(assertion string, set *CertSet) (*idTokenClaims, error) {
	claims := &idTokenClaims{}
	unknownKid := false
	token, err := jwt.ParseWithClaims(assertion, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		pem, ok := set.Keys[kid]
		if !ok {
			unknownKid = true
			return nil, errUnknownKey
		}
		return jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if unknownKid {
		return nil, errUnknownKey
	}
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", usecase.ErrInvalidAssertion, reason)
}

// Verify は ID トークンを検証し、正規化されたクレームを返します。
// 失敗時は理由を問わず usecase.ErrInvalidAssertion をラップしたエラーを返します。
func (v *Verifier) Verify(ctx context.Context, assertion string) (*entity.IdentityClaim, error) {
	if v.clientID == "" {
		return nil, invalid("google client id not configured")
	}
	if assertion == "" {
		return nil, invalid("empty token")
	}

	set, err := v.certs.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch certs: %v", usecase.ErrInvalidAssertion, err)
	}

	claims, err := parseIDToken(assertion, set)
	if errors.Is(err, errUnknownKey) {
		// Google のキーローテーション直後はキャッシュに新しい kid がないため一度だけ取り直す
		if r, ok := v.certs.(Refresher); ok {
			if set, err = r.Refresh(ctx); err != nil {
				return nil, fmt.Errorf("%w: refresh certs: %v", usecase.ErrInvalidAssertion, err)
			}
			claims, err = parseIDToken(assertion, set)
		}
	}
	if err != nil {
		return nil, invalid("bad signature")
	}

	if !slices.Contains(validIssuers, claims.Issuer) {
		return nil, invalid("wrong issuer")
	}
	if !slices.Contains([]string(claims.Audience), v.clientID) {
		return nil, invalid("audience mismatch")
	}
	if claims.ExpiresAt == nil || !v.now().Before(claims.ExpiresAt.Time) {
		return nil, invalid("token expired")
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, invalid("missing subject or email")
	}

	return &entity.IdentityClaim{
		GoogleID:      claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		EmailVerified: bool(claims.EmailVerified),
		ExpiresAt:     claims.ExpiresAt.Time,
	}, nil
}
