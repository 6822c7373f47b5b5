package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"descripto_backend/internal/feature/auth/domain/entity"
)

// memoryUserRepository is an in-memory UserRepository that enforces the same
// uniqueness rules as the storage adapters.
type memoryUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*entity.User
	hasher PasswordHasher

	// failWith, when set, is returned by every method.
	failWith error
	saves    int
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[uint]*entity.User{}, hasher: fakeHasher{}}
}

func (r *memoryUserRepository) Create(ctx context.Context, nu entity.NewUser) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	if err := nu.Validate(); err != nil {
		return nil, err
	}
	for _, u := range r.users {
		if u.Email == nu.Email || (nu.GoogleID != "" && u.GoogleID == nu.GoogleID) {
			return nil, ErrDuplicateIdentity
		}
	}
	var hash string
	if nu.Password != "" {
		h, err := r.hasher.Hash(nu.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	r.nextID++
	now := time.Now().UTC()
	u := &entity.User{
		ID:            r.nextID,
		Email:         nu.Email,
		PasswordHash:  hash,
		GoogleID:      nu.GoogleID,
		GoogleEmail:   nu.GoogleEmail,
		GoogleName:    nu.GoogleName,
		GooglePicture: nu.GooglePicture,
		FirstName:     nu.FirstName,
		LastName:      nu.LastName,
		IsActive:      true,
		IsVerified:    nu.IsVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
		LastLogin:     nu.LastLogin,
	}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepository) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) Save(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	r.users[u.ID] = &cp
	r.saves++
	return nil
}

func (r *memoryUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeHasher prefixes the password instead of running bcrypt.
type fakeHasher struct{}

var errMismatch = errors.New("hash mismatch")

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash == "" || !strings.HasPrefix(hash, "hashed:") || strings.TrimPrefix(hash, "hashed:") != password {
		return errMismatch
	}
	return nil
}

// mockTokenService is a function-field mock of TokenService.
type mockTokenService struct {
	IssueAccessTokenFunc  func(userID uint) (string, error)
	IssueRefreshTokenFunc func(userID uint) (string, error)
	VerifyFunc            func(token string) (*entity.TokenClaims, error)
}

func (m *mockTokenService) IssueAccessToken(userID uint) (string, error) {
	if m.IssueAccessTokenFunc != nil {
		return m.IssueAccessTokenFunc(userID)
	}
	return fmt.Sprintf("access-%d", userID), nil
}

func (m *mockTokenService) IssueRefreshToken(userID uint) (string, error) {
	if m.IssueRefreshTokenFunc != nil {
		return m.IssueRefreshTokenFunc(userID)
	}
	return fmt.Sprintf("refresh-%d", userID), nil
}

// Verify by default understands the tokens produced by the default issue functions.
func (m *mockTokenService) Verify(token string) (*entity.TokenClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	var class entity.TokenClass
	var rest string
	switch {
	case strings.HasPrefix(token, "access-"):
		class, rest = entity.TokenClassAccess, strings.TrimPrefix(token, "access-")
	case strings.HasPrefix(token, "refresh-"):
		class, rest = entity.TokenClassRefresh, strings.TrimPrefix(token, "refresh-")
	default:
		return nil, ErrInvalidToken
	}
	var id uint
	if _, err := fmt.Sscanf(rest, "%d", &id); err != nil {
		return nil, ErrInvalidToken
	}
	return &entity.TokenClaims{UserID: id, Class: class}, nil
}

func (m *mockTokenService) AccessTokenTTL() time.Duration {
	return time.Hour
}

// mockIdentityVerifier is a function-field mock of IdentityVerifier.
type mockIdentityVerifier struct {
	VerifyFunc func(ctx context.Context, assertion string) (*entity.IdentityClaim, error)
}

func (m *mockIdentityVerifier) Verify(ctx context.Context, assertion string) (*entity.IdentityClaim, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, assertion)
	}
	return nil, ErrInvalidAssertion
}

// claimVerifier returns a verifier that accepts any assertion and yields claim.
func claimVerifier(claim entity.IdentityClaim) *mockIdentityVerifier {
	return &mockIdentityVerifier{
		VerifyFunc: func(ctx context.Context, assertion string) (*entity.IdentityClaim, error) {
			c := claim
			return &c, nil
		},
	}
}
