package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"descripto_backend/internal/feature/auth/domain/entity"
)

// AuthResult は認証に成功したユーザーと発行したトークンです。
type AuthResult struct {
	User   *entity.User
	Tokens entity.TokenPair
}

// RefreshResult はトークン更新の結果です。リフレッシュトークンは再発行しません。
type RefreshResult struct {
	User        *entity.User
	AccessToken string
	ExpiresIn   time.Duration
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	accounts *AccountResolver
	hasher   PasswordHasher
	tokens   TokenService
	verifier IdentityVerifier
	policy   PasswordPolicy
	now      func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// 依存はすべて呼び出し側で一度だけ構築し、ここに注入します。
func NewAuthUsecase(
	users UserRepository,
	hasher PasswordHasher,
	tokens TokenService,
	verifier IdentityVerifier,
	policy PasswordPolicy,
) *authUsecase {
	return &authUsecase{
		users:    users,
		accounts: NewAccountResolver(users, policy),
		hasher:   hasher,
		tokens:   tokens,
		verifier: verifier,
		policy:   policy,
		now:      time.Now,
	}
}

// Register は新規ユーザーを登録し、アクセストークンとリフレッシュトークンを発行します。
func (u *authUsecase) Register(ctx context.Context, email, password string, profile entity.Profile) (*AuthResult, error) {
	user, err := u.accounts.RegisterLocal(ctx, email, password, profile)
	if err != nil {
		return nil, err
	}
	return u.issue(user)
}

// Login はメールアドレスとパスワードでユーザーを認証します。
// メールアドレスの有無を呼び出し側に区別させないため、未登録とパスワード不一致はどちらも
// ErrInvalidCredentialsになります。タイミング攻撃を防ぐため、照合は常に実行します。
// 無効化されたアカウントは、パスワードが正しい場合にのみErrAccountDisabledとして報告します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var passwordHash string
	if user != nil {
		passwordHash = user.PasswordHash
	}
	compareErr := u.hasher.Compare(passwordHash, password)

	if user == nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	user.MarkLoggedIn(u.now())
	if err := u.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	return u.issue(user)
}

// LoginWithOAuth はGoogle IDトークンでユーザーを認証し、必要に応じてアカウントを作成・連携します。
func (u *authUsecase) LoginWithOAuth(ctx context.Context, assertion string) (*AuthResult, error) {
	claim, err := u.verifier.Verify(ctx, assertion)
	if err != nil {
		if !errors.Is(err, ErrInvalidAssertion) {
			err = fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
		}
		return nil, err
	}

	user, err := u.accounts.ResolveOrCreate(ctx, claim)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return u.issue(user)
}

// Refresh はリフレッシュトークンから新しいアクセストークンのみを発行します。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	user, err := u.ResolveUser(ctx, refreshToken, entity.TokenClassRefresh)
	if err != nil {
		return nil, err
	}

	access, err := u.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &RefreshResult{User: user, AccessToken: access, ExpiresIn: u.tokens.AccessTokenTTL()}, nil
}

// Authenticate はアクセストークンを検証し、対応するユーザーを返します。
func (u *authUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	return u.ResolveUser(ctx, accessToken, entity.TokenClassAccess)
}

// ResolveUser はトークンを検証し、期待する種別と一致する場合にユーザーを返します。
// 種別の不一致や、サブジェクトがもう存在しない場合はErrInvalidTokenです。
func (u *authUsecase) ResolveUser(ctx context.Context, token string, expected entity.TokenClass) (*entity.User, error) {
	claims, err := u.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Class != expected {
		return nil, ErrInvalidToken
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// ChangePassword は現在のパスワードを確認したうえでパスワードを変更します。
func (u *authUsecase) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return ErrNoPasswordSet
	}
	if err := u.hasher.Compare(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	if err := u.policy.Check(newPassword); err != nil {
		return err
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashed
	if err := u.users.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}
	return nil
}

// UpdateProfile は氏名のみを更新します。nilのフィールドは変更しません。
func (u *authUsecase) UpdateProfile(ctx context.Context, userID uint, update entity.ProfileUpdate) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return user, nil
}

// issue はユーザーのアクセストークンとリフレッシュトークンを発行します。
func (u *authUsecase) issue(user *entity.User) (*AuthResult, error) {
	access, err := u.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, err := u.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{
		User: user,
		Tokens: entity.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    u.tokens.AccessTokenTTL(),
		},
	}, nil
}
