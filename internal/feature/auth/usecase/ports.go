package usecase

import (
	"context"
	"time"

	"descripto_backend/internal/feature/auth/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。平文パスワードは保存前にハッシュ化されます。
	// メールアドレスまたはGoogle IDが既に存在する場合、ErrDuplicateIdentityを返します。
	Create(ctx context.Context, u entity.NewUser) (*entity.User, error)

	// FindByEmail は正規化済みメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByGoogleID はGoogle IDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// Save はユーザーの変更を永続化し、UpdatedAtを更新します。
	Save(ctx context.Context, u *entity.User) error
}

// PasswordHasher はパスワードの一方向ハッシュ化と照合を行います。
type PasswordHasher interface {
	// Hash は平文パスワードのハッシュを返します。
	Hash(password string) (string, error)
	// Compare はハッシュと平文パスワードを照合します。
	// ハッシュが空の場合もダミーハッシュとの比較を行い、必ず不一致エラーを返します。
	Compare(hash, password string) error
}

// TokenService は署名付きトークンの発行と検証を行います。
type TokenService interface {
	IssueAccessToken(userID uint) (string, error)
	IssueRefreshToken(userID uint) (string, error)
	// Verify は署名と有効期限を検証します。
	// 失敗時はErrInvalidTokenまたはErrExpiredTokenを返します。
	Verify(token string) (*entity.TokenClaims, error)
	// AccessTokenTTL はアクセストークンの有効期間を返します。
	AccessTokenTTL() time.Duration
}

// IdentityVerifier はGoogle IDトークンを検証し、正規化されたクレームを返します。
// 失敗時は理由を問わずErrInvalidAssertionを返します。
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (*entity.IdentityClaim, error)
}
