package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"descripto_backend/internal/feature/auth/domain/entity"
)

// AccountResolver は検証済みのIDを1件のユーザーレコードに解決し、必要に応じて作成・連携します。
type AccountResolver struct {
	users  UserRepository
	policy PasswordPolicy
	now    func() time.Time
}

// NewAccountResolver はAccountResolverの新しいインスタンスを生成します。
func NewAccountResolver(users UserRepository, policy PasswordPolicy) *AccountResolver {
	return &AccountResolver{users: users, policy: policy, now: time.Now}
}

// ResolveOrCreate はGoogleのクレームをユーザーに解決します。
//
//  1. Google IDで検索し、見つかればプロフィールのスナップショットを上書きする
//  2. メールアドレスで検索し、見つかればGoogle IDを既存アカウントに連携する
//  3. どちらもなければパスワードなしの新規ユーザーを作成する
//
// 2はパスワードの所有確認なしに既存アカウントへ連携します。
func (r *AccountResolver) ResolveOrCreate(ctx context.Context, claim *entity.IdentityClaim) (*entity.User, error) {
	now := r.now()

	user, err := r.users.FindByGoogleID(ctx, claim.GoogleID)
	if err == nil {
		applyClaim(user, claim)
		user.MarkLoggedIn(now)
		if err := r.users.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update google user: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user by google id: %w", err)
	}

	email := entity.NormalizeEmail(claim.Email)
	user, err = r.users.FindByEmail(ctx, email)
	if err == nil {
		user.GoogleID = claim.GoogleID
		applyClaim(user, claim)
		user.MarkLoggedIn(now)
		if err := r.users.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	first, last := splitName(claim.Name)
	loginAt := now.UTC()
	created, err := r.users.Create(ctx, entity.NewUser{
		Email:         email,
		GoogleID:      claim.GoogleID,
		GoogleEmail:   claim.Email,
		GoogleName:    claim.Name,
		GooglePicture: claim.Picture,
		FirstName:     first,
		LastName:      last,
		IsVerified:    claim.EmailVerified,
		LastLogin:     &loginAt,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RegisterLocal はメールアドレスとパスワードで新規ユーザーを登録します。
// メールアドレスの重複、パスワードポリシーの順に検査し、最初の失敗で中断します。
func (r *AccountResolver) RegisterLocal(ctx context.Context, email, password string, profile entity.Profile) (*entity.User, error) {
	email = entity.NormalizeEmail(email)

	_, err := r.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateIdentity
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := r.policy.Check(password); err != nil {
		return nil, err
	}

	// 同時登録の競合はストレージの一意制約でErrDuplicateIdentityになる
	return r.users.Create(ctx, entity.NewUser{
		Email:     email,
		Password:  password,
		FirstName: strings.TrimSpace(profile.FirstName),
		LastName:  strings.TrimSpace(profile.LastName),
	})
}

// applyClaim はGoogleプロフィールのスナップショットと検証フラグを上書きします。
func applyClaim(u *entity.User, claim *entity.IdentityClaim) {
	u.GoogleEmail = claim.Email
	u.GoogleName = claim.Name
	u.GooglePicture = claim.Picture
	u.IsVerified = claim.EmailVerified
}

// splitName は表示名を先頭の単語と残りに分割します。
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
