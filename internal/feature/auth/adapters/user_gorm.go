// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"descripto_backend/internal/feature/auth/domain/entity"
	"descripto_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATEです。
const pgUniqueViolation = "23505"

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQLとSQLiteの両方で動作します。
type userGorm struct {
	db     *gorm.DB
	hasher usecase.PasswordHasher
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// 平文パスワードはhasherでハッシュ化してから保存します。
func NewUserGorm(db *gorm.DB, hasher usecase.PasswordHasher) *userGorm {
	return &userGorm{db: db, hasher: hasher}
}

// Create はユーザーをデータベースに追加します。
// パスワードとGoogle IDの両方または一方もない場合はentity.ErrIdentityRequiredを、
// メールアドレスまたはGoogle IDが既に存在する場合はusecase.ErrDuplicateIdentityを返します。
func (r *userGorm) Create(ctx context.Context, nu entity.NewUser) (*entity.User, error) {
	if err := nu.Validate(); err != nil {
		return nil, err
	}
	m := &UserModel{
		Email:         entity.NormalizeEmail(nu.Email),
		GoogleID:      nullable(nu.GoogleID),
		GoogleEmail:   nu.GoogleEmail,
		GoogleName:    nu.GoogleName,
		GooglePicture: nu.GooglePicture,
		FirstName:     nu.FirstName,
		LastName:      nu.LastName,
		IsActive:      true,
		IsVerified:    nu.IsVerified,
		LastLogin:     nu.LastLogin,
	}
	if nu.Password != "" {
		hashed, err := r.hasher.Hash(nu.Password)
		if err != nil {
			return nil, err
		}
		m.PasswordHash = hashed
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, TranslateError(err)
	}
	return m.ToEntity(), nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", entity.NormalizeEmail(email))
}

// FindByGoogleID はGoogle IDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	if googleID == "" {
		return nil, usecase.ErrUserNotFound
	}
	return r.first(ctx, "google_id = ?", googleID)
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userGorm) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// Save はユーザーの全カラムを更新します。
// 対象の行が存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) Save(ctx context.Context, u *entity.User) error {
	m := FromEntity(u)
	m.Email = entity.NormalizeEmail(m.Email)
	m.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", u.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if res.Error != nil {
		return TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	u.Email = m.Email
	u.UpdatedAt = m.UpdatedAt
	return nil
}

// TranslateError は一意制約違反をusecase.ErrDuplicateIdentityに変換します。
// それ以外のエラーはそのまま返します。
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return usecase.ErrDuplicateIdentity
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return usecase.ErrDuplicateIdentity
	}
	// TranslateErrorを有効にしていないSQLite接続
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return usecase.ErrDuplicateIdentity
	}
	return err
}
