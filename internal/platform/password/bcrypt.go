// Package password はbcryptによるパスワードハッシュ化を提供します。
package password

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"descripto_backend/internal/feature/auth/usecase"
)

// ErrMismatch はパスワードがハッシュと一致しない場合に返されます。
var ErrMismatch = errors.New("password does not match")

// BcryptHasher はusecase.PasswordHasherのbcrypt実装です。
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

var _ usecase.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher は指定コストのBcryptHasherを生成します。
// costが範囲外の場合はbcrypt.DefaultCostを使用します。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash はパスワードのbcryptハッシュを返します。
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare はハッシュとパスワードを照合します。
// ハッシュが空の場合もダミーハッシュと照合してから ErrMismatch を返し、
// ユーザーの有無で応答時間が変わらないようにします。
func (h *BcryptHasher) Compare(hash, password string) error {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(h.dummyHash(), []byte(password))
		return ErrMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}

func (h *BcryptHasher) dummyHash() []byte {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), h.cost)
	})
	return h.dummy
}
