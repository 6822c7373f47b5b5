package handler

import (
	"descripto_backend/internal/api"
	"descripto_backend/internal/feature/auth/domain/entity"
)

// toAPIUser はパスワードハッシュやGoogle IDを含まない公開用のユーザー表現に変換します。
func toAPIUser(u *entity.User) api.User {
	return api.User{
		Id:               int64(u.ID),
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		IsActive:         u.IsActive,
		IsVerified:       u.IsVerified,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
		LastLogin:        u.LastLogin,
		HasGoogleAccount: u.HasGoogleAccount(),
		HasPassword:      u.HasPassword(),
	}
}
