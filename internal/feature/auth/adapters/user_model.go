package adapters

import (
	"time"

	"descripto_backend/internal/feature/auth/domain/entity"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255"`
	// GoogleID is NULL until linked so the unique index admits many unlinked users.
	GoogleID      *string `gorm:"size:255;uniqueIndex"`
	GoogleEmail   string  `gorm:"size:255"`
	GoogleName    string  `gorm:"size:255"`
	GooglePicture string  `gorm:"size:1024"`
	FirstName     string  `gorm:"size:100"`
	LastName      string  `gorm:"size:100"`
	IsActive      bool    `gorm:"not null;default:true"`
	IsVerified    bool    `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLogin     *time.Time
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	u := &entity.User{
		ID:            m.ID,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		GoogleEmail:   m.GoogleEmail,
		GoogleName:    m.GoogleName,
		GooglePicture: m.GooglePicture,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		IsActive:      m.IsActive,
		IsVerified:    m.IsVerified,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		LastLogin:     m.LastLogin,
	}
	if m.GoogleID != nil {
		u.GoogleID = *m.GoogleID
	}
	return u
}

// FromEntity converts a domain entity to a GORM model.
func FromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:            u.ID,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		GoogleID:      nullable(u.GoogleID),
		GoogleEmail:   u.GoogleEmail,
		GoogleName:    u.GoogleName,
		GooglePicture: u.GooglePicture,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		IsActive:      u.IsActive,
		IsVerified:    u.IsVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		LastLogin:     u.LastLogin,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
