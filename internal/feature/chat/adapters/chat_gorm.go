// Package adapters はchatフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"descripto_backend/internal/feature/chat/domain/entity"
	"descripto_backend/internal/feature/chat/usecase"
)

// chatGorm はRepositoryインターフェースのGORM実装です。
type chatGorm struct {
	db *gorm.DB
}

var _ usecase.Repository = (*chatGorm)(nil)

// NewChatGorm は指定されたgorm.DB接続でchatGormの新しいインスタンスを生成します。
func NewChatGorm(db *gorm.DB) *chatGorm {
	return &chatGorm{db: db}
}

// CreateTab はタブを作成します。
func (r *chatGorm) CreateTab(ctx context.Context, userID uint, name string) (*entity.Tab, error) {
	m := &TabModel{UserID: userID, Name: name, IsActive: true}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	tab := m.toEntity()
	return &tab, nil
}

// FindTab は有効なタブをIDで取得します。
// 存在しない場合、usecase.ErrTabNotFoundを返します。
func (r *chatGorm) FindTab(ctx context.Context, id uint) (*entity.Tab, error) {
	var m TabModel
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTabNotFound
		}
		return nil, err
	}
	tab := m.toEntity()
	return &tab, nil
}

// ListTabs はユーザーの有効なタブを新しい順に返します。
func (r *chatGorm) ListTabs(ctx context.Context, userID uint, page entity.Page) ([]entity.Tab, error) {
	var models []TabModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	tabs := make([]entity.Tab, len(models))
	for i := range models {
		tabs[i] = models[i].toEntity()
	}
	return tabs, nil
}

// AddMessage はメッセージを保存し、採番されたIDと作成日時を設定します。
func (r *chatGorm) AddMessage(ctx context.Context, msg *entity.Message) error {
	m := &MessageModel{
		TabID:    msg.TabID,
		UserID:   msg.UserID,
		Title:    msg.Title,
		Features: msg.Features,
		Tone:     string(msg.Tone),
		Response: joinResponse(msg.Descriptions),
		IsActive: true,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	msg.ID = m.ID
	msg.CreatedAt = m.CreatedAt
	return nil
}

// ListMessages はタブの有効なメッセージを古い順に返します。
func (r *chatGorm) ListMessages(ctx context.Context, tabID uint, page entity.Page) ([]entity.Message, error) {
	var models []MessageModel
	err := r.db.WithContext(ctx).
		Where("tab_id = ? AND is_active = ?", tabID, true).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	msgs := make([]entity.Message, len(models))
	for i := range models {
		msgs[i] = models[i].toEntity()
	}
	return msgs, nil
}
