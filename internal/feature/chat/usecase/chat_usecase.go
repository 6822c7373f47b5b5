// Package usecase はchatフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"descripto_backend/internal/feature/chat/domain/entity"
	descentity "descripto_backend/internal/feature/description/domain/entity"
	descusecase "descripto_backend/internal/feature/description/usecase"
)

// ErrTabNotFound is returned when a tab does not exist or belongs to another user.
var ErrTabNotFound = errors.New("tab not found")

// Repository はタブとメッセージの永続化を定義します。
type Repository interface {
	CreateTab(ctx context.Context, userID uint, name string) (*entity.Tab, error)
	// FindTab returns ErrTabNotFound when no tab has id.
	FindTab(ctx context.Context, id uint) (*entity.Tab, error)
	// ListTabs returns the user's tabs, newest first.
	ListTabs(ctx context.Context, userID uint, page entity.Page) ([]entity.Tab, error)
	// AddMessage stores m and sets its ID and CreatedAt.
	AddMessage(ctx context.Context, m *entity.Message) error
	// ListMessages returns the tab's messages, oldest first.
	ListMessages(ctx context.Context, tabID uint, page entity.Page) ([]entity.Message, error)
}

// DescriptionGenerator は説明文生成ユースケースです。
type DescriptionGenerator interface {
	Generate(ctx context.Context, p descentity.Product) (*descentity.Descriptions, error)
}

// Exchange is the outcome of one chat request.
type Exchange struct {
	Tab          *entity.Tab
	Message      *entity.Message
	Descriptions *descentity.Descriptions
}

// chatUsecase は説明文生成の履歴をユーザーごとのタブに記録します。
type chatUsecase struct {
	repo      Repository
	generator DescriptionGenerator
}

// NewChatUsecase はchatUsecaseの新しいインスタンスを生成します。
func NewChatUsecase(repo Repository, generator DescriptionGenerator) *chatUsecase {
	return &chatUsecase{repo: repo, generator: generator}
}

// Send は説明文を生成し、タブにメッセージとして記録します。
// tabIDが0の場合は新しいタブを作成します。タブは生成に成功してから作成されます。
func (u *chatUsecase) Send(ctx context.Context, userID, tabID uint, p descentity.Product) (*Exchange, error) {
	p, err := descusecase.Normalize(p)
	if err != nil {
		return nil, err
	}

	var tab *entity.Tab
	if tabID != 0 {
		if tab, err = u.ownedTab(ctx, userID, tabID); err != nil {
			return nil, err
		}
	}

	out, err := u.generator.Generate(ctx, p)
	if err != nil {
		return nil, err
	}

	if tab == nil {
		if tab, err = u.repo.CreateTab(ctx, userID, entity.TabName(p)); err != nil {
			return nil, fmt.Errorf("failed to create tab: %w", err)
		}
	}
	msg := &entity.Message{
		TabID:        tab.ID,
		UserID:       userID,
		Title:        p.Title,
		Features:     p.Features,
		Tone:         p.Tone,
		Descriptions: out.Items,
	}
	if err := u.repo.AddMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to record message: %w", err)
	}
	return &Exchange{Tab: tab, Message: msg, Descriptions: out}, nil
}

// Tabs はユーザーのタブを新しい順に返します。
func (u *chatUsecase) Tabs(ctx context.Context, userID uint, page entity.Page) ([]entity.Tab, error) {
	return u.repo.ListTabs(ctx, userID, page)
}

// Messages はユーザーが所有するタブのメッセージを古い順に返します。
func (u *chatUsecase) Messages(ctx context.Context, userID, tabID uint, page entity.Page) (*entity.Tab, []entity.Message, error) {
	tab, err := u.ownedTab(ctx, userID, tabID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := u.repo.ListMessages(ctx, tab.ID, page)
	if err != nil {
		return nil, nil, err
	}
	return tab, msgs, nil
}

// 他のユーザーのタブは存在しないものとして扱う
func (u *chatUsecase) ownedTab(ctx context.Context, userID, tabID uint) (*entity.Tab, error) {
	tab, err := u.repo.FindTab(ctx, tabID)
	if err != nil {
		return nil, err
	}
	if tab.UserID != userID {
		return nil, ErrTabNotFound
	}
	return tab, nil
}
