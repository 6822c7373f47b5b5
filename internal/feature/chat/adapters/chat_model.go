package adapters

import (
	"strings"
	"time"

	"descripto_backend/internal/feature/chat/domain/entity"
	descentity "descripto_backend/internal/feature/description/domain/entity"
)

// TabModel is the GORM model for the tabs table.
type TabModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index:idx_tabs_user_created,priority:1"`
	Name      string    `gorm:"size:255;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"index:idx_tabs_user_created,priority:2"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (TabModel) TableName() string {
	return "tabs"
}

func (m *TabModel) toEntity() entity.Tab {
	return entity.Tab{ID: m.ID, UserID: m.UserID, Name: m.Name, CreatedAt: m.CreatedAt}
}

// MessageModel is the GORM model for the messages table.
// Descriptions are stored one per line.
type MessageModel struct {
	ID        uint      `gorm:"primaryKey"`
	TabID     uint      `gorm:"not null;index:idx_messages_tab_created,priority:1"`
	UserID    uint      `gorm:"not null"`
	Title     string    `gorm:"size:255;not null"`
	Features  string    `gorm:"type:text;not null"`
	Tone      string    `gorm:"size:32;not null"`
	Response  string    `gorm:"type:text;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"index:idx_messages_tab_created,priority:2"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) toEntity() entity.Message {
	return entity.Message{
		ID:           m.ID,
		TabID:        m.TabID,
		UserID:       m.UserID,
		Title:        m.Title,
		Features:     m.Features,
		Tone:         descentity.Tone(m.Tone),
		Descriptions: splitResponse(m.Response),
		CreatedAt:    m.CreatedAt,
	}
}

func joinResponse(items []string) string {
	return strings.Join(items, "\n")
}

func splitResponse(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
