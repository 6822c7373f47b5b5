// Package entity defines the domain entities for the chat history feature.
package entity

import (
	"time"

	descentity "descripto_backend/internal/feature/description/domain/entity"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Tab groups the generations a user made for one product.
type Tab struct {
	ID        uint
	UserID    uint
	Name      string
	CreatedAt time.Time
}

// Message is one recorded generation: the product input and the descriptions returned for it.
type Message struct {
	ID           uint
	TabID        uint
	UserID       uint
	Title        string
	Features     string
	Tone         descentity.Tone
	Descriptions []string
	CreatedAt    time.Time
}

// Page is a zero-based page of a listing.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size into a usable page.
func NewPage(number, size int) Page {
	if number < 0 {
		number = 0
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// TabName is the name given to a tab opened by a generation.
func TabName(p descentity.Product) string {
	return p.Title + "_" + string(p.Tone)
}
