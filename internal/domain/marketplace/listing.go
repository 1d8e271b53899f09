package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	CategoryFood     = "food"
	CategoryToys     = "toys"
	CategoryGear     = "gear"
	CategoryGrooming = "grooming"
	CategoryServices = "services"
	CategoryTraining = "training"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusSold     Status = "sold"
	StatusArchived Status = "archived"
)

type Listing struct {
	ID          uuid.UUID      `json:"id"`
	SellerID    uuid.UUID      `json:"seller_id"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	PriceCents  int64          `json:"price_cents"`
	Currency    string         `json:"currency"`
	Status      Status         `json:"status"`
	Metadata    map[string]any `json:"metadata"`
	IsPublic    bool           `json:"is_public"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SearchResult is a public listing matched by full-text search.
type SearchResult struct {
	Listing *Listing `json:"listing"`
	Snippet string   `json:"snippet"`
	Rank    float32  `json:"rank"`
}

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidCategory = errors.New("invalid listing category")
	ErrInvalidStatus   = errors.New("invalid listing status")
	ErrInvalidPrice    = errors.New("price cannot be negative")
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryToys, CategoryGear, CategoryGrooming, CategoryServices, CategoryTraining:
		return true
	}
	return false
}

func (l *Listing) Validate() error {
	if l.Title == "" {
		return errors.New("title is required")
	}
	if !ValidCategory(l.Category) {
		return ErrInvalidCategory
	}
	switch l.Status {
	case StatusActive, StatusSold, StatusArchived:
	default:
		return ErrInvalidStatus
	}
	if l.PriceCents < 0 {
		return ErrInvalidPrice
	}
	if len(l.Currency) != 3 {
		return errors.New("currency must be a 3-letter ISO code")
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, l *Listing) error
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id uuid.UUID, sellerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, sellerID uuid.UUID) (*Listing, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Listing, error)
	ListPublicByCategory(ctx context.Context, category string, limit, offset int) ([]*Listing, error)
	SearchPublic(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
