package marketplace

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/marketplace"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

const maxSearchResults = 50

type MarketplaceUseCase struct {
	repo   marketplace.Repository
	logger logger.Logger
}

func NewMarketplaceUseCase(r marketplace.Repository, log logger.Logger) *MarketplaceUseCase {
	return &MarketplaceUseCase{repo: r, logger: log}
}

type ListingInput struct {
	SellerID    uuid.UUID
	Category    string
	Title       string
	Description string
	PriceCents  int64
	Currency    string
	Status      marketplace.Status
	Metadata    map[string]any
	IsPublic    bool
}

func (uc *MarketplaceUseCase) CreateListing(ctx context.Context, in ListingInput) (*marketplace.Listing, error) {
	now := time.Now().UTC()
	l := &marketplace.Listing{
		ID:        uuid.New(),
		SellerID:  in.SellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(l, in)
	if err := l.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("listing validation failed", err)
	}
	if err := uc.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	uc.logger.Info("Listing created", zap.String("listing_id", l.ID.String()), zap.String("category", l.Category))
	return l, nil
}

func (uc *MarketplaceUseCase) UpdateListing(ctx context.Context, id uuid.UUID, in ListingInput) (*marketplace.Listing, error) {
	l, err := uc.repo.FindByID(ctx, id, in.SellerID)
	if err != nil {
		return nil, err
	}
	apply(l, in)
	if err := l.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("listing validation failed", err)
	}
	l.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (uc *MarketplaceUseCase) DeleteListing(ctx context.Context, id, sellerID uuid.UUID) error {
	return uc.repo.Delete(ctx, id, sellerID)
}

func (uc *MarketplaceUseCase) GetListing(ctx context.Context, id, sellerID uuid.UUID) (*marketplace.Listing, error) {
	return uc.repo.FindByID(ctx, id, sellerID)
}

func (uc *MarketplaceUseCase) ListMyListings(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]*marketplace.Listing, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	return uc.repo.ListBySeller(ctx, sellerID, limit, offset)
}

func (uc *MarketplaceUseCase) ListPublicListings(ctx context.Context, category string, page, limit int) ([]*marketplace.Listing, error) {
	if category != "" && !marketplace.ValidCategory(category) {
		return nil, apperror.NewInvalidInput("unknown category", marketplace.ErrInvalidCategory)
	}
	if limit <= 0 {
		limit = 30
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	return uc.repo.ListPublicByCategory(ctx, category, limit, offset)
}

func (uc *MarketplaceUseCase) Search(ctx context.Context, query string, limit int) ([]marketplace.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.NewInvalidInput("search query is required", nil)
	}
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}
	return uc.repo.SearchPublic(ctx, query, limit)
}

func apply(l *marketplace.Listing, in ListingInput) {
	l.Category = in.Category
	l.Title = strings.TrimSpace(in.Title)
	l.Description = in.Description
	l.PriceCents = in.PriceCents
	l.Currency = strings.ToUpper(in.Currency)
	if l.Currency == "" {
		l.Currency = "USD"
	}
	l.Status = in.Status
	if l.Status == "" {
		l.Status = marketplace.StatusActive
	}
	l.Metadata = in.Metadata
	if l.Metadata == nil {
		l.Metadata = map[string]any{}
	}
	l.IsPublic = in.IsPublic
}
