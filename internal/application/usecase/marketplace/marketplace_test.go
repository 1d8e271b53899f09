package marketplace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/pawpal/internal/domain/marketplace"
	"github.com/khoahotran/pawpal/internal/testutil"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

func TestCreateListing_Defaults(t *testing.T) {
	uc := NewMarketplaceUseCase(testutil.NewListingRepo(), logger.NewNop())

	l, err := uc.CreateListing(context.Background(), ListingInput{
		SellerID: uuid.New(), Category: marketplace.CategoryToys, Title: " Rope ", PriceCents: 500, Currency: "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rope", l.Title)
	assert.Equal(t, "EUR", l.Currency)
	assert.Equal(t, marketplace.StatusActive, l.Status)

	_, err = uc.CreateListing(context.Background(), ListingInput{SellerID: uuid.New(), Category: "cars", Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestPublicListingsAndSearch(t *testing.T) {
	uc := NewMarketplaceUseCase(testutil.NewListingRepo(), logger.NewNop())
	ctx := context.Background()
	seller := uuid.New()

	inputs := []ListingInput{
		{Category: marketplace.CategoryToys, Title: "Squeaky ball", IsPublic: true},
		{Category: marketplace.CategoryFood, Title: "Salmon treats", Description: "grain free", IsPublic: true},
		{Category: marketplace.CategoryToys, Title: "Hidden ball", IsPublic: false},
		{Category: marketplace.CategoryToys, Title: "Sold ball", IsPublic: true, Status: marketplace.StatusSold},
	}
	for _, in := range inputs {
		in.SellerID = seller
		_, err := uc.CreateListing(ctx, in)
		require.NoError(t, err)
	}

	toys, err := uc.ListPublicListings(ctx, marketplace.CategoryToys, 1, 0)
	require.NoError(t, err)
	require.Len(t, toys, 1)
	assert.Equal(t, "Squeaky ball", toys[0].Title)

	all, err := uc.ListPublicListings(ctx, "", 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = uc.ListPublicListings(ctx, "cars", 1, 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	hits, err := uc.Search(ctx, "ball", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Squeaky ball", hits[0].Listing.Title)

	_, err = uc.Search(ctx, "   ", 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	mine, err := uc.ListMyListings(ctx, seller, 1, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 4)
}

func TestUpdateListing_OtherSellerIsNotFound(t *testing.T) {
	uc := NewMarketplaceUseCase(testutil.NewListingRepo(), logger.NewNop())
	ctx := context.Background()

	l, err := uc.CreateListing(ctx, ListingInput{SellerID: uuid.New(), Category: marketplace.CategoryGear, Title: "Harness"})
	require.NoError(t, err)

	_, err = uc.UpdateListing(ctx, l.ID, ListingInput{SellerID: uuid.New(), Category: marketplace.CategoryGear, Title: "Mine now"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, uc.DeleteListing(ctx, l.ID, uuid.New()), apperror.ErrNotFound)
}

func TestPublicFeed(t *testing.T) {
	uc := NewMarketplaceUseCase(testutil.NewListingRepo(), logger.NewNop())
	ctx := context.Background()
	seller := uuid.New()

	for _, in := range []ListingInput{
		{Category: marketplace.CategoryToys, Title: "Squeaky ball", PriceCents: 1250, Currency: "usd", IsPublic: true},
		{Category: marketplace.CategoryToys, Title: "Old crate", IsPublic: true},
		{Category: marketplace.CategoryToys, Title: "Private rope", IsPublic: false},
	} {
		in.SellerID = seller
		_, err := uc.CreateListing(ctx, in)
		require.NoError(t, err)
	}

	feed, err := uc.PublicFeed(ctx, marketplace.CategoryToys, "https://pawpal.test/")
	require.NoError(t, err)
	assert.Equal(t, "PawPal Marketplace - toys", feed.Title)
	assert.Equal(t, "https://pawpal.test/marketplace", feed.Link.Href)
	require.Len(t, feed.Items, 2)

	titles := []string{feed.Items[0].Title, feed.Items[1].Title}
	assert.ElementsMatch(t, []string{"Squeaky ball (12.50 USD)", "Old crate (free)"}, titles)

	_, err = uc.PublicFeed(ctx, "cars", "https://pawpal.test")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
