package marketplace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/marketplace"
)

const feedSize = 20

// PublicFeed renders the newest public listings as a feed whose links point at siteURL.
func (uc *MarketplaceUseCase) PublicFeed(ctx context.Context, category, siteURL string) (*feeds.Feed, error) {
	listings, err := uc.ListPublicListings(ctx, category, 1, feedSize)
	if err != nil {
		return nil, err
	}

	site := strings.TrimRight(siteURL, "/")
	title := "PawPal Marketplace"
	if category != "" {
		title += " - " + category
	}
	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: site + "/marketplace"},
		Description: "New listings from dog owners.",
		Created:     time.Now().UTC(),
	}

	feed.Items = make([]*feeds.Item, 0, len(listings))
	for _, l := range listings {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          l.ID.String(),
			Title:       fmt.Sprintf("%s (%s)", l.Title, formatPrice(l)),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/marketplace/%s", site, l.ID)},
			Description: l.Description,
			Created:     l.CreatedAt,
			Updated:     l.UpdatedAt,
		})
	}
	uc.logger.Debug("Marketplace feed generated", zap.String("category", category), zap.Int("item_count", len(feed.Items)))
	return feed, nil
}

func formatPrice(l *marketplace.Listing) string {
	if l.PriceCents == 0 {
		return "free"
	}
	return fmt.Sprintf("%d.%02d %s", l.PriceCents/100, l.PriceCents%100, l.Currency)
}
