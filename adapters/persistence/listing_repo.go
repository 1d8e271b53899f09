package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/marketplace"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type postgresListingRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresListingRepo(db *pgxpool.Pool, logger logger.Logger) marketplace.Repository {
	return &postgresListingRepo{db: db, logger: logger}
}

const listingColumns = `id, seller_id, category, title, description, price_cents, currency, status,
	metadata, is_public, created_at, updated_at`

func scanListing(row pgx.Row, l logger.Logger, extra ...any) (*marketplace.Listing, error) {
	li := &marketplace.Listing{}
	var metadataBytes []byte

	dest := []any{
		&li.ID, &li.SellerID, &li.Category, &li.Title, &li.Description, &li.PriceCents,
		&li.Currency, &li.Status, &metadataBytes, &li.IsPublic, &li.CreatedAt, &li.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("listing", "")
		}
		return nil, apperror.NewInternal("failed to scan listing row", err)
	}

	if err := json.Unmarshal(metadataBytes, &li.Metadata); err != nil {
		l.Warn("Failed to unmarshal listing metadata", zap.String("listing_id", li.ID.String()), zap.Error(err))
		li.Metadata = map[string]any{}
	}
	return li, nil
}

func scanListings(rows pgx.Rows, l logger.Logger) ([]*marketplace.Listing, error) {
	defer rows.Close()
	items := make([]*marketplace.Listing, 0)
	for rows.Next() {
		li, err := scanListing(rows, l)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating listing rows", err)
	}
	return items, nil
}

func (r *postgresListingRepo) Save(ctx context.Context, li *marketplace.Listing) error {
	metadataBytes, err := json.Marshal(li.Metadata)
	if err != nil {
		return apperror.NewInternal("failed to marshal listing metadata", err)
	}
	query := `
		INSERT INTO marketplace_listings (id, seller_id, category, title, description, price_cents,
			currency, status, metadata, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		li.ID, li.SellerID, li.Category, li.Title, li.Description, li.PriceCents,
		li.Currency, li.Status, metadataBytes, li.IsPublic, li.CreatedAt, li.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save listing", err)
	}
	return nil
}

func (r *postgresListingRepo) Update(ctx context.Context, li *marketplace.Listing) error {
	metadataBytes, err := json.Marshal(li.Metadata)
	if err != nil {
		return apperror.NewInternal("failed to marshal listing metadata", err)
	}
	query := `
		UPDATE marketplace_listings SET
			category = $2, title = $3, description = $4, price_cents = $5, currency = $6,
			status = $7, metadata = $8, is_public = $9, updated_at = NOW()
		WHERE id = $1 AND seller_id = $10
	`
	cmdTag, err := r.db.Exec(ctx, query,
		li.ID, li.Category, li.Title, li.Description, li.PriceCents, li.Currency,
		li.Status, metadataBytes, li.IsPublic, li.SellerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update listing", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("listing", li.ID.String())
	}
	return nil
}

func (r *postgresListingRepo) Delete(ctx context.Context, id uuid.UUID, sellerID uuid.UUID) error {
	query := `DELETE FROM marketplace_listings WHERE id = $1 AND seller_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, sellerID)
	if err != nil {
		return apperror.NewInternal("failed to delete listing", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("listing", id.String())
	}
	return nil
}

func (r *postgresListingRepo) FindByID(ctx context.Context, id uuid.UUID, sellerID uuid.UUID) (*marketplace.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM marketplace_listings WHERE id = $1 AND seller_id = $2`
	li, err := scanListing(r.db.QueryRow(ctx, query, id, sellerID), r.logger)
	if err != nil && errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("listing", id.String())
	}
	return li, err
}

func (r *postgresListingRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*marketplace.Listing, error) {
	lim, off := pageArgs(limit, offset)
	builder := psql.Select(listingColumns).
		From("marketplace_listings").
		Where(sq.Eq{"seller_id": sellerID}).
		OrderBy("created_at DESC").
		Limit(lim).
		Offset(off)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list listings by seller query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query listings by seller", err)
	}
	return scanListings(rows, r.logger)
}

func (r *postgresListingRepo) ListPublicByCategory(ctx context.Context, category string, limit, offset int) ([]*marketplace.Listing, error) {
	lim, off := pageArgs(limit, offset)
	where := sq.Eq{"is_public": true, "status": marketplace.StatusActive}
	if category != "" {
		where["category"] = category
	}
	builder := psql.Select(listingColumns).
		From("marketplace_listings").
		Where(where).
		OrderBy("created_at DESC").
		Limit(lim).
		Offset(off)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list public listings query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query public listings by category", err)
	}
	return scanListings(rows, r.logger)
}

func (r *postgresListingRepo) SearchPublic(ctx context.Context, query string, limit int) ([]marketplace.SearchResult, error) {
	finalSql := `
	SELECT ` + listingColumns + `,
		ts_headline('simple', description, plainto_tsquery('simple', $1), 'StartSel=*,StopSel=*,MaxFragments=1,MaxWords=10,MinWords=5') AS snippet,
		ts_rank_cd(ts, plainto_tsquery('simple', $1)) AS rank
	FROM marketplace_listings
	WHERE is_public = true AND status = 'active' AND ts @@ plainto_tsquery('simple', $1)
	ORDER BY rank DESC
	LIMIT $2
	`
	rows, err := r.db.Query(ctx, finalSql, query, limit)
	if err != nil {
		return nil, apperror.NewInternal("failed to execute public listing search", err)
	}
	defer rows.Close()

	results := make([]marketplace.SearchResult, 0)
	for rows.Next() {
		var res marketplace.SearchResult
		li, err := scanListing(rows, r.logger, &res.Snippet, &res.Rank)
		if err != nil {
			return nil, err
		}
		res.Listing = li
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating search results", err)
	}
	return results, nil
}
