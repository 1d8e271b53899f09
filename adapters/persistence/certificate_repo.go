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

	"github.com/khoahotran/pawpal/internal/domain/certificate"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type postgresCertificateRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresCertificateRepo(db *pgxpool.Pool, logger logger.Logger) certificate.Repository {
	return &postgresCertificateRepo{db: db, logger: logger}
}

const certificateColumns = `id, dog_id, owner_id, title, issuer, issued_at, file_url, thumbnail_url,
	status, metadata, created_at, updated_at`

func scanCertificate(row pgx.Row, l logger.Logger) (*certificate.Certificate, error) {
	c := &certificate.Certificate{}
	var metadataBytes []byte

	err := row.Scan(
		&c.ID, &c.DogID, &c.OwnerID, &c.Title, &c.Issuer, &c.IssuedAt, &c.FileURL,
		&c.ThumbnailURL, &c.Status, &metadataBytes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("certificate", "")
		}
		return nil, apperror.NewInternal("failed to scan certificate row", err)
	}

	if err := json.Unmarshal(metadataBytes, &c.Metadata); err != nil {
		l.Warn("Failed to unmarshal certificate metadata", zap.String("certificate_id", c.ID.String()), zap.Error(err))
		c.Metadata = map[string]any{}
	}
	return c, nil
}

func (r *postgresCertificateRepo) Save(ctx context.Context, c *certificate.Certificate) error {
	metadataBytes, err := json.Marshal(c.Metadata)
	if err != nil {
		return apperror.NewInternal("failed to marshal certificate metadata", err)
	}
	query := `
		INSERT INTO certificates (id, dog_id, owner_id, title, issuer, issued_at, file_url,
			thumbnail_url, status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		c.ID, c.DogID, c.OwnerID, c.Title, c.Issuer, c.IssuedAt, c.FileURL,
		c.ThumbnailURL, c.Status, metadataBytes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save certificate", err)
	}
	return nil
}

func (r *postgresCertificateRepo) Update(ctx context.Context, c *certificate.Certificate) error {
	metadataBytes, err := json.Marshal(c.Metadata)
	if err != nil {
		return apperror.NewInternal("failed to marshal certificate metadata", err)
	}
	query := `
		UPDATE certificates SET
			title = $2, issuer = $3, issued_at = $4, file_url = $5, thumbnail_url = $6,
			status = $7, metadata = $8, updated_at = NOW()
		WHERE id = $1 AND owner_id = $9
	`
	cmdTag, err := r.db.Exec(ctx, query,
		c.ID, c.Title, c.Issuer, c.IssuedAt, c.FileURL, c.ThumbnailURL,
		c.Status, metadataBytes, c.OwnerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update certificate", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("certificate", c.ID.String())
	}
	return nil
}

func (r *postgresCertificateRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM certificates WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete certificate", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("certificate", id.String())
	}
	return nil
}

func (r *postgresCertificateRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*certificate.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1 AND owner_id = $2`
	c, err := scanCertificate(r.db.QueryRow(ctx, query, id, ownerID), r.logger)
	if err != nil && errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("certificate", id.String())
	}
	return c, err
}

func (r *postgresCertificateRepo) ListByDog(ctx context.Context, dogID, ownerID uuid.UUID) ([]*certificate.Certificate, error) {
	sql, args, err := psql.Select(certificateColumns).
		From("certificates").
		Where(sq.Eq{"dog_id": dogID, "owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list certificates query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query certificates", err)
	}
	defer rows.Close()

	certs := make([]*certificate.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows, r.logger)
		if err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating certificate rows", err)
	}
	return certs, nil
}
