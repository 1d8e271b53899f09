package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/health"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type postgresHealthRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresHealthRepo(db *pgxpool.Pool, logger logger.Logger) health.Repository {
	return &postgresHealthRepo{db: db, logger: logger}
}

const healthColumns = `id, dog_id, owner_id, record_type, title, notes, recorded_at, next_due_at,
	weight_kg, metadata, created_at, updated_at`

func scanHealthRecord(row pgx.Row, l logger.Logger) (*health.Record, error) {
	rec := &health.Record{}
	var metadataBytes []byte

	err := row.Scan(
		&rec.ID, &rec.DogID, &rec.OwnerID, &rec.RecordType, &rec.Title, &rec.Notes,
		&rec.RecordedAt, &rec.NextDueAt, &rec.WeightKg, &metadataBytes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("health record", "")
		}
		return nil, apperror.NewInternal("failed to scan health record row", err)
	}

	if err := json.Unmarshal(metadataBytes, &rec.Metadata); err != nil {
		l.Warn("Failed to unmarshal health record metadata", zap.String("record_id", rec.ID.String()), zap.Error(err))
		rec.Metadata = map[string]any{}
	}
	return rec, nil
}

func scanHealthRecords(rows pgx.Rows, l logger.Logger) ([]*health.Record, error) {
	defer rows.Close()
	records := make([]*health.Record, 0)
	for rows.Next() {
		rec, err := scanHealthRecord(rows, l)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating health record rows", err)
	}
	return records, nil
}

func (r *postgresHealthRepo) Save(ctx context.Context, rec *health.Record) error {
	metadataBytes, err := json.Marshal(rec.Metadata)
	if err != nil {
		return apperror.NewInternal("failed to marshal health record metadata", err)
	}
	query := `
		INSERT INTO health_records (id, dog_id, owner_id, record_type, title, notes, recorded_at,
			next_due_at, weight_kg, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		rec.ID, rec.DogID, rec.OwnerID, rec.RecordType, rec.Title, rec.Notes, rec.RecordedAt,
		rec.NextDueAt, rec.WeightKg, metadataBytes, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save health record", err)
	}
	return nil
}

func (r *postgresHealthRepo) Update(ctx context.Context, rec *health.Record) error {
	metadataBytes, err := json.Marshal(rec.Metadata)
	if err != nil {
		return apperror.NewInternal("failed to marshal health record metadata", err)
	}
	query := `
		UPDATE health_records SET
			record_type = $2, title = $3, notes = $4, recorded_at = $5, next_due_at = $6,
			weight_kg = $7, metadata = $8, updated_at = NOW()
		WHERE id = $1 AND owner_id = $9
	`
	cmdTag, err := r.db.Exec(ctx, query,
		rec.ID, rec.RecordType, rec.Title, rec.Notes, rec.RecordedAt, rec.NextDueAt,
		rec.WeightKg, metadataBytes, rec.OwnerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update health record", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("health record", rec.ID.String())
	}
	return nil
}

func (r *postgresHealthRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM health_records WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete health record", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("health record", id.String())
	}
	return nil
}

func (r *postgresHealthRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*health.Record, error) {
	query := `SELECT ` + healthColumns + ` FROM health_records WHERE id = $1 AND owner_id = $2`
	rec, err := scanHealthRecord(r.db.QueryRow(ctx, query, id, ownerID), r.logger)
	if err != nil && errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("health record", id.String())
	}
	return rec, err
}

func (r *postgresHealthRepo) ListByDog(ctx context.Context, dogID, ownerID uuid.UUID, recordType string, limit, offset int) ([]*health.Record, error) {
	lim, off := pageArgs(limit, offset)
	where := sq.Eq{"dog_id": dogID, "owner_id": ownerID}
	if recordType != "" {
		where["record_type"] = recordType
	}
	builder := psql.Select(healthColumns).
		From("health_records").
		Where(where).
		OrderBy("recorded_at DESC").
		Limit(lim).
		Offset(off)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list health records query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query health records", err)
	}
	return scanHealthRecords(rows, r.logger)
}

func (r *postgresHealthRepo) ListDueBetween(ctx context.Context, dogID, ownerID uuid.UUID, from, to time.Time) ([]*health.Record, error) {
	builder := psql.Select(healthColumns).
		From("health_records").
		Where(sq.Eq{"dog_id": dogID, "owner_id": ownerID}).
		Where(sq.GtOrEq{"next_due_at": from}).
		Where(sq.LtOrEq{"next_due_at": to}).
		OrderBy("next_due_at ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build upcoming health records query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query upcoming health records", err)
	}
	return scanHealthRecords(rows, r.logger)
}
