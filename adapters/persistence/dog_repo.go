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

	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type postgresDogRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresDogRepo(db *pgxpool.Pool, logger logger.Logger) dog.Repository {
	return &postgresDogRepo{db: db, logger: logger}
}

const dogColumns = `id, owner_id, name, breed, sex, birth_date, weight_kg, activity_level,
	neutered, photo_url, metadata, created_at, updated_at`

func scanDog(row pgx.Row, l logger.Logger) (*dog.Dog, error) {
	d := &dog.Dog{}
	var metadataBytes []byte

	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Name,
		&d.Breed,
		&d.Sex,
		&d.BirthDate,
		&d.WeightKg,
		&d.ActivityLevel,
		&d.Neutered,
		&d.PhotoURL,
		&metadataBytes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("dog", "")
		}
		return nil, apperror.NewInternal("failed to scan dog row", err)
	}

	if err := json.Unmarshal(metadataBytes, &d.Metadata); err != nil {
		l.Warn("Failed to unmarshal dog metadata", zap.String("dog_id", d.ID.String()), zap.Error(err))
		d.Metadata = map[string]any{}
	}
	return d, nil
}

func scanDogs(rows pgx.Rows, l logger.Logger) ([]*dog.Dog, error) {
	defer rows.Close()
	dogs := make([]*dog.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows, l)
		if err != nil {
			return nil, err
		}
		dogs = append(dogs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating dog rows", err)
	}
	return dogs, nil
}

func (r *postgresDogRepo) Save(ctx context.Context, d *dog.Dog) error {
	metadataBytes, err := json.Marshal(d.Metadata)
	if err != nil {
		return apperror.NewInternal("failed to marshal dog metadata", err)
	}
	query := `
		INSERT INTO dogs (id, owner_id, name, breed, sex, birth_date, weight_kg, activity_level,
			neutered, photo_url, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.Exec(ctx, query,
		d.ID, d.OwnerID, d.Name, d.Breed, d.Sex, d.BirthDate, d.WeightKg,
		d.ActivityLevel, d.Neutered, d.PhotoURL, metadataBytes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save dog", err)
	}
	return nil
}

func (r *postgresDogRepo) Update(ctx context.Context, d *dog.Dog) error {
	metadataBytes, err := json.Marshal(d.Metadata)
	if err != nil {
		return apperror.NewInternal("failed to marshal dog metadata for update", err)
	}
	query := `
		UPDATE dogs SET
			name = $2, breed = $3, sex = $4, birth_date = $5, weight_kg = $6,
			activity_level = $7, neutered = $8, photo_url = $9, metadata = $10, updated_at = NOW()
		WHERE id = $1 AND owner_id = $11
	`
	cmdTag, err := r.db.Exec(ctx, query,
		d.ID, d.Name, d.Breed, d.Sex, d.BirthDate, d.WeightKg,
		d.ActivityLevel, d.Neutered, d.PhotoURL, metadataBytes, d.OwnerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update dog", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("dog", d.ID.String())
	}
	return nil
}

func (r *postgresDogRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM dogs WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete dog", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("dog", id.String())
	}
	return nil
}

func (r *postgresDogRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*dog.Dog, error) {
	query := `SELECT ` + dogColumns + ` FROM dogs WHERE id = $1 AND owner_id = $2`
	d, err := scanDog(r.db.QueryRow(ctx, query, id, ownerID), r.logger)
	if err != nil && errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("dog", id.String())
	}
	return d, err
}

func (r *postgresDogRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*dog.Dog, error) {
	lim, off := pageArgs(limit, offset)
	builder := psql.Select(dogColumns).
		From("dogs").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(lim).
		Offset(off)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list dogs query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query dogs by owner", err)
	}
	return scanDogs(rows, r.logger)
}
