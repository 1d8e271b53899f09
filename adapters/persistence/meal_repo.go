package persistence

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type postgresMealRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresMealRepo(db *pgxpool.Pool, logger logger.Logger) nutrition.Repository {
	return &postgresMealRepo{db: db, logger: logger}
}

const mealColumns = `id, dog_id, owner_id, meal_type, food_name, amount_grams, calories, notes,
	fed_at, created_at, updated_at`

func scanMeal(row pgx.Row) (*nutrition.MealRecord, error) {
	m := &nutrition.MealRecord{}
	err := row.Scan(
		&m.ID, &m.DogID, &m.OwnerID, &m.MealType, &m.FoodName, &m.AmountGrams,
		&m.Calories, &m.Notes, &m.FedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("meal record", "")
		}
		return nil, apperror.NewInternal("failed to scan meal row", err)
	}
	return m, nil
}

func scanMeals(rows pgx.Rows) ([]*nutrition.MealRecord, error) {
	defer rows.Close()
	meals := make([]*nutrition.MealRecord, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating meal rows", err)
	}
	return meals, nil
}

func (r *postgresMealRepo) Save(ctx context.Context, m *nutrition.MealRecord) error {
	query := `
		INSERT INTO meal_records (id, dog_id, owner_id, meal_type, food_name, amount_grams,
			calories, notes, fed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.DogID, m.OwnerID, m.MealType, m.FoodName, m.AmountGrams,
		m.Calories, m.Notes, m.FedAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to save meal record", err)
	}
	return nil
}

func (r *postgresMealRepo) Update(ctx context.Context, m *nutrition.MealRecord) error {
	query := `
		UPDATE meal_records SET
			meal_type = $2, food_name = $3, amount_grams = $4, calories = $5, notes = $6,
			fed_at = $7, updated_at = NOW()
		WHERE id = $1 AND owner_id = $8
	`
	cmdTag, err := r.db.Exec(ctx, query,
		m.ID, m.MealType, m.FoodName, m.AmountGrams, m.Calories, m.Notes, m.FedAt, m.OwnerID,
	)
	if err != nil {
		return apperror.NewInternal("failed to update meal record", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("meal record", m.ID.String())
	}
	return nil
}

func (r *postgresMealRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM meal_records WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete meal record", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("meal record", id.String())
	}
	return nil
}

func (r *postgresMealRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*nutrition.MealRecord, error) {
	query := `SELECT ` + mealColumns + ` FROM meal_records WHERE id = $1 AND owner_id = $2`
	m, err := scanMeal(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil && errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("meal record", id.String())
	}
	return m, err
}

func (r *postgresMealRepo) ListByDog(ctx context.Context, dogID, ownerID uuid.UUID, limit, offset int) ([]*nutrition.MealRecord, error) {
	lim, off := pageArgs(limit, offset)
	builder := psql.Select(mealColumns).
		From("meal_records").
		Where(sq.Eq{"dog_id": dogID, "owner_id": ownerID}).
		OrderBy("fed_at DESC").
		Limit(lim).
		Offset(off)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list meals query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query meals", err)
	}
	return scanMeals(rows)
}

func (r *postgresMealRepo) ListBetween(ctx context.Context, dogID, ownerID uuid.UUID, from, to time.Time) ([]*nutrition.MealRecord, error) {
	builder := psql.Select(mealColumns).
		From("meal_records").
		Where(sq.Eq{"dog_id": dogID, "owner_id": ownerID}).
		Where(sq.GtOrEq{"fed_at": from}).
		Where(sq.Lt{"fed_at": to}).
		OrderBy("fed_at ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build meals window query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query meals in window", err)
	}
	return scanMeals(rows)
}
