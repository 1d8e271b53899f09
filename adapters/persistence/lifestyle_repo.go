package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/lifestyle"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type postgresLifestyleRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresLifestyleRepo(db *pgxpool.Pool, logger logger.Logger) lifestyle.Repository {
	return &postgresLifestyleRepo{db: db, logger: logger}
}

func (r *postgresLifestyleRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*lifestyle.Profile, error) {
	query := `
		SELECT owner_id, home_type, has_yard, hours_alone, activity_level, experience,
			has_children, other_pets, answers, updated_at
		FROM lifestyle_profiles
		WHERE owner_id = $1
	`
	p := &lifestyle.Profile{}
	var answersBytes []byte

	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&p.OwnerID,
		&p.HomeType,
		&p.HasYard,
		&p.HoursAlone,
		&p.ActivityLevel,
		&p.Experience,
		&p.HasChildren,
		&p.OtherPets,
		&answersBytes,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lifestyle.Empty(ownerID), nil
		}
		return nil, apperror.NewInternal("failed to query lifestyle profile", err)
	}

	if err := json.Unmarshal(answersBytes, &p.Answers); err != nil {
		r.logger.Warn("Failed to unmarshal lifestyle answers", zap.String("owner_id", ownerID.String()), zap.Error(err))
		p.Answers = map[string]any{}
	}
	if p.OtherPets == nil {
		p.OtherPets = []string{}
	}
	return p, nil
}

func (r *postgresLifestyleRepo) Upsert(ctx context.Context, p *lifestyle.Profile) error {
	answersBytes, err := json.Marshal(p.Answers)
	if err != nil {
		return apperror.NewInternal("failed to marshal lifestyle answers", err)
	}
	otherPets := p.OtherPets
	if otherPets == nil {
		otherPets = []string{}
	}

	query := `
		INSERT INTO lifestyle_profiles (owner_id, home_type, has_yard, hours_alone, activity_level,
			experience, has_children, other_pets, answers, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (owner_id) DO UPDATE SET
			home_type = EXCLUDED.home_type,
			has_yard = EXCLUDED.has_yard,
			hours_alone = EXCLUDED.hours_alone,
			activity_level = EXCLUDED.activity_level,
			experience = EXCLUDED.experience,
			has_children = EXCLUDED.has_children,
			other_pets = EXCLUDED.other_pets,
			answers = EXCLUDED.answers,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(ctx, query,
		p.OwnerID, p.HomeType, p.HasYard, p.HoursAlone, p.ActivityLevel,
		p.Experience, p.HasChildren, otherPets, answersBytes, p.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to upsert lifestyle profile", err)
	}
	return nil
}
