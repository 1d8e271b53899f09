package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type postgresTrainingRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresTrainingRepo(db *pgxpool.Pool, logger logger.Logger) training.Repository {
	return &postgresTrainingRepo{db: db, logger: logger}
}

const dogSkillColumns = `id, dog_id, skill_id, level, last_practiced_at, contexts_seen, created_at, updated_at`

const sessionColumns = `id, dog_skill_id, context, success_rate, notes, practiced_at, created_at`

func scanDogSkill(row pgx.Row) (*training.DogSkill, error) {
	ds := &training.DogSkill{}
	var contexts []string
	err := row.Scan(
		&ds.ID, &ds.DogID, &ds.SkillID, &ds.Level, &ds.LastPracticedAt,
		&contexts, &ds.CreatedAt, &ds.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("dog skill", "")
		}
		return nil, apperror.NewInternal("failed to scan dog skill row", err)
	}
	ds.ContextsSeen = toContexts(contexts)
	return ds, nil
}

func scanSession(row pgx.Row) (training.Session, error) {
	var s training.Session
	err := row.Scan(&s.ID, &s.DogSkillID, &s.Context, &s.SuccessRate, &s.Notes, &s.PracticedAt, &s.CreatedAt)
	if err != nil {
		return s, apperror.NewInternal("failed to scan training session row", err)
	}
	return s, nil
}

func (r *postgresTrainingRepo) CreateDogSkill(ctx context.Context, ds *training.DogSkill) error {
	query := `
		INSERT INTO dog_skills (id, dog_id, skill_id, level, last_practiced_at, contexts_seen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		ds.ID, ds.DogID, ds.SkillID, ds.Level, ds.LastPracticedAt,
		fromContexts(ds.ContextsSeen), ds.CreatedAt, ds.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("dog skill", "skill_id", ds.SkillID.String())
		}
		return apperror.NewInternal("failed to create dog skill", err)
	}
	return nil
}

func (r *postgresTrainingRepo) FindDogSkill(ctx context.Context, dogID, skillID uuid.UUID) (*training.DogSkill, error) {
	query := `SELECT ` + dogSkillColumns + ` FROM dog_skills WHERE dog_id = $1 AND skill_id = $2`
	ds, err := scanDogSkill(r.db.QueryRow(ctx, query, dogID, skillID))
	if err != nil && errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("dog skill", skillID.String())
	}
	return ds, err
}

func (r *postgresTrainingRepo) ListDogSkills(ctx context.Context, dogID uuid.UUID) ([]*training.DogSkill, error) {
	sql, args, err := psql.Select(dogSkillColumns).
		From("dog_skills").
		Where(sq.Eq{"dog_id": dogID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list dog skills query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query dog skills", err)
	}
	defer rows.Close()

	list := make([]*training.DogSkill, 0)
	for rows.Next() {
		ds, err := scanDogSkill(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating dog skill rows", err)
	}
	return list, nil
}

func (r *postgresTrainingRepo) UpdateLevel(ctx context.Context, ds *training.DogSkill, from training.ProficiencyLevel) error {
	query := `UPDATE dog_skills SET level = $2, updated_at = $3 WHERE id = $1 AND level = $4`
	cmdTag, err := r.db.Exec(ctx, query, ds.ID, ds.Level, ds.UpdatedAt, from)
	if err != nil {
		return apperror.NewInternal("failed to update dog skill level", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewConflictState("Skill level changed, please retry", training.ErrStaleLevel.Error())
	}
	return nil
}

func (r *postgresTrainingRepo) AppendSession(ctx context.Context, ds *training.DogSkill, s *training.Session) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO training_sessions (id, dog_skill_id, context, success_rate, notes, practiced_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, s.DogSkillID, s.Context, s.SuccessRate, s.Notes, s.PracticedAt, s.CreatedAt,
		)
		if err != nil {
			return err
		}
		// merge into the stored row, not the caller snapshot
		row := tx.QueryRow(ctx, `
			UPDATE dog_skills SET
				last_practiced_at = GREATEST(last_practiced_at, $2),
				contexts_seen = CASE WHEN $3 = ANY(contexts_seen) THEN contexts_seen ELSE array_append(contexts_seen, $3) END,
				updated_at = $4
			WHERE id = $1
			RETURNING `+dogSkillColumns,
			ds.ID, s.PracticedAt, string(s.Context), ds.UpdatedAt,
		)
		stored, err := scanDogSkill(row)
		if err != nil {
			return err
		}
		*ds = *stored
		return nil
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NewNotFound("dog skill", ds.ID.String())
		}
		r.logger.Error("Training session transaction rolled back", err, zap.String("dog_skill_id", ds.ID.String()))
		return apperror.NewInternal("failed to append training session", err)
	}
	return nil
}

func (r *postgresTrainingRepo) ListSessions(ctx context.Context, dogSkillID uuid.UUID, limit, offset int) ([]*training.Session, error) {
	lim, off := pageArgs(limit, offset)
	sql, args, err := psql.Select(sessionColumns).
		From("training_sessions").
		Where(sq.Eq{"dog_skill_id": dogSkillID}).
		OrderBy("practiced_at DESC").
		Limit(lim).
		Offset(off).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list sessions query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query training sessions", err)
	}
	defer rows.Close()

	sessions := make([]*training.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating training session rows", err)
	}
	return sessions, nil
}

func (r *postgresTrainingRepo) AllSessions(ctx context.Context, dogSkillID uuid.UUID) ([]training.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE dog_skill_id = $1 ORDER BY practiced_at ASC`
	rows, err := r.db.Query(ctx, query, dogSkillID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query training history", err)
	}
	defer rows.Close()

	sessions := make([]training.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating training history", err)
	}
	return sessions, nil
}
