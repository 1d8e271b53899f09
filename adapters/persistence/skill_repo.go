package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type postgresSkillRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresSkillRepo(db *pgxpool.Pool, logger logger.Logger) training.SkillRepository {
	return &postgresSkillRepo{db: db, logger: logger}
}

func toContexts(raw []string) []training.PracticeContext {
	out := make([]training.PracticeContext, len(raw))
	for i, c := range raw {
		out[i] = training.PracticeContext(c)
	}
	return out
}

func fromContexts(cs []training.PracticeContext) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func (r *postgresSkillRepo) ListSkills(ctx context.Context) ([]*training.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug, name, category, description FROM skills ORDER BY category, name`)
	if err != nil {
		return nil, apperror.NewInternal("failed to query skills", err)
	}
	defer rows.Close()

	skills := make([]*training.Skill, 0)
	for rows.Next() {
		s := &training.Skill{}
		if err := rows.Scan(&s.ID, &s.Slug, &s.Name, &s.Category, &s.Description); err != nil {
			return nil, apperror.NewInternal("failed to scan skill row", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating skill rows", err)
	}
	return skills, nil
}

func (r *postgresSkillRepo) FindSkillByID(ctx context.Context, id uuid.UUID) (*training.Skill, error) {
	s := &training.Skill{}
	err := r.db.QueryRow(ctx,
		`SELECT id, slug, name, category, description FROM skills WHERE id = $1`, id,
	).Scan(&s.ID, &s.Slug, &s.Name, &s.Category, &s.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("skill", id.String())
		}
		return nil, apperror.NewInternal("failed to query skill", err)
	}
	return s, nil
}

func (r *postgresSkillRepo) ListRequirements(ctx context.Context, skillID uuid.UUID) ([]training.Requirement, error) {
	builder := psql.Select("skill_id", "level", "min_sessions", "required_contexts", "description").
		From("skill_progression_requirements").
		Where(sq.Eq{"skill_id": skillID})
	return r.queryRequirements(ctx, builder)
}

func (r *postgresSkillRepo) ListAllRequirements(ctx context.Context) ([]training.Requirement, error) {
	builder := psql.Select("skill_id", "level", "min_sessions", "required_contexts", "description").
		From("skill_progression_requirements").
		OrderBy("skill_id")
	return r.queryRequirements(ctx, builder)
}

func (r *postgresSkillRepo) queryRequirements(ctx context.Context, builder sq.SelectBuilder) ([]training.Requirement, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build requirements query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query skill requirements", err)
	}
	defer rows.Close()

	reqs := make([]training.Requirement, 0)
	for rows.Next() {
		var req training.Requirement
		var contexts []string
		if err := rows.Scan(&req.SkillID, &req.Level, &req.MinSessions, &contexts, &req.Description); err != nil {
			return nil, apperror.NewInternal("failed to scan requirement row", err)
		}
		req.RequiredContexts = toContexts(contexts)
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating requirement rows", err)
	}
	return reqs, nil
}
