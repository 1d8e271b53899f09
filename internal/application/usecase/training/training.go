package training

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

var tracer = otel.Tracer("training_usecase")

type TrainingUseCase struct {
	dogRepo   dog.Repository
	skillRepo training.SkillRepository
	repo      training.Repository
	reqCache  training.RequirementCache
	events    service.EventPublisher
	logger    logger.Logger
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewTrainingUseCase(
	dr dog.Repository,
	sr training.SkillRepository,
	tr training.Repository,
	cache training.RequirementCache,
	events service.EventPublisher,
	log logger.Logger,
	cacheTTL time.Duration,
) *TrainingUseCase {
	return &TrainingUseCase{
		dogRepo:   dr,
		skillRepo: sr,
		repo:      tr,
		reqCache:  cache,
		events:    events,
		logger:    log,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

type SkillWithRequirements struct {
	Skill        *training.Skill
	Requirements []training.Requirement
}

// Progress pairs a dog-skill with its current evaluation.
type Progress struct {
	DogSkill   *training.DogSkill
	Skill      *training.Skill
	Evaluation training.Evaluation
}

func (uc *TrainingUseCase) ListSkills(ctx context.Context) ([]SkillWithRequirements, error) {
	skills, err := uc.skillRepo.ListSkills(ctx)
	if err != nil {
		return nil, err
	}
	all, err := uc.requirements(ctx)
	if err != nil {
		return nil, err
	}
	bySkill := make(map[uuid.UUID][]training.Requirement, len(skills))
	for _, r := range all {
		bySkill[r.SkillID] = append(bySkill[r.SkillID], r)
	}

	out := make([]SkillWithRequirements, len(skills))
	for i, s := range skills {
		reqs := bySkill[s.ID]
		if reqs == nil {
			reqs = []training.Requirement{}
		}
		out[i] = SkillWithRequirements{Skill: s, Requirements: reqs}
	}
	return out, nil
}

func (uc *TrainingUseCase) StartSkill(ctx context.Context, ownerID, dogID, skillID uuid.UUID) (*training.DogSkill, error) {
	if _, err := uc.dogRepo.FindByID(ctx, dogID, ownerID); err != nil {
		return nil, err
	}
	if _, err := uc.skillRepo.FindSkillByID(ctx, skillID); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	ds := &training.DogSkill{
		ID:           uuid.New(),
		DogID:        dogID,
		SkillID:      skillID,
		Level:        training.LevelBasic,
		ContextsSeen: []training.PracticeContext{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.CreateDogSkill(ctx, ds); err != nil {
		return nil, err
	}
	uc.logger.Info("Dog started tracking skill", zap.String("dog_id", dogID.String()), zap.String("skill_id", skillID.String()))
	return ds, nil
}

type LogSessionInput struct {
	OwnerID     uuid.UUID
	DogID       uuid.UUID
	SkillID     uuid.UUID
	Context     training.PracticeContext
	SuccessRate float64
	Notes       string
	PracticedAt *time.Time
}

type LogSessionOutput struct {
	Session  *training.Session
	DogSkill *training.DogSkill
}

func (uc *TrainingUseCase) LogSession(ctx context.Context, in LogSessionInput) (*LogSessionOutput, error) {
	ctx, span := tracer.Start(ctx, "LogSession")
	defer span.End()
	span.SetAttributes(attribute.String("dog_id", in.DogID.String()), attribute.String("skill_id", in.SkillID.String()))

	ds, err := uc.findOwnedDogSkill(ctx, in.OwnerID, in.DogID, in.SkillID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := uc.now().UTC()
	practicedAt := now
	if in.PracticedAt != nil {
		practicedAt = in.PracticedAt.UTC()
	}
	if practicedAt.After(now) {
		return nil, apperror.NewInvalidInput("practiced_at cannot be in the future", nil)
	}

	s := &training.Session{
		ID:          uuid.New(),
		DogSkillID:  ds.ID,
		Context:     in.Context,
		SuccessRate: in.SuccessRate,
		Notes:       in.Notes,
		PracticedAt: practicedAt,
		CreatedAt:   now,
	}
	if err := s.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("training session validation failed", err)
	}

	ds.UpdatedAt = now
	if err := uc.repo.AppendSession(ctx, ds, s); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.publish(ctx, service.EventSessionLogged, ds.DogID, in.OwnerID, map[string]any{
		"skill_id": in.SkillID.String(),
		"context":  string(s.Context),
	})
	return &LogSessionOutput{Session: s, DogSkill: ds}, nil
}

func (uc *TrainingUseCase) ListSessions(ctx context.Context, ownerID, dogID, skillID uuid.UUID, page, limit int) ([]*training.Session, error) {
	ds, err := uc.findOwnedDogSkill(ctx, ownerID, dogID, skillID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return uc.repo.ListSessions(ctx, ds.ID, limit, (page-1)*limit)
}

func (uc *TrainingUseCase) GetProgress(ctx context.Context, ownerID, dogID, skillID uuid.UUID) (*Progress, error) {
	ds, err := uc.findOwnedDogSkill(ctx, ownerID, dogID, skillID)
	if err != nil {
		return nil, err
	}
	return uc.evaluate(ctx, ds)
}

func (uc *TrainingUseCase) ListDogSkills(ctx context.Context, ownerID, dogID uuid.UUID) ([]*Progress, error) {
	if _, err := uc.dogRepo.FindByID(ctx, dogID, ownerID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListDogSkills(ctx, dogID)
	if err != nil {
		return nil, err
	}
	out := make([]*Progress, 0, len(list))
	for _, ds := range list {
		p, err := uc.evaluate(ctx, ds)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Promote re-runs the evaluation and, only when eligible, persists the next level.
func (uc *TrainingUseCase) Promote(ctx context.Context, ownerID, dogID, skillID uuid.UUID) (*Progress, error) {
	ctx, span := tracer.Start(ctx, "Promote")
	defer span.End()

	ds, err := uc.findOwnedDogSkill(ctx, ownerID, dogID, skillID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	p, err := uc.evaluate(ctx, ds)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	from := ds.Level
	if err := ds.Promote(p.Evaluation); err != nil {
		switch {
		case errors.Is(err, training.ErrAlreadyAtFinalLevel):
			return nil, apperror.NewConflictState("Skill already proofed", err.Error())
		default:
			return nil, apperror.NewConflictState("Skill not ready to level up", err.Error())
		}
	}
	ds.UpdatedAt = uc.now().UTC()
	if err := uc.repo.UpdateLevel(ctx, ds, from); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("from_level", string(from)), attribute.String("to_level", string(ds.Level)))
	uc.logger.Info("Dog skill promoted",
		zap.String("dog_skill_id", ds.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(ds.Level)),
	)
	uc.publish(ctx, service.EventSkillPromoted, dogID, ownerID, map[string]any{
		"skill_id": skillID.String(),
		"level":    string(ds.Level),
	})

	return uc.evaluate(ctx, ds)
}

func (uc *TrainingUseCase) findOwnedDogSkill(ctx context.Context, ownerID, dogID, skillID uuid.UUID) (*training.DogSkill, error) {
	if _, err := uc.dogRepo.FindByID(ctx, dogID, ownerID); err != nil {
		return nil, err
	}
	return uc.repo.FindDogSkill(ctx, dogID, skillID)
}

func (uc *TrainingUseCase) evaluate(ctx context.Context, ds *training.DogSkill) (*Progress, error) {
	skill, err := uc.skillRepo.FindSkillByID(ctx, ds.SkillID)
	if err != nil {
		return nil, err
	}
	all, err := uc.requirements(ctx)
	if err != nil {
		return nil, err
	}
	var reqs []training.Requirement
	for _, r := range all {
		if r.SkillID == ds.SkillID {
			reqs = append(reqs, r)
		}
	}
	sessions, err := uc.repo.AllSessions(ctx, ds.ID)
	if err != nil {
		return nil, err
	}
	return &Progress{
		DogSkill:   ds,
		Skill:      skill,
		Evaluation: training.Evaluate(ds.Level, sessions, training.NewRequirementSet(reqs)),
	}, nil
}

// requirements reads through the cache; cache failures fall back to the database.
func (uc *TrainingUseCase) requirements(ctx context.Context) ([]training.Requirement, error) {
	if reqs, ok, err := uc.reqCache.GetRequirements(ctx); err != nil {
		uc.logger.Warn("Requirement cache read failed", zap.Error(err))
	} else if ok {
		return reqs, nil
	}

	reqs, err := uc.skillRepo.ListAllRequirements(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.reqCache.SetRequirements(ctx, reqs, uc.cacheTTL); err != nil {
		uc.logger.Warn("Requirement cache write failed", zap.Error(err))
	}
	return reqs, nil
}

func (uc *TrainingUseCase) publish(ctx context.Context, eventType string, dogID, ownerID uuid.UUID, data map[string]any) {
	err := uc.events.PublishDogEvent(ctx, service.DogEventPayload{
		EventType: eventType,
		DogID:     dogID,
		OwnerID:   ownerID,
		Data:      data,
		Timestamp: uc.now().UTC(),
	})
	if err != nil {
		uc.logger.Warn("Failed to publish dog event", zap.String("event_type", eventType), zap.Error(err))
	}
}
