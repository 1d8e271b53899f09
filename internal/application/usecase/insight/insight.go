package insight

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/health"
	"github.com/khoahotran/pawpal/internal/domain/insight"
	"github.com/khoahotran/pawpal/internal/domain/lifestyle"
	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

var tracer = otel.Tracer("insight_usecase")

const (
	mealWindow    = 7 * 24 * time.Hour
	healthHistory = 20
)

type Repos struct {
	Dogs      dog.Repository
	Meals     nutrition.Repository
	Health    health.Repository
	Skills    training.SkillRepository
	Training  training.Repository
	Lifestyle lifestyle.Repository
}

type InsightUseCase struct {
	repos  Repos
	llm    service.LLMService
	cache  insight.Cache
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

func NewInsightUseCase(repos Repos, llm service.LLMService, cache insight.Cache, ttl time.Duration, log logger.Logger) *InsightUseCase {
	return &InsightUseCase{repos: repos, llm: llm, cache: cache, ttl: ttl, logger: log, now: time.Now}
}

// dogSnapshot is everything a dog insight prompt is built from.
type dogSnapshot struct {
	dog       *dog.Dog
	meals     []*nutrition.MealRecord
	records   []*health.Record
	skills    []*training.DogSkill
	skillName map[uuid.UUID]string
}

func (uc *InsightUseCase) GetDogInsight(ctx context.Context, ownerID, dogID uuid.UUID, kind string) (*insight.Insight, error) {
	ctx, span := tracer.Start(ctx, "GetDogInsight")
	defer span.End()
	span.SetAttributes(attribute.String("dog_id", dogID.String()), attribute.String("kind", kind))

	k, err := insight.ParseDogKind(kind)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	// ownership first, the cache is keyed by dog only
	d, err := uc.repos.Dogs.FindByID(ctx, dogID, ownerID)
	if err != nil {
		return nil, err
	}
	if cached := uc.cached(ctx, dogID, k); cached != nil {
		return cached, nil
	}

	snap, err := uc.loadDog(ctx, d)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return uc.generate(ctx, dogID, k, dogPrompt(k, snap, uc.now().UTC()))
}

// LifestyleGuide answers the pre-purchase guide from the owner's lifestyle profile.
func (uc *InsightUseCase) LifestyleGuide(ctx context.Context, ownerID uuid.UUID) (*insight.Insight, error) {
	ctx, span := tracer.Start(ctx, "LifestyleGuide")
	defer span.End()

	if cached := uc.cached(ctx, ownerID, insight.KindLifestyle); cached != nil {
		return cached, nil
	}
	p, err := uc.repos.Lifestyle.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if p.HomeType == "" && len(p.Answers) == 0 {
		return nil, apperror.NewInvalidInput("lifestyle profile is empty, answer the questionnaire first", nil)
	}
	return uc.generate(ctx, ownerID, insight.KindLifestyle, lifestylePrompt(p))
}

func (uc *InsightUseCase) cached(ctx context.Context, subjectID uuid.UUID, k insight.Kind) *insight.Insight {
	in, ok, err := uc.cache.Get(ctx, subjectID, k)
	if err != nil {
		uc.logger.Warn("Insight cache read failed", zap.String("subject_id", subjectID.String()), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	in.Cached = true
	return in
}

func (uc *InsightUseCase) generate(ctx context.Context, subjectID uuid.UUID, k insight.Kind, prompt []service.Message) (*insight.Insight, error) {
	completion, err := uc.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	in := &insight.Insight{
		Kind:        k,
		SubjectID:   subjectID,
		Content:     completion.Content,
		Model:       completion.Model,
		GeneratedAt: uc.now().UTC(),
	}
	if err := uc.cache.Set(ctx, in, uc.ttl); err != nil {
		uc.logger.Warn("Insight cache write failed", zap.String("subject_id", subjectID.String()), zap.Error(err))
	}
	return in, nil
}

func (uc *InsightUseCase) loadDog(ctx context.Context, d *dog.Dog) (*dogSnapshot, error) {
	snap := &dogSnapshot{dog: d}
	now := uc.now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meals, err := uc.repos.Meals.ListBetween(gctx, d.ID, d.OwnerID, now.Add(-mealWindow), now)
		snap.meals = meals
		return err
	})
	g.Go(func() error {
		records, err := uc.repos.Health.ListByDog(gctx, d.ID, d.OwnerID, "", healthHistory, 0)
		snap.records = records
		return err
	})
	g.Go(func() error {
		skills, err := uc.repos.Training.ListDogSkills(gctx, d.ID)
		snap.skills = skills
		return err
	})
	g.Go(func() error {
		ref, err := uc.repos.Skills.ListSkills(gctx)
		if err != nil {
			return err
		}
		snap.skillName = make(map[uuid.UUID]string, len(ref))
		for _, s := range ref {
			snap.skillName[s.ID] = s.Name
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
