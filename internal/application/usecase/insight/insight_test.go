package insight

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/insight"
	"github.com/khoahotran/pawpal/internal/domain/lifestyle"
	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/internal/testutil"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

var fixedNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type env struct {
	uc        *InsightUseCase
	llm       *testutil.LLM
	cache     *testutil.InsightCache
	meals     *testutil.MealRepo
	lifestyle *testutil.LifestyleRepo
	dog       *dog.Dog
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dogs := testutil.NewDogRepo()
	w := 12.0
	d := dogs.Add(&dog.Dog{ID: uuid.New(), OwnerID: uuid.New(), Name: "Miso", Breed: "Shiba Inu", WeightKg: &w, ActivityLevel: nutrition.ActivityModerate})
	e := &env{
		llm:       &testutil.LLM{Reply: "Feed a little less."},
		cache:     testutil.NewInsightCache(),
		meals:     testutil.NewMealRepo(),
		lifestyle: testutil.NewLifestyleRepo(),
		dog:       d,
	}
	repos := Repos{
		Dogs:      dogs,
		Meals:     e.meals,
		Health:    testutil.NewHealthRepo(),
		Skills:    testutil.NewSkillRepo(),
		Training:  testutil.NewTrainingRepo(),
		Lifestyle: e.lifestyle,
	}
	e.uc = NewInsightUseCase(repos, e.llm, e.cache, time.Hour, logger.NewNop())
	e.uc.now = func() time.Time { return fixedNow }
	return e
}

func TestGetDogInsight_GeneratesThenServesFromCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.meals.Save(ctx, &nutrition.MealRecord{
		ID: uuid.New(), DogID: e.dog.ID, OwnerID: e.dog.OwnerID, MealType: nutrition.MealDinner,
		FoodName: "Salmon kibble", Calories: 400, FedAt: fixedNow.Add(-24 * time.Hour),
	}))

	first, err := e.uc.GetDogInsight(ctx, e.dog.OwnerID, e.dog.ID, "nutrition")
	require.NoError(t, err)
	assert.Equal(t, "Feed a little less.", first.Content)
	assert.Equal(t, "fake-model", first.Model)
	assert.False(t, first.Cached)

	require.Equal(t, 1, e.llm.Calls())
	prompt := e.llm.Prompts[0]
	require.Len(t, prompt, 2)
	assert.Contains(t, prompt[1].Content, "Miso (Shiba Inu)")
	assert.Contains(t, prompt[1].Content, "Salmon kibble")
	assert.Contains(t, prompt[1].Content, "Daily calorie target")

	second, err := e.uc.GetDogInsight(ctx, e.dog.OwnerID, e.dog.ID, "nutrition")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, e.llm.Calls())
}

func TestGetDogInsight_RejectsUnknownKindAndForeignOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.GetDogInsight(ctx, e.dog.OwnerID, e.dog.ID, "lifestyle")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	require.NoError(t, e.cache.Set(ctx, &insight.Insight{Kind: insight.KindHealth, SubjectID: e.dog.ID, Content: "secret"}, time.Hour))
	_, err = e.uc.GetDogInsight(ctx, uuid.New(), e.dog.ID, "health")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, e.llm.Calls())
}

func TestGetDogInsight_PropagatesGatewayErrors(t *testing.T) {
	e := newEnv(t)
	e.llm.Err = apperror.NewRateLimited("gateway returned 429", nil)

	_, err := e.uc.GetDogInsight(context.Background(), e.dog.OwnerID, e.dog.ID, "activity")
	assert.ErrorIs(t, err, apperror.ErrRateLimited)
	assert.Empty(t, e.cache.Items)
}

func TestLifestyleGuide(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ownerID := uuid.New()

	_, err := e.uc.LifestyleGuide(ctx, ownerID)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	require.NoError(t, e.lifestyle.Upsert(ctx, &lifestyle.Profile{OwnerID: ownerID, HomeType: "apartment", HoursAlone: 8, OtherPets: []string{"cat"}}))
	e.llm.Reply = "Consider a calm adult dog."

	out, err := e.uc.LifestyleGuide(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, insight.KindLifestyle, out.Kind)
	assert.Equal(t, ownerID, out.SubjectID)
	assert.Contains(t, e.llm.Prompts[0][1].Content, "Other pets: cat")
}
