package lifestyle

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/pawpal/internal/domain/insight"
	"github.com/khoahotran/pawpal/internal/testutil"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

func TestGetProfile_EmptyBeforeFirstSave(t *testing.T) {
	uc := NewLifestyleUseCase(testutil.NewLifestyleRepo(), testutil.NewInsightCache(), logger.NewNop())
	ownerID := uuid.New()

	p, err := uc.GetProfile(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, p.OwnerID)
	assert.Empty(t, p.OtherPets)
}

func TestUpdateProfile_StoresAndEvictsGuide(t *testing.T) {
	cache := testutil.NewInsightCache()
	uc := NewLifestyleUseCase(testutil.NewLifestyleRepo(), cache, logger.NewNop())
	ctx := context.Background()
	ownerID := uuid.New()

	require.NoError(t, cache.Set(ctx, &insight.Insight{Kind: insight.KindLifestyle, SubjectID: ownerID, Content: "old"}, time.Hour))

	_, err := uc.UpdateProfile(ctx, UpdateProfileInput{OwnerID: ownerID, HomeType: "apartment", HoursAlone: 6, OtherPets: []string{"cat"}})
	require.NoError(t, err)

	p, err := uc.GetProfile(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "apartment", p.HomeType)
	assert.Equal(t, []string{"cat"}, p.OtherPets)

	_, ok, err := cache.Get(ctx, ownerID, insight.KindLifestyle)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateProfile_RejectsImpossibleHours(t *testing.T) {
	uc := NewLifestyleUseCase(testutil.NewLifestyleRepo(), testutil.NewInsightCache(), logger.NewNop())
	_, err := uc.UpdateProfile(context.Background(), UpdateProfileInput{OwnerID: uuid.New(), HoursAlone: 30})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
