package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/health"
	"github.com/khoahotran/pawpal/internal/testutil"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*HealthUseCase, *testutil.EventPublisher, *dog.Dog) {
	t.Helper()
	dogs := testutil.NewDogRepo()
	d := dogs.Add(&dog.Dog{ID: uuid.New(), OwnerID: uuid.New(), Name: "Miso"})
	events := testutil.NewEventPublisher()
	uc := NewHealthUseCase(dogs, testutil.NewHealthRepo(), events, logger.NewNop())
	uc.now = func() time.Time { return fixedNow }
	return uc, events, d
}

func TestCreateRecord_PublishesEvent(t *testing.T) {
	uc, events, d := setup(t)

	rec, err := uc.CreateRecord(context.Background(), RecordInput{
		OwnerID:    d.OwnerID,
		DogID:      d.ID,
		RecordType: health.TypeVaccination,
		Title:      " Rabies ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rabies", rec.Title)
	assert.Equal(t, fixedNow, rec.RecordedAt)

	require.Len(t, events.DogEvents, 1)
	assert.Equal(t, service.EventHealthRecorded, events.DogEvents[0].EventType)
	assert.Equal(t, d.ID, events.DogEvents[0].DogID)
}

func TestCreateRecord_Validation(t *testing.T) {
	uc, _, d := setup(t)
	ctx := context.Background()

	_, err := uc.CreateRecord(ctx, RecordInput{OwnerID: d.OwnerID, DogID: d.ID, RecordType: health.TypeWeightCheck, Title: "Weigh-in"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.CreateRecord(ctx, RecordInput{OwnerID: uuid.New(), DogID: d.ID, RecordType: health.TypeOther, Title: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateRecord_PublishFailureDoesNotFailWrite(t *testing.T) {
	uc, events, d := setup(t)
	events.Err = errors.New("broker down")

	_, err := uc.CreateRecord(context.Background(), RecordInput{OwnerID: d.OwnerID, DogID: d.ID, RecordType: health.TypeVetVisit, Title: "Checkup"})
	assert.NoError(t, err)
}

func TestUpcoming_Window(t *testing.T) {
	uc, _, d := setup(t)
	ctx := context.Background()

	due := func(days int) *time.Time {
		v := fixedNow.AddDate(0, 0, days)
		return &v
	}
	past := fixedNow.AddDate(0, -6, 0)
	for _, days := range []int{5, 29, 45} {
		_, err := uc.CreateRecord(ctx, RecordInput{
			OwnerID:    d.OwnerID,
			DogID:      d.ID,
			RecordType: health.TypeDeworming,
			Title:      "Deworming",
			RecordedAt: &past,
			NextDueAt:  due(days),
		})
		require.NoError(t, err)
	}

	recs, err := uc.Upcoming(ctx, d.OwnerID, d.ID, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, *due(5), *recs[0].NextDueAt)

	recs, err = uc.Upcoming(ctx, d.OwnerID, d.ID, 60)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	recs, err = uc.Upcoming(ctx, d.OwnerID, d.ID, 365)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestUpcoming_RejectsOversizedWindow(t *testing.T) {
	uc, _, d := setup(t)

	for _, days := range []int{366, 1_000_000_000} {
		_, err := uc.Upcoming(context.Background(), d.OwnerID, d.ID, days)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "days=%d", days)
	}
}

func TestListRecords_FiltersByType(t *testing.T) {
	uc, _, d := setup(t)
	ctx := context.Background()

	w := 9.1
	_, err := uc.CreateRecord(ctx, RecordInput{OwnerID: d.OwnerID, DogID: d.ID, RecordType: health.TypeWeightCheck, Title: "Weigh-in", WeightKg: &w})
	require.NoError(t, err)
	_, err = uc.CreateRecord(ctx, RecordInput{OwnerID: d.OwnerID, DogID: d.ID, RecordType: health.TypeVetVisit, Title: "Checkup"})
	require.NoError(t, err)

	all, err := uc.ListRecords(ctx, d.OwnerID, d.ID, "", 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	weights, err := uc.ListRecords(ctx, d.OwnerID, d.ID, string(health.TypeWeightCheck), 1, 0)
	require.NoError(t, err)
	require.Len(t, weights, 1)
	assert.Equal(t, 9.1, *weights[0].WeightKg)
}
