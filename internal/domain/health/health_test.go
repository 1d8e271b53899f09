package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Validate(t *testing.T) {
	at := time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC)
	due := at.AddDate(1, 0, 0)

	r := &Record{RecordType: TypeVaccination, Title: "Rabies", RecordedAt: at, NextDueAt: &due}
	assert.NoError(t, r.Validate())

	r.RecordType = "grooming"
	assert.ErrorIs(t, r.Validate(), ErrInvalidRecordType)

	r = &Record{RecordType: TypeWeightCheck, Title: "Monthly weigh-in", RecordedAt: at}
	assert.ErrorIs(t, r.Validate(), ErrWeightRequired)

	past := at.AddDate(0, -1, 0)
	r = &Record{RecordType: TypeDeworming, Title: "Tablet", RecordedAt: at, NextDueAt: &past}
	assert.ErrorIs(t, r.Validate(), ErrDueBeforeRecorded)
}

func TestRecord_DueWithin(t *testing.T) {
	now := time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC)
	window := 30 * 24 * time.Hour

	soon := now.AddDate(0, 0, 12)
	later := now.AddDate(0, 3, 0)
	overdue := now.AddDate(0, 0, -1)

	assert.True(t, (&Record{NextDueAt: &soon}).DueWithin(now, window))
	assert.False(t, (&Record{NextDueAt: &later}).DueWithin(now, window))
	assert.False(t, (&Record{NextDueAt: &overdue}).DueWithin(now, window))
	assert.False(t, (&Record{}).DueWithin(now, window))
}
