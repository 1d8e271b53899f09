package training

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProficiencyLevel_Next(t *testing.T) {
	next, ok := LevelBasic.Next()
	assert.True(t, ok)
	assert.Equal(t, LevelGeneralized, next)

	next, ok = LevelGeneralized.Next()
	assert.True(t, ok)
	assert.Equal(t, LevelProofed, next)

	_, ok = LevelProofed.Next()
	assert.False(t, ok)

	_, ok = ProficiencyLevel("expert").Next()
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("generalized")
	require.NoError(t, err)
	assert.Equal(t, LevelGeneralized, l)

	_, err = ParseLevel("Basic")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestSession_Validate(t *testing.T) {
	s := Session{Context: ContextOutdoorBusy, SuccessRate: 100}
	assert.NoError(t, s.Validate())

	s.SuccessRate = 100.5
	assert.ErrorIs(t, s.Validate(), ErrInvalidSuccessRate)

	s = Session{Context: "beach", SuccessRate: 50}
	assert.ErrorIs(t, s.Validate(), ErrInvalidContext)
}

func TestDogSkill_RecordPractice(t *testing.T) {
	ds := &DogSkill{Level: LevelBasic}
	early := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	ds.RecordPractice(Session{Context: ContextIndoorControlled, PracticedAt: late})
	ds.RecordPractice(Session{Context: ContextIndoorControlled, PracticedAt: early})
	ds.RecordPractice(Session{Context: ContextOutdoorQuiet, PracticedAt: early})

	require.NotNil(t, ds.LastPracticedAt)
	assert.Equal(t, late, *ds.LastPracticedAt)
	assert.Equal(t, []PracticeContext{ContextIndoorControlled, ContextOutdoorQuiet}, ds.ContextsSeen)
}

func TestDogSkill_PromoteOneLevel(t *testing.T) {
	ds := &DogSkill{Level: LevelBasic}
	ss := sessions([]float64{80, 80, 80, 80, 80}, ContextIndoorControlled, ContextOutdoorQuiet)

	require.NoError(t, ds.Promote(Evaluate(ds.Level, ss, sitRequirements())))
	assert.Equal(t, LevelGeneralized, ds.Level)

	// Same history does not satisfy proofed.
	err := ds.Promote(Evaluate(ds.Level, ss, sitRequirements()))
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Equal(t, LevelGeneralized, ds.Level)
}

func TestDogSkill_PromoteStaleEvaluationRejected(t *testing.T) {
	ds := &DogSkill{Level: LevelGeneralized}
	ss := sessions([]float64{80, 80, 80, 80, 80}, ContextIndoorControlled, ContextOutdoorQuiet)

	err := ds.Promote(Evaluate(LevelBasic, ss, sitRequirements()))

	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Equal(t, LevelGeneralized, ds.Level)
}

func TestDogSkill_PromoteAtFinalLevel(t *testing.T) {
	ds := &DogSkill{Level: LevelProofed}

	err := ds.Promote(Evaluate(ds.Level, nil, sitRequirements()))

	assert.ErrorIs(t, err, ErrAlreadyAtFinalLevel)
}
