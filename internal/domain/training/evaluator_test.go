package training

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sitID = uuid.MustParse("6f1c1b8e-3f0a-4a43-9c1e-1a0d6f2a5b10")

func sitRequirements() RequirementSet {
	return NewRequirementSet([]Requirement{
		{SkillID: sitID, Level: LevelBasic, MinSessions: 0},
		{
			SkillID:          sitID,
			Level:            LevelGeneralized,
			MinSessions:      5,
			RequiredContexts: []PracticeContext{ContextIndoorControlled, ContextOutdoorQuiet},
		},
		{
			SkillID:          sitID,
			Level:            LevelProofed,
			MinSessions:      10,
			RequiredContexts: []PracticeContext{ContextOutdoorBusy, ContextNovelLocation},
		},
	})
}

func sessions(rates []float64, contexts ...PracticeContext) []Session {
	out := make([]Session, len(rates))
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, r := range rates {
		out[i] = Session{
			ID:          uuid.New(),
			Context:     contexts[i%len(contexts)],
			SuccessRate: r,
			PracticedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestEvaluate_ZeroSessionsNeverEligible(t *testing.T) {
	reqs := NewRequirementSet([]Requirement{{Level: LevelGeneralized, MinSessions: 0}})

	ev := Evaluate(LevelBasic, nil, reqs)

	assert.False(t, ev.Eligible)
	assert.Equal(t, 0, ev.SessionCount)
	assert.Zero(t, ev.AverageSuccessRate)
	require.NotNil(t, ev.NextLevel)
	assert.Equal(t, LevelGeneralized, *ev.NextLevel)
}

func TestEvaluate_ExampleSitGeneralized(t *testing.T) {
	ss := sessions(
		[]float64{80, 84, 82, 78, 86, 82},
		ContextIndoorControlled, ContextOutdoorQuiet, ContextOutdoorBusy,
	)

	ev := Evaluate(LevelBasic, ss, sitRequirements())

	assert.True(t, ev.Eligible)
	require.NotNil(t, ev.NextLevel)
	assert.Equal(t, LevelGeneralized, *ev.NextLevel)
	require.NotNil(t, ev.NextRequirement)
	assert.Equal(t, 5, ev.NextRequirement.MinSessions)
	assert.Equal(t, 6, ev.SessionCount)
	assert.InDelta(t, 82.0, ev.AverageSuccessRate, 1e-9)
	assert.ElementsMatch(t,
		[]PracticeContext{ContextIndoorControlled, ContextOutdoorQuiet, ContextOutdoorBusy},
		ev.DistinctContexts)
	assert.Empty(t, ev.MissingContexts)
}

func TestEvaluate_ExactlySeventyIsEligible(t *testing.T) {
	ss := sessions([]float64{60, 80, 70, 70, 70}, ContextIndoorControlled, ContextOutdoorQuiet, ContextWithDogs)

	ev := Evaluate(LevelBasic, ss, sitRequirements())

	assert.Equal(t, 70.0, ev.AverageSuccessRate)
	assert.True(t, ev.Eligible)
}

func TestEvaluate_JustBelowThresholdNotEligible(t *testing.T) {
	ss := sessions([]float64{69.999, 69.999, 69.999, 69.999, 69.999}, ContextIndoorControlled, ContextOutdoorQuiet)

	ev := Evaluate(LevelBasic, ss, sitRequirements())

	assert.InDelta(t, 69.999, ev.AverageSuccessRate, 1e-9)
	assert.False(t, ev.Eligible)
}

func TestEvaluate_ProofedHasNoSuccessor(t *testing.T) {
	ss := sessions([]float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100},
		ContextOutdoorBusy, ContextNovelLocation)

	ev := Evaluate(LevelProofed, ss, sitRequirements())

	assert.False(t, ev.Eligible)
	assert.Nil(t, ev.NextLevel)
	assert.Nil(t, ev.NextRequirement)
}

func TestEvaluate_MissingContextBlocks(t *testing.T) {
	ss := sessions([]float64{90, 90, 90, 90, 90, 90}, ContextIndoorControlled)

	ev := Evaluate(LevelBasic, ss, sitRequirements())

	assert.False(t, ev.Eligible)
	assert.Equal(t, []PracticeContext{ContextOutdoorQuiet}, ev.MissingContexts)
}

func TestEvaluate_TooFewSessionsBlocks(t *testing.T) {
	ss := sessions([]float64{95, 95, 95}, ContextIndoorControlled, ContextOutdoorQuiet)

	ev := Evaluate(LevelBasic, ss, sitRequirements())

	assert.False(t, ev.Eligible)
	assert.Equal(t, 2, ev.SessionsRemaining)
}

func TestEvaluate_DuplicateRequiredContextIsSetContainment(t *testing.T) {
	reqs := NewRequirementSet([]Requirement{{
		Level:            LevelGeneralized,
		MinSessions:      2,
		RequiredContexts: []PracticeContext{ContextOutdoorQuiet, ContextOutdoorQuiet},
	}})
	ss := sessions([]float64{75, 75}, ContextOutdoorQuiet)

	ev := Evaluate(LevelBasic, ss, reqs)

	assert.True(t, ev.Eligible)
	assert.Empty(t, ev.MissingContexts)
}

func TestEvaluate_MissingRequirementRowNotEligible(t *testing.T) {
	ss := sessions([]float64{100, 100}, ContextOutdoorQuiet)

	ev := Evaluate(LevelBasic, ss, RequirementSet{})

	assert.False(t, ev.Eligible)
	require.NotNil(t, ev.NextLevel)
	assert.Nil(t, ev.NextRequirement)
}

func TestEvaluate_IsPure(t *testing.T) {
	ss := sessions([]float64{80, 70, 90, 75, 85}, ContextIndoorControlled, ContextOutdoorQuiet)
	reqs := sitRequirements()

	first := Evaluate(LevelBasic, ss, reqs)
	second := Evaluate(LevelBasic, ss, reqs)

	assert.Equal(t, first, second)
}
