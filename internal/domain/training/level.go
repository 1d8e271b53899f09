package training

import "errors"

// ProficiencyLevel is a dog-skill's mastery stage. Levels are ordered basic < generalized < proofed.
type ProficiencyLevel string

const (
	LevelBasic       ProficiencyLevel = "basic"
	LevelGeneralized ProficiencyLevel = "generalized"
	LevelProofed     ProficiencyLevel = "proofed"
)

var ErrInvalidLevel = errors.New("invalid proficiency level")

// AllLevels returns the levels in ascending order.
func AllLevels() []ProficiencyLevel {
	return []ProficiencyLevel{LevelBasic, LevelGeneralized, LevelProofed}
}

// Rank is the level's position in the ordering, or -1 for an unknown level.
func (l ProficiencyLevel) Rank() int {
	switch l {
	case LevelBasic:
		return 0
	case LevelGeneralized:
		return 1
	case LevelProofed:
		return 2
	default:
		return -1
	}
}

func (l ProficiencyLevel) Valid() bool {
	return l.Rank() >= 0
}

// Next returns the successor level. ok is false for proofed and for unknown levels.
func (l ProficiencyLevel) Next() (next ProficiencyLevel, ok bool) {
	levels := AllLevels()
	r := l.Rank()
	if r < 0 || r+1 >= len(levels) {
		return "", false
	}
	return levels[r+1], true
}

func ParseLevel(s string) (ProficiencyLevel, error) {
	l := ProficiencyLevel(s)
	if !l.Valid() {
		return "", ErrInvalidLevel
	}
	return l, nil
}

// PracticeContext tags the environment a session took place in.
type PracticeContext string

const (
	ContextIndoorControlled   PracticeContext = "indoor_controlled"
	ContextIndoorDistractions PracticeContext = "indoor_distractions"
	ContextOutdoorQuiet       PracticeContext = "outdoor_quiet"
	ContextOutdoorBusy        PracticeContext = "outdoor_busy"
	ContextNovelLocation      PracticeContext = "novel_location"
	ContextWithDogs           PracticeContext = "with_dogs"
	ContextWithPeople         PracticeContext = "with_people"
)

var ErrInvalidContext = errors.New("invalid practice context")

func (c PracticeContext) Valid() bool {
	switch c {
	case ContextIndoorControlled, ContextIndoorDistractions, ContextOutdoorQuiet,
		ContextOutdoorBusy, ContextNovelLocation, ContextWithDogs, ContextWithPeople:
		return true
	}
	return false
}
