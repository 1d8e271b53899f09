package training

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

// Requirement is the reference row a dog-skill must satisfy to reach Level.
type Requirement struct {
	SkillID          uuid.UUID         `json:"skill_id"`
	Level            ProficiencyLevel  `json:"level"`
	MinSessions      int               `json:"min_sessions"`
	RequiredContexts []PracticeContext `json:"required_contexts"`
	Description      string            `json:"description"`
}

// DogSkill tracks one skill for one dog.
type DogSkill struct {
	ID              uuid.UUID         `json:"id"`
	DogID           uuid.UUID         `json:"dog_id"`
	SkillID         uuid.UUID         `json:"skill_id"`
	Level           ProficiencyLevel  `json:"level"`
	LastPracticedAt *time.Time        `json:"last_practiced_at"`
	ContextsSeen    []PracticeContext `json:"contexts_seen"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Session is an append-only practice record.
type Session struct {
	ID          uuid.UUID       `json:"id"`
	DogSkillID  uuid.UUID       `json:"dog_skill_id"`
	Context     PracticeContext `json:"context"`
	SuccessRate float64         `json:"success_rate"`
	Notes       string          `json:"notes"`
	PracticedAt time.Time       `json:"practiced_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

var (
	ErrSkillNotFound       = errors.New("skill not found")
	ErrDogSkillNotFound    = errors.New("dog skill not found")
	ErrInvalidSuccessRate  = errors.New("success rate must be between 0 and 100")
	ErrNotEligible         = errors.New("dog skill does not meet the requirement for the next level")
	ErrAlreadyAtFinalLevel = errors.New("dog skill is already at the final level")
	ErrStaleLevel          = errors.New("dog skill level changed since it was read")
)

func (s *Session) Validate() error {
	if !s.Context.Valid() {
		return ErrInvalidContext
	}
	if s.SuccessRate < 0 || s.SuccessRate > 100 {
		return ErrInvalidSuccessRate
	}
	return nil
}

// RecordPractice folds a new session into the dog-skill's running state.
func (ds *DogSkill) RecordPractice(s Session) {
	if ds.LastPracticedAt == nil || s.PracticedAt.After(*ds.LastPracticedAt) {
		t := s.PracticedAt
		ds.LastPracticedAt = &t
	}
	if !slices.Contains(ds.ContextsSeen, s.Context) {
		ds.ContextsSeen = append(ds.ContextsSeen, s.Context)
	}
}

// Promote advances the dog-skill by exactly one level when ev allows it.
func (ds *DogSkill) Promote(ev Evaluation) error {
	if ev.NextLevel == nil {
		return ErrAlreadyAtFinalLevel
	}
	if ev.CurrentLevel != ds.Level || !ev.Eligible {
		return ErrNotEligible
	}
	ds.Level = *ev.NextLevel
	return nil
}

// RequirementSet indexes a skill's requirement rows by level.
type RequirementSet map[ProficiencyLevel]Requirement

func NewRequirementSet(reqs []Requirement) RequirementSet {
	set := make(RequirementSet, len(reqs))
	for _, r := range reqs {
		set[r.Level] = r
	}
	return set
}

type SkillRepository interface {
	ListSkills(ctx context.Context) ([]*Skill, error)
	FindSkillByID(ctx context.Context, id uuid.UUID) (*Skill, error)
	ListRequirements(ctx context.Context, skillID uuid.UUID) ([]Requirement, error)
	ListAllRequirements(ctx context.Context) ([]Requirement, error)
}

type Repository interface {
	CreateDogSkill(ctx context.Context, ds *DogSkill) error
	FindDogSkill(ctx context.Context, dogID, skillID uuid.UUID) (*DogSkill, error)
	ListDogSkills(ctx context.Context, dogID uuid.UUID) ([]*DogSkill, error)
	// UpdateLevel writes ds.Level only while the stored level is still from.
	UpdateLevel(ctx context.Context, ds *DogSkill, from ProficiencyLevel) error
	// AppendSession stores s and folds it into the stored dog-skill state atomically.
	// ds is refreshed from the stored row.
	AppendSession(ctx context.Context, ds *DogSkill, s *Session) error
	ListSessions(ctx context.Context, dogSkillID uuid.UUID, limit, offset int) ([]*Session, error)
	// AllSessions returns the dog-skill's full history, oldest first.
	AllSessions(ctx context.Context, dogSkillID uuid.UUID) ([]Session, error)
}

// RequirementCache holds the full requirement table, which only changes on reseed.
type RequirementCache interface {
	GetRequirements(ctx context.Context) ([]Requirement, bool, error)
	SetRequirements(ctx context.Context, reqs []Requirement, ttl time.Duration) error
}
