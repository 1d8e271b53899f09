package dog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/internal/domain/roadmap"
)

const (
	SexMale    = "male"
	SexFemale  = "female"
	SexUnknown = "unknown"
)

type Dog struct {
	ID            uuid.UUID               `json:"id"`
	OwnerID       uuid.UUID               `json:"owner_id"`
	Name          string                  `json:"name"`
	Breed         string                  `json:"breed"`
	Sex           string                  `json:"sex"`
	BirthDate     *time.Time              `json:"birth_date"`
	WeightKg      *float64                `json:"weight_kg"`
	ActivityLevel nutrition.ActivityLevel `json:"activity_level"`
	Neutered      bool                    `json:"neutered"`
	PhotoURL      *string                 `json:"photo_url"`
	Metadata      map[string]any          `json:"metadata"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

var (
	ErrDogNotFound     = errors.New("dog not found")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidSex      = errors.New("sex must be male, female or unknown")
	ErrInvalidWeight   = errors.New("weight must be positive")
	ErrInvalidActivity = errors.New("invalid activity level")
	ErrBirthInFuture   = errors.New("birth date cannot be in the future")
)

func (d *Dog) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Breed = strings.TrimSpace(d.Breed)
	if d.Sex == "" {
		d.Sex = SexUnknown
	}
	if d.ActivityLevel == "" {
		d.ActivityLevel = nutrition.ActivityModerate
	}
	if d.Metadata == nil {
		d.Metadata = map[string]any{}
	}
}

func (d *Dog) Validate(now time.Time) error {
	if d.Name == "" {
		return ErrNameRequired
	}
	switch d.Sex {
	case SexMale, SexFemale, SexUnknown:
	default:
		return ErrInvalidSex
	}
	if d.WeightKg != nil && *d.WeightKg <= 0 {
		return ErrInvalidWeight
	}
	if !d.ActivityLevel.Valid() {
		return ErrInvalidActivity
	}
	if d.BirthDate != nil && d.BirthDate.After(now) {
		return ErrBirthInFuture
	}
	return nil
}

func (d *Dog) AgeInWeeks(now time.Time) int {
	return roadmap.AgeInWeeks(d.BirthDate, now)
}

func (d *Dog) NutritionProfile(now time.Time) nutrition.Profile {
	return nutrition.Profile{
		WeightKg: d.WeightKg,
		AgeWeeks: d.AgeInWeeks(now),
		Activity: d.ActivityLevel,
		Neutered: d.Neutered,
	}
}

type Repository interface {
	Save(ctx context.Context, d *Dog) error
	Update(ctx context.Context, d *Dog) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Dog, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Dog, error)
}

// PreferenceStore keeps small per-user UI preferences.
type PreferenceStore interface {
	GetSelectedDog(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, bool, error)
	SetSelectedDog(ctx context.Context, ownerID, dogID uuid.UUID) error
	ClearSelectedDog(ctx context.Context, ownerID uuid.UUID) error
}
