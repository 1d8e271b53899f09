package lifestyle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Profile captures a prospective owner's answers for the pre-purchase guide.
type Profile struct {
	OwnerID       uuid.UUID      `json:"owner_id"`
	HomeType      string         `json:"home_type"`
	HasYard       bool           `json:"has_yard"`
	HoursAlone    int            `json:"hours_alone"`
	ActivityLevel string         `json:"activity_level"`
	Experience    string         `json:"experience"`
	HasChildren   bool           `json:"has_children"`
	OtherPets     []string       `json:"other_pets"`
	Answers       map[string]any `json:"answers"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Empty returns the profile served before an owner has answered anything.
func Empty(ownerID uuid.UUID) *Profile {
	return &Profile{
		OwnerID:   ownerID,
		OtherPets: []string{},
		Answers:   map[string]any{},
	}
}

var ErrInvalidHoursAlone = errors.New("hours alone must be between 0 and 24")

func (p *Profile) Validate() error {
	if p.HoursAlone < 0 || p.HoursAlone > 24 {
		return ErrInvalidHoursAlone
	}
	return nil
}

type Repository interface {
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
