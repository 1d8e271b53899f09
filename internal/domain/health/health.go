package health

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type RecordType string

const (
	TypeVaccination RecordType = "vaccination"
	TypeVetVisit    RecordType = "vet_visit"
	TypeMedication  RecordType = "medication"
	TypeDeworming   RecordType = "deworming"
	TypeWeightCheck RecordType = "weight_check"
	TypeOther       RecordType = "other"
)

type Record struct {
	ID         uuid.UUID      `json:"id"`
	DogID      uuid.UUID      `json:"dog_id"`
	OwnerID    uuid.UUID      `json:"owner_id"`
	RecordType RecordType     `json:"record_type"`
	Title      string         `json:"title"`
	Notes      string         `json:"notes"`
	RecordedAt time.Time      `json:"recorded_at"`
	NextDueAt  *time.Time     `json:"next_due_at"`
	WeightKg   *float64       `json:"weight_kg"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

var (
	ErrRecordNotFound    = errors.New("health record not found")
	ErrInvalidRecordType = errors.New("invalid health record type")
	ErrWeightRequired    = errors.New("weight_check records need a positive weight")
	ErrDueBeforeRecorded = errors.New("next due date must be after the recorded date")
)

func (r *Record) Validate() error {
	switch r.RecordType {
	case TypeVaccination, TypeVetVisit, TypeMedication, TypeDeworming, TypeOther:
	case TypeWeightCheck:
		if r.WeightKg == nil || *r.WeightKg <= 0 {
			return ErrWeightRequired
		}
	default:
		return ErrInvalidRecordType
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.NextDueAt != nil && !r.NextDueAt.After(r.RecordedAt) {
		return ErrDueBeforeRecorded
	}
	return nil
}

// DueWithin reports whether the record has a follow-up in [now, now+window].
func (r *Record) DueWithin(now time.Time, window time.Duration) bool {
	if r.NextDueAt == nil {
		return false
	}
	return !r.NextDueAt.Before(now) && !r.NextDueAt.After(now.Add(window))
}

type Repository interface {
	Save(ctx context.Context, r *Record) error
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Record, error)
	ListByDog(ctx context.Context, dogID, ownerID uuid.UUID, recordType string, limit, offset int) ([]*Record, error)
	ListDueBetween(ctx context.Context, dogID, ownerID uuid.UUID, from, to time.Time) ([]*Record, error)
}
