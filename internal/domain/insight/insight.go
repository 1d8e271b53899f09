package insight

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindNutrition Kind = "nutrition"
	KindActivity  Kind = "activity"
	KindHealth    Kind = "health"
	KindLifestyle Kind = "lifestyle"
)

var ErrInvalidKind = errors.New("insight kind must be nutrition, activity or health")

// DogKinds are the insight kinds generated per dog.
func DogKinds() []Kind {
	return []Kind{KindNutrition, KindActivity, KindHealth}
}

func ParseDogKind(s string) (Kind, error) {
	for _, k := range DogKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrInvalidKind
}

type Insight struct {
	Kind        Kind      `json:"kind"`
	SubjectID   uuid.UUID `json:"subject_id"`
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Cache stores generated insights keyed by subject (a dog or an owner) and kind.
type Cache interface {
	Get(ctx context.Context, subjectID uuid.UUID, kind Kind) (*Insight, bool, error)
	Set(ctx context.Context, in *Insight, ttl time.Duration) error
	Evict(ctx context.Context, subjectID uuid.UUID) error
}
