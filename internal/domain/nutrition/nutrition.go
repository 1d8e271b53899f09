package nutrition

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealTreat     MealType = "treat"
)

// IsTreat reports whether the meal counts against the treat budget.
func (m MealType) IsTreat() bool {
	return m == MealTreat || m == MealSnack
}

type MealRecord struct {
	ID          uuid.UUID `json:"id"`
	DogID       uuid.UUID `json:"dog_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	MealType    MealType  `json:"meal_type"`
	FoodName    string    `json:"food_name"`
	AmountGrams float64   `json:"amount_grams"`
	Calories    float64   `json:"calories"`
	Notes       string    `json:"notes"`
	FedAt       time.Time `json:"fed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrMealNotFound       = errors.New("meal record not found")
	ErrInvalidMealType    = errors.New("invalid meal type")
	ErrNegativeQuantities = errors.New("amount and calories cannot be negative")
)

func (m *MealRecord) Validate() error {
	switch m.MealType {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealTreat:
	default:
		return ErrInvalidMealType
	}
	if m.FoodName == "" {
		return errors.New("food name is required")
	}
	if m.AmountGrams < 0 || m.Calories < 0 {
		return ErrNegativeQuantities
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, m *MealRecord) error
	Update(ctx context.Context, m *MealRecord) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*MealRecord, error)
	ListByDog(ctx context.Context, dogID, ownerID uuid.UUID, limit, offset int) ([]*MealRecord, error)
	// ListBetween returns meals fed in [from, to).
	ListBetween(ctx context.Context, dogID, ownerID uuid.UUID, from, to time.Time) ([]*MealRecord, error)
}
