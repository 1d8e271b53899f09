package nutrition

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

const dateLayout = "2006-01-02"

type NutritionUseCase struct {
	dogRepo dog.Repository
	repo    nutrition.Repository
	events  service.EventPublisher
	logger  logger.Logger
	now     func() time.Time
}

func NewNutritionUseCase(dr dog.Repository, r nutrition.Repository, events service.EventPublisher, log logger.Logger) *NutritionUseCase {
	return &NutritionUseCase{dogRepo: dr, repo: r, events: events, logger: log, now: time.Now}
}

type MealInput struct {
	OwnerID     uuid.UUID
	DogID       uuid.UUID
	MealType    nutrition.MealType
	FoodName    string
	AmountGrams float64
	Calories    float64
	Notes       string
	FedAt       *time.Time
}

func (uc *NutritionUseCase) LogMeal(ctx context.Context, in MealInput) (*nutrition.MealRecord, error) {
	if _, err := uc.dogRepo.FindByID(ctx, in.DogID, in.OwnerID); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	m := &nutrition.MealRecord{
		ID:        uuid.New(),
		DogID:     in.DogID,
		OwnerID:   in.OwnerID,
		FedAt:     now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(m, in)
	if err := m.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("meal validation failed", err)
	}
	if err := uc.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	uc.publish(ctx, m)
	return m, nil
}

func (uc *NutritionUseCase) UpdateMeal(ctx context.Context, id uuid.UUID, in MealInput) (*nutrition.MealRecord, error) {
	m, err := uc.repo.FindByID(ctx, id, in.OwnerID)
	if err != nil {
		return nil, err
	}
	apply(m, in)
	if err := m.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("meal validation failed", err)
	}
	m.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	uc.publish(ctx, m)
	return m, nil
}

func (uc *NutritionUseCase) DeleteMeal(ctx context.Context, id, ownerID uuid.UUID) error {
	m, err := uc.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	uc.publish(ctx, m)
	return nil
}

func (uc *NutritionUseCase) ListMeals(ctx context.Context, ownerID, dogID uuid.UUID, page, limit int) ([]*nutrition.MealRecord, error) {
	if _, err := uc.dogRepo.FindByID(ctx, dogID, ownerID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	return uc.repo.ListByDog(ctx, dogID, ownerID, limit, offset)
}

// DailySummary totals the UTC day given as YYYY-MM-DD; an empty date means today.
func (uc *NutritionUseCase) DailySummary(ctx context.Context, ownerID, dogID uuid.UUID, date string) (*nutrition.DailySummary, error) {
	d, err := uc.dogRepo.FindByID(ctx, dogID, ownerID)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	day := now.Truncate(24 * time.Hour)
	if date != "" {
		day, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, apperror.NewInvalidInput("date must be YYYY-MM-DD", err)
		}
	}

	meals, err := uc.repo.ListBetween(ctx, dogID, ownerID, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	// target uses the dog's age at the end of that day, never later than now
	asOf := day.Add(24*time.Hour - time.Nanosecond)
	if asOf.After(now) {
		asOf = now
	}
	s := nutrition.Summarize(day.Format(dateLayout), d.NutritionProfile(asOf), meals)
	return &s, nil
}

func apply(m *nutrition.MealRecord, in MealInput) {
	m.MealType = in.MealType
	m.FoodName = strings.TrimSpace(in.FoodName)
	m.AmountGrams = in.AmountGrams
	m.Calories = in.Calories
	m.Notes = in.Notes
	if in.FedAt != nil {
		m.FedAt = in.FedAt.UTC()
	}
}

func (uc *NutritionUseCase) publish(ctx context.Context, m *nutrition.MealRecord) {
	err := uc.events.PublishDogEvent(ctx, service.DogEventPayload{
		EventType: service.EventMealLogged,
		DogID:     m.DogID,
		OwnerID:   m.OwnerID,
		Data:      map[string]any{"meal_id": m.ID.String(), "meal_type": string(m.MealType)},
		Timestamp: uc.now().UTC(),
	})
	if err != nil {
		uc.logger.Warn("Failed to publish dog event", zap.String("meal_id", m.ID.String()), zap.Error(err))
	}
}
