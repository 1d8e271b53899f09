package dog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type DogUseCase struct {
	repo   dog.Repository
	prefs  dog.PreferenceStore
	events service.EventPublisher
	logger logger.Logger
	now    func() time.Time
}

func NewDogUseCase(r dog.Repository, prefs dog.PreferenceStore, events service.EventPublisher, log logger.Logger) *DogUseCase {
	return &DogUseCase{repo: r, prefs: prefs, events: events, logger: log, now: time.Now}
}

type DogInput struct {
	OwnerID       uuid.UUID
	Name          string
	Breed         string
	Sex           string
	BirthDate     *time.Time
	WeightKg      *float64
	ActivityLevel nutrition.ActivityLevel
	Neutered      bool
	PhotoURL      *string
	Metadata      map[string]any
}

func (uc *DogUseCase) CreateDog(ctx context.Context, in DogInput) (*dog.Dog, error) {
	now := uc.now().UTC()
	d := &dog.Dog{
		ID:        uuid.New(),
		OwnerID:   in.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(d, in)
	d.Normalize()
	if err := d.Validate(now); err != nil {
		return nil, apperror.NewInvalidInput("dog validation failed", err)
	}
	if err := uc.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	uc.logger.Info("Dog created", zap.String("dog_id", d.ID.String()), zap.String("owner_id", d.OwnerID.String()))
	return d, nil
}

func (uc *DogUseCase) UpdateDog(ctx context.Context, id uuid.UUID, in DogInput) (*dog.Dog, error) {
	d, err := uc.repo.FindByID(ctx, id, in.OwnerID)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	applyInput(d, in)
	d.Normalize()
	if err := d.Validate(now); err != nil {
		return nil, apperror.NewInvalidInput("dog validation failed", err)
	}
	d.UpdatedAt = now
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	if err := uc.events.PublishDogEvent(ctx, service.DogEventPayload{
		EventType: service.EventDogUpdated,
		DogID:     d.ID,
		OwnerID:   d.OwnerID,
		Timestamp: now,
	}); err != nil {
		uc.logger.Warn("Failed to publish dog event", zap.String("dog_id", d.ID.String()), zap.Error(err))
	}
	return d, nil
}

func (uc *DogUseCase) DeleteDog(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	if selected, ok, err := uc.prefs.GetSelectedDog(ctx, ownerID); err == nil && ok && selected == id {
		if err := uc.prefs.ClearSelectedDog(ctx, ownerID); err != nil {
			uc.logger.Warn("Failed to clear selected dog", zap.String("owner_id", ownerID.String()), zap.Error(err))
		}
	}
	return nil
}

func (uc *DogUseCase) GetDog(ctx context.Context, id, ownerID uuid.UUID) (*dog.Dog, error) {
	return uc.repo.FindByID(ctx, id, ownerID)
}

func (uc *DogUseCase) ListDogs(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*dog.Dog, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	return uc.repo.ListByOwner(ctx, ownerID, limit, offset)
}

func applyInput(d *dog.Dog, in DogInput) {
	d.Name = in.Name
	d.Breed = in.Breed
	d.Sex = in.Sex
	d.BirthDate = in.BirthDate
	d.WeightKg = in.WeightKg
	d.ActivityLevel = in.ActivityLevel
	d.Neutered = in.Neutered
	d.PhotoURL = in.PhotoURL
	d.Metadata = in.Metadata
}
