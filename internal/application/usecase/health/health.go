package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/health"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

const (
	defaultUpcomingDays = 30
	maxUpcomingDays     = 365
)

type HealthUseCase struct {
	dogRepo dog.Repository
	repo    health.Repository
	events  service.EventPublisher
	logger  logger.Logger
	now     func() time.Time
}

func NewHealthUseCase(dr dog.Repository, r health.Repository, events service.EventPublisher, log logger.Logger) *HealthUseCase {
	return &HealthUseCase{dogRepo: dr, repo: r, events: events, logger: log, now: time.Now}
}

type RecordInput struct {
	OwnerID    uuid.UUID
	DogID      uuid.UUID
	RecordType health.RecordType
	Title      string
	Notes      string
	RecordedAt *time.Time
	NextDueAt  *time.Time
	WeightKg   *float64
	Metadata   map[string]any
}

func (uc *HealthUseCase) CreateRecord(ctx context.Context, in RecordInput) (*health.Record, error) {
	if _, err := uc.dogRepo.FindByID(ctx, in.DogID, in.OwnerID); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	rec := &health.Record{
		ID:        uuid.New(),
		DogID:     in.DogID,
		OwnerID:   in.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(rec, in, now)
	if err := rec.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("health record validation failed", err)
	}
	if err := uc.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	uc.publish(ctx, rec)
	return rec, nil
}

func (uc *HealthUseCase) UpdateRecord(ctx context.Context, id uuid.UUID, in RecordInput) (*health.Record, error) {
	rec, err := uc.repo.FindByID(ctx, id, in.OwnerID)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	apply(rec, in, rec.RecordedAt)
	if err := rec.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("health record validation failed", err)
	}
	rec.UpdatedAt = now
	if err := uc.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	uc.publish(ctx, rec)
	return rec, nil
}

func (uc *HealthUseCase) DeleteRecord(ctx context.Context, id, ownerID uuid.UUID) error {
	rec, err := uc.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	uc.publish(ctx, rec)
	return nil
}

func (uc *HealthUseCase) GetRecord(ctx context.Context, id, ownerID uuid.UUID) (*health.Record, error) {
	return uc.repo.FindByID(ctx, id, ownerID)
}

func (uc *HealthUseCase) ListRecords(ctx context.Context, ownerID, dogID uuid.UUID, recordType string, page, limit int) ([]*health.Record, error) {
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
	return uc.repo.ListByDog(ctx, dogID, ownerID, recordType, limit, offset)
}

// Upcoming returns records whose follow-up falls within the next days (30 when days <= 0, at most 365).
func (uc *HealthUseCase) Upcoming(ctx context.Context, ownerID, dogID uuid.UUID, days int) ([]*health.Record, error) {
	if _, err := uc.dogRepo.FindByID(ctx, dogID, ownerID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultUpcomingDays
	}
	if days > maxUpcomingDays {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("days must be at most %d", maxUpcomingDays), nil)
	}
	from := uc.now().UTC()
	to := from.AddDate(0, 0, days)
	return uc.repo.ListDueBetween(ctx, dogID, ownerID, from, to)
}

func apply(rec *health.Record, in RecordInput, defaultRecordedAt time.Time) {
	rec.RecordType = in.RecordType
	rec.Title = strings.TrimSpace(in.Title)
	rec.Notes = in.Notes
	rec.RecordedAt = defaultRecordedAt
	if in.RecordedAt != nil {
		rec.RecordedAt = in.RecordedAt.UTC()
	}
	rec.NextDueAt = in.NextDueAt
	rec.WeightKg = in.WeightKg
	rec.Metadata = in.Metadata
	if rec.Metadata == nil {
		rec.Metadata = map[string]any{}
	}
}

func (uc *HealthUseCase) publish(ctx context.Context, rec *health.Record) {
	err := uc.events.PublishDogEvent(ctx, service.DogEventPayload{
		EventType: service.EventHealthRecorded,
		DogID:     rec.DogID,
		OwnerID:   rec.OwnerID,
		Data:      map[string]any{"record_id": rec.ID.String(), "record_type": string(rec.RecordType)},
		Timestamp: uc.now().UTC(),
	})
	if err != nil {
		uc.logger.Warn("Failed to publish dog event", zap.String("record_id", rec.ID.String()), zap.Error(err))
	}
}
