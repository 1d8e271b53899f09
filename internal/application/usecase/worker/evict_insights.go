package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/insight"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type EvictInsightsUseCase struct {
	cache  insight.Cache
	logger logger.Logger
}

func NewEvictInsightsUseCase(cache insight.Cache, log logger.Logger) *EvictInsightsUseCase {
	return &EvictInsightsUseCase{cache: cache, logger: log}
}

// Execute drops every cached insight for the dog named in the event.
func (uc *EvictInsightsUseCase) Execute(ctx context.Context, payload service.DogEventPayload) error {
	l := uc.logger.With(zap.String("dog_id", payload.DogID.String()), zap.String("event_type", payload.EventType))
	if err := uc.cache.Evict(ctx, payload.DogID); err != nil {
		return apperror.NewInternal("failed to evict dog insights", err)
	}
	l.Info("Evicted cached insights")
	return nil
}
