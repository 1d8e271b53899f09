package lifestyle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/insight"
	"github.com/khoahotran/pawpal/internal/domain/lifestyle"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type LifestyleUseCase struct {
	repo   lifestyle.Repository
	cache  insight.Cache
	logger logger.Logger
}

func NewLifestyleUseCase(repo lifestyle.Repository, cache insight.Cache, log logger.Logger) *LifestyleUseCase {
	return &LifestyleUseCase{repo: repo, cache: cache, logger: log}
}

func (uc *LifestyleUseCase) GetProfile(ctx context.Context, ownerID uuid.UUID) (*lifestyle.Profile, error) {
	return uc.repo.GetByOwnerID(ctx, ownerID)
}

type UpdateProfileInput struct {
	OwnerID       uuid.UUID
	HomeType      string
	HasYard       bool
	HoursAlone    int
	ActivityLevel string
	Experience    string
	HasChildren   bool
	OtherPets     []string
	Answers       map[string]any
}

// UpdateProfile replaces the owner's answers and drops the guide generated from the old ones.
func (uc *LifestyleUseCase) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*lifestyle.Profile, error) {
	p := &lifestyle.Profile{
		OwnerID:       in.OwnerID,
		HomeType:      in.HomeType,
		HasYard:       in.HasYard,
		HoursAlone:    in.HoursAlone,
		ActivityLevel: in.ActivityLevel,
		Experience:    in.Experience,
		HasChildren:   in.HasChildren,
		OtherPets:     in.OtherPets,
		Answers:       in.Answers,
		UpdatedAt:     time.Now().UTC(),
	}
	if p.OtherPets == nil {
		p.OtherPets = []string{}
	}
	if p.Answers == nil {
		p.Answers = map[string]any{}
	}
	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("lifestyle profile validation failed", err)
	}
	if err := uc.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.cache.Evict(ctx, in.OwnerID); err != nil {
		uc.logger.Warn("Failed to evict lifestyle guide", zap.String("owner_id", in.OwnerID.String()), zap.Error(err))
	}
	return p, nil
}
