package dog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

// GetSelectedDog returns the owner's last selected dog, or nil when none is stored
// or the stored dog no longer exists.
func (uc *DogUseCase) GetSelectedDog(ctx context.Context, ownerID uuid.UUID) (*dog.Dog, error) {
	id, ok, err := uc.prefs.GetSelectedDog(ctx, ownerID)
	if err != nil {
		return nil, apperror.NewInternal("failed to read selected dog", err)
	}
	if !ok {
		return nil, nil
	}
	d, err := uc.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			uc.logger.Debug("Selected dog no longer exists", zap.String("dog_id", id.String()))
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func (uc *DogUseCase) SetSelectedDog(ctx context.Context, ownerID, dogID uuid.UUID) (*dog.Dog, error) {
	d, err := uc.repo.FindByID(ctx, dogID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := uc.prefs.SetSelectedDog(ctx, ownerID, dogID); err != nil {
		return nil, apperror.NewInternal("failed to store selected dog", err)
	}
	return d, nil
}
