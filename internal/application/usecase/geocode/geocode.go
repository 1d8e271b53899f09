package geocode

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type GeocodeUseCase struct {
	geocoder service.Geocoder
	logger   logger.Logger
}

func NewGeocodeUseCase(g service.Geocoder, log logger.Logger) *GeocodeUseCase {
	return &GeocodeUseCase{geocoder: g, logger: log}
}

// Lookup returns nil when the provider has no match or fails; provider errors are only logged.
func (uc *GeocodeUseCase) Lookup(ctx context.Context, address string) (*service.GeoResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, apperror.NewInvalidInput("address is required", nil)
	}
	res, err := uc.geocoder.Geocode(ctx, address)
	if err != nil {
		uc.logger.Warn("Geocoding failed", zap.String("address", address), zap.Error(err))
		return nil, nil
	}
	return res, nil
}
