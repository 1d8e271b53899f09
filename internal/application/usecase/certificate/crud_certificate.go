package certificate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/certificate"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/pkg/logger"
)

var tracer = otel.Tracer("certificate_usecase")

type CertificateUseCase struct {
	dogRepo  dog.Repository
	certRepo certificate.Repository
	uploader service.Uploader
	events   service.EventPublisher
	logger   logger.Logger
}

func NewCertificateUseCase(
	dr dog.Repository,
	r certificate.Repository,
	u service.Uploader,
	events service.EventPublisher,
	log logger.Logger,
) *CertificateUseCase {
	return &CertificateUseCase{dogRepo: dr, certRepo: r, uploader: u, events: events, logger: log}
}

func (uc *CertificateUseCase) List(ctx context.Context, ownerID, dogID uuid.UUID) ([]*certificate.Certificate, error) {
	if _, err := uc.dogRepo.FindByID(ctx, dogID, ownerID); err != nil {
		return nil, err
	}
	return uc.certRepo.ListByDog(ctx, dogID, ownerID)
}

func (uc *CertificateUseCase) Get(ctx context.Context, id, ownerID uuid.UUID) (*certificate.Certificate, error) {
	return uc.certRepo.FindByID(ctx, id, ownerID)
}

// Delete removes the row first; a failed storage delete only leaves an orphaned file.
func (uc *CertificateUseCase) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	c, err := uc.certRepo.FindByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := uc.certRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	if err := uc.uploader.Delete(ctx, certificate.StoragePublicID(c.OwnerID, c.ID)); err != nil {
		uc.logger.Warn("Failed to delete certificate file", zap.String("certificate_id", c.ID.String()), zap.Error(err))
	}
	publish(ctx, uc.events, uc.logger, service.CertificateEventPayload{
		EventType:     service.EventCertificateDeleted,
		CertificateID: c.ID,
		DogID:         c.DogID,
		OwnerID:       c.OwnerID,
		Timestamp:     time.Now().UTC(),
	})
	return nil
}
