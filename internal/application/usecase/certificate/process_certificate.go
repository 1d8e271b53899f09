package certificate

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/certificate"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type ProcessCertificateUseCase struct {
	certRepo certificate.Repository
	uploader service.Uploader
	logger   logger.Logger
}

func NewProcessCertificateUseCase(r certificate.Repository, u service.Uploader, log logger.Logger) *ProcessCertificateUseCase {
	return &ProcessCertificateUseCase{certRepo: r, uploader: u, logger: log}
}

// Execute builds the thumbnail for a freshly uploaded certificate. Events for other types,
// missing rows and already processed rows are acknowledged without work.
func (uc *ProcessCertificateUseCase) Execute(ctx context.Context, payload service.CertificateEventPayload) error {
	l := uc.logger.With(zap.String("certificate_id", payload.CertificateID.String()), zap.String("event_type", payload.EventType))
	if payload.EventType != service.EventCertificateUploaded {
		l.Debug("Ignoring certificate event")
		return nil
	}
	l.Info("Worker processing certificate event")

	c, err := uc.certRepo.FindByID(ctx, payload.CertificateID, payload.OwnerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			l.Warn("Certificate not found, skipping event")
			return nil
		}
		return apperror.NewInternal("failed to get certificate", err)
	}
	if c.Status != certificate.StatusPending {
		l.Info("Certificate already processed, skipping", zap.String("status", string(c.Status)))
		return nil
	}

	thumbURL, err := uc.uploader.ThumbnailURL(certificate.StoragePublicID(c.OwnerID, c.ID))
	if err != nil {
		l.Warn("Failed to build thumbnail", zap.Error(err))
		c.MarkAsFailed(err.Error())
	} else {
		c.MarkAsReady(thumbURL)
	}
	c.UpdatedAt = time.Now().UTC()

	if err := uc.certRepo.Update(ctx, c); err != nil {
		return apperror.NewInternal("failed to update certificate status", err)
	}
	l.Info("Processed certificate", zap.String("status", string(c.Status)))
	return nil
}
