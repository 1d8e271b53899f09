package certificate

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/certificate"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type UploadCertificateUseCase struct {
	dogRepo  dog.Repository
	certRepo certificate.Repository
	uploader service.Uploader
	events   service.EventPublisher
	logger   logger.Logger
	now      func() time.Time
}

func NewUploadCertificateUseCase(
	dr dog.Repository,
	r certificate.Repository,
	u service.Uploader,
	events service.EventPublisher,
	log logger.Logger,
) *UploadCertificateUseCase {
	return &UploadCertificateUseCase{dogRepo: dr, certRepo: r, uploader: u, events: events, logger: log, now: time.Now}
}

type UploadCertificateInput struct {
	OwnerID  uuid.UUID
	DogID    uuid.UUID
	Title    string
	Issuer   string
	IssuedAt *time.Time
	FileName string
	File     io.Reader
}

func (uc *UploadCertificateUseCase) Execute(ctx context.Context, input UploadCertificateInput) (*certificate.Certificate, error) {
	ctx, span := tracer.Start(ctx, "UploadCertificate")
	defer span.End()

	if _, err := uc.dogRepo.FindByID(ctx, input.DogID, input.OwnerID); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	c := &certificate.Certificate{
		ID:        uuid.New(),
		DogID:     input.DogID,
		OwnerID:   input.OwnerID,
		Title:     strings.TrimSpace(input.Title),
		Issuer:    strings.TrimSpace(input.Issuer),
		IssuedAt:  input.IssuedAt,
		Status:    certificate.StatusPending,
		Metadata:  map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.FileName != "" {
		c.Metadata["file_name"] = input.FileName
	}
	if err := c.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("certificate validation failed", err)
	}

	folder := fmt.Sprintf("users/%s/certificates", input.OwnerID)
	fileURL, err := uc.uploader.Upload(ctx, input.File, folder, c.ID.String())
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to upload certificate file", err)
	}
	c.FileURL = fileURL

	if err := uc.certRepo.Save(ctx, c); err != nil {
		span.RecordError(err)
		if delErr := uc.uploader.Delete(ctx, certificate.StoragePublicID(c.OwnerID, c.ID)); delErr != nil {
			uc.logger.Warn("Failed to remove orphaned upload", zap.String("certificate_id", c.ID.String()), zap.Error(delErr))
		}
		return nil, err
	}

	publish(ctx, uc.events, uc.logger, service.CertificateEventPayload{
		EventType:     service.EventCertificateUploaded,
		CertificateID: c.ID,
		DogID:         c.DogID,
		OwnerID:       c.OwnerID,
		Timestamp:     now,
	})
	return c, nil
}

func publish(ctx context.Context, events service.EventPublisher, log logger.Logger, p service.CertificateEventPayload) {
	if err := events.PublishCertificateEvent(ctx, p); err != nil {
		log.Error("Failed to publish certificate event", err,
			zap.String("certificate_id", p.CertificateID.String()),
			zap.String("event_type", p.EventType),
		)
	}
}
