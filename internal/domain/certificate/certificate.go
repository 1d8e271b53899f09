package certificate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

type Certificate struct {
	ID           uuid.UUID      `json:"id"`
	DogID        uuid.UUID      `json:"dog_id"`
	OwnerID      uuid.UUID      `json:"owner_id"`
	Title        string         `json:"title"`
	Issuer       string         `json:"issuer"`
	IssuedAt     *time.Time     `json:"issued_at"`
	FileURL      string         `json:"file_url"`
	ThumbnailURL *string        `json:"thumbnail_url"`
	Status       Status         `json:"status"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

var ErrCertificateNotFound = errors.New("certificate not found")

func (c *Certificate) Validate() error {
	if c.Title == "" {
		return errors.New("title is required")
	}
	switch c.Status {
	case StatusPending, StatusReady, StatusError:
	default:
		return fmt.Errorf("invalid certificate status %q", c.Status)
	}
	return nil
}

// StoragePublicID is the storage key of the original upload.
func StoragePublicID(ownerID, certificateID uuid.UUID) string {
	return fmt.Sprintf("users/%s/certificates/%s", ownerID, certificateID)
}

func (c *Certificate) MarkAsReady(thumbnailURL string) {
	c.ThumbnailURL = &thumbnailURL
	c.Status = StatusReady
}

func (c *Certificate) MarkAsFailed(reason string) {
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	c.Metadata["processing_error"] = reason
	c.Status = StatusError
}

type Repository interface {
	Save(ctx context.Context, c *Certificate) error
	Update(ctx context.Context, c *Certificate) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Certificate, error)
	ListByDog(ctx context.Context, dogID, ownerID uuid.UUID) ([]*Certificate, error)
}
