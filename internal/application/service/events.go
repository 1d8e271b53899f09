package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventCertificateUploaded = "certificate.uploaded"
	EventCertificateDeleted  = "certificate.deleted"

	EventSessionLogged  = "training.session_logged"
	EventSkillPromoted  = "training.skill_promoted"
	EventMealLogged     = "nutrition.meal_logged"
	EventHealthRecorded = "health.record_changed"
	EventDogUpdated     = "dog.updated"
)

type CertificateEventPayload struct {
	EventType     string    `json:"event_type"`
	CertificateID uuid.UUID `json:"certificate_id"`
	DogID         uuid.UUID `json:"dog_id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// DogEventPayload signals that data feeding a dog's insights changed.
type DogEventPayload struct {
	EventType string         `json:"event_type"`
	DogID     uuid.UUID      `json:"dog_id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventPublisher interface {
	PublishCertificateEvent(ctx context.Context, p CertificateEventPayload) error
	PublishDogEvent(ctx context.Context, p DogEventPayload) error
}
