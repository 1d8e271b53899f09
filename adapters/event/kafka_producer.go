package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/config"
	"github.com/khoahotran/pawpal/pkg/logger"
)

const (
	TopicCertificateEvents = "certificate.events"
	TopicDogEvents         = "dog.events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	CertificateEventsWriter messageWriter
	DogEventsWriter         messageWriter
	log                     logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	certificateWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicCertificateEvents,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	// keyed by dog id so one dog's events stay ordered
	dogWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicDogEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		CertificateEventsWriter: certificateWriter,
		DogEventsWriter:         dogWriter,
		log:                     log,
	}, nil
}

func (c *KafkaProducerClient) PublishCertificateEvent(ctx context.Context, p service.CertificateEventPayload) error {
	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal certificate event: %w", err)
	}
	return c.CertificateEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(p.CertificateID.String()),
		Value: value,
	})
}

func (c *KafkaProducerClient) PublishDogEvent(ctx context.Context, p service.DogEventPayload) error {
	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal dog event: %w", err)
	}
	return c.DogEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(p.DogID.String()),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.CertificateEventsWriter != nil {
		if err := c.CertificateEventsWriter.Close(); err != nil {
			c.log.Warn("Failed to close certificate events writer", zap.Error(err))
		}
	}
	if c.DogEventsWriter != nil {
		if err := c.DogEventsWriter.Close(); err != nil {
			c.log.Warn("Failed to close dog events writer", zap.Error(err))
		}
	}
	c.log.Info("Closed Kafka Producers")
}
