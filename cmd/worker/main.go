package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"sync"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/adapters/event"
	"github.com/khoahotran/pawpal/adapters/media_storage"
	"github.com/khoahotran/pawpal/adapters/persistence"
	"github.com/khoahotran/pawpal/internal/application/service"
	certificateUC "github.com/khoahotran/pawpal/internal/application/usecase/certificate"
	workerUC "github.com/khoahotran/pawpal/internal/application/usecase/worker"
	"github.com/khoahotran/pawpal/internal/config"
	"github.com/khoahotran/pawpal/pkg/logger"
	"github.com/khoahotran/pawpal/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting PawPal Worker...")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "pawpal-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Cloudinary Uploader
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Worker Use Cases
	certificateRepo := persistence.NewPostgresCertificateRepo(dbPool, appLogger)
	processCertificateUC := certificateUC.NewProcessCertificateUseCase(certificateRepo, uploader, appLogger)
	evictInsightsUC := workerUC.NewEvictInsightsUseCase(persistence.NewRedisInsightCache(redisClient), appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	certReader := newReader(cfg, event.TopicCertificateEvents)
	defer certReader.Close()
	dogReader := newReader(cfg, event.TopicDogEvents)
	defer dogReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consume(ctx, certReader, appLogger, event.TopicCertificateEvents, func(ctx context.Context, value []byte) error {
			var payload service.CertificateEventPayload
			if err := json.Unmarshal(value, &payload); err != nil {
				return errSkip{err}
			}
			appLogger.Info("Processing certificate event",
				zap.String("event_type", payload.EventType),
				zap.String("certificate_id", payload.CertificateID.String()),
			)
			return processCertificateUC.Execute(ctx, payload)
		}, newRetryBackOff)
	}()
	go func() {
		defer wg.Done()
		consume(ctx, dogReader, appLogger, event.TopicDogEvents, func(ctx context.Context, value []byte) error {
			var payload service.DogEventPayload
			if err := json.Unmarshal(value, &payload); err != nil {
				return errSkip{err}
			}
			return evictInsightsUC.Execute(ctx, payload)
		}, newRetryBackOff)
	}()

	wg.Wait()
	tracing.Shutdown(context.Background(), tp, appLogger)
	appLogger.Info("Worker exited")
}

func newReader(cfg config.Config, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}
