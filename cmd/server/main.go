package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/adapters/event"
	"github.com/khoahotran/pawpal/adapters/geocoding"
	httpAdapter "github.com/khoahotran/pawpal/adapters/http"
	"github.com/khoahotran/pawpal/adapters/llm"
	"github.com/khoahotran/pawpal/adapters/media_storage"
	"github.com/khoahotran/pawpal/adapters/persistence"
	assistantUC "github.com/khoahotran/pawpal/internal/application/usecase/assistant"
	authUC "github.com/khoahotran/pawpal/internal/application/usecase/auth"
	certificateUC "github.com/khoahotran/pawpal/internal/application/usecase/certificate"
	dogUC "github.com/khoahotran/pawpal/internal/application/usecase/dog"
	geocodeUC "github.com/khoahotran/pawpal/internal/application/usecase/geocode"
	healthUC "github.com/khoahotran/pawpal/internal/application/usecase/health"
	insightUC "github.com/khoahotran/pawpal/internal/application/usecase/insight"
	lifestyleUC "github.com/khoahotran/pawpal/internal/application/usecase/lifestyle"
	marketplaceUC "github.com/khoahotran/pawpal/internal/application/usecase/marketplace"
	nutritionUC "github.com/khoahotran/pawpal/internal/application/usecase/nutrition"
	trainingUC "github.com/khoahotran/pawpal/internal/application/usecase/training"
	"github.com/khoahotran/pawpal/internal/config"
	"github.com/khoahotran/pawpal/pkg/auth"
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
	appLogger.Info("Start PawPal API Server...", zap.String("env", cfg.App.Env))

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "pawpal-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}

	// Infrastructure
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

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	llmService, err := llm.NewGatewayLLMAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM gateway", err)
	}
	geocoder, err := geocoding.NewNominatimAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize geocoder", err)
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	dogRepo := persistence.NewPostgresDogRepo(dbPool, appLogger)
	skillRepo := persistence.NewPostgresSkillRepo(dbPool, appLogger)
	trainingRepo := persistence.NewPostgresTrainingRepo(dbPool, appLogger)
	healthRepo := persistence.NewPostgresHealthRepo(dbPool, appLogger)
	mealRepo := persistence.NewPostgresMealRepo(dbPool, appLogger)
	certificateRepo := persistence.NewPostgresCertificateRepo(dbPool, appLogger)
	listingRepo := persistence.NewPostgresListingRepo(dbPool, appLogger)
	lifestyleRepo := persistence.NewPostgresLifestyleRepo(dbPool, appLogger)

	requirementCache := persistence.NewRedisRequirementCache(redisClient)
	insightCache := persistence.NewRedisInsightCache(redisClient)
	preferenceStore := persistence.NewRedisPreferenceStore(redisClient)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	registerUseCase := authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger)
	dogUseCase := dogUC.NewDogUseCase(dogRepo, preferenceStore, kafkaClient, appLogger)
	trainingUseCase := trainingUC.NewTrainingUseCase(
		dogRepo, skillRepo, trainingRepo, requirementCache, kafkaClient, appLogger, cfg.Cache.RequirementTTL,
	)
	healthUseCase := healthUC.NewHealthUseCase(dogRepo, healthRepo, kafkaClient, appLogger)
	nutritionUseCase := nutritionUC.NewNutritionUseCase(dogRepo, mealRepo, kafkaClient, appLogger)
	uploadCertificateUseCase := certificateUC.NewUploadCertificateUseCase(dogRepo, certificateRepo, uploader, kafkaClient, appLogger)
	certificateUseCase := certificateUC.NewCertificateUseCase(dogRepo, certificateRepo, uploader, kafkaClient, appLogger)
	marketplaceUseCase := marketplaceUC.NewMarketplaceUseCase(listingRepo, appLogger)
	lifestyleUseCase := lifestyleUC.NewLifestyleUseCase(lifestyleRepo, insightCache, appLogger)
	insightUseCase := insightUC.NewInsightUseCase(insightUC.Repos{
		Dogs:      dogRepo,
		Meals:     mealRepo,
		Health:    healthRepo,
		Skills:    skillRepo,
		Training:  trainingRepo,
		Lifestyle: lifestyleRepo,
	}, llmService, insightCache, cfg.Cache.InsightTTL, appLogger)
	assistantUseCase := assistantUC.NewAssistantUseCase(dogRepo, skillRepo, trainingRepo, llmService, appLogger)
	geocodeUseCase := geocodeUC.NewGeocodeUseCase(geocoder, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:        httpAdapter.NewAuthHandler(loginUseCase, registerUseCase, appLogger),
		Dog:         httpAdapter.NewDogHandler(dogUseCase),
		Training:    httpAdapter.NewTrainingHandler(trainingUseCase),
		Health:      httpAdapter.NewHealthHandler(healthUseCase),
		Nutrition:   httpAdapter.NewNutritionHandler(nutritionUseCase),
		Certificate: httpAdapter.NewCertificateHandler(uploadCertificateUseCase, certificateUseCase, appLogger),
		Marketplace: httpAdapter.NewMarketplaceHandler(marketplaceUseCase, cfg.App.PublicURL, appLogger),
		Lifestyle:   httpAdapter.NewLifestyleHandler(lifestyleUseCase),
		AI:          httpAdapter.NewAIHandler(insightUseCase, assistantUseCase),
		Geocode:     httpAdapter.NewGeocodeHandler(geocodeUseCase),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		JWT:            jwtSvc,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         appLogger,
		ServiceName:    "pawpal-api",
	}, handlers)

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	tracing.Shutdown(ctx, tp, appLogger)
	appLogger.Info("Server exited")
}
