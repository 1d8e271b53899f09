package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/khoahotran/pawpal/pkg/auth"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type Handlers struct {
	Auth        *AuthHandler
	Dog         *DogHandler
	Training    *TrainingHandler
	Health      *HealthHandler
	Nutrition   *NutritionHandler
	Certificate *CertificateHandler
	Marketplace *MarketplaceHandler
	Lifestyle   *LifestyleHandler
	AI          *AIHandler
	Geocode     *GeocodeHandler
}

type RouterConfig struct {
	JWT            *auth.JWTService
	AllowedOrigins []string
	Logger         logger.Logger
	ServiceName    string
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	service := cfg.ServiceName
	if service == "" {
		service = "pawpal-api"
	}
	router.Use(otelgin.Middleware(service))
	router.Use(RequestIDs())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(CORS(cfg.AllowedOrigins))
	router.Use(ErrorMiddleware(cfg.Logger))

	authMiddleware := AuthMiddleware(cfg.JWT, cfg.Logger)

	api := router.Group("/api")
	{
		public := api.Group("/")
		{
			public.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
			public.POST("/auth/register", h.Auth.Register)
			public.POST("/auth/login", h.Auth.Login)
			public.GET("/roadmap/stages", h.Dog.ListStages)
			public.GET("/skills", h.Training.ListSkills)
			public.GET("/marketplace/listings", h.Marketplace.ListPublicListings)
			public.GET("/marketplace/search", h.Marketplace.Search)
			public.GET("/marketplace/feed.rss", h.Marketplace.RSS)
		}

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			private.GET("/me/selected-dog", h.Dog.GetSelectedDog)
			private.PUT("/me/selected-dog", h.Dog.SetSelectedDog)

			dogs := private.Group("/dogs")
			{
				dogs.POST("", h.Dog.CreateDog)
				dogs.GET("", h.Dog.ListDogs)
				dogs.GET("/:id", h.Dog.GetDog)
				dogs.PUT("/:id", h.Dog.UpdateDog)
				dogs.DELETE("/:id", h.Dog.DeleteDog)
				dogs.GET("/:id/roadmap", h.Dog.GetRoadmap)

				dogs.GET("/:id/skills", h.Training.ListDogSkills)
				dogs.POST("/:id/skills", h.Training.StartSkill)
				dogs.GET("/:id/skills/:skillId", h.Training.GetProgress)
				dogs.GET("/:id/skills/:skillId/sessions", h.Training.ListSessions)
				dogs.POST("/:id/skills/:skillId/sessions", h.Training.LogSession)
				dogs.POST("/:id/skills/:skillId/promote", h.Training.Promote)

				dogs.GET("/:id/health-records", h.Health.ListRecords)
				dogs.POST("/:id/health-records", h.Health.CreateRecord)
				dogs.GET("/:id/health-records/upcoming", h.Health.Upcoming)

				dogs.GET("/:id/meals", h.Nutrition.ListMeals)
				dogs.POST("/:id/meals", h.Nutrition.LogMeal)
				dogs.GET("/:id/nutrition", h.Nutrition.DailySummary)

				dogs.GET("/:id/certificates", h.Certificate.List)
				dogs.POST("/:id/certificates", h.Certificate.Upload)

				dogs.GET("/:id/insights/:kind", h.AI.GetDogInsight)
			}

			private.GET("/health-records/:id", h.Health.GetRecord)
			private.PUT("/health-records/:id", h.Health.UpdateRecord)
			private.DELETE("/health-records/:id", h.Health.DeleteRecord)

			private.PUT("/meals/:id", h.Nutrition.UpdateMeal)
			private.DELETE("/meals/:id", h.Nutrition.DeleteMeal)

			private.GET("/certificates/:id", h.Certificate.Get)
			private.DELETE("/certificates/:id", h.Certificate.Delete)

			private.GET("/marketplace/my-listings", h.Marketplace.ListMyListings)
			private.POST("/marketplace/listings", h.Marketplace.CreateListing)
			private.GET("/marketplace/listings/:id", h.Marketplace.GetListing)
			private.PUT("/marketplace/listings/:id", h.Marketplace.UpdateListing)
			private.DELETE("/marketplace/listings/:id", h.Marketplace.DeleteListing)

			private.GET("/lifestyle", h.Lifestyle.GetProfile)
			private.PUT("/lifestyle", h.Lifestyle.UpdateProfile)
			private.GET("/lifestyle/guide", h.AI.LifestyleGuide)

			private.POST("/assistant/chat", h.AI.Chat)
			private.GET("/geocode", h.Geocode.Geocode)
		}
	}

	return router
}
