package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/khoahotran/pawpal/internal/application/service"
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
	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/internal/testutil"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/auth"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type RouterTestSuite struct {
	suite.Suite
	router   *gin.Engine
	skills   *testutil.SkillRepo
	llm      *testutil.LLM
	geocoder *testutil.Geocoder
	token    string
	sitID    uuid.UUID
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)

	users := testutil.NewUserRepo()
	dogs := testutil.NewDogRepo()
	s.skills = testutil.NewSkillRepo()
	trainingRepo := testutil.NewTrainingRepo()
	events := testutil.NewEventPublisher()
	insights := testutil.NewInsightCache()
	lifestyles := testutil.NewLifestyleRepo()
	meals := testutil.NewMealRepo()
	healthRepo := testutil.NewHealthRepo()
	certs := testutil.NewCertificateRepo()
	uploader := testutil.NewUploader()
	s.llm = &testutil.LLM{Reply: "Keep going."}
	s.geocoder = &testutil.Geocoder{}

	s.sitID = uuid.New()
	s.skills.AddSkill(&training.Skill{ID: s.sitID, Slug: "sit", Name: "Sit", Category: "foundation"},
		training.Requirement{SkillID: s.sitID, Level: training.LevelGeneralized, MinSessions: 2,
			RequiredContexts: []training.PracticeContext{training.ContextIndoorControlled, training.ContextOutdoorQuiet}},
	)

	h := Handlers{
		Auth: NewAuthHandler(authUC.NewLoginUseCase(users, jwtSvc, log), authUC.NewRegisterUseCase(users, jwtSvc, log), log),
		Dog:  NewDogHandler(dogUC.NewDogUseCase(dogs, testutil.NewPreferenceStore(), events, log)),
		Training: NewTrainingHandler(trainingUC.NewTrainingUseCase(
			dogs, s.skills, trainingRepo, testutil.NewRequirementCache(), events, log, time.Hour)),
		Health:    NewHealthHandler(healthUC.NewHealthUseCase(dogs, healthRepo, events, log)),
		Nutrition: NewNutritionHandler(nutritionUC.NewNutritionUseCase(dogs, meals, events, log)),
		Certificate: NewCertificateHandler(
			certificateUC.NewUploadCertificateUseCase(dogs, certs, uploader, events, log),
			certificateUC.NewCertificateUseCase(dogs, certs, uploader, events, log),
			log,
		),
		Marketplace: NewMarketplaceHandler(marketplaceUC.NewMarketplaceUseCase(testutil.NewListingRepo(), log), "https://pawpal.test", log),
		Lifestyle:   NewLifestyleHandler(lifestyleUC.NewLifestyleUseCase(lifestyles, insights, log)),
		AI: NewAIHandler(
			insightUC.NewInsightUseCase(insightUC.Repos{
				Dogs: dogs, Meals: meals, Health: healthRepo, Skills: s.skills, Training: trainingRepo, Lifestyle: lifestyles,
			}, s.llm, insights, time.Hour, log),
			assistantUC.NewAssistantUseCase(dogs, s.skills, trainingRepo, s.llm, log),
		),
		Geocode: NewGeocodeHandler(geocodeUC.NewGeocodeUseCase(s.geocoder, log)),
	}
	s.router = NewRouter(RouterConfig{JWT: jwtSvc, AllowedOrigins: []string{"http://localhost:5173"}, Logger: log}, h)

	rr := s.do(http.MethodPost, "/api/auth/register", gin.H{"email": "owner@example.com", "password": "s3cret-pass"}, "")
	s.Require().Equal(http.StatusCreated, rr.Code)
	var resp AuthResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.token = resp.AccessToken
}

func (s *RouterTestSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *RouterTestSuite) decode(rr *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func (s *RouterTestSuite) createDog(body gin.H) uuid.UUID {
	rr := s.do(http.MethodPost, "/api/dogs", body, s.token)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	var d struct {
		ID uuid.UUID `json:"id"`
	}
	s.decode(rr, &d)
	return d.ID
}

func (s *RouterTestSuite) TestHealthAndPublicRoutes() {
	rr := s.do(http.MethodGet, "/api/health", nil, "")
	s.Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/roadmap/stages", nil, "")
	s.Equal(http.StatusOK, rr.Code)
	var stages []map[string]any
	s.decode(rr, &stages)
	s.Len(stages, 6)

	rr = s.do(http.MethodGet, "/api/skills", nil, "")
	s.Equal(http.StatusOK, rr.Code)
	var skills []SkillDTO
	s.decode(rr, &skills)
	s.Require().Len(skills, 1)
	s.Equal("sit", skills[0].Slug)
	s.Len(skills[0].Requirements, 1)
}

func (s *RouterTestSuite) TestAuthFlow() {
	rr := s.do(http.MethodPost, "/api/auth/login", gin.H{"email": "owner@example.com", "password": "wrong-pass"}, "")
	s.Equal(http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodPost, "/api/auth/login", gin.H{"email": "OWNER@example.com", "password": "s3cret-pass"}, "")
	s.Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodPost, "/api/auth/register", gin.H{"email": "owner@example.com", "password": "s3cret-pass"}, "")
	s.Equal(http.StatusConflict, rr.Code)

	rr = s.do(http.MethodGet, "/api/dogs", nil, "")
	s.Equal(http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodGet, "/api/dogs", nil, "not-a-jwt")
	s.Equal(http.StatusUnauthorized, rr.Code)
}

func (s *RouterTestSuite) TestDogCRUDAndRoadmap() {
	birth := time.Now().UTC().AddDate(0, 0, -12*7-1).Format(dateLayout)
	dogID := s.createDog(gin.H{"name": "Miso", "birth_date": birth, "weight_kg": 6.5})

	rr := s.do(http.MethodGet, "/api/dogs/"+dogID.String()+"/roadmap", nil, s.token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var roadmap struct {
		AgeWeeks    int `json:"age_weeks"`
		ActiveStage struct {
			ID string `json:"id"`
		} `json:"active_stage"`
	}
	s.decode(rr, &roadmap)
	s.Equal(12, roadmap.AgeWeeks)
	s.Equal("socialization", roadmap.ActiveStage.ID)

	rr = s.do(http.MethodPut, "/api/me/selected-dog", gin.H{"dog_id": dogID}, s.token)
	s.Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/dogs/not-a-uuid", nil, s.token)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, "/api/dogs/"+uuid.NewString(), nil, s.token)
	s.Equal(http.StatusNotFound, rr.Code)
	var body map[string]string
	s.decode(rr, &body)
	s.Equal("not found", body["error"])

	rr = s.do(http.MethodPost, "/api/dogs", gin.H{"name": "Rex", "birth_date": "15/01/2024"}, s.token)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodDelete, "/api/dogs/"+dogID.String(), nil, s.token)
	s.Equal(http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, "/api/me/selected-dog", nil, s.token)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"dog":null}`, rr.Body.String())
}

func (s *RouterTestSuite) TestTrainingPromotionFlow() {
	dogID := s.createDog(gin.H{"name": "Miso"})
	base := "/api/dogs/" + dogID.String() + "/skills"
	skillPath := base + "/" + s.sitID.String()

	rr := s.do(http.MethodPost, base, gin.H{"skill_id": s.sitID}, s.token)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, base, gin.H{"skill_id": s.sitID}, s.token)
	s.Equal(http.StatusConflict, rr.Code)

	rr = s.do(http.MethodPost, skillPath+"/sessions", gin.H{"context": "indoor_controlled", "success_rate": 80}, s.token)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, skillPath+"/promote", nil, s.token)
	s.Equal(http.StatusConflict, rr.Code)

	rr = s.do(http.MethodPost, skillPath+"/sessions", gin.H{"context": "on_the_moon", "success_rate": 80}, s.token)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPost, skillPath+"/sessions", gin.H{"context": "outdoor_quiet", "success_rate": 70}, s.token)
	s.Require().Equal(http.StatusCreated, rr.Code)

	rr = s.do(http.MethodGet, skillPath, nil, s.token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var progress ProgressDTO
	s.decode(rr, &progress)
	s.True(progress.Evaluation.Eligible)
	s.InDelta(75, progress.Evaluation.AverageSuccessRate, 1e-9)

	rr = s.do(http.MethodPost, skillPath+"/promote", nil, s.token)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &progress)
	s.Equal(training.LevelGeneralized, progress.DogSkill.Level)

	rr = s.do(http.MethodGet, skillPath+"/sessions", nil, s.token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var sessions []training.Session
	s.decode(rr, &sessions)
	s.Len(sessions, 2)
}

func (s *RouterTestSuite) TestNutritionSummary() {
	dogID := s.createDog(gin.H{"name": "Miso", "weight_kg": 10})
	path := "/api/dogs/" + dogID.String()

	rr := s.do(http.MethodPost, path+"/meals", gin.H{"meal_type": "treat", "food_name": "Jerky", "calories": 50, "fed_at": "2025-03-10T12:00:00Z"}, s.token)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(http.MethodGet, path+"/nutrition?date=2025-03-10", nil, s.token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var summary struct {
		TreatCalories float64 `json:"treat_calories"`
		MealCount     int     `json:"meal_count"`
	}
	s.decode(rr, &summary)
	s.Equal(1, summary.MealCount)
	s.InDelta(50, summary.TreatCalories, 1e-9)

	rr = s.do(http.MethodGet, path+"/nutrition?date=yesterday", nil, s.token)
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *RouterTestSuite) TestCertificateUpload() {
	dogID := s.createDog(gin.H{"name": "Miso"})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	s.Require().NoError(w.WriteField("title", "Puppy class"))
	part, err := w.CreateFormFile("file", "cert.pdf")
	s.Require().NoError(err)
	_, err = part.Write([]byte("%PDF-1.4"))
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/dogs/"+dogID.String()+"/certificates", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	s.Require().Equal(http.StatusAccepted, rr.Code, rr.Body.String())
	var cert struct {
		Status string `json:"status"`
	}
	s.decode(rr, &cert)
	s.Equal("pending", cert.Status)
}

func (s *RouterTestSuite) TestMarketplacePublicSearch() {
	rr := s.do(http.MethodPost, "/api/marketplace/listings", gin.H{"category": "toys", "title": "Squeaky ball", "is_public": true}, s.token)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/marketplace/search?q=squeaky", nil, "")
	s.Require().Equal(http.StatusOK, rr.Code)
	var hits []map[string]any
	s.decode(rr, &hits)
	s.Len(hits, 1)

	rr = s.do(http.MethodGet, "/api/marketplace/search", nil, "")
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, "/api/marketplace/listings?category=toys", nil, "")
	s.Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/marketplace/feed.rss", nil, "")
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Header().Get("Content-Type"), "application/rss+xml")
	s.Contains(rr.Body.String(), "Squeaky ball")
}

func (s *RouterTestSuite) TestAIErrorsMapToStatus() {
	dogID := s.createDog(gin.H{"name": "Miso"})
	path := "/api/dogs/" + dogID.String() + "/insights/"

	s.llm.Err = apperror.NewRateLimited("gateway returned 429", nil)
	rr := s.do(http.MethodGet, path+"health", nil, s.token)
	s.Equal(http.StatusTooManyRequests, rr.Code)
	var body map[string]string
	s.decode(rr, &body)
	s.Equal("Rate limit exceeded, please try again later", body["message"])

	s.llm.Err = apperror.NewPaymentRequired("gateway returned 402", nil)
	rr = s.do(http.MethodPost, "/api/assistant/chat", gin.H{"messages": []service.Message{{Role: "user", Content: "hi"}}}, s.token)
	s.Equal(http.StatusPaymentRequired, rr.Code)

	s.llm.Err = nil
	rr = s.do(http.MethodGet, path+"grooming", nil, s.token)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, path+"activity", nil, s.token)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterTestSuite) TestGeocode() {
	rr := s.do(http.MethodGet, "/api/geocode?address=nowhere", nil, s.token)
	s.Equal(http.StatusNoContent, rr.Code)

	s.geocoder.Result = &service.GeoResult{Latitude: 48.85, Longitude: 2.35, FormattedAddress: "Paris, France"}
	rr = s.do(http.MethodGet, "/api/geocode?address=Paris", nil, s.token)
	s.Require().Equal(http.StatusOK, rr.Code)
	var res service.GeoResult
	s.decode(rr, &res)
	s.Equal("Paris, France", res.FormattedAddress)
}

func (s *RouterTestSuite) TestLifestyleGuide() {
	rr := s.do(http.MethodGet, "/api/lifestyle/guide", nil, s.token)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPut, "/api/lifestyle", gin.H{"home_type": "house", "has_yard": true, "hours_alone": 4}, s.token)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/lifestyle/guide", nil, s.token)
	s.Equal(http.StatusOK, rr.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) TestRequestIDIsEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	s.Equal(http.StatusOK, rr.Code)
	s.Equal("req-123", rr.Header().Get("X-Request-Id"))
	s.NotEmpty(rr.Header().Get("X-Trace-Id"))
}

func TestRequestIDs_ContinuesPropagatedTrace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	router := gin.New()
	router.Use(
		otelgin.Middleware("pawpal-test", otelgin.WithTracerProvider(tp), otelgin.WithPropagators(propagation.TraceContext{})),
		RequestIDs(),
	)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(GinContextKeyTraceID))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rr.Header().Get("X-Trace-Id"))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
