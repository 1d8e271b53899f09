package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/pawpal/adapters/persistence"
	authUC "github.com/khoahotran/pawpal/internal/application/usecase/auth"
	dogUC "github.com/khoahotran/pawpal/internal/application/usecase/dog"
	"github.com/khoahotran/pawpal/internal/config"
	"github.com/khoahotran/pawpal/internal/domain/user"
	"github.com/khoahotran/pawpal/internal/testutil"
	"github.com/khoahotran/pawpal/pkg/auth"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type AuthE2ETestSuite struct {
	suite.Suite
	Router   *gin.Engine
	dbPool   *pgxpool.Pool
	testUser user.User
	testPass string
}

func (s *AuthE2ETestSuite) SetupSuite() {
	cfg, err := config.LoadConfig("../..")
	if err != nil {
		s.T().Fatalf("Failed to load config for E2E test: %v", err)
	}

	s.dbPool, err = pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect postgres: %v", err)
	}

	appLogger := logger.NewZapLogger("development")

	s.testPass = "e2e_test_password_123"
	hash, _ := auth.HashPassword(s.testPass)
	s.testUser = user.User{
		ID:           uuid.New(),
		Email:        "e2e_test@example.com",
		PasswordHash: hash,
	}
	query := `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = $3 RETURNING id`
	err = s.dbPool.QueryRow(context.Background(), query, s.testUser.ID, s.testUser.Email, s.testUser.PasswordHash).Scan(&s.testUser.ID)
	if err != nil {
		s.T().Fatalf("E2E test failed to seed user: %v", err)
	}

	userRepo := persistence.NewPostgresUserRepo(s.dbPool, appLogger)
	dogRepo := persistence.NewPostgresDogRepo(s.dbPool, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	gin.SetMode(gin.TestMode)
	s.Router = NewRouter(RouterConfig{JWT: jwtSvc, Logger: appLogger}, Handlers{
		Auth: NewAuthHandler(
			authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger),
			authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger),
			appLogger,
		),
		Dog: NewDogHandler(dogUC.NewDogUseCase(dogRepo, testutil.NewPreferenceStore(), testutil.NewEventPublisher(), appLogger)),
	})
}

func (s *AuthE2ETestSuite) TearDownSuite() {
	_, _ = s.dbPool.Exec(context.Background(), `DELETE FROM dogs WHERE owner_id = $1`, s.testUser.ID)
	s.dbPool.Close()
}

func TestAuthE2E(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("Skipping E2E tests. Set E2E_TESTS=1 to run.")
	}
	suite.Run(t, new(AuthE2ETestSuite))
}

func (s *AuthE2ETestSuite) Test_Login_Flow() {
	bodyBad, _ := json.Marshal(gin.H{"email": s.testUser.Email, "password": "wrongpassword"})
	reqBad := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(bodyBad))
	reqBad.Header.Set("Content-Type", "application/json")

	rrBad := httptest.NewRecorder()
	s.Router.ServeHTTP(rrBad, reqBad)

	assert.Equal(s.T(), http.StatusUnauthorized, rrBad.Code)

	bodyGood, _ := json.Marshal(gin.H{"email": s.testUser.Email, "password": s.testPass})
	reqGood := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBuffer(bodyGood))
	reqGood.Header.Set("Content-Type", "application/json")

	rrGood := httptest.NewRecorder()
	s.Router.ServeHTTP(rrGood, reqGood)

	assert.Equal(s.T(), http.StatusOK, rrGood.Code)

	var loginResponse AuthResponse
	json.Unmarshal(rrGood.Body.Bytes(), &loginResponse)
	accessToken := loginResponse.AccessToken
	assert.NotEmpty(s.T(), accessToken)

	birth := time.Now().AddDate(0, -2, 0).Format(dateLayout)
	bodyDog, _ := json.Marshal(gin.H{"name": "E2E Pup", "birth_date": birth})
	reqDog := httptest.NewRequest(http.MethodPost, "/api/dogs", bytes.NewBuffer(bodyDog))
	reqDog.Header.Set("Content-Type", "application/json")
	reqDog.Header.Set("Authorization", "Bearer "+accessToken)

	rrDog := httptest.NewRecorder()
	s.Router.ServeHTTP(rrDog, reqDog)

	assert.Equal(s.T(), http.StatusCreated, rrDog.Code)

	reqList := httptest.NewRequest(http.MethodGet, "/api/dogs", nil)
	reqList.Header.Set("Authorization", "Bearer "+accessToken)
	rrList := httptest.NewRecorder()
	s.Router.ServeHTTP(rrList, reqList)

	assert.Equal(s.T(), http.StatusOK, rrList.Code)

	reqNoAuth := httptest.NewRequest(http.MethodGet, "/api/dogs", nil)
	rrNoAuth := httptest.NewRecorder()
	s.Router.ServeHTTP(rrNoAuth, reqNoAuth)

	assert.Equal(s.T(), http.StatusUnauthorized, rrNoAuth.Code)
}
