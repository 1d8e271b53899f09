package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/domain/user"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/auth"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{userRepo: repo, jwtSvc: jwtSvc, logger: log}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Execute creates the account and signs the new user in.
func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	email := user.NormalizeEmail(input.Email)
	if err := user.ValidateCredentials(email, input.Password); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		u.Name = &name
	}
	if err := uc.userRepo.Save(ctx, u); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.logger.Info("User registered", zap.String("user_id", u.ID.String()))

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate token", err)
	}
	return &LoginOutput{AccessToken: token, User: u}, nil
}
