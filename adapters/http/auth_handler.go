package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/pawpal/internal/application/usecase/auth"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type AuthHandler struct {
	loginUseCase    *auth.LoginUseCase
	registerUseCase *auth.RegisterUseCase
	logger          logger.Logger
}

func NewAuthHandler(loginUC *auth.LoginUseCase, registerUC *auth.RegisterUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		loginUseCase:    loginUC,
		registerUseCase: registerUC,
		logger:          log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{AccessToken: output.AccessToken, User: ToUserDTO(output.User)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{AccessToken: output.AccessToken, User: ToUserDTO(output.User)})
}
