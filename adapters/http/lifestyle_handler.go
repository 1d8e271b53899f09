package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	lifestyleUC "github.com/khoahotran/pawpal/internal/application/usecase/lifestyle"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

type LifestyleHandler struct {
	useCase *lifestyleUC.LifestyleUseCase
}

func NewLifestyleHandler(uc *lifestyleUC.LifestyleUseCase) *LifestyleHandler {
	return &LifestyleHandler{useCase: uc}
}

func (h *LifestyleHandler) GetProfile(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	p, err := h.useCase.GetProfile(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *LifestyleHandler) UpdateProfile(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req LifestyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.useCase.UpdateProfile(c.Request.Context(), lifestyleUC.UpdateProfileInput{
		OwnerID:       ownerID,
		HomeType:      req.HomeType,
		HasYard:       req.HasYard,
		HoursAlone:    req.HoursAlone,
		ActivityLevel: req.ActivityLevel,
		Experience:    req.Experience,
		HasChildren:   req.HasChildren,
		OtherPets:     req.OtherPets,
		Answers:       req.Answers,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}
