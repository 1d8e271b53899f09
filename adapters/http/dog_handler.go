package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	dogUC "github.com/khoahotran/pawpal/internal/application/usecase/dog"
	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

type DogHandler struct {
	useCase *dogUC.DogUseCase
}

func NewDogHandler(uc *dogUC.DogUseCase) *DogHandler {
	return &DogHandler{useCase: uc}
}

func (h *DogHandler) bindDog(c *gin.Context) (dogUC.DogInput, bool) {
	var req DogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return dogUC.DogInput{}, false
	}
	birth, err := parseDate("birth_date", req.BirthDate)
	if err != nil {
		c.Error(err)
		return dogUC.DogInput{}, false
	}
	return dogUC.DogInput{
		Name:          req.Name,
		Breed:         req.Breed,
		Sex:           req.Sex,
		BirthDate:     birth,
		WeightKg:      req.WeightKg,
		ActivityLevel: nutrition.ActivityLevel(req.ActivityLevel),
		Neutered:      req.Neutered,
		PhotoURL:      req.PhotoURL,
		Metadata:      req.Metadata,
	}, true
}

func (h *DogHandler) CreateDog(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	input, ok := h.bindDog(c)
	if !ok {
		return
	}
	input.OwnerID = ownerID

	d, err := h.useCase.CreateDog(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DogHandler) UpdateDog(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	input, ok := h.bindDog(c)
	if !ok {
		return
	}
	input.OwnerID = ownerID

	d, err := h.useCase.UpdateDog(c.Request.Context(), dogID, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DogHandler) DeleteDog(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.DeleteDog(c.Request.Context(), dogID, ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DogHandler) GetDog(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	d, err := h.useCase.GetDog(c.Request.Context(), dogID, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DogHandler) ListDogs(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	dogs, err := h.useCase.ListDogs(c.Request.Context(), ownerID, page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dogs)
}

func (h *DogHandler) GetRoadmap(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.useCase.GetRoadmap(c.Request.Context(), dogID, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *DogHandler) ListStages(c *gin.Context) {
	c.JSON(http.StatusOK, dogUC.Stages())
}

func (h *DogHandler) GetSelectedDog(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	d, err := h.useCase.GetSelectedDog(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dog": d})
}

func (h *DogHandler) SetSelectedDog(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req SelectDogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	d, err := h.useCase.SetSelectedDog(c.Request.Context(), ownerID, req.DogID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dog": d})
}
