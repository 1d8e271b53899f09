package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	nutritionUC "github.com/khoahotran/pawpal/internal/application/usecase/nutrition"
	"github.com/khoahotran/pawpal/internal/domain/nutrition"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

type NutritionHandler struct {
	useCase *nutritionUC.NutritionUseCase
}

func NewNutritionHandler(uc *nutritionUC.NutritionUseCase) *NutritionHandler {
	return &NutritionHandler{useCase: uc}
}

func bindMeal(c *gin.Context) (nutritionUC.MealInput, bool) {
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return nutritionUC.MealInput{}, false
	}
	return nutritionUC.MealInput{
		MealType:    nutrition.MealType(req.MealType),
		FoodName:    req.FoodName,
		AmountGrams: req.AmountGrams,
		Calories:    req.Calories,
		Notes:       req.Notes,
		FedAt:       req.FedAt,
	}, true
}

func (h *NutritionHandler) LogMeal(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindMeal(c)
	if !ok {
		return
	}
	input.OwnerID, input.DogID = ownerID, dogID

	m, err := h.useCase.LogMeal(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *NutritionHandler) ListMeals(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	meals, err := h.useCase.ListMeals(c.Request.Context(), ownerID, dogID, page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *NutritionHandler) UpdateMeal(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindMeal(c)
	if !ok {
		return
	}
	input.OwnerID = ownerID

	m, err := h.useCase.UpdateMeal(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *NutritionHandler) DeleteMeal(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.DeleteMeal(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NutritionHandler) DailySummary(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	s, err := h.useCase.DailySummary(c.Request.Context(), ownerID, dogID, c.Query("date"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, s)
}
