package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	healthUC "github.com/khoahotran/pawpal/internal/application/usecase/health"
	"github.com/khoahotran/pawpal/internal/domain/health"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

type HealthHandler struct {
	useCase *healthUC.HealthUseCase
}

func NewHealthHandler(uc *healthUC.HealthUseCase) *HealthHandler {
	return &HealthHandler{useCase: uc}
}

func bindHealthRecord(c *gin.Context) (healthUC.RecordInput, bool) {
	var req HealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return healthUC.RecordInput{}, false
	}
	return healthUC.RecordInput{
		RecordType: health.RecordType(req.RecordType),
		Title:      req.Title,
		Notes:      req.Notes,
		RecordedAt: req.RecordedAt,
		NextDueAt:  req.NextDueAt,
		WeightKg:   req.WeightKg,
		Metadata:   req.Metadata,
	}, true
}

func (h *HealthHandler) CreateRecord(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindHealthRecord(c)
	if !ok {
		return
	}
	input.OwnerID, input.DogID = ownerID, dogID

	rec, err := h.useCase.CreateRecord(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *HealthHandler) ListRecords(c *gin.Context) {
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

	recs, err := h.useCase.ListRecords(c.Request.Context(), ownerID, dogID, c.Query("type"), page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *HealthHandler) Upcoming(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	recs, err := h.useCase.Upcoming(c.Request.Context(), ownerID, dogID, days)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *HealthHandler) GetRecord(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rec, err := h.useCase.GetRecord(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *HealthHandler) UpdateRecord(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindHealthRecord(c)
	if !ok {
		return
	}
	input.OwnerID = ownerID

	rec, err := h.useCase.UpdateRecord(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *HealthHandler) DeleteRecord(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.DeleteRecord(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
