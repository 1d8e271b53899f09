package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	trainingUC "github.com/khoahotran/pawpal/internal/application/usecase/training"
	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

type TrainingHandler struct {
	useCase *trainingUC.TrainingUseCase
}

func NewTrainingHandler(uc *trainingUC.TrainingUseCase) *TrainingHandler {
	return &TrainingHandler{useCase: uc}
}

func (h *TrainingHandler) ListSkills(c *gin.Context) {
	skills, err := h.useCase.ListSkills(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	dtos := make([]SkillDTO, len(skills))
	for i, s := range skills {
		dtos[i] = ToSkillDTO(s)
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *TrainingHandler) ListDogSkills(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	progress, err := h.useCase.ListDogSkills(c.Request.Context(), ownerID, dogID)
	if err != nil {
		c.Error(err)
		return
	}
	dtos := make([]ProgressDTO, len(progress))
	for i, p := range progress {
		dtos[i] = ToProgressDTO(p)
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *TrainingHandler) StartSkill(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req StartSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	ds, err := h.useCase.StartSkill(c.Request.Context(), ownerID, dogID, req.SkillID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ds)
}

func (h *TrainingHandler) GetProgress(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	skillID, ok := uuidParam(c, "skillId")
	if !ok {
		return
	}
	p, err := h.useCase.GetProgress(c.Request.Context(), ownerID, dogID, skillID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProgressDTO(p))
}

func (h *TrainingHandler) LogSession(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	skillID, ok := uuidParam(c, "skillId")
	if !ok {
		return
	}
	var req LogSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.useCase.LogSession(c.Request.Context(), trainingUC.LogSessionInput{
		OwnerID:     ownerID,
		DogID:       dogID,
		SkillID:     skillID,
		Context:     training.PracticeContext(req.Context),
		SuccessRate: *req.SuccessRate,
		Notes:       req.Notes,
		PracticedAt: req.PracticedAt,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, LogSessionResponse{Session: out.Session, DogSkill: out.DogSkill})
}

func (h *TrainingHandler) ListSessions(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	skillID, ok := uuidParam(c, "skillId")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	sessions, err := h.useCase.ListSessions(c.Request.Context(), ownerID, dogID, skillID, page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *TrainingHandler) Promote(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	skillID, ok := uuidParam(c, "skillId")
	if !ok {
		return
	}
	p, err := h.useCase.Promote(c.Request.Context(), ownerID, dogID, skillID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProgressDTO(p))
}
