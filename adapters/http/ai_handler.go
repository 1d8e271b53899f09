package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	assistantUC "github.com/khoahotran/pawpal/internal/application/usecase/assistant"
	insightUC "github.com/khoahotran/pawpal/internal/application/usecase/insight"
	"github.com/khoahotran/pawpal/pkg/apperror"
)

type AIHandler struct {
	insightUC   *insightUC.InsightUseCase
	assistantUC *assistantUC.AssistantUseCase
}

func NewAIHandler(iuc *insightUC.InsightUseCase, auc *assistantUC.AssistantUseCase) *AIHandler {
	return &AIHandler{insightUC: iuc, assistantUC: auc}
}

func (h *AIHandler) GetDogInsight(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	dogID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	in, err := h.insightUC.GetDogInsight(c.Request.Context(), ownerID, dogID, c.Param("kind"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *AIHandler) LifestyleGuide(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	in, err := h.insightUC.LifestyleGuide(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *AIHandler) Chat(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.assistantUC.Chat(c.Request.Context(), assistantUC.ChatInput{
		OwnerID:  ownerID,
		DogID:    req.DogID,
		Messages: req.Messages,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}
