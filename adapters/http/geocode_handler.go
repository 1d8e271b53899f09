package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	geocodeUC "github.com/khoahotran/pawpal/internal/application/usecase/geocode"
)

type GeocodeHandler struct {
	useCase *geocodeUC.GeocodeUseCase
}

func NewGeocodeHandler(uc *geocodeUC.GeocodeUseCase) *GeocodeHandler {
	return &GeocodeHandler{useCase: uc}
}

func (h *GeocodeHandler) Geocode(c *gin.Context) {
	res, err := h.useCase.Lookup(c.Request.Context(), c.Query("address"))
	if err != nil {
		c.Error(err)
		return
	}
	if res == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, res)
}
