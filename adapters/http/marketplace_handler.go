package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	marketplaceUC "github.com/khoahotran/pawpal/internal/application/usecase/marketplace"
	"github.com/khoahotran/pawpal/internal/domain/marketplace"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type MarketplaceHandler struct {
	useCase *marketplaceUC.MarketplaceUseCase
	siteURL string
	logger  logger.Logger
}

func NewMarketplaceHandler(uc *marketplaceUC.MarketplaceUseCase, siteURL string, log logger.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{useCase: uc, siteURL: siteURL, logger: log}
}

func bindListing(c *gin.Context) (marketplaceUC.ListingInput, bool) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return marketplaceUC.ListingInput{}, false
	}
	return marketplaceUC.ListingInput{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Status:      marketplace.Status(req.Status),
		Metadata:    req.Metadata,
		IsPublic:    req.IsPublic,
	}, true
}

func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	sellerID, ok := requireOwner(c)
	if !ok {
		return
	}
	input, ok := bindListing(c)
	if !ok {
		return
	}
	input.SellerID = sellerID

	l, err := h.useCase.CreateListing(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *MarketplaceHandler) UpdateListing(c *gin.Context) {
	sellerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindListing(c)
	if !ok {
		return
	}
	input.SellerID = sellerID

	l, err := h.useCase.UpdateListing(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *MarketplaceHandler) DeleteListing(c *gin.Context) {
	sellerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.DeleteListing(c.Request.Context(), id, sellerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MarketplaceHandler) GetListing(c *gin.Context) {
	sellerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	l, err := h.useCase.GetListing(c.Request.Context(), id, sellerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *MarketplaceHandler) ListMyListings(c *gin.Context) {
	sellerID, ok := requireOwner(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	listings, err := h.useCase.ListMyListings(c.Request.Context(), sellerID, page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *MarketplaceHandler) ListPublicListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	listings, err := h.useCase.ListPublicListings(c.Request.Context(), c.Query("category"), page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *MarketplaceHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := h.useCase.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *MarketplaceHandler) RSS(c *gin.Context) {
	feed, err := h.useCase.PublicFeed(c.Request.Context(), c.Query("category"), h.siteURL)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
