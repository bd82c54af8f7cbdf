package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
	"github.com/noah-isme/library-purchase-api/pkg/response"
)

type comparisonService interface {
	Board(ctx context.Context) ([]dto.ComparisonBoardItem, error)
	RecordPrices(ctx context.Context, actor *models.JWTClaims, req dto.SavePricesRequest) error
}

// ComparisonHandler exposes price comparison endpoints.
type ComparisonHandler struct {
	service comparisonService
}

// NewComparisonHandler builds a new handler.
func NewComparisonHandler(service comparisonService) *ComparisonHandler {
	return &ComparisonHandler{service: service}
}

// Board godoc
// @Summary Price comparison board
// @Description Requests under comparing sheets with their saved quotes
// @Tags Comparisons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /comparisons/board [get]
func (h *ComparisonHandler) Board(c *gin.Context) {
	items, err := h.service.Board(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// SavePrices godoc
// @Summary Save shop quotes
// @Description Replace the quote set for the listed books
// @Tags Comparisons
// @Accept json
// @Produce json
// @Param payload body dto.SavePricesRequest true "Prices payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /comparisons/prices [put]
func (h *ComparisonHandler) SavePrices(c *gin.Context) {
	var req dto.SavePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid prices payload"))
		return
	}

	if err := h.service.RecordPrices(c.Request.Context(), claimsFromContext(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
