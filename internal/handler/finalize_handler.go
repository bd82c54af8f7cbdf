package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	"github.com/noah-isme/library-purchase-api/internal/service"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
	"github.com/noah-isme/library-purchase-api/pkg/response"
)

type finalizeService interface {
	FinalizeSelected(ctx context.Context, actor *models.JWTClaims, req dto.FinalizeSelectedRequest) ([]models.FinalizedPurchase, error)
	FinalizeAll(ctx context.Context, actor *models.JWTClaims) ([]models.FinalizedPurchase, error)
	MoveBack(ctx context.Context, actor *models.JWTClaims, purchaseID string) error
	ListFinalized(ctx context.Context) ([]models.FinalizedPurchaseDetail, error)
}

type purchaseExporter interface {
	ExportFinalized(ctx context.Context, format service.ExportFormat) (*service.ExportFile, error)
}

// FinalizeHandler exposes finalized purchase endpoints.
type FinalizeHandler struct {
	service  finalizeService
	exporter purchaseExporter
}

// NewFinalizeHandler builds a new handler.
func NewFinalizeHandler(svc finalizeService, exporter purchaseExporter) *FinalizeHandler {
	return &FinalizeHandler{service: svc, exporter: exporter}
}

// FinalizeSelected godoc
// @Summary Finalize selected books
// @Tags Purchases
// @Accept json
// @Produce json
// @Param payload body dto.FinalizeSelectedRequest true "Selection payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /purchases/finalize [post]
func (h *FinalizeHandler) FinalizeSelected(c *gin.Context) {
	var req dto.FinalizeSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}

	purchases, err := h.service.FinalizeSelected(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, purchases)
}

// FinalizeAll godoc
// @Summary Finalize all compared books
// @Description Finalize every priced book under comparing sheets and complete those sheets
// @Tags Purchases
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /purchases/finalize-all [post]
func (h *FinalizeHandler) FinalizeAll(c *gin.Context) {
	purchases, err := h.service.FinalizeAll(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, purchases)
}

// MoveBack godoc
// @Summary Move purchase back to comparison
// @Tags Purchases
// @Produce json
// @Param id path string true "Purchase id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /purchases/{id}/move-back [post]
func (h *FinalizeHandler) MoveBack(c *gin.Context) {
	if err := h.service.MoveBack(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List finalized purchases
// @Tags Purchases
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /purchases [get]
func (h *FinalizeHandler) List(c *gin.Context) {
	purchases, err := h.service.ListFinalized(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, purchases, nil)
}

// Export godoc
// @Summary Export finalized purchases
// @Tags Purchases
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Router /purchases/export [get]
func (h *FinalizeHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	file, err := h.exporter.ExportFinalized(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExportFile(c, file)
}

func writeExportFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
