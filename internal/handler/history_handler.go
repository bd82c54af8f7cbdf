package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-purchase-api/internal/models"
	"github.com/noah-isme/library-purchase-api/internal/service"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
	"github.com/noah-isme/library-purchase-api/pkg/response"
)

type cycleService interface {
	CloseCycle(ctx context.Context, actor *models.JWTClaims) (string, error)
	ListCycles(ctx context.Context) ([]models.CycleSummary, error)
	CyclePurchases(ctx context.Context, cycleID string) ([]models.FinalizedPurchaseHistory, error)
	DeleteCycle(ctx context.Context, actor *models.JWTClaims, cycleID string) error
}

type cycleExporter interface {
	ExportCycle(ctx context.Context, cycleID string, format service.ExportFormat) (*service.ExportFile, error)
}

// HistoryHandler exposes purchase cycle history endpoints.
type HistoryHandler struct {
	service  cycleService
	exporter cycleExporter
}

// NewHistoryHandler builds a new handler.
func NewHistoryHandler(svc cycleService, exporter cycleExporter) *HistoryHandler {
	return &HistoryHandler{service: svc, exporter: exporter}
}

// CloseCycle godoc
// @Summary Close the current purchase cycle
// @Description Archive all live sheets, requests and purchases under a new cycle id
// @Tags History
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /history/close [post]
func (h *HistoryHandler) CloseCycle(c *gin.Context) {
	cycleID, err := h.service.CloseCycle(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"cycleId": cycleID})
}

// ListCycles godoc
// @Summary List archived cycles
// @Tags History
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /history/cycles [get]
func (h *HistoryHandler) ListCycles(c *gin.Context) {
	cycles, err := h.service.ListCycles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cycles, nil)
}

// CyclePurchases godoc
// @Summary List purchases of one archived cycle
// @Tags History
// @Produce json
// @Param id path string true "Cycle id"
// @Success 200 {object} response.Envelope
// @Router /history/cycles/{id} [get]
func (h *HistoryHandler) CyclePurchases(c *gin.Context) {
	purchases, err := h.service.CyclePurchases(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, purchases, nil)
}

// DeleteCycle godoc
// @Summary Delete one archived cycle
// @Tags History
// @Produce json
// @Param id path string true "Cycle id"
// @Success 204 {object} response.Envelope
// @Router /history/cycles/{id} [delete]
func (h *HistoryHandler) DeleteCycle(c *gin.Context) {
	if err := h.service.DeleteCycle(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCycle godoc
// @Summary Export one archived cycle
// @Tags History
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Cycle id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Failure 404 {object} response.Envelope
// @Router /history/cycles/{id}/export [get]
func (h *HistoryHandler) ExportCycle(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	file, err := h.exporter.ExportCycle(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExportFile(c, file)
}
