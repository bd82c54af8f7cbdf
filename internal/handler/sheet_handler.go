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

type sheetService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateSheetRequest) ([]models.PurchaseSheet, error)
	Get(ctx context.Context, id string) (*models.PurchaseSheet, []models.BookRequest, error)
	List(ctx context.Context, actor *models.JWTClaims, query dto.SheetQuery) ([]models.PurchaseSheet, error)
	MoveToComparing(ctx context.Context, actor *models.JWTClaims, id string) (*models.PurchaseSheet, error)
}

type consolidationService interface {
	Consolidate(ctx context.Context, actor *models.JWTClaims, req dto.ConsolidateRequest) (*models.PurchaseSheet, []models.BookRequest, error)
}

// SheetHandler exposes purchase sheet endpoints.
type SheetHandler struct {
	sheets        sheetService
	consolidation consolidationService
}

// NewSheetHandler builds a new handler.
func NewSheetHandler(sheets sheetService, consolidation consolidationService) *SheetHandler {
	return &SheetHandler{sheets: sheets, consolidation: consolidation}
}

// Create godoc
// @Summary Create purchase sheet
// @Description Create one sheet, or one per active teacher when assignedTo is "all"
// @Tags Sheets
// @Accept json
// @Produce json
// @Param payload body dto.CreateSheetRequest true "Sheet payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sheets [post]
func (h *SheetHandler) Create(c *gin.Context) {
	var req dto.CreateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sheet payload"))
		return
	}

	sheets, err := h.sheets.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sheets)
}

// List godoc
// @Summary List purchase sheets
// @Tags Sheets
// @Produce json
// @Param status query string false "Sheet status filter"
// @Param assignedTo query string false "Assignee filter"
// @Success 200 {object} response.Envelope
// @Router /sheets [get]
func (h *SheetHandler) List(c *gin.Context) {
	query := dto.SheetQuery{
		Status:     models.SheetStatus(c.Query("status")),
		AssignedTo: c.Query("assignedTo"),
	}
	sheets, err := h.sheets.List(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheets, nil)
}

// Get godoc
// @Summary Get sheet with requests
// @Tags Sheets
// @Produce json
// @Param id path string true "Sheet id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sheets/{id} [get]
func (h *SheetHandler) Get(c *gin.Context) {
	sheet, requests, err := h.sheets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"sheet": sheet, "requests": requests}, nil)
}

// MoveToComparing godoc
// @Summary Move sheet to comparison phase
// @Tags Sheets
// @Produce json
// @Param id path string true "Sheet id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /sheets/{id}/compare [post]
func (h *SheetHandler) MoveToComparing(c *gin.Context) {
	sheet, err := h.sheets.MoveToComparing(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Consolidate godoc
// @Summary Consolidate pending requests
// @Description Merge the selected teachers' pending requests onto a new consolidated sheet
// @Tags Sheets
// @Accept json
// @Produce json
// @Param payload body dto.ConsolidateRequest true "Consolidation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sheets/consolidate [post]
func (h *SheetHandler) Consolidate(c *gin.Context) {
	var req dto.ConsolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid consolidation payload"))
		return
	}

	sheet, requests, err := h.consolidation.Consolidate(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"sheet": sheet, "requests": requests})
}
