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

type requestService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateBookRequestRequest) (*models.BookRequest, error)
	Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateBookRequestRequest) (*models.BookRequest, error)
	Delete(ctx context.Context, actor *models.JWTClaims, id string) error
	ListBySheet(ctx context.Context, sheetID string) ([]models.BookRequest, error)
	ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.BookRequest, error)
}

// RequestHandler exposes book request endpoints.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler builds a new handler.
func NewRequestHandler(service requestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create godoc
// @Summary Create book request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.CreateBookRequestRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	request, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Update godoc
// @Summary Update book request
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request id"
// @Param payload body dto.UpdateBookRequestRequest true "Request payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id} [put]
func (h *RequestHandler) Update(c *gin.Context) {
	var req dto.UpdateBookRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	request, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Delete godoc
// @Summary Delete book request
// @Tags Requests
// @Produce json
// @Param id path string true "Request id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListMine godoc
// @Summary List own book requests
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/mine [get]
func (h *RequestHandler) ListMine(c *gin.Context) {
	requests, err := h.service.ListMine(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// ListBySheet godoc
// @Summary List requests of one sheet
// @Tags Requests
// @Produce json
// @Param id path string true "Sheet id"
// @Success 200 {object} response.Envelope
// @Router /sheets/{id}/requests [get]
func (h *RequestHandler) ListBySheet(c *gin.Context) {
	requests, err := h.service.ListBySheet(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}
