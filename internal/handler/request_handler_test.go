package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type requestServiceMock struct {
	createResp *models.BookRequest
	createErr  error
	updateErr  error
	deleteErr  error
	mineResp   []models.BookRequest
	sheetResp  []models.BookRequest
	deletedID  string
}

func (m *requestServiceMock) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateBookRequestRequest) (*models.BookRequest, error) {
	return m.createResp, m.createErr
}

func (m *requestServiceMock) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateBookRequestRequest) (*models.BookRequest, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.BookRequest{ID: id}, nil
}

func (m *requestServiceMock) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	m.deletedID = id
	return m.deleteErr
}

func (m *requestServiceMock) ListBySheet(ctx context.Context, sheetID string) ([]models.BookRequest, error) {
	return m.sheetResp, nil
}

func (m *requestServiceMock) ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.BookRequest, error) {
	return m.mineResp, nil
}

func TestRequestHandlerCreate(t *testing.T) {
	mockSvc := &requestServiceMock{createResp: &models.BookRequest{ID: "req-1", BookName: "Calculus"}}
	handler := NewRequestHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateBookRequestRequest{BookName: "Calculus", Author: "Stewart", Edition: "8th", Quantity: 2})
	c, w := testContext(t, http.MethodPost, "/requests", payload)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "req-1")
}

func TestRequestHandlerCreateInvalidBody(t *testing.T) {
	handler := NewRequestHandler(&requestServiceMock{})

	c, w := testContext(t, http.MethodPost, "/requests", []byte(`{"bookName":`))

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestHandlerCreateValidationError(t *testing.T) {
	mockSvc := &requestServiceMock{createErr: appErrors.ErrValidation}
	handler := NewRequestHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateBookRequestRequest{Quantity: 0})
	c, w := testContext(t, http.MethodPost, "/requests", payload)

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestHandlerUpdateForbidden(t *testing.T) {
	mockSvc := &requestServiceMock{updateErr: appErrors.ErrForbidden}
	handler := NewRequestHandler(mockSvc)

	payload, _ := json.Marshal(dto.UpdateBookRequestRequest{BookName: "Calculus", Author: "Stewart", Edition: "9th", Quantity: 1})
	c, w := testContext(t, http.MethodPut, "/requests/req-1", payload)
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}

	handler.Update(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestHandlerDelete(t *testing.T) {
	mockSvc := &requestServiceMock{}
	handler := NewRequestHandler(mockSvc)

	c, w := testContext(t, http.MethodDelete, "/requests/req-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-1", mockSvc.deletedID)
}

func TestRequestHandlerListMine(t *testing.T) {
	mockSvc := &requestServiceMock{mineResp: []models.BookRequest{{ID: "req-1"}}}
	handler := NewRequestHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/requests/mine", nil)

	handler.ListMine(c)
	require.Equal(t, http.StatusOK, w.Code)
}
