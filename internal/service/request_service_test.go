package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type requestStoreStub struct {
	requests map[string]*models.BookRequest
	deleted  []string
}

func newRequestStoreStub() *requestStoreStub {
	return &requestStoreStub{requests: make(map[string]*models.BookRequest)}
}

func (s *requestStoreStub) Create(ctx context.Context, request *models.BookRequest) error {
	if request.ID == "" {
		request.ID = fmt.Sprintf("req-%d", len(s.requests)+1)
	}
	copied := *request
	s.requests[request.ID] = &copied
	return nil
}

func (s *requestStoreStub) GetByID(ctx context.Context, id string) (*models.BookRequest, error) {
	if request, ok := s.requests[id]; ok {
		copied := *request
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *requestStoreStub) Update(ctx context.Context, request *models.BookRequest) error {
	if _, ok := s.requests[request.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *request
	s.requests[request.ID] = &copied
	return nil
}

func (s *requestStoreStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.requests[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.requests, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *requestStoreStub) ListBySheet(ctx context.Context, sheetID string) ([]models.BookRequest, error) {
	var result []models.BookRequest
	for _, request := range s.requests {
		if request.SheetID != nil && *request.SheetID == sheetID {
			result = append(result, *request)
		}
	}
	return result, nil
}

func (s *requestStoreStub) ListByTeacher(ctx context.Context, teacherID string) ([]models.BookRequest, error) {
	var result []models.BookRequest
	for _, request := range s.requests {
		if request.TeacherID == teacherID {
			result = append(result, *request)
		}
	}
	return result, nil
}

func TestRequestServiceCreate(t *testing.T) {
	store := newRequestStoreStub()
	svc := NewRequestService(store, nil)

	request, err := svc.Create(context.Background(), teacherClaims("t1", "Alice Smith"), dto.CreateBookRequestRequest{
		SheetID:  " sheet-1 ",
		BookName: "  Calculus ",
		Author:   "Stewart",
		Edition:  "8th",
		Quantity: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "t1", request.TeacherID)
	require.Equal(t, "Alice Smith", request.TeacherName)
	require.Equal(t, "Calculus", request.BookName)
	require.Equal(t, models.RequestStatusPending, request.Status)
	require.NotNil(t, request.SheetID)
	require.Equal(t, "sheet-1", *request.SheetID)
}

func TestRequestServiceCreateValidation(t *testing.T) {
	svc := NewRequestService(newRequestStoreStub(), nil)
	actor := teacherClaims("t1", "Alice Smith")

	cases := []dto.CreateBookRequestRequest{
		{BookName: "  ", Author: "Stewart", Edition: "8th", Quantity: 1},
		{BookName: "Calculus", Author: "", Edition: "8th", Quantity: 1},
		{BookName: "Calculus", Author: "Stewart", Edition: " ", Quantity: 1},
		{BookName: "Calculus", Author: "Stewart", Edition: "8th", Quantity: 0},
	}
	for _, payload := range cases {
		_, err := svc.Create(context.Background(), actor, payload)
		require.Error(t, err)
		require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestRequestServiceUpdateOwnRequest(t *testing.T) {
	store := newRequestStoreStub()
	store.requests["req-1"] = &models.BookRequest{ID: "req-1", TeacherID: "t1", BookName: "Calculus", Author: "Stewart", Edition: "7th", Quantity: 1}
	svc := NewRequestService(store, nil)

	request, err := svc.Update(context.Background(), teacherClaims("t1", "Alice Smith"), "req-1", dto.UpdateBookRequestRequest{
		BookName: "Calculus",
		Author:   "Stewart",
		Edition:  "8th",
		Quantity: 3,
	})
	require.NoError(t, err)
	require.Equal(t, "8th", request.Edition)
	require.Equal(t, 3, request.Quantity)
}

func TestRequestServiceUpdateForeignRequestForbidden(t *testing.T) {
	store := newRequestStoreStub()
	store.requests["req-1"] = &models.BookRequest{ID: "req-1", TeacherID: "t1", BookName: "Calculus", Author: "Stewart", Edition: "8th", Quantity: 1}
	svc := NewRequestService(store, nil)

	_, err := svc.Update(context.Background(), teacherClaims("t2", "Bob Jones"), "req-1", dto.UpdateBookRequestRequest{
		BookName: "Calculus",
		Author:   "Stewart",
		Edition:  "9th",
		Quantity: 1,
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRequestServiceAdminCanDeleteAnyRequest(t *testing.T) {
	store := newRequestStoreStub()
	store.requests["req-1"] = &models.BookRequest{ID: "req-1", TeacherID: "t1"}
	svc := NewRequestService(store, nil)

	require.NoError(t, svc.Delete(context.Background(), adminClaims(), "req-1"))
	require.Equal(t, []string{"req-1"}, store.deleted)
}

func TestRequestServiceDeleteNotFound(t *testing.T) {
	svc := NewRequestService(newRequestStoreStub(), nil)

	err := svc.Delete(context.Background(), adminClaims(), "missing")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRequestServiceListMine(t *testing.T) {
	store := newRequestStoreStub()
	store.requests["req-1"] = &models.BookRequest{ID: "req-1", TeacherID: "t1"}
	store.requests["req-2"] = &models.BookRequest{ID: "req-2", TeacherID: "t2"}
	svc := NewRequestService(store, nil)

	requests, err := svc.ListMine(context.Background(), teacherClaims("t1", "Alice Smith"))
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, "req-1", requests[0].ID)
}
