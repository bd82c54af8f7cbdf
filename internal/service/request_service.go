package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type requestStore interface {
	Create(ctx context.Context, request *models.BookRequest) error
	GetByID(ctx context.Context, id string) (*models.BookRequest, error)
	Update(ctx context.Context, request *models.BookRequest) error
	Delete(ctx context.Context, id string) error
	ListBySheet(ctx context.Context, sheetID string) ([]models.BookRequest, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.BookRequest, error)
}

// RequestService manages teacher book requests.
type RequestService struct {
	repo   requestStore
	logger *zap.Logger
}

// NewRequestService constructs a RequestService.
func NewRequestService(repo requestStore, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, logger: logger}
}

// Create validates and stores a new book request for the acting teacher.
// Validation happens before any store call so a bad payload never touches
// the database.
func (s *RequestService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateBookRequestRequest) (*models.BookRequest, error) {
	if err := validateBookFields(req.BookName, req.Author, req.Edition, req.Quantity); err != nil {
		return nil, err
	}

	request := &models.BookRequest{
		TeacherID:   actor.UserID,
		TeacherName: actor.FullName,
		BookName:    strings.TrimSpace(req.BookName),
		Author:      strings.TrimSpace(req.Author),
		Edition:     strings.TrimSpace(req.Edition),
		Quantity:    req.Quantity,
		Status:      models.RequestStatusPending,
	}
	if sheetID := strings.TrimSpace(req.SheetID); sheetID != "" {
		request.SheetID = &sheetID
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create book request")
	}
	return request, nil
}

// Update rewrites the book fields of one request owned by the actor.
func (s *RequestService) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateBookRequestRequest) (*models.BookRequest, error) {
	if err := validateBookFields(req.BookName, req.Author, req.Edition, req.Quantity); err != nil {
		return nil, err
	}

	request, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	request.BookName = strings.TrimSpace(req.BookName)
	request.Author = strings.TrimSpace(req.Author)
	request.Edition = strings.TrimSpace(req.Edition)
	request.Quantity = req.Quantity

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update book request")
	}
	return request, nil
}

// Delete removes one request owned by the actor.
func (s *RequestService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "book request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete book request")
	}
	return nil
}

// ListBySheet returns the requests attached to one sheet.
func (s *RequestService) ListBySheet(ctx context.Context, sheetID string) ([]models.BookRequest, error) {
	requests, err := s.repo.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sheet requests")
	}
	return requests, nil
}

// ListMine returns the acting teacher's own requests.
func (s *RequestService) ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.BookRequest, error) {
	requests, err := s.repo.ListByTeacher(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher requests")
	}
	return requests, nil
}

func (s *RequestService) loadOwned(ctx context.Context, actor *models.JWTClaims, id string) (*models.BookRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book request")
	}
	if actor.Role == models.RoleTeacher && request.TeacherID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request belongs to another teacher")
	}
	return request, nil
}

func validateBookFields(bookName, author, edition string, quantity int) error {
	if strings.TrimSpace(bookName) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "book name is required")
	}
	if strings.TrimSpace(author) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "author is required")
	}
	if strings.TrimSpace(edition) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "edition is required")
	}
	if quantity < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "quantity must be at least 1")
	}
	return nil
}
