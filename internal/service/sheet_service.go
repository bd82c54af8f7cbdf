package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type sheetStore interface {
	Create(ctx context.Context, sheet *models.PurchaseSheet) error
	GetByID(ctx context.Context, id string) (*models.PurchaseSheet, error)
	List(ctx context.Context, status models.SheetStatus, assignedTo string) ([]models.PurchaseSheet, error)
	UpdateStatus(ctx context.Context, id string, status models.SheetStatus) error
}

type sheetRequestLister interface {
	ListBySheet(ctx context.Context, sheetID string) ([]models.BookRequest, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SheetService manages the purchase sheet lifecycle.
type SheetService struct {
	sheets   sheetStore
	requests sheetRequestLister
	teachers teacherLister
	audit    auditWriter
	logger   *zap.Logger
}

// NewSheetService constructs a SheetService.
func NewSheetService(sheets sheetStore, requests sheetRequestLister, teachers teacherLister, audit auditWriter, logger *zap.Logger) *SheetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetService{sheets: sheets, requests: requests, teachers: teachers, audit: audit, logger: logger}
}

// Create opens a new pending sheet. AssignedTo "all" fans out to one
// sheet per active teacher.
func (s *SheetService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateSheetRequest) ([]models.PurchaseSheet, error) {
	name := strings.TrimSpace(req.SheetName)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sheet name is required")
	}
	if !req.Department.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown department %q", req.Department))
	}

	assignedTo := strings.TrimSpace(req.AssignedTo)
	var created []models.PurchaseSheet

	if assignedTo == dto.AssignToAll {
		teachers, err := s.teachers.ListTeachers(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
		}
		if len(teachers) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "no active teachers to assign")
		}
		for _, teacher := range teachers {
			teacherID := teacher.ID
			sheet := models.PurchaseSheet{
				SheetName:  name,
				Department: req.Department,
				CreatedBy:  actor.UserID,
				AssignedTo: &teacherID,
				Status:     models.SheetStatusPending,
			}
			if err := s.sheets.Create(ctx, &sheet); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sheet")
			}
			created = append(created, sheet)
		}
	} else {
		sheet := models.PurchaseSheet{
			SheetName:  name,
			Department: req.Department,
			CreatedBy:  actor.UserID,
			Status:     models.SheetStatusPending,
		}
		if assignedTo != "" {
			sheet.AssignedTo = &assignedTo
		}
		if err := s.sheets.Create(ctx, &sheet); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sheet")
		}
		created = append(created, sheet)
	}

	s.emitAudit(ctx, actor, models.AuditActionCreateSheet, created[0].ID,
		fmt.Sprintf(`{"sheetName":%q,"count":%d}`, name, len(created)))
	return created, nil
}

// Get returns one sheet with its requests.
func (s *SheetService) Get(ctx context.Context, id string) (*models.PurchaseSheet, []models.BookRequest, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "sheet not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sheet")
	}
	requests, err := s.requests.ListBySheet(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sheet requests")
	}
	return sheet, requests, nil
}

// List returns sheets filtered by status and assignee. Teachers only see
// their own assignments.
func (s *SheetService) List(ctx context.Context, actor *models.JWTClaims, query dto.SheetQuery) ([]models.PurchaseSheet, error) {
	assignedTo := query.AssignedTo
	if actor.Role == models.RoleTeacher {
		assignedTo = actor.UserID
	}
	sheets, err := s.sheets.List(ctx, query.Status, assignedTo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sheets")
	}
	return sheets, nil
}

// MoveToComparing transitions a pending sheet into the comparison phase.
// A sheet with no requests cannot move.
func (s *SheetService) MoveToComparing(ctx context.Context, actor *models.JWTClaims, id string) (*models.PurchaseSheet, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sheet not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sheet")
	}

	requests, err := s.requests.ListBySheet(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sheet requests")
	}
	if len(requests) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoRequests, "sheet has no book requests to compare")
	}

	if err := s.sheets.UpdateStatus(ctx, id, models.SheetStatusComparing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sheet status")
	}
	sheet.Status = models.SheetStatusComparing

	s.emitAudit(ctx, actor, models.AuditActionMoveToCompare, id,
		fmt.Sprintf(`{"requests":%d}`, len(requests)))
	return sheet, nil
}

func (s *SheetService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:     action,
		Resource:   "purchase_sheets",
		ResourceID: &resourceID,
		NewValues:  []byte(newValues),
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create sheet audit", zap.Error(err))
	}
}
