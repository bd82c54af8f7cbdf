package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type consolidationRequestStore interface {
	ListPendingByTeachers(ctx context.Context, teacherIDs []string) ([]models.BookRequest, error)
	CreateBatch(ctx context.Context, requests []models.BookRequest) error
}

type consolidationSheetStore interface {
	Create(ctx context.Context, sheet *models.PurchaseSheet) error
}

// ConsolidationService merges duplicate book requests across teachers
// onto a single synthetic sheet.
type ConsolidationService struct {
	requests consolidationRequestStore
	sheets   consolidationSheetStore
	teachers teacherLister
	audit    auditWriter
	logger   *zap.Logger
}

// NewConsolidationService constructs a ConsolidationService.
func NewConsolidationService(requests consolidationRequestStore, sheets consolidationSheetStore, teachers teacherLister, audit auditWriter, logger *zap.Logger) *ConsolidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsolidationService{requests: requests, sheets: sheets, teachers: teachers, audit: audit, logger: logger}
}

// Consolidate merges the pending requests of the selected teachers.
// Requests sharing a book name, author and edition (case-insensitive)
// collapse into one row with summed quantity and the contributing
// teacher names joined in first-seen order. Merged copies land on a new
// consolidated sheet; the originals stay untouched.
func (s *ConsolidationService) Consolidate(ctx context.Context, actor *models.JWTClaims, req dto.ConsolidateRequest) (*models.PurchaseSheet, []models.BookRequest, error) {
	if len(req.TeacherIDs) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrEmptySelection, "no teachers selected")
	}

	pending, err := s.requests.ListPendingByTeachers(ctx, req.TeacherIDs)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending requests")
	}
	if len(pending) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrEmptySelection, "selected teachers have no pending requests")
	}

	merged := mergeRequests(pending)

	sheetName := strings.TrimSpace(req.SheetName)
	if sheetName == "" {
		teachers, err := s.teachers.ListTeachers(ctx)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
		}
		sheetName = consolidatedSheetName(req.TeacherIDs, teachers)
	}
	sheet := models.PurchaseSheet{
		SheetName:  sheetName,
		Department: models.DepartmentConsolidated,
		CreatedBy:  actor.UserID,
		Status:     models.SheetStatusPending,
	}
	if err := s.sheets.Create(ctx, &sheet); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create consolidated sheet")
	}

	for i := range merged {
		sheetID := sheet.ID
		merged[i].SheetID = &sheetID
	}
	if err := s.requests.CreateBatch(ctx, merged); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store consolidated requests")
	}

	s.emitAudit(ctx, actor, sheet.ID, fmt.Sprintf(`{"teachers":%d,"source":%d,"merged":%d}`, len(req.TeacherIDs), len(pending), len(merged)))
	return &sheet, merged, nil
}

// mergeRequests collapses duplicates preserving first-seen group order.
// Merged copies carry status approved so a later consolidation run does
// not pick them up again as pending.
func mergeRequests(pending []models.BookRequest) []models.BookRequest {
	type group struct {
		request models.BookRequest
		names   map[string]bool
	}

	groups := make(map[string]*group, len(pending))
	order := make([]string, 0, len(pending))

	for _, request := range pending {
		key := strings.ToLower(strings.TrimSpace(request.BookName)) + "|" +
			strings.ToLower(strings.TrimSpace(request.Author)) + "|" +
			strings.ToLower(strings.TrimSpace(request.Edition))

		g, ok := groups[key]
		if !ok {
			base := request
			base.ID = ""
			base.SheetID = nil
			base.Status = models.RequestStatusApproved
			groups[key] = &group{
				request: base,
				names:   map[string]bool{request.TeacherName: true},
			}
			order = append(order, key)
			continue
		}

		g.request.Quantity += request.Quantity
		if !g.names[request.TeacherName] {
			g.names[request.TeacherName] = true
			g.request.TeacherName = g.request.TeacherName + ", " + request.TeacherName
		}
	}

	merged := make([]models.BookRequest, 0, len(order))
	for _, key := range order {
		merged = append(merged, groups[key].request)
	}
	return merged
}

// consolidatedSheetName titles the sheet after the selected teachers'
// first names in selection order, so every selected teacher appears
// even when their requests merged under another teacher's row.
func consolidatedSheetName(teacherIDs []string, teachers []models.User) string {
	byID := make(map[string]string, len(teachers))
	for _, teacher := range teachers {
		byID[teacher.ID] = teacher.FullName
	}

	seen := make(map[string]bool)
	firstNames := make([]string, 0, len(teacherIDs))
	for _, id := range teacherIDs {
		name := strings.TrimSpace(byID[id])
		if name == "" {
			continue
		}
		first := strings.Fields(name)[0]
		if !seen[first] {
			seen[first] = true
			firstNames = append(firstNames, first)
		}
	}
	return fmt.Sprintf("Consolidated Sheet - %s - %s", strings.Join(firstNames, ", "), time.Now().UTC().Format("2006-01-02"))
}

func (s *ConsolidationService) emitAudit(ctx context.Context, actor *models.JWTClaims, sheetID, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:     models.AuditActionConsolidate,
		Resource:   "purchase_sheets",
		ResourceID: &sheetID,
		NewValues:  []byte(newValues),
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create consolidation audit", zap.Error(err))
	}
}
