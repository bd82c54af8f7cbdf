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

type auditStub struct {
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type sheetStoreStub struct {
	sheets         map[string]*models.PurchaseSheet
	created        []models.PurchaseSheet
	statusUpdates  map[string]models.SheetStatus
	bulkIDs        []string
	bulkStatus     models.SheetStatus
	listResp       []models.PurchaseSheet
	lastStatus     models.SheetStatus
	lastAssignedTo string
}

func newSheetStoreStub() *sheetStoreStub {
	return &sheetStoreStub{
		sheets:        make(map[string]*models.PurchaseSheet),
		statusUpdates: make(map[string]models.SheetStatus),
	}
}

func (s *sheetStoreStub) Create(ctx context.Context, sheet *models.PurchaseSheet) error {
	if sheet.ID == "" {
		sheet.ID = fmt.Sprintf("sheet-%d", len(s.created)+1)
	}
	if sheet.Status == "" {
		sheet.Status = models.SheetStatusPending
	}
	copied := *sheet
	s.sheets[sheet.ID] = &copied
	s.created = append(s.created, copied)
	return nil
}

func (s *sheetStoreStub) GetByID(ctx context.Context, id string) (*models.PurchaseSheet, error) {
	if sheet, ok := s.sheets[id]; ok {
		copied := *sheet
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *sheetStoreStub) List(ctx context.Context, status models.SheetStatus, assignedTo string) ([]models.PurchaseSheet, error) {
	s.lastStatus = status
	s.lastAssignedTo = assignedTo
	return s.listResp, nil
}

func (s *sheetStoreStub) UpdateStatus(ctx context.Context, id string, status models.SheetStatus) error {
	if _, ok := s.sheets[id]; !ok {
		return sql.ErrNoRows
	}
	s.statusUpdates[id] = status
	s.sheets[id].Status = status
	return nil
}

func (s *sheetStoreStub) UpdateStatusBulk(ctx context.Context, ids []string, status models.SheetStatus) error {
	s.bulkIDs = ids
	s.bulkStatus = status
	for _, id := range ids {
		if sheet, ok := s.sheets[id]; ok {
			sheet.Status = status
		}
	}
	return nil
}

type sheetRequestListerStub struct {
	bySheet map[string][]models.BookRequest
}

func (s *sheetRequestListerStub) ListBySheet(ctx context.Context, sheetID string) ([]models.BookRequest, error) {
	return s.bySheet[sheetID], nil
}

type teacherListerStub struct {
	teachers []models.User
}

func (s *teacherListerStub) ListTeachers(ctx context.Context) ([]models.User, error) {
	return s.teachers, nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, FullName: "Admin User"}
}

func teacherClaims(id, name string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleTeacher, FullName: name}
}

func TestSheetServiceCreateSingle(t *testing.T) {
	store := newSheetStoreStub()
	audit := &auditStub{}
	svc := NewSheetService(store, &sheetRequestListerStub{}, &teacherListerStub{}, audit, nil)

	sheets, err := svc.Create(context.Background(), adminClaims(), dto.CreateSheetRequest{
		SheetName:  "CSE Sem 1",
		Department: models.DepartmentCSE,
		AssignedTo: "teacher-1",
	})
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Equal(t, "CSE Sem 1", sheets[0].SheetName)
	require.NotNil(t, sheets[0].AssignedTo)
	require.Equal(t, "teacher-1", *sheets[0].AssignedTo)
	require.Equal(t, models.SheetStatusPending, sheets[0].Status)
	require.Len(t, audit.logs, 1)
	require.Equal(t, models.AuditActionCreateSheet, audit.logs[0].Action)
}

func TestSheetServiceCreateFansOutToAllTeachers(t *testing.T) {
	store := newSheetStoreStub()
	teachers := &teacherListerStub{teachers: []models.User{
		{ID: "t1", FullName: "Alice Smith"},
		{ID: "t2", FullName: "Bob Jones"},
	}}
	svc := NewSheetService(store, &sheetRequestListerStub{}, teachers, &auditStub{}, nil)

	sheets, err := svc.Create(context.Background(), adminClaims(), dto.CreateSheetRequest{
		SheetName:  "Spring Semester",
		Department: models.DepartmentCSE,
		AssignedTo: dto.AssignToAll,
	})
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	require.Equal(t, "t1", *sheets[0].AssignedTo)
	require.Equal(t, "t2", *sheets[1].AssignedTo)
}

func TestSheetServiceCreateAllWithoutTeachers(t *testing.T) {
	svc := NewSheetService(newSheetStoreStub(), &sheetRequestListerStub{}, &teacherListerStub{}, &auditStub{}, nil)

	_, err := svc.Create(context.Background(), adminClaims(), dto.CreateSheetRequest{
		SheetName:  "Spring Semester",
		Department: models.DepartmentCSE,
		AssignedTo: dto.AssignToAll,
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSheetServiceCreateValidation(t *testing.T) {
	svc := NewSheetService(newSheetStoreStub(), &sheetRequestListerStub{}, &teacherListerStub{}, &auditStub{}, nil)

	_, err := svc.Create(context.Background(), adminClaims(), dto.CreateSheetRequest{
		SheetName:  "   ",
		Department: models.DepartmentCSE,
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), adminClaims(), dto.CreateSheetRequest{
		SheetName:  "CSE Sem 1",
		Department: "astrology",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSheetServiceListTeacherSeesOnlyOwn(t *testing.T) {
	store := newSheetStoreStub()
	svc := NewSheetService(store, &sheetRequestListerStub{}, &teacherListerStub{}, &auditStub{}, nil)

	_, err := svc.List(context.Background(), teacherClaims("t1", "Alice Smith"), dto.SheetQuery{AssignedTo: "t2"})
	require.NoError(t, err)
	require.Equal(t, "t1", store.lastAssignedTo)
}

func TestSheetServiceMoveToComparing(t *testing.T) {
	store := newSheetStoreStub()
	require.NoError(t, store.Create(context.Background(), &models.PurchaseSheet{ID: "sheet-1", SheetName: "CSE Sem 1", Status: models.SheetStatusPending}))
	requests := &sheetRequestListerStub{bySheet: map[string][]models.BookRequest{
		"sheet-1": {{ID: "req-1", BookName: "Calculus"}},
	}}
	audit := &auditStub{}
	svc := NewSheetService(store, requests, &teacherListerStub{}, audit, nil)

	sheet, err := svc.MoveToComparing(context.Background(), adminClaims(), "sheet-1")
	require.NoError(t, err)
	require.Equal(t, models.SheetStatusComparing, sheet.Status)
	require.Equal(t, models.SheetStatusComparing, store.statusUpdates["sheet-1"])
	require.Len(t, audit.logs, 1)
}

func TestSheetServiceMoveToComparingEmptySheet(t *testing.T) {
	store := newSheetStoreStub()
	require.NoError(t, store.Create(context.Background(), &models.PurchaseSheet{ID: "sheet-1", SheetName: "CSE Sem 1"}))
	svc := NewSheetService(store, &sheetRequestListerStub{}, &teacherListerStub{}, &auditStub{}, nil)

	_, err := svc.MoveToComparing(context.Background(), adminClaims(), "sheet-1")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNoRequests.Code, appErrors.FromError(err).Code)
	require.Empty(t, store.statusUpdates)
}

func TestSheetServiceMoveToComparingNotFound(t *testing.T) {
	svc := NewSheetService(newSheetStoreStub(), &sheetRequestListerStub{}, &teacherListerStub{}, &auditStub{}, nil)

	_, err := svc.MoveToComparing(context.Background(), adminClaims(), "missing")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
