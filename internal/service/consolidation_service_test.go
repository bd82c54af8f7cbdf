package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type consolidationRequestStoreStub struct {
	pending    []models.BookRequest
	lastIDs    []string
	lastBatch  []models.BookRequest
	batchCalls int
}

func (s *consolidationRequestStoreStub) ListPendingByTeachers(ctx context.Context, teacherIDs []string) ([]models.BookRequest, error) {
	s.lastIDs = teacherIDs
	return s.pending, nil
}

func (s *consolidationRequestStoreStub) CreateBatch(ctx context.Context, requests []models.BookRequest) error {
	s.lastBatch = requests
	s.batchCalls++
	return nil
}

func TestConsolidationServiceMergesDuplicates(t *testing.T) {
	aliceSheet := "sheet-a"
	bobSheet := "sheet-b"
	requests := &consolidationRequestStoreStub{pending: []models.BookRequest{
		{ID: "req-1", SheetID: &aliceSheet, TeacherID: "t1", TeacherName: "Alice Smith", BookName: "Calculus", Author: "Stewart", Edition: "8th", Quantity: 2, Status: models.RequestStatusPending},
		{ID: "req-2", SheetID: &bobSheet, TeacherID: "t2", TeacherName: "Bob Jones", BookName: "calculus", Author: "STEWART", Edition: "8th", Quantity: 3, Status: models.RequestStatusPending},
		{ID: "req-3", SheetID: &bobSheet, TeacherID: "t2", TeacherName: "Bob Jones", BookName: "Physics", Author: "Halliday", Edition: "10th", Quantity: 1, Status: models.RequestStatusPending},
	}}
	sheets := newSheetStoreStub()
	teachers := &teacherListerStub{teachers: []models.User{
		{ID: "t1", FullName: "Alice Smith"},
		{ID: "t2", FullName: "Bob Jones"},
	}}
	audit := &auditStub{}
	svc := NewConsolidationService(requests, sheets, teachers, audit, nil)

	sheet, merged, err := svc.Consolidate(context.Background(), adminClaims(), dto.ConsolidateRequest{TeacherIDs: []string{"t1", "t2"}})
	require.NoError(t, err)
	require.Equal(t, []string{"t1", "t2"}, requests.lastIDs)

	require.Equal(t, models.DepartmentConsolidated, sheet.Department)
	require.Contains(t, sheet.SheetName, "Consolidated Sheet - Alice, Bob")
	require.Equal(t, "admin-1", sheet.CreatedBy)

	require.Len(t, merged, 2)
	require.Equal(t, "Calculus", merged[0].BookName)
	require.Equal(t, 5, merged[0].Quantity)
	require.Equal(t, "Alice Smith, Bob Jones", merged[0].TeacherName)
	require.Equal(t, models.RequestStatusApproved, merged[0].Status)
	require.Equal(t, sheet.ID, *merged[0].SheetID)

	require.Equal(t, "Physics", merged[1].BookName)
	require.Equal(t, 1, merged[1].Quantity)
	require.Equal(t, "Bob Jones", merged[1].TeacherName)

	require.Equal(t, 1, requests.batchCalls)
	require.Len(t, audit.logs, 1)
	require.Equal(t, models.AuditActionConsolidate, audit.logs[0].Action)
}

func TestConsolidationServiceKeepsDistinctEditionsApart(t *testing.T) {
	requests := &consolidationRequestStoreStub{pending: []models.BookRequest{
		{ID: "req-1", TeacherID: "t1", TeacherName: "Alice Smith", BookName: "Calculus", Author: "Stewart", Edition: "8th", Quantity: 2, Status: models.RequestStatusPending},
		{ID: "req-2", TeacherID: "t2", TeacherName: "Bob Jones", BookName: "Calculus", Author: "Stewart", Edition: "9th", Quantity: 3, Status: models.RequestStatusPending},
	}}
	svc := NewConsolidationService(requests, newSheetStoreStub(), &teacherListerStub{}, &auditStub{}, nil)

	_, merged, err := svc.Consolidate(context.Background(), adminClaims(), dto.ConsolidateRequest{TeacherIDs: []string{"t1", "t2"}})
	require.NoError(t, err)
	require.Len(t, merged, 2)
	require.Equal(t, 2, merged[0].Quantity)
	require.Equal(t, 3, merged[1].Quantity)
}

func TestConsolidationServiceSheetNameCoversAllSelectedTeachers(t *testing.T) {
	requests := &consolidationRequestStoreStub{pending: []models.BookRequest{
		{ID: "req-1", TeacherID: "t1", TeacherName: "Alice Smith", BookName: "Calculus", Author: "Stewart", Edition: "8th", Quantity: 2, Status: models.RequestStatusPending},
	}}
	teachers := &teacherListerStub{teachers: []models.User{
		{ID: "t1", FullName: "Alice Smith"},
		{ID: "t2", FullName: "Bob Jones"},
	}}
	svc := NewConsolidationService(requests, newSheetStoreStub(), teachers, &auditStub{}, nil)

	sheet, _, err := svc.Consolidate(context.Background(), adminClaims(), dto.ConsolidateRequest{TeacherIDs: []string{"t1", "t2"}})
	require.NoError(t, err)
	require.Contains(t, sheet.SheetName, "Consolidated Sheet - Alice, Bob")
}

func TestConsolidationServiceUsesProvidedSheetName(t *testing.T) {
	requests := &consolidationRequestStoreStub{pending: []models.BookRequest{
		{ID: "req-1", TeacherID: "t1", TeacherName: "Alice Smith", BookName: "Calculus", Author: "Stewart", Edition: "8th", Quantity: 2, Status: models.RequestStatusPending},
	}}
	svc := NewConsolidationService(requests, newSheetStoreStub(), &teacherListerStub{}, &auditStub{}, nil)

	sheet, _, err := svc.Consolidate(context.Background(), adminClaims(), dto.ConsolidateRequest{
		SheetName:  "Spring Merge",
		TeacherIDs: []string{"t1"},
	})
	require.NoError(t, err)
	require.Equal(t, "Spring Merge", sheet.SheetName)
}

func TestConsolidationServiceEmptyTeacherSelection(t *testing.T) {
	svc := NewConsolidationService(&consolidationRequestStoreStub{}, newSheetStoreStub(), &teacherListerStub{}, &auditStub{}, nil)

	_, _, err := svc.Consolidate(context.Background(), adminClaims(), dto.ConsolidateRequest{})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrEmptySelection.Code, appErrors.FromError(err).Code)
}

func TestConsolidationServiceNoPendingRequests(t *testing.T) {
	requests := &consolidationRequestStoreStub{}
	sheets := newSheetStoreStub()
	svc := NewConsolidationService(requests, sheets, &teacherListerStub{}, &auditStub{}, nil)

	_, _, err := svc.Consolidate(context.Background(), adminClaims(), dto.ConsolidateRequest{TeacherIDs: []string{"t1"}})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrEmptySelection.Code, appErrors.FromError(err).Code)
	require.Empty(t, sheets.created)
	require.Zero(t, requests.batchCalls)
}
