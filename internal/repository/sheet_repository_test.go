package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-purchase-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sheetRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "sheet_name", "department", "created_by", "assigned_to", "status", "created_at", "updated_at"})
}

func TestSheetRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSheetRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO purchase_sheets")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sheet := &models.PurchaseSheet{
		SheetName:  "CSE Sem 1",
		Department: models.DepartmentCSE,
		CreatedBy:  "admin-1",
	}
	require.NoError(t, repo.Create(context.Background(), sheet))
	require.NotEmpty(t, sheet.ID)
	require.Equal(t, models.SheetStatusPending, sheet.Status)
	require.False(t, sheet.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSheetRepository(db)
	teacherID := "teacher-1"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sheet_name, department, created_by, assigned_to, status, created_at, updated_at")).
		WithArgs("sheet-1").
		WillReturnRows(sheetRows().AddRow("sheet-1", "CSE Sem 1", "computer_science_and_engineering", "admin-1", teacherID, "pending", time.Now(), time.Now()))

	sheet, err := repo.GetByID(context.Background(), "sheet-1")
	require.NoError(t, err)
	require.Equal(t, "sheet-1", sheet.ID)
	require.Equal(t, models.DepartmentCSE, sheet.Department)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSheetRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sheet_name, department")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSheetRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSheetRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM purchase_sheets WHERE status = $1 AND assigned_to = $2")).
		WithArgs("comparing", "teacher-1").
		WillReturnRows(sheetRows().AddRow("sheet-1", "CSE Sem 1", "computer_science_and_engineering", "admin-1", "teacher-1", "comparing", time.Now(), time.Now()))

	sheets, err := repo.List(context.Background(), models.SheetStatusComparing, "teacher-1")
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Equal(t, models.SheetStatusComparing, sheets[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSheetRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE purchase_sheets SET status = $2")).
		WithArgs("sheet-1", models.SheetStatusComparing, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), "sheet-1", models.SheetStatusComparing))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE purchase_sheets SET status = $2")).
		WithArgs("missing", models.SheetStatusComparing, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.UpdateStatus(context.Background(), "missing", models.SheetStatusComparing), sql.ErrNoRows)
}

func TestSheetRepositoryUpdateStatusBulk(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSheetRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE purchase_sheets SET status = $3, updated_at = $4 WHERE id IN ($1,$2)")).
		WithArgs("sheet-1", "sheet-2", models.SheetStatusCompleted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.UpdateStatusBulk(context.Background(), []string{"sheet-1", "sheet-2"}, models.SheetStatusCompleted))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetRepositoryUpdateStatusBulkEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSheetRepository(db)
	require.NoError(t, repo.UpdateStatusBulk(context.Background(), nil, models.SheetStatusCompleted))
	require.NoError(t, mock.ExpectationsWereMet())
}
