package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-purchase-api/internal/models"
)

func TestComparisonRepositoryReplaceForRequests(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewComparisonRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM price_comparisons WHERE book_request_id IN ($1,$2)")).
		WithArgs("req-1", "req-2").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO price_comparisons")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO price_comparisons")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rows := []models.PriceComparison{
		{BookRequestID: "req-1", ShopName: "ShopA", Price: 90, IsSelected: false},
		{BookRequestID: "req-1", ShopName: "ShopB", Price: 85, IsSelected: true},
	}
	require.NoError(t, repo.ReplaceForRequests(context.Background(), []string{"req-1", "req-2"}, rows))
	require.NotEmpty(t, rows[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComparisonRepositoryReplaceClearsWithoutInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewComparisonRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM price_comparisons WHERE book_request_id IN ($1)")).
		WithArgs("req-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceForRequests(context.Background(), []string{"req-1"}, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComparisonRepositoryReplaceRollsBackOnInsertError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewComparisonRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM price_comparisons")).
		WithArgs("req-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO price_comparisons")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.ReplaceForRequests(context.Background(), []string{"req-1"}, []models.PriceComparison{
		{BookRequestID: "req-1", ShopName: "ShopA", Price: 90},
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComparisonRepositoryReplaceEmptySelection(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewComparisonRepository(db)
	require.NoError(t, repo.ReplaceForRequests(context.Background(), nil, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComparisonRepositoryListByRequestIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewComparisonRepository(db)
	rows := sqlmock.NewRows([]string{"id", "book_request_id", "shop_name", "price", "is_selected", "created_at"}).
		AddRow("cmp-1", "req-1", "ShopA", 90.0, false, time.Now()).
		AddRow("cmp-2", "req-1", "ShopB", 85.0, true, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM price_comparisons WHERE book_request_id IN ($1) ORDER BY shop_name ASC")).
		WithArgs("req-1").
		WillReturnRows(rows)

	quotes, err := repo.ListByRequestIDs(context.Background(), []string{"req-1"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	require.True(t, quotes[1].IsSelected)
	require.NoError(t, mock.ExpectationsWereMet())
}
