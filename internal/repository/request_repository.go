package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-purchase-api/internal/models"
)

const bookRequestColumns = `id, sheet_id, teacher_id, teacher_name, book_name, author, edition, quantity, status, created_at, updated_at`

// RequestRepository persists book requests.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs the repository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts one book request.
func (r *RequestRepository) Create(ctx context.Context, request *models.BookRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}
	const query = `INSERT INTO book_requests (id, sheet_id, teacher_id, teacher_name, book_name, author, edition, quantity, status, created_at, updated_at)
VALUES (:id, :sheet_id, :teacher_id, :teacher_name, :book_name, :author, :edition, :quantity, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create book request: %w", err)
	}
	return nil
}

// CreateBatch inserts requests within a transaction.
func (r *RequestRepository) CreateBatch(ctx context.Context, requests []models.BookRequest) error {
	if len(requests) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin request batch tx: %w", err)
	}
	const query = `INSERT INTO book_requests (id, sheet_id, teacher_id, teacher_name, book_name, author, edition, quantity, status, created_at, updated_at)
VALUES (:id, :sheet_id, :teacher_id, :teacher_name, :book_name, :author, :edition, :quantity, :status, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range requests {
		if requests[i].ID == "" {
			requests[i].ID = uuid.NewString()
		}
		if requests[i].CreatedAt.IsZero() {
			requests[i].CreatedAt = now
		}
		requests[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, requests[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert book request batch: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit request batch tx: %w", err)
	}
	return nil
}

// GetByID retrieves one request.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.BookRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM book_requests WHERE id = $1 LIMIT 1`, bookRequestColumns)
	var request models.BookRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get book request: %w", err)
	}
	return &request, nil
}

// Update rewrites the book fields of a request.
func (r *RequestRepository) Update(ctx context.Context, request *models.BookRequest) error {
	request.UpdatedAt = time.Now().UTC()
	const query = `UPDATE book_requests SET book_name = :book_name, author = :author, edition = :edition, quantity = :quantity, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("update book request: %w", err)
	}
	return nil
}

// Delete removes one request.
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM book_requests WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete book request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check request delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBySheet returns requests attached to one sheet.
func (r *RequestRepository) ListBySheet(ctx context.Context, sheetID string) ([]models.BookRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM book_requests WHERE sheet_id = $1 ORDER BY created_at ASC`, bookRequestColumns)
	var requests []models.BookRequest
	if err := r.db.SelectContext(ctx, &requests, query, sheetID); err != nil {
		return nil, fmt.Errorf("list requests by sheet: %w", err)
	}
	return requests, nil
}

// ListBySheets returns requests attached to any of the listed sheets.
func (r *RequestRepository) ListBySheets(ctx context.Context, sheetIDs []string) ([]models.BookRequest, error) {
	if len(sheetIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM book_requests WHERE sheet_id IN (%s) ORDER BY created_at ASC`,
		bookRequestColumns, placeholders(len(sheetIDs)))
	args := make([]interface{}, len(sheetIDs))
	for i, id := range sheetIDs {
		args[i] = id
	}
	var requests []models.BookRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list requests by sheets: %w", err)
	}
	return requests, nil
}

// ListByTeacher returns the requests a teacher has submitted.
func (r *RequestRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.BookRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM book_requests WHERE teacher_id = $1 ORDER BY created_at DESC`, bookRequestColumns)
	var requests []models.BookRequest
	if err := r.db.SelectContext(ctx, &requests, query, teacherID); err != nil {
		return nil, fmt.Errorf("list requests by teacher: %w", err)
	}
	return requests, nil
}

// ListPendingByTeachers returns pending requests for the listed teachers
// in submission order.
func (r *RequestRepository) ListPendingByTeachers(ctx context.Context, teacherIDs []string) ([]models.BookRequest, error) {
	if len(teacherIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM book_requests WHERE teacher_id IN (%s) AND status = $%d ORDER BY created_at ASC`,
		bookRequestColumns, placeholders(len(teacherIDs)), len(teacherIDs)+1)
	args := make([]interface{}, 0, len(teacherIDs)+1)
	for _, id := range teacherIDs {
		args = append(args, id)
	}
	args = append(args, models.RequestStatusPending)
	var requests []models.BookRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list pending requests by teachers: %w", err)
	}
	return requests, nil
}

// ListAll returns every live request.
func (r *RequestRepository) ListAll(ctx context.Context) ([]models.BookRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM book_requests ORDER BY created_at ASC`, bookRequestColumns)
	var requests []models.BookRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list all requests: %w", err)
	}
	return requests, nil
}

func placeholders(n int) string {
	values := make([]string, n)
	for i := 1; i <= n; i++ {
		values[i-1] = fmt.Sprintf("$%d", i)
	}
	return strings.Join(values, ",")
}
