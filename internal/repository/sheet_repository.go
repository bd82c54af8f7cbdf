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

// SheetRepository persists purchase sheets.
type SheetRepository struct {
	db *sqlx.DB
}

// NewSheetRepository constructs the repository.
func NewSheetRepository(db *sqlx.DB) *SheetRepository {
	return &SheetRepository{db: db}
}

// Create inserts a new purchase sheet.
func (r *SheetRepository) Create(ctx context.Context, sheet *models.PurchaseSheet) error {
	if sheet.ID == "" {
		sheet.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sheet.CreatedAt.IsZero() {
		sheet.CreatedAt = now
	}
	sheet.UpdatedAt = now
	if sheet.Status == "" {
		sheet.Status = models.SheetStatusPending
	}
	const query = `INSERT INTO purchase_sheets (id, sheet_name, department, created_by, assigned_to, status, created_at, updated_at)
VALUES (:id, :sheet_name, :department, :created_by, :assigned_to, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sheet); err != nil {
		return fmt.Errorf("create purchase sheet: %w", err)
	}
	return nil
}

// GetByID retrieves one sheet.
func (r *SheetRepository) GetByID(ctx context.Context, id string) (*models.PurchaseSheet, error) {
	const query = `SELECT id, sheet_name, department, created_by, assigned_to, status, created_at, updated_at
FROM purchase_sheets WHERE id = $1 LIMIT 1`
	var sheet models.PurchaseSheet
	if err := r.db.GetContext(ctx, &sheet, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get purchase sheet: %w", err)
	}
	return &sheet, nil
}

// List returns sheets applying optional status and assignee filters.
func (r *SheetRepository) List(ctx context.Context, status models.SheetStatus, assignedTo string) ([]models.PurchaseSheet, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT id, sheet_name, department, created_by, assigned_to, status, created_at, updated_at FROM purchase_sheets`)
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)

	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if assignedTo != "" {
		args = append(args, assignedTo)
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", len(args)))
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	var sheets []models.PurchaseSheet
	if err := r.db.SelectContext(ctx, &sheets, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list purchase sheets: %w", err)
	}
	return sheets, nil
}

// ListAll returns every sheet regardless of state.
func (r *SheetRepository) ListAll(ctx context.Context) ([]models.PurchaseSheet, error) {
	return r.List(ctx, "", "")
}

// UpdateStatus transitions one sheet.
func (r *SheetRepository) UpdateStatus(ctx context.Context, id string, status models.SheetStatus) error {
	const query = `UPDATE purchase_sheets SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update sheet status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check sheet status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatusBulk transitions every listed sheet in one statement.
func (r *SheetRepository) UpdateStatusBulk(ctx context.Context, ids []string, status models.SheetStatus) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE purchase_sheets SET status = $%d, updated_at = $%d WHERE id IN (%s)`,
		len(ids)+1, len(ids)+2, placeholders(len(ids)))
	args := make([]interface{}, 0, len(ids)+2)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, status, time.Now().UTC())
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bulk update sheet status: %w", err)
	}
	return nil
}
