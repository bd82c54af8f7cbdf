package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-purchase-api/internal/models"
)

// HistoryRepository persists archived purchase cycles.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository constructs the repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ArchiveCycle copies the snapshot into the three history tables and then
// clears the live workspace, all within one transaction. Every history
// batch runs before any delete so a rollback never loses live rows, and
// deletes use only the id lists captured in the snapshot.
func (r *HistoryRepository) ArchiveCycle(ctx context.Context, snapshot *models.CycleSnapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive cycle tx: %w", err)
	}

	const sheetQuery = `INSERT INTO purchase_sheet_history (id, cycle_id, original_sheet_id, sheet_name, department, created_by, assigned_to, status, cycle_closed_by, cycle_closed_at)
VALUES (:id, :cycle_id, :original_sheet_id, :sheet_name, :department, :created_by, :assigned_to, :status, :cycle_closed_by, :cycle_closed_at)`
	for i := range snapshot.Sheets {
		if snapshot.Sheets[i].ID == "" {
			snapshot.Sheets[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, sheetQuery, snapshot.Sheets[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert sheet history: %w", err)
		}
	}

	const requestQuery = `INSERT INTO book_request_history (id, cycle_id, original_request_id, book_name, author, edition, quantity, teacher_id, teacher_name, status, created_at)
VALUES (:id, :cycle_id, :original_request_id, :book_name, :author, :edition, :quantity, :teacher_id, :teacher_name, :status, :created_at)`
	for i := range snapshot.Requests {
		if snapshot.Requests[i].ID == "" {
			snapshot.Requests[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, requestQuery, snapshot.Requests[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert request history: %w", err)
		}
	}

	const purchaseQuery = `INSERT INTO finalized_purchase_history (id, cycle_id, original_purchase_id, original_book_request_id, shop_name, price_per_unit, total_amount, finalized_by, book_name, author, edition, quantity, teacher_name, created_at)
VALUES (:id, :cycle_id, :original_purchase_id, :original_book_request_id, :shop_name, :price_per_unit, :total_amount, :finalized_by, :book_name, :author, :edition, :quantity, :teacher_name, :created_at)`
	for i := range snapshot.Purchases {
		if snapshot.Purchases[i].ID == "" {
			snapshot.Purchases[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, purchaseQuery, snapshot.Purchases[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert purchase history: %w", err)
		}
	}

	if err := deleteByIDs(ctx, tx, "finalized_purchases", "id", snapshot.PurchaseIDs); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := deleteByIDs(ctx, tx, "price_comparisons", "book_request_id", snapshot.RequestIDs); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := deleteByIDs(ctx, tx, "book_requests", "id", snapshot.RequestIDs); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := deleteByIDs(ctx, tx, "purchase_sheets", "id", snapshot.SheetIDs); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive cycle tx: %w", err)
	}
	return nil
}

func deleteByIDs(ctx context.Context, tx *sqlx.Tx, table, column string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s IN (%s)`, table, column, placeholders(len(ids)))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}

// ListCycles returns one summary row per archived cycle, newest first.
func (r *HistoryRepository) ListCycles(ctx context.Context) ([]models.CycleSummary, error) {
	const query = `SELECT s.cycle_id,
       MAX(s.cycle_closed_at) AS closed_at,
       MAX(s.cycle_closed_by) AS closed_by,
       COUNT(DISTINCT s.id) AS total_sheets,
       COALESCE(p.total_purchases, 0) AS total_purchases,
       COALESCE(p.total_amount, 0) AS total_amount
FROM purchase_sheet_history s
LEFT JOIN (
    SELECT cycle_id, COUNT(*) AS total_purchases, SUM(total_amount) AS total_amount
    FROM finalized_purchase_history GROUP BY cycle_id
) p ON p.cycle_id = s.cycle_id
GROUP BY s.cycle_id, p.total_purchases, p.total_amount
ORDER BY closed_at DESC`
	var cycles []models.CycleSummary
	if err := r.db.SelectContext(ctx, &cycles, query); err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return cycles, nil
}

// ListPurchasesByCycle returns the archived purchases of one cycle.
func (r *HistoryRepository) ListPurchasesByCycle(ctx context.Context, cycleID string) ([]models.FinalizedPurchaseHistory, error) {
	const query = `SELECT id, cycle_id, original_purchase_id, original_book_request_id, shop_name, price_per_unit, total_amount, finalized_by, book_name, author, edition, quantity, teacher_name, created_at
FROM finalized_purchase_history WHERE cycle_id = $1 ORDER BY created_at ASC`
	var purchases []models.FinalizedPurchaseHistory
	if err := r.db.SelectContext(ctx, &purchases, query, cycleID); err != nil {
		return nil, fmt.Errorf("list cycle purchases: %w", err)
	}
	return purchases, nil
}

// DeleteCycle removes one cycle from all three history tables.
func (r *HistoryRepository) DeleteCycle(ctx context.Context, cycleID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete cycle tx: %w", err)
	}
	for _, table := range []string{"finalized_purchase_history", "book_request_history", "purchase_sheet_history"} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE cycle_id = $1`, table)
		if _, err := tx.ExecContext(ctx, query, cycleID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete cycle from %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete cycle tx: %w", err)
	}
	return nil
}
