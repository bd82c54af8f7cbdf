package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-purchase-api/internal/models"
)

// ComparisonRepository persists per-shop price quotes.
type ComparisonRepository struct {
	db *sqlx.DB
}

// NewComparisonRepository constructs the repository.
func NewComparisonRepository(db *sqlx.DB) *ComparisonRepository {
	return &ComparisonRepository{db: db}
}

// ReplaceForRequests deletes every quote for the listed book requests and
// inserts the replacement rows, all within one transaction. Callers pass
// the full replacement set; rows for ids with no replacements are simply
// cleared.
func (r *ComparisonRepository) ReplaceForRequests(ctx context.Context, requestIDs []string, rows []models.PriceComparison) error {
	if len(requestIDs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin price replace tx: %w", err)
	}

	deleteQuery := fmt.Sprintf(`DELETE FROM price_comparisons WHERE book_request_id IN (%s)`, placeholders(len(requestIDs)))
	args := make([]interface{}, len(requestIDs))
	for i, id := range requestIDs {
		args[i] = id
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete price comparisons: %w", err)
	}

	const insertQuery = `INSERT INTO price_comparisons (id, book_request_id, shop_name, price, is_selected, created_at)
VALUES (:id, :book_request_id, :shop_name, :price, :is_selected, :created_at)`
	now := time.Now().UTC()
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, insertQuery, rows[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert price comparison: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit price replace tx: %w", err)
	}
	return nil
}

// ListByRequestIDs returns quotes for the listed requests. Shop-name
// ordering keeps minimum lookups deterministic across equal prices.
func (r *ComparisonRepository) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]models.PriceComparison, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT id, book_request_id, shop_name, price, is_selected, created_at
FROM price_comparisons WHERE book_request_id IN (%s) ORDER BY shop_name ASC`, placeholders(len(requestIDs)))
	args := make([]interface{}, len(requestIDs))
	for i, id := range requestIDs {
		args[i] = id
	}
	var rows []models.PriceComparison
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list price comparisons: %w", err)
	}
	return rows, nil
}
