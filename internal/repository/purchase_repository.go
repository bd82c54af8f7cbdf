package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-purchase-api/internal/models"
)

const purchaseDetailColumns = `p.id, p.book_request_id, p.shop_name, p.price_per_unit, p.total_amount, p.finalized_by, p.created_at,
       r.book_name, r.author, r.edition, r.quantity, r.teacher_name, r.sheet_id`

// PurchaseRepository persists finalized purchases.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository constructs the repository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// CreateBatch inserts finalized purchases within a transaction.
func (r *PurchaseRepository) CreateBatch(ctx context.Context, purchases []models.FinalizedPurchase) error {
	if len(purchases) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purchase batch tx: %w", err)
	}
	const query = `INSERT INTO finalized_purchases (id, book_request_id, shop_name, price_per_unit, total_amount, finalized_by, created_at)
VALUES (:id, :book_request_id, :shop_name, :price_per_unit, :total_amount, :finalized_by, :created_at)`
	now := time.Now().UTC()
	for i := range purchases {
		if purchases[i].ID == "" {
			purchases[i].ID = uuid.NewString()
		}
		if purchases[i].CreatedAt.IsZero() {
			purchases[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, purchases[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert finalized purchase: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit purchase batch tx: %w", err)
	}
	return nil
}

// GetDetail returns one purchase joined with its book request.
func (r *PurchaseRepository) GetDetail(ctx context.Context, id string) (*models.FinalizedPurchaseDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM finalized_purchases p
JOIN book_requests r ON r.id = p.book_request_id
WHERE p.id = $1 LIMIT 1`, purchaseDetailColumns)
	var detail models.FinalizedPurchaseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get purchase detail: %w", err)
	}
	return &detail, nil
}

// ListDetails returns every live purchase joined with its book request.
func (r *PurchaseRepository) ListDetails(ctx context.Context) ([]models.FinalizedPurchaseDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM finalized_purchases p
JOIN book_requests r ON r.id = p.book_request_id
ORDER BY p.created_at DESC`, purchaseDetailColumns)
	var details []models.FinalizedPurchaseDetail
	if err := r.db.SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list purchase details: %w", err)
	}
	return details, nil
}

// ListByRequestIDs returns purchases whose book request is in the listed
// set. Used to skip already finalized books.
func (r *PurchaseRepository) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]models.FinalizedPurchase, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT id, book_request_id, shop_name, price_per_unit, total_amount, finalized_by, created_at
FROM finalized_purchases WHERE book_request_id IN (%s)`, placeholders(len(requestIDs)))
	args := make([]interface{}, len(requestIDs))
	for i, id := range requestIDs {
		args[i] = id
	}
	var purchases []models.FinalizedPurchase
	if err := r.db.SelectContext(ctx, &purchases, query, args...); err != nil {
		return nil, fmt.Errorf("list purchases by requests: %w", err)
	}
	return purchases, nil
}

// MoveBack undoes one finalized purchase: the quote is re-added to the
// comparison set unselected, the purchase row is removed, and the owning
// sheet returns to comparing. Insert happens before the delete so a
// failed transaction never strands the quote.
func (r *PurchaseRepository) MoveBack(ctx context.Context, id string) (*models.FinalizedPurchaseDetail, error) {
	detail, err := r.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin move back tx: %w", err)
	}

	comparison := models.PriceComparison{
		ID:            uuid.NewString(),
		BookRequestID: detail.BookRequestID,
		ShopName:      detail.ShopName,
		Price:         detail.PricePerUnit,
		IsSelected:    false,
		CreatedAt:     time.Now().UTC(),
	}
	const insertQuery = `INSERT INTO price_comparisons (id, book_request_id, shop_name, price, is_selected, created_at)
VALUES (:id, :book_request_id, :shop_name, :price, :is_selected, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, comparison); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("restore price comparison: %w", err)
	}

	const deleteQuery = `DELETE FROM finalized_purchases WHERE id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, id); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("delete finalized purchase: %w", err)
	}

	if detail.SheetID != nil {
		const sheetQuery = `UPDATE purchase_sheets SET status = $2, updated_at = $3 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, sheetQuery, *detail.SheetID, models.SheetStatusComparing, time.Now().UTC()); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("reopen purchase sheet: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit move back tx: %w", err)
	}
	return detail, nil
}
