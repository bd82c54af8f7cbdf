package models

import "time"

// PriceComparison is one shop's quote for one book request. Rows are
// ephemeral: saving prices for a book replaces all of its rows, and the
// set only exists while the owning sheet is in comparing state.
type PriceComparison struct {
	ID            string    `db:"id" json:"id"`
	BookRequestID string    `db:"book_request_id" json:"book_request_id"`
	ShopName      string    `db:"shop_name" json:"shop_name"`
	Price         float64   `db:"price" json:"price"`
	IsSelected    bool      `db:"is_selected" json:"is_selected"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
