package models

import "time"

// FinalizedPurchase records the winning (shop, price) decision for a
// book request. TotalAmount is price per unit times request quantity.
type FinalizedPurchase struct {
	ID            string    `db:"id" json:"id"`
	BookRequestID string    `db:"book_request_id" json:"book_request_id"`
	ShopName      string    `db:"shop_name" json:"shop_name"`
	PricePerUnit  float64   `db:"price_per_unit" json:"price_per_unit"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	FinalizedBy   string    `db:"finalized_by" json:"finalized_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FinalizedPurchaseDetail joins a purchase with its book request fields
// for listing, export and archiving.
type FinalizedPurchaseDetail struct {
	FinalizedPurchase
	BookName    string  `db:"book_name" json:"book_name"`
	Author      string  `db:"author" json:"author"`
	Edition     string  `db:"edition" json:"edition"`
	Quantity    int     `db:"quantity" json:"quantity"`
	TeacherName string  `db:"teacher_name" json:"teacher_name"`
	SheetID     *string `db:"sheet_id" json:"sheet_id,omitempty"`
}
