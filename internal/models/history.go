package models

import "time"

// History rows are flat denormalized snapshots written by the cycle
// archiver. They deliberately carry no foreign keys into live tables,
// since the live rows are destroyed right after the snapshot; the
// original*ID columns are plain back-references.

// PurchaseSheetHistory archives one purchase sheet.
type PurchaseSheetHistory struct {
	ID              string      `db:"id" json:"id"`
	CycleID         string      `db:"cycle_id" json:"cycle_id"`
	OriginalSheetID string      `db:"original_sheet_id" json:"original_sheet_id"`
	SheetName       string      `db:"sheet_name" json:"sheet_name"`
	Department      Department  `db:"department" json:"department"`
	CreatedBy       string      `db:"created_by" json:"created_by"`
	AssignedTo      *string     `db:"assigned_to" json:"assigned_to,omitempty"`
	Status          SheetStatus `db:"status" json:"status"`
	CycleClosedBy   string      `db:"cycle_closed_by" json:"cycle_closed_by"`
	CycleClosedAt   time.Time   `db:"cycle_closed_at" json:"cycle_closed_at"`
}

// BookRequestHistory archives one book request.
type BookRequestHistory struct {
	ID                string    `db:"id" json:"id"`
	CycleID           string    `db:"cycle_id" json:"cycle_id"`
	OriginalRequestID string    `db:"original_request_id" json:"original_request_id"`
	BookName          string    `db:"book_name" json:"book_name"`
	Author            string    `db:"author" json:"author"`
	Edition           string    `db:"edition" json:"edition"`
	Quantity          int       `db:"quantity" json:"quantity"`
	TeacherID         string    `db:"teacher_id" json:"teacher_id"`
	TeacherName       string    `db:"teacher_name" json:"teacher_name"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// FinalizedPurchaseHistory archives one finalized purchase together with
// the book fields it was finalized for.
type FinalizedPurchaseHistory struct {
	ID                    string    `db:"id" json:"id"`
	CycleID               string    `db:"cycle_id" json:"cycle_id"`
	OriginalPurchaseID    string    `db:"original_purchase_id" json:"original_purchase_id"`
	OriginalBookRequestID string    `db:"original_book_request_id" json:"original_book_request_id"`
	ShopName              string    `db:"shop_name" json:"shop_name"`
	PricePerUnit          float64   `db:"price_per_unit" json:"price_per_unit"`
	TotalAmount           float64   `db:"total_amount" json:"total_amount"`
	FinalizedBy           string    `db:"finalized_by" json:"finalized_by"`
	BookName              string    `db:"book_name" json:"book_name"`
	Author                string    `db:"author" json:"author"`
	Edition               string    `db:"edition" json:"edition"`
	Quantity              int       `db:"quantity" json:"quantity"`
	TeacherName           string    `db:"teacher_name" json:"teacher_name"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// CycleSummary aggregates one closed cycle for history listings.
type CycleSummary struct {
	CycleID        string    `db:"cycle_id" json:"cycle_id"`
	ClosedAt       time.Time `db:"closed_at" json:"closed_at"`
	ClosedBy       string    `db:"closed_by" json:"closed_by"`
	TotalSheets    int       `db:"total_sheets" json:"total_sheets"`
	TotalPurchases int       `db:"total_purchases" json:"total_purchases"`
	TotalAmount    float64   `db:"total_amount" json:"total_amount"`
}

// CycleSnapshot carries everything the archiver captured before any
// mutation: the rows to copy into history and the id lists to delete by.
type CycleSnapshot struct {
	CycleID     string
	ClosedBy    string
	ClosedAt    time.Time
	Sheets      []PurchaseSheetHistory
	Requests    []BookRequestHistory
	Purchases   []FinalizedPurchaseHistory
	PurchaseIDs []string
	RequestIDs  []string
	SheetIDs    []string
}
