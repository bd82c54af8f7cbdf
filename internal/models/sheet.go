package models

import "time"

// SheetStatus tracks a purchase sheet through its lifecycle.
type SheetStatus string

const (
	SheetStatusPending   SheetStatus = "pending"
	SheetStatusComparing SheetStatus = "comparing"
	SheetStatusCompleted SheetStatus = "completed"
)

// PurchaseSheet is a named batch of book requests assigned to one teacher
// (or consolidated across many). Sheets are only ever removed by the
// cycle archiver, which snapshots them into history first.
type PurchaseSheet struct {
	ID         string      `db:"id" json:"id"`
	SheetName  string      `db:"sheet_name" json:"sheet_name"`
	Department Department  `db:"department" json:"department"`
	CreatedBy  string      `db:"created_by" json:"created_by"`
	AssignedTo *string     `db:"assigned_to" json:"assigned_to,omitempty"`
	Status     SheetStatus `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}
