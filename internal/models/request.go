package models

import "time"

// RequestStatus values commonly stored on a book request. The column is
// free text; pending is the only value the workflow acts on.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
)

// BookRequest is one teacher's ask for a title, bound to a purchase
// sheet. TeacherName is a denormalized snapshot taken at creation time so
// history rows survive profile changes.
type BookRequest struct {
	ID          string    `db:"id" json:"id"`
	SheetID     *string   `db:"sheet_id" json:"sheet_id,omitempty"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	BookName    string    `db:"book_name" json:"book_name"`
	Author      string    `db:"author" json:"author"`
	Edition     string    `db:"edition" json:"edition"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
