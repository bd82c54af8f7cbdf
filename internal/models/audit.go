package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin            = "LOGIN"
	AuditActionLogout           = "LOGOUT"
	AuditActionPasswordChange   = "PASSWORD_CHANGE"
	AuditActionCreateSheet      = "CREATE_SHEET"
	AuditActionMoveToCompare    = "MOVE_TO_COMPARE"
	AuditActionUpdatePrices     = "UPDATE_PRICES"
	AuditActionConsolidate      = "CONSOLIDATE_REQUESTS"
	AuditActionFinalizeSelected = "FINALIZE_SELECTED_COMPARISON"
	AuditActionFinalizeAll      = "FINALIZE_COMPARISON"
	AuditActionMovePurchaseBack = "MOVE_PURCHASE_BACK"
	AuditActionCloseCycle       = "CLOSE_PURCHASE_CYCLE"
	AuditActionDeleteCycle      = "DELETE_PURCHASE_CYCLE"
)

// AuditLog represents an activity trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
