package dto

import "github.com/noah-isme/library-purchase-api/internal/models"

// AssignToAll fans sheet creation out to every active teacher.
const AssignToAll = "all"

// CreateSheetRequest payload for opening a new purchase sheet. AssignedTo
// accepts a teacher id, "all", or empty for an unassigned sheet.
type CreateSheetRequest struct {
	SheetName  string            `json:"sheetName"`
	Department models.Department `json:"department"`
	AssignedTo string            `json:"assignedTo"`
}

// UpdateSheetStatusRequest transitions a sheet in its lifecycle.
type UpdateSheetStatusRequest struct {
	Status models.SheetStatus `json:"status"`
}

// ConsolidateRequest selects which teachers' pending requests to merge.
type ConsolidateRequest struct {
	SheetName  string   `json:"sheetName"`
	TeacherIDs []string `json:"teacherIds"`
}

// SheetQuery mirrors supported listing filters.
type SheetQuery struct {
	Status     models.SheetStatus
	AssignedTo string
}
