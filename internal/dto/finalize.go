package dto

// FinalizeSelectedRequest names the book requests to finalize at their
// current minimum quotes.
type FinalizeSelectedRequest struct {
	BookRequestIDs []string `json:"bookRequestIds"`
}
