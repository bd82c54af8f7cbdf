package dto

// CreateBookRequestRequest payload for a teacher adding a book to a sheet.
type CreateBookRequestRequest struct {
	SheetID  string `json:"sheetId"`
	BookName string `json:"bookName"`
	Author   string `json:"author"`
	Edition  string `json:"edition"`
	Quantity int    `json:"quantity"`
}

// UpdateBookRequestRequest payload for editing a pending request.
type UpdateBookRequestRequest struct {
	BookName string `json:"bookName"`
	Author   string `json:"author"`
	Edition  string `json:"edition"`
	Quantity int    `json:"quantity"`
}
