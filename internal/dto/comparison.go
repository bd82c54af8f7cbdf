package dto

import "github.com/noah-isme/library-purchase-api/internal/models"

// SavePricesRequest replaces the quote set for the listed books. Prices is
// keyed by book request id, then shop name. Zero and negative quotes are
// accepted on input but dropped at save time.
type SavePricesRequest struct {
	BookIDs []string                      `json:"bookIds"`
	Prices  map[string]map[string]float64 `json:"prices"`
}

// ComparisonBoardItem is one book on the comparison board with its quotes.
type ComparisonBoardItem struct {
	Request     models.BookRequest       `json:"request"`
	Comparisons []models.PriceComparison `json:"comparisons"`
	MinPrice    float64                  `json:"minPrice"`
	MinShop     string                   `json:"minShop"`
}
