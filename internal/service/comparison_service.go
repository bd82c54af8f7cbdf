package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type comparisonStore interface {
	ReplaceForRequests(ctx context.Context, requestIDs []string, rows []models.PriceComparison) error
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]models.PriceComparison, error)
}

type comparingSheetLister interface {
	List(ctx context.Context, status models.SheetStatus, assignedTo string) ([]models.PurchaseSheet, error)
}

type comparisonRequestStore interface {
	GetByID(ctx context.Context, id string) (*models.BookRequest, error)
	ListBySheets(ctx context.Context, sheetIDs []string) ([]models.BookRequest, error)
}

// ComparisonService records shop quotes and computes per-book minimums.
type ComparisonService struct {
	comparisons comparisonStore
	sheets      comparingSheetLister
	requests    comparisonRequestStore
	audit       auditWriter
	logger      *zap.Logger
}

// NewComparisonService constructs a ComparisonService.
func NewComparisonService(comparisons comparisonStore, sheets comparingSheetLister, requests comparisonRequestStore, audit auditWriter, logger *zap.Logger) *ComparisonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComparisonService{comparisons: comparisons, sheets: sheets, requests: requests, audit: audit, logger: logger}
}

// Board returns every request under a comparing sheet together with its
// saved quotes and the current minimum.
func (s *ComparisonService) Board(ctx context.Context) ([]dto.ComparisonBoardItem, error) {
	sheets, err := s.sheets.List(ctx, models.SheetStatusComparing, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comparing sheets")
	}
	if len(sheets) == 0 {
		return []dto.ComparisonBoardItem{}, nil
	}

	sheetIDs := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		sheetIDs = append(sheetIDs, sheet.ID)
	}
	requests, err := s.requests.ListBySheets(ctx, sheetIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list board requests")
	}
	if len(requests) == 0 {
		return []dto.ComparisonBoardItem{}, nil
	}

	requestIDs := make([]string, 0, len(requests))
	for _, request := range requests {
		requestIDs = append(requestIDs, request.ID)
	}
	comparisons, err := s.comparisons.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list board quotes")
	}

	byRequest := make(map[string][]models.PriceComparison, len(requests))
	for _, row := range comparisons {
		byRequest[row.BookRequestID] = append(byRequest[row.BookRequestID], row)
	}

	items := make([]dto.ComparisonBoardItem, 0, len(requests))
	for _, request := range requests {
		quotes := byRequest[request.ID]
		items = append(items, dto.ComparisonBoardItem{
			Request:     request,
			Comparisons: quotes,
			MinPrice:    MinPrice(quotes),
			MinShop:     MinPriceShop(quotes),
		})
	}
	return items, nil
}

// RecordPrices replaces the stored quotes for the listed books. Every
// book id must back a live request. Non-positive quotes are dropped;
// the per-book minimum of what remains is marked selected.
func (s *ComparisonService) RecordPrices(ctx context.Context, actor *models.JWTClaims, req dto.SavePricesRequest) error {
	if len(req.BookIDs) == 0 {
		return appErrors.Clone(appErrors.ErrEmptySelection, "no books selected")
	}

	for _, bookID := range req.BookIDs {
		if _, err := s.requests.GetByID(ctx, bookID); err != nil {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("book request %s not found", bookID))
		}
	}

	rows := make([]models.PriceComparison, 0, len(req.BookIDs)*2)
	for _, bookID := range req.BookIDs {
		quotes := req.Prices[bookID]
		if len(quotes) == 0 {
			continue
		}

		min := minPositive(quotes)
		shops := make([]string, 0, len(quotes))
		for shop := range quotes {
			shops = append(shops, shop)
		}
		sort.Strings(shops)

		for _, shop := range shops {
			name := strings.TrimSpace(shop)
			if name == "" {
				continue
			}
			price := quotes[shop]
			if price <= 0 {
				continue
			}
			rows = append(rows, models.PriceComparison{
				BookRequestID: bookID,
				ShopName:      name,
				Price:         price,
				IsSelected:    price == min,
			})
		}
	}

	if err := s.comparisons.ReplaceForRequests(ctx, req.BookIDs, rows); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save prices")
	}

	s.emitAudit(ctx, actor, fmt.Sprintf(`{"books":%d,"quotes":%d}`, len(req.BookIDs), len(rows)))
	return nil
}

// ListByRequestIDs exposes raw quotes for downstream services.
func (s *ComparisonService) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]models.PriceComparison, error) {
	rows, err := s.comparisons.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list quotes")
	}
	return rows, nil
}

// MinPrice returns the lowest strictly positive quote, or 0 when no
// shop has quoted a usable price.
func MinPrice(comparisons []models.PriceComparison) float64 {
	var min float64
	for _, row := range comparisons {
		if row.Price <= 0 {
			continue
		}
		if min == 0 || row.Price < min {
			min = row.Price
		}
	}
	return min
}

// MinPriceShop returns the shop holding the minimum positive quote.
// Equal quotes resolve to the first shop in lexical name order.
func MinPriceShop(comparisons []models.PriceComparison) string {
	min := MinPrice(comparisons)
	if min == 0 {
		return ""
	}
	shop := ""
	for _, row := range comparisons {
		if row.Price != min {
			continue
		}
		if shop == "" || row.ShopName < shop {
			shop = row.ShopName
		}
	}
	return shop
}

func minPositive(quotes map[string]float64) float64 {
	var min float64
	for _, price := range quotes {
		if price <= 0 {
			continue
		}
		if min == 0 || price < min {
			min = price
		}
	}
	return min
}

func (s *ComparisonService) emitAudit(ctx context.Context, actor *models.JWTClaims, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:    models.AuditActionUpdatePrices,
		Resource:  "price_comparisons",
		NewValues: []byte(newValues),
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create price audit", zap.Error(err))
	}
}
