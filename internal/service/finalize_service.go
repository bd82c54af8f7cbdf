package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/library-purchase-api/internal/dto"
	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type purchaseStore interface {
	CreateBatch(ctx context.Context, purchases []models.FinalizedPurchase) error
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]models.FinalizedPurchase, error)
	ListDetails(ctx context.Context) ([]models.FinalizedPurchaseDetail, error)
	MoveBack(ctx context.Context, id string) (*models.FinalizedPurchaseDetail, error)
}

type finalizeSheetStore interface {
	List(ctx context.Context, status models.SheetStatus, assignedTo string) ([]models.PurchaseSheet, error)
	UpdateStatusBulk(ctx context.Context, ids []string, status models.SheetStatus) error
}

type finalizeRequestStore interface {
	GetByID(ctx context.Context, id string) (*models.BookRequest, error)
	ListBySheets(ctx context.Context, sheetIDs []string) ([]models.BookRequest, error)
}

type quoteLister interface {
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]models.PriceComparison, error)
}

// FinalizeService turns winning quotes into finalized purchases.
type FinalizeService struct {
	purchases   purchaseStore
	sheets      finalizeSheetStore
	requests    finalizeRequestStore
	comparisons quoteLister
	audit       auditWriter
	logger      *zap.Logger
}

// NewFinalizeService constructs a FinalizeService.
func NewFinalizeService(purchases purchaseStore, sheets finalizeSheetStore, requests finalizeRequestStore, comparisons quoteLister, audit auditWriter, logger *zap.Logger) *FinalizeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinalizeService{purchases: purchases, sheets: sheets, requests: requests, comparisons: comparisons, audit: audit, logger: logger}
}

// FinalizeSelected finalizes the listed books at their minimum quotes.
// Books without a positive quote and books already finalized are
// skipped; if nothing remains the operation fails without writes.
func (s *FinalizeService) FinalizeSelected(ctx context.Context, actor *models.JWTClaims, req dto.FinalizeSelectedRequest) ([]models.FinalizedPurchase, error) {
	if len(req.BookRequestIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptySelection, "no books selected")
	}

	requests := make([]models.BookRequest, 0, len(req.BookRequestIDs))
	for _, id := range req.BookRequestIDs {
		request, err := s.requests.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("book request %s not found", id))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book request")
		}
		requests = append(requests, *request)
	}

	purchases, err := s.buildPurchases(ctx, actor, requests)
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoValidPrices, "selected books have no valid prices")
	}

	if err := s.purchases.CreateBatch(ctx, purchases); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store finalized purchases")
	}

	s.emitAudit(ctx, actor, models.AuditActionFinalizeSelected, fmt.Sprintf(`{"selected":%d,"finalized":%d}`, len(req.BookRequestIDs), len(purchases)))
	return purchases, nil
}

// FinalizeAll finalizes every priced book under comparing sheets and
// completes those sheets.
func (s *FinalizeService) FinalizeAll(ctx context.Context, actor *models.JWTClaims) ([]models.FinalizedPurchase, error) {
	sheets, err := s.sheets.List(ctx, models.SheetStatusComparing, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comparing sheets")
	}
	if len(sheets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoValidPrices, "no sheets in comparison phase")
	}

	sheetIDs := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		sheetIDs = append(sheetIDs, sheet.ID)
	}
	requests, err := s.requests.ListBySheets(ctx, sheetIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sheet requests")
	}

	purchases, err := s.buildPurchases(ctx, actor, requests)
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoValidPrices, "no books with valid prices to finalize")
	}

	if err := s.purchases.CreateBatch(ctx, purchases); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store finalized purchases")
	}

	if err := s.sheets.UpdateStatusBulk(ctx, sheetIDs, models.SheetStatusCompleted); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete sheets")
	}

	s.emitAudit(ctx, actor, models.AuditActionFinalizeAll, fmt.Sprintf(`{"sheets":%d,"finalized":%d}`, len(sheets), len(purchases)))
	return purchases, nil
}

// MoveBack undoes one finalized purchase and reopens its sheet for
// comparison.
func (s *FinalizeService) MoveBack(ctx context.Context, actor *models.JWTClaims, purchaseID string) error {
	detail, err := s.purchases.MoveBack(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "finalized purchase not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move purchase back")
	}

	s.emitAudit(ctx, actor, models.AuditActionMovePurchaseBack, fmt.Sprintf(`{"purchaseId":%q,"bookRequestId":%q}`, detail.ID, detail.BookRequestID))
	return nil
}

// ListFinalized returns live finalized purchases with book details.
func (s *FinalizeService) ListFinalized(ctx context.Context) ([]models.FinalizedPurchaseDetail, error) {
	details, err := s.purchases.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list finalized purchases")
	}
	return details, nil
}

// buildPurchases computes one purchase per finalizable request. A
// request already holding a live purchase is skipped so repeated
// finalize runs stay idempotent.
func (s *FinalizeService) buildPurchases(ctx context.Context, actor *models.JWTClaims, requests []models.BookRequest) ([]models.FinalizedPurchase, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	requestIDs := make([]string, 0, len(requests))
	for _, request := range requests {
		requestIDs = append(requestIDs, request.ID)
	}

	existing, err := s.purchases.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing purchases")
	}
	finalized := make(map[string]bool, len(existing))
	for _, purchase := range existing {
		finalized[purchase.BookRequestID] = true
	}

	quotes, err := s.comparisons.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quotes")
	}
	byRequest := make(map[string][]models.PriceComparison, len(requests))
	for _, quote := range quotes {
		byRequest[quote.BookRequestID] = append(byRequest[quote.BookRequestID], quote)
	}

	purchases := make([]models.FinalizedPurchase, 0, len(requests))
	for _, request := range requests {
		if finalized[request.ID] {
			continue
		}
		min := MinPrice(byRequest[request.ID])
		if min == 0 {
			continue
		}
		purchases = append(purchases, models.FinalizedPurchase{
			BookRequestID: request.ID,
			ShopName:      MinPriceShop(byRequest[request.ID]),
			PricePerUnit:  min,
			TotalAmount:   min * float64(request.Quantity),
			FinalizedBy:   actor.UserID,
		})
	}
	return purchases, nil
}

func (s *FinalizeService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:    action,
		Resource:  "finalized_purchases",
		NewValues: []byte(newValues),
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create finalize audit", zap.Error(err))
	}
}
