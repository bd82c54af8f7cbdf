package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

const cycleSummariesCacheKey = "history:cycles"

type cycleHistoryStore interface {
	ArchiveCycle(ctx context.Context, snapshot *models.CycleSnapshot) error
	ListCycles(ctx context.Context) ([]models.CycleSummary, error)
	ListPurchasesByCycle(ctx context.Context, cycleID string) ([]models.FinalizedPurchaseHistory, error)
	DeleteCycle(ctx context.Context, cycleID string) error
}

type cyclePurchaseLister interface {
	ListDetails(ctx context.Context) ([]models.FinalizedPurchaseDetail, error)
}

type cycleRequestLister interface {
	ListAll(ctx context.Context) ([]models.BookRequest, error)
}

type cycleSheetLister interface {
	ListAll(ctx context.Context) ([]models.PurchaseSheet, error)
}

type historyCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetricsRecorder interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// CycleConfig tunes history caching behaviour.
type CycleConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// CycleService closes purchase cycles into history and serves the
// archive.
type CycleService struct {
	history   cycleHistoryStore
	purchases cyclePurchaseLister
	requests  cycleRequestLister
	sheets    cycleSheetLister
	cache     historyCache
	metrics   cacheMetricsRecorder
	audit     auditWriter
	logger    *zap.Logger
	cfg       CycleConfig
}

// NewCycleService constructs a CycleService.
func NewCycleService(history cycleHistoryStore, purchases cyclePurchaseLister, requests cycleRequestLister, sheets cycleSheetLister, cache historyCache, metrics cacheMetricsRecorder, audit auditWriter, cfg CycleConfig, logger *zap.Logger) *CycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &CycleService{history: history, purchases: purchases, requests: requests, sheets: sheets, cache: cache, metrics: metrics, audit: audit, logger: logger, cfg: cfg}
}

// CloseCycle snapshots the whole live workspace under one fresh cycle
// id, copies it into history and clears the live tables. The snapshot
// is captured before any mutation so every delete targets exactly the
// rows that were archived.
func (s *CycleService) CloseCycle(ctx context.Context, actor *models.JWTClaims) (string, error) {
	purchases, err := s.purchases.ListDetails(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot purchases")
	}
	requests, err := s.requests.ListAll(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot requests")
	}
	sheets, err := s.sheets.ListAll(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot sheets")
	}

	if len(purchases) == 0 && len(requests) == 0 && len(sheets) == 0 {
		return "", appErrors.Clone(appErrors.ErrEmptySelection, "nothing to archive")
	}

	snapshot := buildSnapshot(actor.UserID, purchases, requests, sheets)

	if err := s.history.ArchiveCycle(ctx, snapshot); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive cycle")
	}

	s.invalidateCache(ctx)
	s.emitAudit(ctx, actor, models.AuditActionCloseCycle, snapshot.CycleID,
		fmt.Sprintf(`{"sheets":%d,"requests":%d,"purchases":%d}`, len(sheets), len(requests), len(purchases)))
	return snapshot.CycleID, nil
}

// ListCycles returns archived cycle summaries, newest first, serving
// from cache when enabled.
func (s *CycleService) ListCycles(ctx context.Context) ([]models.CycleSummary, error) {
	if s.cfg.CacheEnabled && s.cache != nil {
		start := time.Now()
		var cached []models.CycleSummary
		err := s.cache.Get(ctx, cycleSummariesCacheKey, &cached)
		if err == nil {
			s.recordCache(true, time.Since(start))
			return cached, nil
		}
		s.recordCache(false, time.Since(start))
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("history cache read failed", zap.Error(err))
		}
	}

	cycles, err := s.history.ListCycles(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cycles")
	}

	if s.cfg.CacheEnabled && s.cache != nil {
		if err := s.cache.Set(ctx, cycleSummariesCacheKey, cycles, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("history cache write failed", zap.Error(err))
		}
	}
	return cycles, nil
}

// CyclePurchases returns the archived purchases of one cycle.
func (s *CycleService) CyclePurchases(ctx context.Context, cycleID string) ([]models.FinalizedPurchaseHistory, error) {
	purchases, err := s.history.ListPurchasesByCycle(ctx, cycleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cycle purchases")
	}
	return purchases, nil
}

// DeleteCycle removes one archived cycle entirely.
func (s *CycleService) DeleteCycle(ctx context.Context, actor *models.JWTClaims, cycleID string) error {
	if err := s.history.DeleteCycle(ctx, cycleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete cycle")
	}
	s.invalidateCache(ctx)
	s.emitAudit(ctx, actor, models.AuditActionDeleteCycle, cycleID, `{"status":"deleted"}`)
	return nil
}

func buildSnapshot(closedBy string, purchases []models.FinalizedPurchaseDetail, requests []models.BookRequest, sheets []models.PurchaseSheet) *models.CycleSnapshot {
	cycleID := uuid.NewString()
	closedAt := time.Now().UTC()
	snapshot := &models.CycleSnapshot{
		CycleID:  cycleID,
		ClosedBy: closedBy,
		ClosedAt: closedAt,
	}

	for _, sheet := range sheets {
		snapshot.Sheets = append(snapshot.Sheets, models.PurchaseSheetHistory{
			CycleID:         cycleID,
			OriginalSheetID: sheet.ID,
			SheetName:       sheet.SheetName,
			Department:      sheet.Department,
			CreatedBy:       sheet.CreatedBy,
			AssignedTo:      sheet.AssignedTo,
			Status:          sheet.Status,
			CycleClosedBy:   closedBy,
			CycleClosedAt:   closedAt,
		})
		snapshot.SheetIDs = append(snapshot.SheetIDs, sheet.ID)
	}

	for _, request := range requests {
		snapshot.Requests = append(snapshot.Requests, models.BookRequestHistory{
			CycleID:           cycleID,
			OriginalRequestID: request.ID,
			BookName:          request.BookName,
			Author:            request.Author,
			Edition:           request.Edition,
			Quantity:          request.Quantity,
			TeacherID:         request.TeacherID,
			TeacherName:       request.TeacherName,
			Status:            request.Status,
			CreatedAt:         request.CreatedAt,
		})
		snapshot.RequestIDs = append(snapshot.RequestIDs, request.ID)
	}

	for _, purchase := range purchases {
		snapshot.Purchases = append(snapshot.Purchases, models.FinalizedPurchaseHistory{
			CycleID:               cycleID,
			OriginalPurchaseID:    purchase.ID,
			OriginalBookRequestID: purchase.BookRequestID,
			ShopName:              purchase.ShopName,
			PricePerUnit:          purchase.PricePerUnit,
			TotalAmount:           purchase.TotalAmount,
			FinalizedBy:           purchase.FinalizedBy,
			BookName:              purchase.BookName,
			Author:                purchase.Author,
			Edition:               purchase.Edition,
			Quantity:              purchase.Quantity,
			TeacherName:           purchase.TeacherName,
			CreatedAt:             purchase.CreatedAt,
		})
		snapshot.PurchaseIDs = append(snapshot.PurchaseIDs, purchase.ID)
	}

	return snapshot
}

func (s *CycleService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "history:*"); err != nil {
		s.logger.Warn("history cache invalidation failed", zap.Error(err))
	}
}

func (s *CycleService) recordCache(hit bool, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordCacheOperation(hit, duration)
}

func (s *CycleService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:     action,
		Resource:   "purchase_cycles",
		ResourceID: &resourceID,
		NewValues:  []byte(newValues),
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create cycle audit", zap.Error(err))
	}
}
