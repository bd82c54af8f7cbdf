package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type cycleHistoryStoreStub struct {
	snapshot       *models.CycleSnapshot
	cycles         []models.CycleSummary
	listCalls      int
	purchases      []models.FinalizedPurchaseHistory
	deletedCycleID string
}

func (s *cycleHistoryStoreStub) ArchiveCycle(ctx context.Context, snapshot *models.CycleSnapshot) error {
	s.snapshot = snapshot
	return nil
}

func (s *cycleHistoryStoreStub) ListCycles(ctx context.Context) ([]models.CycleSummary, error) {
	s.listCalls++
	return s.cycles, nil
}

func (s *cycleHistoryStoreStub) ListPurchasesByCycle(ctx context.Context, cycleID string) ([]models.FinalizedPurchaseHistory, error) {
	return s.purchases, nil
}

func (s *cycleHistoryStoreStub) DeleteCycle(ctx context.Context, cycleID string) error {
	s.deletedCycleID = cycleID
	return nil
}

type cycleRequestListerStub struct {
	requests []models.BookRequest
}

func (s *cycleRequestListerStub) ListAll(ctx context.Context) ([]models.BookRequest, error) {
	return s.requests, nil
}

type cycleSheetListerStub struct {
	sheets []models.PurchaseSheet
}

func (s *cycleSheetListerStub) ListAll(ctx context.Context) ([]models.PurchaseSheet, error) {
	return s.sheets, nil
}

type historyCacheStub struct {
	cached          []models.CycleSummary
	hasValue        bool
	sets            int
	lastSetTTL      time.Duration
	deletedPatterns []string
}

func (s *historyCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if !s.hasValue {
		return appErrors.ErrCacheMiss
	}
	if out, ok := dest.(*[]models.CycleSummary); ok {
		*out = s.cached
	}
	return nil
}

func (s *historyCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.sets++
	s.lastSetTTL = ttl
	if cycles, ok := value.([]models.CycleSummary); ok {
		s.cached = cycles
		s.hasValue = true
	}
	return nil
}

func (s *historyCacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.deletedPatterns = append(s.deletedPatterns, pattern)
	s.hasValue = false
	return nil
}

type cacheMetricsStub struct {
	hits   int
	misses int
}

func (s *cacheMetricsStub) RecordCacheOperation(hit bool, duration time.Duration) {
	if hit {
		s.hits++
	} else {
		s.misses++
	}
}

func liveWorkspace() (*purchaseStoreStub, *cycleRequestListerStub, *cycleSheetListerStub) {
	teacherID := "t1"
	purchases := &purchaseStoreStub{details: []models.FinalizedPurchaseDetail{
		{FinalizedPurchase: models.FinalizedPurchase{ID: "pur-1", BookRequestID: "req-1", ShopName: "ShopB", PricePerUnit: 85, TotalAmount: 340, FinalizedBy: "admin-1"}, BookName: "Calculus", Author: "Stewart", Edition: "8th", Quantity: 4, TeacherName: "Alice Smith"},
		{FinalizedPurchase: models.FinalizedPurchase{ID: "pur-2", BookRequestID: "req-2", ShopName: "ShopA", PricePerUnit: 50, TotalAmount: 100, FinalizedBy: "admin-1"}, BookName: "Physics", Author: "Halliday", Edition: "10th", Quantity: 2, TeacherName: "Bob Jones"},
		{FinalizedPurchase: models.FinalizedPurchase{ID: "pur-3", BookRequestID: "req-3", ShopName: "ShopA", PricePerUnit: 30, TotalAmount: 30, FinalizedBy: "admin-1"}, BookName: "Chemistry", Author: "Atkins", Edition: "11th", Quantity: 1, TeacherName: "Bob Jones"},
	}}
	requests := &cycleRequestListerStub{requests: []models.BookRequest{
		{ID: "req-1", TeacherID: "t1", TeacherName: "Alice Smith", BookName: "Calculus", Quantity: 4},
		{ID: "req-2", TeacherID: "t2", TeacherName: "Bob Jones", BookName: "Physics", Quantity: 2},
		{ID: "req-3", TeacherID: "t2", TeacherName: "Bob Jones", BookName: "Chemistry", Quantity: 1},
		{ID: "req-4", TeacherID: "t1", TeacherName: "Alice Smith", BookName: "Algebra", Quantity: 1},
		{ID: "req-5", TeacherID: "t2", TeacherName: "Bob Jones", BookName: "Statics", Quantity: 2},
	}}
	sheets := &cycleSheetListerStub{sheets: []models.PurchaseSheet{
		{ID: "sheet-1", SheetName: "CSE Sem 1", Status: models.SheetStatusCompleted, AssignedTo: &teacherID},
		{ID: "sheet-2", SheetName: "Civil Sem 1", Status: models.SheetStatusComparing},
	}}
	return purchases, requests, sheets
}

func TestCycleServiceCloseCycle(t *testing.T) {
	history := &cycleHistoryStoreStub{}
	purchases, requests, sheets := liveWorkspace()
	cache := &historyCacheStub{hasValue: true}
	audit := &auditStub{}
	svc := NewCycleService(history, purchases, requests, sheets, cache, &cacheMetricsStub{}, audit, CycleConfig{CacheEnabled: true}, nil)

	cycleID, err := svc.CloseCycle(context.Background(), adminClaims())
	require.NoError(t, err)
	require.NotEmpty(t, cycleID)

	snapshot := history.snapshot
	require.NotNil(t, snapshot)
	require.Equal(t, cycleID, snapshot.CycleID)
	require.Equal(t, "admin-1", snapshot.ClosedBy)

	require.Len(t, snapshot.Sheets, 2)
	require.Len(t, snapshot.Requests, 5)
	require.Len(t, snapshot.Purchases, 3)
	require.Equal(t, []string{"sheet-1", "sheet-2"}, snapshot.SheetIDs)
	require.Equal(t, []string{"req-1", "req-2", "req-3", "req-4", "req-5"}, snapshot.RequestIDs)
	require.Equal(t, []string{"pur-1", "pur-2", "pur-3"}, snapshot.PurchaseIDs)

	for _, sheet := range snapshot.Sheets {
		require.Equal(t, cycleID, sheet.CycleID)
	}
	for _, purchase := range snapshot.Purchases {
		require.Equal(t, cycleID, purchase.CycleID)
	}

	require.Equal(t, []string{"history:*"}, cache.deletedPatterns)
	require.Len(t, audit.logs, 1)
	require.Equal(t, models.AuditActionCloseCycle, audit.logs[0].Action)
}

func TestCycleServiceCloseCycleEmptyWorkspace(t *testing.T) {
	history := &cycleHistoryStoreStub{}
	svc := NewCycleService(history, &purchaseStoreStub{}, &cycleRequestListerStub{}, &cycleSheetListerStub{}, nil, nil, &auditStub{}, CycleConfig{}, nil)

	_, err := svc.CloseCycle(context.Background(), adminClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrEmptySelection.Code, appErrors.FromError(err).Code)
	require.Nil(t, history.snapshot)
}

func TestCycleServiceListCyclesCacheHit(t *testing.T) {
	history := &cycleHistoryStoreStub{}
	cache := &historyCacheStub{
		hasValue: true,
		cached:   []models.CycleSummary{{CycleID: "cycle-1", TotalPurchases: 3}},
	}
	metrics := &cacheMetricsStub{}
	svc := NewCycleService(history, &purchaseStoreStub{}, &cycleRequestListerStub{}, &cycleSheetListerStub{}, cache, metrics, &auditStub{}, CycleConfig{CacheEnabled: true}, nil)

	cycles, err := svc.ListCycles(context.Background())
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	require.Zero(t, history.listCalls)
	require.Equal(t, 1, metrics.hits)
}

func TestCycleServiceListCyclesCacheMissFillsCache(t *testing.T) {
	history := &cycleHistoryStoreStub{cycles: []models.CycleSummary{{CycleID: "cycle-1"}}}
	cache := &historyCacheStub{}
	metrics := &cacheMetricsStub{}
	svc := NewCycleService(history, &purchaseStoreStub{}, &cycleRequestListerStub{}, &cycleSheetListerStub{}, cache, metrics, &auditStub{}, CycleConfig{CacheEnabled: true, CacheTTL: time.Minute}, nil)

	cycles, err := svc.ListCycles(context.Background())
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	require.Equal(t, 1, history.listCalls)
	require.Equal(t, 1, cache.sets)
	require.Equal(t, time.Minute, cache.lastSetTTL)
	require.Equal(t, 1, metrics.misses)
}

func TestCycleServiceListCyclesCacheDisabled(t *testing.T) {
	history := &cycleHistoryStoreStub{cycles: []models.CycleSummary{{CycleID: "cycle-1"}}}
	cache := &historyCacheStub{hasValue: true}
	svc := NewCycleService(history, &purchaseStoreStub{}, &cycleRequestListerStub{}, &cycleSheetListerStub{}, cache, nil, &auditStub{}, CycleConfig{}, nil)

	cycles, err := svc.ListCycles(context.Background())
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	require.Equal(t, 1, history.listCalls)
	require.Zero(t, cache.sets)
}

func TestCycleServiceDeleteCycle(t *testing.T) {
	history := &cycleHistoryStoreStub{}
	cache := &historyCacheStub{hasValue: true}
	audit := &auditStub{}
	svc := NewCycleService(history, &purchaseStoreStub{}, &cycleRequestListerStub{}, &cycleSheetListerStub{}, cache, nil, audit, CycleConfig{CacheEnabled: true}, nil)

	require.NoError(t, svc.DeleteCycle(context.Background(), adminClaims(), "cycle-1"))
	require.Equal(t, "cycle-1", history.deletedCycleID)
	require.Equal(t, []string{"history:*"}, cache.deletedPatterns)
	require.Len(t, audit.logs, 1)
	require.Equal(t, models.AuditActionDeleteCycle, audit.logs[0].Action)
}

func TestCycleServiceCyclePurchases(t *testing.T) {
	history := &cycleHistoryStoreStub{purchases: []models.FinalizedPurchaseHistory{
		{ID: "hist-1", CycleID: "cycle-1", TotalAmount: 340},
	}}
	svc := NewCycleService(history, &purchaseStoreStub{}, &cycleRequestListerStub{}, &cycleSheetListerStub{}, nil, nil, &auditStub{}, CycleConfig{}, nil)

	purchases, err := svc.CyclePurchases(context.Background(), "cycle-1")
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.Equal(t, 340.0, purchases[0].TotalAmount)
}
