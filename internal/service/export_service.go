package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
	"github.com/noah-isme/library-purchase-api/pkg/export"
)

// ExportFormat names a supported download format.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportPurchaseSource interface {
	ListDetails(ctx context.Context) ([]models.FinalizedPurchaseDetail, error)
}

type exportHistorySource interface {
	ListPurchasesByCycle(ctx context.Context, cycleID string) ([]models.FinalizedPurchaseHistory, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders finalized purchases and archived cycles as CSV
// or PDF downloads. Files are small enough to build synchronously.
type ExportService struct {
	purchases exportPurchaseSource
	history   exportHistorySource
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(purchases exportPurchaseSource, history exportHistorySource, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{purchases: purchases, history: history, csv: csv, pdf: pdf, logger: logger}
}

// ExportFinalized renders the live finalized purchases.
func (s *ExportService) ExportFinalized(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	details, err := s.purchases.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load finalized purchases")
	}

	rows := make([]map[string]string, 0, len(details))
	for _, detail := range details {
		rows = append(rows, purchaseRow(detail.BookName, detail.Author, detail.Edition, detail.TeacherName, detail.ShopName, detail.Quantity, detail.PricePerUnit, detail.TotalAmount))
	}
	dataset := export.Dataset{Headers: purchaseHeaders(), Rows: rows}

	return s.render(dataset, "Finalized Purchases", "finalized_purchases", format)
}

// ExportCycle renders one archived cycle.
func (s *ExportService) ExportCycle(ctx context.Context, cycleID string, format ExportFormat) (*ExportFile, error) {
	purchases, err := s.history.ListPurchasesByCycle(ctx, cycleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cycle purchases")
	}
	if len(purchases) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "cycle has no archived purchases")
	}

	rows := make([]map[string]string, 0, len(purchases))
	for _, purchase := range purchases {
		rows = append(rows, purchaseRow(purchase.BookName, purchase.Author, purchase.Edition, purchase.TeacherName, purchase.ShopName, purchase.Quantity, purchase.PricePerUnit, purchase.TotalAmount))
	}
	dataset := export.Dataset{Headers: purchaseHeaders(), Rows: rows}

	title := fmt.Sprintf("Purchase Cycle %s", shortCycleID(cycleID))
	return s.render(dataset, title, fmt.Sprintf("cycle_%s", shortCycleID(cycleID)), format)
}

func (s *ExportService) render(dataset export.Dataset, title, baseName string, format ExportFormat) (*ExportFile, error) {
	timestamp := time.Now().UTC().Format("20060102_150405")
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.csv", baseName, timestamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.pdf", baseName, timestamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func purchaseHeaders() []string {
	return []string{"Book Name", "Author", "Edition", "Teacher", "Shop", "Quantity", "Price Per Unit", "Total Amount"}
}

func purchaseRow(bookName, author, edition, teacherName, shopName string, quantity int, pricePerUnit, totalAmount float64) map[string]string {
	return map[string]string{
		"Book Name":      bookName,
		"Author":         author,
		"Edition":        edition,
		"Teacher":        teacherName,
		"Shop":           shopName,
		"Quantity":       fmt.Sprintf("%d", quantity),
		"Price Per Unit": fmt.Sprintf("%.2f", pricePerUnit),
		"Total Amount":   fmt.Sprintf("%.2f", totalAmount),
	}
}

func shortCycleID(cycleID string) string {
	id := strings.TrimSpace(cycleID)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
