package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/repository"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
	"github.com/noah-isme/tutoring-ledger/pkg/export"
)

// Export formats for table dumps.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

type tableDumper interface {
	Dump(ctx context.Context, table string) (*repository.TableDump, error)
}

type reportSource interface {
	StudentBalances(ctx context.Context, studentID *int64) ([]models.StudentBalance, error)
	Invoice(ctx context.Context, studentID int64, month string) (*models.Invoice, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	RenderInvoice(doc export.InvoiceDocument) ([]byte, error)
}

// BusinessInfo is printed on invoice letterheads.
type BusinessInfo struct {
	Name  string
	Email string
	Phone string
}

// ExportService writes table dumps to disk and renders PDF documents.
type ExportService struct {
	tables   tableDumper
	reports  reportSource
	storage  fileStorage
	csv      csvRenderer
	xlsx     xlsxRenderer
	pdf      pdfRenderer
	business BusinessInfo
	logger   *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the package defaults.
func NewExportService(tables tableDumper, reports reportSource, storage fileStorage, business BusinessInfo, logger *zap.Logger, csv csvRenderer, xlsx xlsxRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if business.Name == "" {
		business.Name = "Tutoring Services"
	}
	return &ExportService{
		tables:   tables,
		reports:  reports,
		storage:  storage,
		csv:      csv,
		xlsx:     xlsx,
		pdf:      pdf,
		business: business,
		logger:   logger,
	}
}

// ExportTable dumps an allow-listed table to destination and returns the written path.
// An empty destination generates a file name under the exports directory.
func (s *ExportService) ExportTable(ctx context.Context, table, format, destination string) (string, error) {
	table = strings.ToLower(strings.TrimSpace(table))
	if !repository.IsExportable(table) {
		return "", appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("table %q cannot be exported; choose one of %s", table, strings.Join(repository.ExportableTables, ", ")))
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = formatFromPath(destination)
	}
	if format != FormatCSV && format != FormatXLSX {
		return "", invalid(fmt.Sprintf("unsupported export format %q", format))
	}

	dump, err := s.tables.Dump(ctx, table)
	if err != nil {
		var notExportable *repository.ErrTableNotExportable
		if errors.As(err, &notExportable) {
			return "", appErrors.Clone(appErrors.ErrForbidden, notExportable.Error())
		}
		return "", internal(err, "failed to read "+table)
	}
	dataset := export.Dataset{Headers: dump.Columns, Rows: dump.Rows}

	var payload []byte
	switch format {
	case FormatXLSX:
		payload, err = s.xlsx.Render(dataset, table)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return "", internal(err, "failed to render export")
	}

	if destination == "" {
		destination = buildFilename(table, format)
	}
	path, err := s.storage.Save(destination, payload)
	if err != nil {
		return "", internal(err, "failed to write export")
	}
	s.logger.Info("table exported", zap.String("table", table), zap.String("format", format), zap.String("path", path), zap.Int("rows", len(dump.Rows)))
	return path, nil
}

// InvoicePDF renders the invoice for one student and month.
func (s *ExportService) InvoicePDF(ctx context.Context, studentID int64, month string) ([]byte, *models.Invoice, error) {
	invoice, err := s.reports.Invoice(ctx, studentID, month)
	if err != nil {
		return nil, nil, err
	}
	payload, err := s.pdf.RenderInvoice(invoiceDocument(s.business, invoice))
	if err != nil {
		return nil, nil, internal(err, "failed to render invoice")
	}
	return payload, invoice, nil
}

// BalancesPDF renders the student balance report as a table.
func (s *ExportService) BalancesPDF(ctx context.Context) ([]byte, error) {
	balances, err := s.reports.StudentBalances(ctx, nil)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{Headers: []string{"Student", "Email", "Package", "Completed", "Owed", "Paid", "Balance"}}
	for _, b := range balances {
		dataset.Rows = append(dataset.Rows, []string{
			b.Name,
			b.Email,
			b.PackageType,
			fmt.Sprintf("%d", b.CompletedSessions),
			b.TotalOwed.StringFixed(2),
			b.TotalPaid.StringFixed(2),
			b.BalanceDue.StringFixed(2),
		})
	}
	payload, err := s.pdf.Render(dataset, s.business.Name+" student balances")
	if err != nil {
		return nil, internal(err, "failed to render balances")
	}
	return payload, nil
}

func invoiceDocument(business BusinessInfo, invoice *models.Invoice) export.InvoiceDocument {
	doc := export.InvoiceDocument{
		BusinessName:  business.Name,
		BusinessEmail: business.Email,
		BusinessPhone: business.Phone,
		StudentName:   invoice.Student.Name,
		StudentEmail:  invoice.Student.Email,
		Month:         invoice.Summary.Month,
		TotalSessions: invoice.Summary.TotalSessions,
		TotalHours:    invoice.Summary.TotalHours,
		TotalOwed:     invoice.Summary.TotalOwed,
		TotalPaid:     invoice.Summary.TotalPaid,
		BalanceDue:    invoice.Summary.BalanceDue,
	}
	if invoice.Student.ParentName != nil {
		doc.ParentName = *invoice.Student.ParentName
	}
	if invoice.Student.ParentEmail != nil {
		doc.ParentEmail = *invoice.Student.ParentEmail
	}
	for _, session := range invoice.Sessions {
		doc.Sessions = append(doc.Sessions, export.InvoiceLine{
			Date:    session.SessionDate.String(),
			Time:    session.StartTime + "-" + session.EndTime,
			Subject: session.Subject,
			Status:  string(session.Status),
			Hours:   session.DurationHours,
			Cost:    session.SessionCost,
		})
	}
	for _, payment := range invoice.Payments {
		line := export.InvoicePayment{
			Date:   payment.PaymentDate.String(),
			Method: payment.PaymentMethod,
			Amount: payment.Amount,
		}
		if payment.ReferenceNumber != nil {
			line.Reference = *payment.ReferenceNumber
		}
		doc.Payments = append(doc.Payments, line)
	}
	return doc
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

func buildFilename(table, format string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", table, timestamp, uuid.NewString()[:8], format)
}
