package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/repository"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
	"github.com/noah-isme/tutoring-ledger/pkg/storage"
)

type stubDumper struct {
	calls int
}

func (s *stubDumper) Dump(ctx context.Context, table string) (*repository.TableDump, error) {
	s.calls++
	return &repository.TableDump{
		Table:   table,
		Columns: []string{"id", "name", "email"},
		Rows:    [][]string{{"1", "Alice", "a@x.com"}},
	}, nil
}

type stubReports struct {
	invoice *models.Invoice
	err     error
}

func (s stubReports) StudentBalances(ctx context.Context, studentID *int64) ([]models.StudentBalance, error) {
	return []models.StudentBalance{{StudentID: 1, Name: "Alice", Email: "a@x.com", BalanceDue: decimal.NewFromInt(35)}}, nil
}

func (s stubReports) Invoice(ctx context.Context, studentID int64, month string) (*models.Invoice, error) {
	return s.invoice, s.err
}

func newExportServiceForTest(t *testing.T, reports stubReports) (*ExportService, *stubDumper, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	dumper := &stubDumper{}
	svc := NewExportService(dumper, reports, store, BusinessInfo{Name: "Test Tutoring"}, zap.NewNop(), nil, nil, nil)
	return svc, dumper, dir
}

func TestExportServiceExportTableCSV(t *testing.T) {
	svc, _, dir := newExportServiceForTest(t, stubReports{})

	path, err := svc.ExportTable(context.Background(), "students", "csv", "students.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "students.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "name", "email"}, {"1", "Alice", "a@x.com"}}, records)
}

func TestExportServiceExportTableXLSXFromExtension(t *testing.T) {
	svc, _, _ := newExportServiceForTest(t, stubReports{})
	dest := filepath.Join(t.TempDir(), "payments.xlsx")

	path, err := svc.ExportTable(context.Background(), "Payments", "", dest)
	require.NoError(t, err)
	assert.Equal(t, dest, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("payments")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportServiceGeneratesFilename(t *testing.T) {
	svc, _, dir := newExportServiceForTest(t, stubReports{})

	path, err := svc.ExportTable(context.Background(), "sessions", "csv", "")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "sessions_"))
	assert.True(t, strings.HasSuffix(path, ".csv"))
}

func TestExportServiceRejectsTablesOutsideAllowList(t *testing.T) {
	svc, dumper, _ := newExportServiceForTest(t, stubReports{})

	for _, table := range []string{"student_balance", "sqlite_master", "students; DROP TABLE students"} {
		_, err := svc.ExportTable(context.Background(), table, "csv", "")
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrForbidden), table)
	}
	assert.Zero(t, dumper.calls)

	_, err := svc.ExportTable(context.Background(), "students", "json", "")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestExportServiceInvoicePDF(t *testing.T) {
	parent := "Pat"
	invoice := &models.Invoice{
		Student:  models.Student{ID: 1, Name: "Alice", Email: "a@x.com", ParentName: &parent},
		Sessions: []models.Session{{SessionDate: models.Today(), StartTime: "15:00", EndTime: "16:30", Subject: "Math", Status: models.SessionStatusCompleted, DurationHours: decimal.RequireFromString("1.5"), SessionCost: decimal.NewFromInt(75)}},
		Payments: []models.Payment{{PaymentDate: models.Today(), PaymentMethod: "Cash", Amount: decimal.NewFromInt(40)}},
	}
	invoice.Summarize("2024-03")
	svc, _, _ := newExportServiceForTest(t, stubReports{invoice: invoice})

	payload, got, err := svc.InvoicePDF(context.Background(), 1, "2024-03")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
	assert.Equal(t, invoice, got)

	doc := invoiceDocument(BusinessInfo{Name: "Test Tutoring"}, invoice)
	assert.Equal(t, "Pat", doc.ParentName)
	assert.Equal(t, "15:00-16:30", doc.Sessions[0].Time)
	assert.True(t, doc.BalanceDue.Equal(decimal.NewFromInt(35)))
}

func TestExportServiceInvoicePDFPropagatesNotFound(t *testing.T) {
	svc, _, _ := newExportServiceForTest(t, stubReports{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")})
	_, _, err := svc.InvoicePDF(context.Background(), 9, "2024-03")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestExportServiceBalancesPDF(t *testing.T) {
	svc, _, _ := newExportServiceForTest(t, stubReports{})
	payload, err := svc.BalancesPDF(context.Background())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}
