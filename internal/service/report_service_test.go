package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
)

type stubReportRepo struct {
	balances     []models.StudentBalance
	revenue      []models.MonthlyRevenue
	summary      []models.PaymentSummary
	invoice      *models.Invoice
	err          error
	revenueArg   int
	summaryArg   int
	balanceArg   *int64
	invoiceMonth string
}

func (s *stubReportRepo) StudentBalances(ctx context.Context, studentID *int64) ([]models.StudentBalance, error) {
	s.balanceArg = studentID
	return s.balances, s.err
}

func (s *stubReportRepo) MonthlyRevenue(ctx context.Context, months int) ([]models.MonthlyRevenue, error) {
	s.revenueArg = months
	return s.revenue, s.err
}

func (s *stubReportRepo) PaymentSummary(ctx context.Context, months int) ([]models.PaymentSummary, error) {
	s.summaryArg = months
	return s.summary, s.err
}

func (s *stubReportRepo) InvoiceData(ctx context.Context, studentID int64, month string) (*models.Invoice, error) {
	s.invoiceMonth = month
	return s.invoice, s.err
}

func TestReportServiceDefaultsMonths(t *testing.T) {
	repo := &stubReportRepo{}
	svc := NewReportService(repo, NewMetricsService(), zap.NewNop(), ReportConfig{})

	_, err := svc.MonthlyRevenue(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 12, repo.revenueArg)

	_, err = svc.PaymentSummary(context.Background(), -1)
	require.NoError(t, err)
	assert.Equal(t, 6, repo.summaryArg)

	_, err = svc.MonthlyRevenue(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.revenueArg)
}

func TestReportServiceRecordsQueryMetrics(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewReportService(&stubReportRepo{}, metrics, nil, ReportConfig{})

	id := int64(4)
	_, err := svc.StudentBalances(context.Background(), &id)
	require.NoError(t, err)
	_, err = svc.PaymentSummary(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), metrics.Snapshot().DBQueryCount)
}

func TestReportServiceInvoice(t *testing.T) {
	invoice := &models.Invoice{Student: models.Student{ID: 1, Name: "Alice"}}
	invoice.Summarize("2024-03")
	repo := &stubReportRepo{invoice: invoice}
	svc := NewReportService(repo, nil, nil, ReportConfig{})

	got, err := svc.Invoice(context.Background(), 1, " 2024-03 ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Student.Name)
	assert.Equal(t, "2024-03", repo.invoiceMonth)

	_, err = svc.Invoice(context.Background(), 1, "2024-3-1")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	repo.invoice = nil
	_, err = svc.Invoice(context.Background(), 99, "2024-03")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	repo.err = errors.New("database is locked")
	_, err = svc.Invoice(context.Background(), 1, "2024-03")
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestReportServiceDashboard(t *testing.T) {
	repo := &stubReportRepo{
		balances: []models.StudentBalance{
			{StudentID: 1, BalanceDue: decimal.NewFromInt(35)},
			{StudentID: 2, BalanceDue: decimal.NewFromInt(-10)},
		},
		revenue: []models.MonthlyRevenue{
			{Month: "2024-03", Revenue: decimal.NewFromInt(140)},
			{Month: "2024-02", Revenue: decimal.NewFromInt(90)},
		},
	}
	svc := NewReportService(repo, nil, nil, ReportConfig{})
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.TotalStudents)
	assert.True(t, dashboard.TotalOutstanding.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "2024-03", dashboard.CurrentMonth)
	assert.True(t, dashboard.CurrentMonthRevenue.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, 6, repo.revenueArg)

	svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	dashboard, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, dashboard.CurrentMonthRevenue.IsZero())
}
