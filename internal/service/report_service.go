package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
)

type reportRepository interface {
	StudentBalances(ctx context.Context, studentID *int64) ([]models.StudentBalance, error)
	MonthlyRevenue(ctx context.Context, months int) ([]models.MonthlyRevenue, error)
	PaymentSummary(ctx context.Context, months int) ([]models.PaymentSummary, error)
	InvoiceData(ctx context.Context, studentID int64, month string) (*models.Invoice, error)
}

// ReportConfig sets the default look-back windows.
type ReportConfig struct {
	RevenueMonths int
	SummaryMonths int
}

// ReportService serves balance, revenue and invoice reports. Every call is
// recomputed from the store.
type ReportService struct {
	repo    reportRepository
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ReportConfig
	now     func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo reportRepository, metrics *MetricsService, logger *zap.Logger, cfg ReportConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RevenueMonths <= 0 {
		cfg.RevenueMonths = 12
	}
	if cfg.SummaryMonths <= 0 {
		cfg.SummaryMonths = 6
	}
	return &ReportService{repo: repo, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// Config returns the effective defaults.
func (s *ReportService) Config() ReportConfig {
	return s.cfg
}

// StudentBalances returns balances for all students, or one when studentID is set.
func (s *ReportService) StudentBalances(ctx context.Context, studentID *int64) ([]models.StudentBalance, error) {
	start := time.Now()
	rows, err := s.repo.StudentBalances(ctx, studentID)
	s.metrics.ObserveDBQuery("student_balance", time.Since(start))
	if err != nil {
		return nil, internal(err, "failed to load student balances")
	}
	return rows, nil
}

// MonthlyRevenue returns revenue for the most recent months; months <= 0 uses the default.
func (s *ReportService) MonthlyRevenue(ctx context.Context, months int) ([]models.MonthlyRevenue, error) {
	if months <= 0 {
		months = s.cfg.RevenueMonths
	}
	start := time.Now()
	rows, err := s.repo.MonthlyRevenue(ctx, months)
	s.metrics.ObserveDBQuery("monthly_revenue", time.Since(start))
	if err != nil {
		return nil, internal(err, "failed to load monthly revenue")
	}
	return rows, nil
}

// PaymentSummary returns per-method totals; months <= 0 uses the default.
func (s *ReportService) PaymentSummary(ctx context.Context, months int) ([]models.PaymentSummary, error) {
	if months <= 0 {
		months = s.cfg.SummaryMonths
	}
	start := time.Now()
	rows, err := s.repo.PaymentSummary(ctx, months)
	s.metrics.ObserveDBQuery("payment_summary", time.Since(start))
	if err != nil {
		return nil, internal(err, "failed to load payment summary")
	}
	return rows, nil
}

// Invoice assembles one student's invoice for a YYYY-MM month.
func (s *ReportService) Invoice(ctx context.Context, studentID int64, month string) (*models.Invoice, error) {
	month = strings.TrimSpace(month)
	if _, _, err := models.MonthRange(month); err != nil {
		return nil, invalid(err.Error())
	}
	start := time.Now()
	invoice, err := s.repo.InvoiceData(ctx, studentID, month)
	s.metrics.ObserveDBQuery("invoice", time.Since(start))
	if err != nil {
		return nil, internal(err, "failed to generate invoice")
	}
	if invoice == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return invoice, nil
}

// Dashboard summarises outstanding balances and recent revenue.
func (s *ReportService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	balances, err := s.StudentBalances(ctx, nil)
	if err != nil {
		return nil, err
	}
	revenue, err := s.MonthlyRevenue(ctx, 6)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		TotalOutstanding:    decimal.Zero,
		TotalStudents:       len(balances),
		CurrentMonth:        s.now().UTC().Format(models.MonthLayout),
		CurrentMonthRevenue: decimal.Zero,
		Balances:            balances,
		Revenue:             revenue,
	}
	for _, b := range balances {
		dashboard.TotalOutstanding = dashboard.TotalOutstanding.Add(b.BalanceDue)
	}
	for _, r := range revenue {
		if r.Month == dashboard.CurrentMonth {
			dashboard.CurrentMonthRevenue = r.Revenue
			break
		}
	}
	return dashboard, nil
}
