package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StudentBalance is one row of the student_balance view.
type StudentBalance struct {
	StudentID         int64           `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	Email             string          `db:"email" json:"email"`
	PackageType       string          `db:"package_type" json:"package_type"`
	HourlyRate        decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	IsActive          bool            `db:"is_active" json:"is_active"`
	CompletedSessions int             `db:"completed_sessions" json:"completed_sessions"`
	TotalOwed         decimal.Decimal `db:"total_owed" json:"total_owed"`
	TotalPaid         decimal.Decimal `db:"total_paid" json:"total_paid"`
	BalanceDue        decimal.Decimal `db:"balance_due" json:"balance_due"`
}

// MonthlyRevenue is one row of the monthly_revenue view.
type MonthlyRevenue struct {
	Month        string          `db:"month" json:"month"`
	Revenue      decimal.Decimal `db:"revenue" json:"revenue"`
	PaymentCount int             `db:"payment_count" json:"payment_count"`
}

// PaymentSummary is one row of the payment_summary view.
type PaymentSummary struct {
	Month         string          `db:"month" json:"month"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	TotalReceived decimal.Decimal `db:"total_received" json:"total_received"`
	PaymentCount  int             `db:"payment_count" json:"payment_count"`
}

// InvoiceSummary totals one student's month.
type InvoiceSummary struct {
	Month         string          `json:"month"`
	TotalSessions int             `json:"total_sessions"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// Invoice gathers everything billed and received for one student in one month.
type Invoice struct {
	Student  Student        `json:"student"`
	Sessions []Session      `json:"sessions"`
	Payments []Payment      `json:"payments"`
	Summary  InvoiceSummary `json:"summary"`
}

// Summarize computes the invoice totals from its sessions and payments. Every
// listed session counts toward the amount owed regardless of status.
func (inv *Invoice) Summarize(month string) {
	summary := InvoiceSummary{
		Month:         month,
		TotalSessions: len(inv.Sessions),
		TotalHours:    decimal.Zero,
		TotalOwed:     decimal.Zero,
		TotalPaid:     decimal.Zero,
	}
	for _, s := range inv.Sessions {
		summary.TotalHours = summary.TotalHours.Add(s.DurationHours)
		summary.TotalOwed = summary.TotalOwed.Add(s.SessionCost)
	}
	for _, p := range inv.Payments {
		summary.TotalPaid = summary.TotalPaid.Add(p.Amount)
	}
	summary.BalanceDue = summary.TotalOwed.Sub(summary.TotalPaid)
	inv.Summary = summary
}

// SystemMetrics is a lightweight snapshot of request and query instrumentation.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// Dashboard is the landing-page overview.
type Dashboard struct {
	TotalOutstanding    decimal.Decimal  `json:"total_outstanding"`
	TotalStudents       int              `json:"total_students"`
	CurrentMonth        string           `json:"current_month"`
	CurrentMonthRevenue decimal.Decimal  `json:"current_month_revenue"`
	Balances            []StudentBalance `json:"balances"`
	Revenue             []MonthlyRevenue `json:"revenue"`
}
