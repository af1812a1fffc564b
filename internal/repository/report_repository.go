package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/tutoring-ledger/internal/models"
)

// ReportRepository reads the aggregate views. Nothing is cached; every call
// recomputes from the underlying tables.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// StudentBalances returns balances for every student, or for one when studentID is set,
// ordered by balance due descending.
func (r *ReportRepository) StudentBalances(ctx context.Context, studentID *int64) ([]models.StudentBalance, error) {
	query := `SELECT id, name, email, package_type, hourly_rate, is_active, completed_sessions, total_owed, total_paid, balance_due
        FROM student_balance`
	args := []interface{}{}
	if studentID != nil {
		query += " WHERE id = ?"
		args = append(args, *studentID)
	}
	query += " ORDER BY balance_due DESC, id ASC"

	balances := []models.StudentBalance{}
	if err := r.db.SelectContext(ctx, &balances, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("student balances: %w", err)
	}
	for i := range balances {
		balances[i].TotalOwed = cents(balances[i].TotalOwed)
		balances[i].TotalPaid = cents(balances[i].TotalPaid)
		balances[i].BalanceDue = cents(balances[i].BalanceDue)
	}
	return balances, nil
}

// MonthlyRevenue returns the most recent months of revenue, newest first.
func (r *ReportRepository) MonthlyRevenue(ctx context.Context, months int) ([]models.MonthlyRevenue, error) {
	const query = `SELECT month, revenue, payment_count FROM monthly_revenue ORDER BY month DESC LIMIT ?`
	rows := []models.MonthlyRevenue{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), months); err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	for i := range rows {
		rows[i].Revenue = cents(rows[i].Revenue)
	}
	return rows, nil
}

// PaymentSummary returns per-month, per-method totals. The row cap is months*5,
// which assumes at most five payment methods in use per month.
func (r *ReportRepository) PaymentSummary(ctx context.Context, months int) ([]models.PaymentSummary, error) {
	const query = `SELECT month, payment_method, total_received, payment_count FROM payment_summary
        ORDER BY month DESC, total_received DESC LIMIT ?`
	rows := []models.PaymentSummary{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), months*5); err != nil {
		return nil, fmt.Errorf("payment summary: %w", err)
	}
	for i := range rows {
		rows[i].TotalReceived = cents(rows[i].TotalReceived)
	}
	return rows, nil
}

// InvoiceData gathers a student's sessions and payments for the given YYYY-MM
// month. It returns nil with no error when the student does not exist.
// Sessions are not filtered by status.
func (r *ReportRepository) InvoiceData(ctx context.Context, studentID int64, month string) (*models.Invoice, error) {
	start, end, err := models.MonthRange(month)
	if err != nil {
		return nil, err
	}

	var student models.Student
	if err := r.db.GetContext(ctx, &student, r.db.Rebind("SELECT "+studentColumns+" FROM students WHERE id = ?"), studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("invoice student: %w", err)
	}

	sessions := []models.Session{}
	const sessionQuery = `SELECT id, student_id, session_date, start_time, end_time, duration_hours, subject, session_cost, status, notes
        FROM sessions WHERE student_id = ? AND session_date >= ? AND session_date < ?
        ORDER BY session_date ASC, start_time ASC`
	if err := r.db.SelectContext(ctx, &sessions, r.db.Rebind(sessionQuery), studentID, start, end); err != nil {
		return nil, fmt.Errorf("invoice sessions: %w", err)
	}

	payments := []models.Payment{}
	const paymentQuery = `SELECT id, student_id, payment_date, amount, payment_method, reference_number, notes
        FROM payments WHERE student_id = ? AND payment_date >= ? AND payment_date < ?
        ORDER BY payment_date ASC, id ASC`
	if err := r.db.SelectContext(ctx, &payments, r.db.Rebind(paymentQuery), studentID, start, end); err != nil {
		return nil, fmt.Errorf("invoice payments: %w", err)
	}

	invoice := &models.Invoice{Student: student, Sessions: sessions, Payments: payments}
	invoice.Summarize(month)
	return invoice, nil
}

// cents drops float residue picked up when the driver returns aggregates as REAL.
func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
