package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/pkg/database"
)

// PaymentRepository manages payment persistence.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create records a payment and fills in its ID.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	const query = `INSERT INTO payments (student_id, payment_date, amount, payment_method, reference_number, notes)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING id`
	row := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		payment.StudentID,
		payment.PaymentDate,
		payment.Amount,
		payment.PaymentMethod,
		payment.ReferenceNumber,
		payment.Notes,
	)
	if err := row.Scan(&payment.ID); err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// List returns payments joined with their student, most recent first.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT p.id, p.student_id, p.payment_date, p.amount, p.payment_method, p.reference_number, p.notes,
        st.name AS student_name, st.email AS student_email
        FROM payments p JOIN students st ON st.id = p.student_id WHERE 1=1`)
	args := []interface{}{}

	if filter.StudentID != nil {
		sb.WriteString(" AND p.student_id = ?")
		args = append(args, *filter.StudentID)
	}
	if filter.StartDate != nil {
		sb.WriteString(" AND p.payment_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		sb.WriteString(" AND p.payment_date <= ?")
		args = append(args, *filter.EndDate)
	}
	sb.WriteString(" ORDER BY p.payment_date DESC, p.id DESC")

	payments := []models.PaymentDetail{}
	if err := r.db.SelectContext(ctx, &payments, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
