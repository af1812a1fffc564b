package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/repository"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error)
}

// CreatePaymentRequest holds the payload for recording a payment.
type CreatePaymentRequest struct {
	StudentID       int64  `json:"student_id" form:"student_id" validate:"required,gt=0"`
	Amount          Amount `json:"amount" form:"amount" validate:"required,numeric"`
	PaymentMethod   string `json:"payment_method" form:"payment_method" validate:"required,max=50"`
	PaymentDate     string `json:"payment_date" form:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	ReferenceNumber string `json:"reference_number" form:"reference_number" validate:"max=100"`
	Notes           string `json:"notes" form:"notes"`
}

// PaymentService handles payment use-cases.
type PaymentService struct {
	repo      paymentRepository
	validator *validator.Validate
	logger    *zap.Logger
	today     func() models.Date
}

// NewPaymentService constructs the payment service.
func NewPaymentService(repo paymentRepository, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, validator: validate, logger: logger, today: models.Today}
}

// Create records a payment. The payment date defaults to today.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "payment payload")
	}

	amount, err := req.Amount.Decimal()
	if err != nil || !amount.IsPositive() {
		return nil, invalid("amount must be greater than zero")
	}
	date := s.today()
	if req.PaymentDate != "" {
		if date, err = models.ParseDate(req.PaymentDate); err != nil {
			return nil, invalid(err.Error())
		}
	}

	payment := &models.Payment{
		StudentID:       req.StudentID,
		PaymentDate:     date,
		Amount:          amount,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: optional(req.ReferenceNumber),
		Notes:           optional(req.Notes),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil, invalid("student does not exist")
		}
		return nil, internal(err, "failed to record payment")
	}
	s.logger.Info("payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("student_id", payment.StudentID),
		zap.String("amount", payment.Amount.StringFixed(2)))
	return payment, nil
}

// List returns payments matching the filter, most recent first.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	payments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal(err, "failed to list payments")
	}
	return payments, nil
}

// Recent returns at most limit of the newest payments.
func (s *PaymentService) Recent(ctx context.Context, limit int) ([]models.PaymentDetail, error) {
	payments, err := s.List(ctx, models.PaymentFilter{})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(payments) > limit {
		payments = payments[:limit]
	}
	return payments, nil
}
