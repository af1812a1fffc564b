package handler

import (
	"context"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/service"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error)
	Deactivate(ctx context.Context, id int64) error
	Reactivate(ctx context.Context, id int64) error
	Defaults() service.StudentDefaults
}

type sessionService interface {
	Create(ctx context.Context, req service.CreateSessionRequest) (*models.Session, error)
	UpdateStatus(ctx context.Context, id int64, req service.UpdateSessionStatusRequest) (bool, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, error)
}

type paymentService interface {
	Create(ctx context.Context, req service.CreatePaymentRequest) (*models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error)
}

type reportService interface {
	StudentBalances(ctx context.Context, studentID *int64) ([]models.StudentBalance, error)
	MonthlyRevenue(ctx context.Context, months int) ([]models.MonthlyRevenue, error)
	PaymentSummary(ctx context.Context, months int) ([]models.PaymentSummary, error)
	Invoice(ctx context.Context, studentID int64, month string) (*models.Invoice, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

type documentService interface {
	InvoicePDF(ctx context.Context, studentID int64, month string) ([]byte, *models.Invoice, error)
	BalancesPDF(ctx context.Context) ([]byte, error)
}
