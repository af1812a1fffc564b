package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/repository"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	SetActive(ctx context.Context, id int64, active bool) (bool, error)
}

// CreateStudentRequest holds the payload for registering a student.
type CreateStudentRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=200"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Phone       string `json:"phone" form:"phone" validate:"max=50"`
	ParentName  string `json:"parent_name" form:"parent_name" validate:"max=200"`
	ParentEmail string `json:"parent_email" form:"parent_email" validate:"omitempty,email"`
	PackageType string `json:"package_type" form:"package_type" validate:"omitempty,oneof=Individual Weekly Intensive"`
	HourlyRate  Amount `json:"hourly_rate" form:"hourly_rate" validate:"omitempty,numeric"`
}

// StudentDefaults fills in fields a request leaves empty.
type StudentDefaults struct {
	HourlyRate  decimal.Decimal
	PackageType string
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
	defaults  StudentDefaults
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger, defaults StudentDefaults) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.PackageType == "" {
		defaults.PackageType = models.PackageIndividual
	}
	if defaults.HourlyRate.IsZero() {
		defaults.HourlyRate = decimal.NewFromInt(50)
	}
	return &StudentService{repo: repo, validator: validate, logger: logger, defaults: defaults}
}

// Defaults exposes the values used for omitted fields, for pre-filling forms.
func (s *StudentService) Defaults() StudentDefaults {
	return s.defaults
}

// List returns students ordered by name.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal(err, "failed to list students")
	}
	return students, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, internal(err, "failed to load student")
	}
	return student, nil
}

// GetByEmail looks a student up by exact email.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("email is required")
	}
	student, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, internal(err, "failed to load student")
	}
	return student, nil
}

// Create registers a new student. A taken email is a conflict.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "student payload")
	}

	rate := s.defaults.HourlyRate
	if req.HourlyRate != "" {
		parsed, err := req.HourlyRate.Decimal()
		if err != nil {
			return nil, invalid("hourly_rate must be a number")
		}
		if parsed.IsNegative() {
			return nil, invalid("hourly_rate must not be negative")
		}
		rate = parsed
	}
	packageType := req.PackageType
	if packageType == "" {
		packageType = s.defaults.PackageType
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, internal(err, "failed to validate email")
	}
	if exists {
		s.logger.Warn("duplicate student email rejected", zap.String("email", req.Email))
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	student := &models.Student{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       optional(req.Phone),
		ParentName:  optional(req.ParentName),
		ParentEmail: optional(req.ParentEmail),
		PackageType: packageType,
		HourlyRate:  rate,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, internal(err, "failed to create student")
	}
	s.logger.Info("student added", zap.Int64("student_id", student.ID), zap.String("email", student.Email))
	return student, nil
}

// Deactivate hides a student from active listings. History is kept.
func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, false)
}

// Reactivate restores a deactivated student.
func (s *StudentService) Reactivate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, true)
}

func (s *StudentService) setActive(ctx context.Context, id int64, active bool) error {
	touched, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return internal(err, "failed to update student")
	}
	if !touched {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.logger.Info("student active flag changed", zap.Int64("student_id", id), zap.Bool("active", active))
	return nil
}
