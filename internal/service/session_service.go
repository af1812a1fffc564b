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

type sessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) (int64, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, error)
}

// CreateSessionRequest holds the payload for logging a session.
type CreateSessionRequest struct {
	StudentID     int64  `json:"student_id" form:"student_id" validate:"required,gt=0"`
	SessionDate   string `json:"session_date" form:"session_date" validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" form:"start_time" validate:"required,datetime=15:04"`
	EndTime       string `json:"end_time" form:"end_time" validate:"required,datetime=15:04"`
	DurationHours Amount `json:"duration_hours" form:"duration_hours" validate:"required,numeric"`
	Subject       string `json:"subject" form:"subject" validate:"required,max=200"`
	SessionCost   Amount `json:"session_cost" form:"session_cost" validate:"required,numeric"`
	Status        string `json:"status" form:"status" validate:"omitempty,oneof=Scheduled Completed Cancelled No-Show"`
	Notes         string `json:"notes" form:"notes"`
}

// UpdateSessionStatusRequest changes a session's lifecycle state.
type UpdateSessionStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=Scheduled Completed Cancelled No-Show"`
}

// SessionService handles session use-cases.
type SessionService struct {
	repo      sessionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(repo sessionRepository, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, validator: validate, logger: logger}
}

// Create logs a session for an existing student.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailed(err, "session payload")
	}

	date, err := models.ParseDate(req.SessionDate)
	if err != nil {
		return nil, invalid(err.Error())
	}
	duration, err := req.DurationHours.Decimal()
	if err != nil || !duration.IsPositive() {
		return nil, invalid("duration_hours must be greater than zero")
	}
	cost, err := req.SessionCost.Decimal()
	if err != nil || cost.IsNegative() {
		return nil, invalid("session_cost must not be negative")
	}

	session := &models.Session{
		StudentID:     req.StudentID,
		SessionDate:   date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DurationHours: duration,
		Subject:       req.Subject,
		SessionCost:   cost,
		Status:        models.SessionStatus(req.Status),
		Notes:         optional(req.Notes),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil, invalid("student does not exist")
		}
		return nil, internal(err, "failed to create session")
	}
	s.logger.Info("session added",
		zap.Int64("session_id", session.ID),
		zap.Int64("student_id", session.StudentID),
		zap.String("status", string(session.Status)))
	return session, nil
}

// UpdateStatus sets a session's status. It reports whether a session was
// changed; an unknown id changes nothing and is not an error.
func (s *SessionService) UpdateStatus(ctx context.Context, id int64, req UpdateSessionStatusRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, validationFailed(err, "session status")
	}
	affected, err := s.repo.UpdateStatus(ctx, id, models.SessionStatus(req.Status))
	if err != nil {
		return false, internal(err, "failed to update session status")
	}
	if affected == 0 {
		s.logger.Warn("session status update matched no rows", zap.Int64("session_id", id), zap.String("status", req.Status))
		return false, nil
	}
	s.logger.Info("session status updated", zap.Int64("session_id", id), zap.String("status", req.Status))
	return true, nil
}

// List returns sessions matching the filter, newest first.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, error) {
	sessions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal(err, "failed to list sessions")
	}
	return sessions, nil
}

// Recent returns at most limit of the newest sessions.
func (s *SessionService) Recent(ctx context.Context, limit int) ([]models.SessionDetail, error) {
	sessions, err := s.List(ctx, models.SessionFilter{})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}
