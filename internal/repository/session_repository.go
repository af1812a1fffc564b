package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/pkg/database"
)

// ErrStudentNotFound is returned when a session or payment references a missing student.
var ErrStudentNotFound = errors.New("student does not exist")

// SessionRepository manages tutoring session persistence.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session. An empty status is stored as Scheduled.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.Status == "" {
		session.Status = models.SessionStatusScheduled
	}
	const query = `INSERT INTO sessions (student_id, session_date, start_time, end_time, duration_hours, subject, session_cost, status, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id`
	row := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		session.StudentID,
		session.SessionDate,
		session.StartTime,
		session.EndTime,
		session.DurationHours,
		session.Subject,
		session.SessionCost,
		string(session.Status),
		session.Notes,
	)
	if err := row.Scan(&session.ID); err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UpdateStatus sets a session's status and returns how many rows changed.
// An unknown session id changes nothing and is not an error.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE sessions SET status = ? WHERE id = ?"), string(status), id)
	if err != nil {
		return 0, fmt.Errorf("update session status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update session status: %w", err)
	}
	return affected, nil
}

// List returns sessions joined with their student, newest first.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT se.id, se.student_id, se.session_date, se.start_time, se.end_time, se.duration_hours,
        se.subject, se.session_cost, se.status, se.notes, st.name AS student_name, st.email AS student_email
        FROM sessions se JOIN students st ON st.id = se.student_id WHERE 1=1`)
	args := []interface{}{}

	if filter.StudentID != nil {
		sb.WriteString(" AND se.student_id = ?")
		args = append(args, *filter.StudentID)
	}
	if filter.StartDate != nil {
		sb.WriteString(" AND se.session_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		sb.WriteString(" AND se.session_date <= ?")
		args = append(args, *filter.EndDate)
	}
	sb.WriteString(" ORDER BY se.session_date DESC, se.start_time DESC")

	sessions := []models.SessionDetail{}
	if err := r.db.SelectContext(ctx, &sessions, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
