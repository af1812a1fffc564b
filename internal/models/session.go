package models

import "github.com/shopspring/decimal"

// SessionStatus is the lifecycle state of a tutoring session.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "Scheduled"
	SessionStatusCompleted SessionStatus = "Completed"
	SessionStatusCancelled SessionStatus = "Cancelled"
	SessionStatusNoShow    SessionStatus = "No-Show"
)

// SessionStatuses lists the recognised statuses in display order.
var SessionStatuses = []SessionStatus{SessionStatusScheduled, SessionStatusCompleted, SessionStatusCancelled, SessionStatusNoShow}

// Valid returns true when the status is a recognised value.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusCompleted, SessionStatusCancelled, SessionStatusNoShow:
		return true
	default:
		return false
	}
}

// Session is a single tutoring appointment.
type Session struct {
	ID            int64           `db:"id" json:"id"`
	StudentID     int64           `db:"student_id" json:"student_id"`
	SessionDate   Date            `db:"session_date" json:"session_date"`
	StartTime     string          `db:"start_time" json:"start_time"`
	EndTime       string          `db:"end_time" json:"end_time"`
	DurationHours decimal.Decimal `db:"duration_hours" json:"duration_hours"`
	Subject       string          `db:"subject" json:"subject"`
	SessionCost   decimal.Decimal `db:"session_cost" json:"session_cost"`
	Status        SessionStatus   `db:"status" json:"status"`
	Notes         *string         `db:"notes" json:"notes,omitempty"`
}

// SessionDetail extends a session with the owning student's contact fields.
type SessionDetail struct {
	Session
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
}

// SessionFilter narrows session listings; every set field is ANDed.
type SessionFilter struct {
	StudentID *int64
	StartDate *Date
	EndDate   *Date
}
