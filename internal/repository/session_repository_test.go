package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-ledger/internal/models"
)

func TestSessionRepositoryCreateDefaultsToScheduled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery("INSERT INTO sessions").
		WithArgs(int64(1), "2024-03-05", "15:00", "16:30", sqlmock.AnyArg(), "Math", sqlmock.AnyArg(), "Scheduled", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	session := &models.Session{StudentID: 1, SessionDate: date(t, "2024-03-05"), StartTime: "15:00", EndTime: "16:30", DurationHours: dec("1.5"), Subject: "Math", SessionCost: dec("75")}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.Equal(t, int64(11), session.ID)
	assert.Equal(t, models.SessionStatusScheduled, session.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryUpdateStatusReportsRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET status = ? WHERE id = ?")).
		WithArgs("Completed", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET status = ? WHERE id = ?")).
		WithArgs("Completed", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateStatus(context.Background(), 5, models.SessionStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.UpdateStatus(context.Background(), 404, models.SessionStatusCompleted)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCreateUnknownStudent(t *testing.T) {
	db := newLedgerDB(t)
	session := &models.Session{StudentID: 999, SessionDate: date(t, "2024-03-05"), StartTime: "15:00", EndTime: "16:00", DurationHours: dec("1"), Subject: "Math", SessionCost: dec("50")}
	err := NewSessionRepository(db).Create(context.Background(), session)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestSessionRepositoryListFilters(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	alice := seedStudent(t, db, "Alice", "a@x.com")
	bob := seedStudent(t, db, "Bob", "b@x.com")
	seedSession(t, db, alice.ID, "2024-02-28", "50", models.SessionStatusCompleted)
	seedSession(t, db, alice.ID, "2024-03-05", "75", models.SessionStatusCompleted)
	seedSession(t, db, bob.ID, "2024-03-10", "60", models.SessionStatusScheduled)
	seedSession(t, db, alice.ID, "2024-04-01", "75", models.SessionStatusScheduled)

	all, err := repo.List(ctx, models.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "2024-04-01", all[0].SessionDate.String())
	assert.Equal(t, "2024-02-28", all[3].SessionDate.String())
	assert.Equal(t, "Alice", all[0].StudentName)
	assert.Equal(t, "a@x.com", all[0].StudentEmail)

	forAlice, err := repo.List(ctx, models.SessionFilter{StudentID: &alice.ID})
	require.NoError(t, err)
	assert.Len(t, forAlice, 3)
	for _, s := range forAlice {
		assert.Equal(t, alice.ID, s.StudentID)
	}

	start, end := date(t, "2024-03-01"), date(t, "2024-03-31")
	march, err := repo.List(ctx, models.SessionFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, march, 2)
	for _, s := range march {
		assert.Equal(t, "2024-03", s.SessionDate.Month())
	}

	combined, err := repo.List(ctx, models.SessionFilter{StudentID: &bob.ID, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.True(t, combined[0].SessionCost.Equal(dec("60")))
	assert.Equal(t, models.SessionStatusScheduled, combined[0].Status)
}

func TestSessionRepositoryUpdateStatusOnStore(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewSessionRepository(db)
	alice := seedStudent(t, db, "Alice", "a@x.com")
	session := seedSession(t, db, alice.ID, "2024-03-05", "75", "")

	affected, err := repo.UpdateStatus(context.Background(), session.ID, models.SessionStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var status string
	require.NoError(t, db.Get(&status, "SELECT status FROM sessions WHERE id = ?", session.ID))
	assert.Equal(t, "Completed", status)
}
