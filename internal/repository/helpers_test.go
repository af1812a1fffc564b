package repository

import (
	"context"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/pkg/config"
	"github.com/noah-isme/tutoring-ledger/pkg/database"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

// newLedgerDB opens a migrated SQLite database in a temp dir.
func newLedgerDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "ledger.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func seedStudent(t *testing.T, db *sqlx.DB, name, email string) *models.Student {
	t.Helper()
	student := &models.Student{Name: name, Email: email, PackageType: models.PackageIndividual, HourlyRate: dec("50"), IsActive: true}
	require.NoError(t, NewStudentRepository(db).Create(context.Background(), student))
	return student
}

func seedSession(t *testing.T, db *sqlx.DB, studentID int64, day, cost string, status models.SessionStatus) *models.Session {
	t.Helper()
	session := &models.Session{
		StudentID:     studentID,
		SessionDate:   date(t, day),
		StartTime:     "15:00",
		EndTime:       "16:30",
		DurationHours: dec("1.5"),
		Subject:       "Math",
		SessionCost:   dec(cost),
		Status:        status,
	}
	require.NoError(t, NewSessionRepository(db).Create(context.Background(), session))
	return session
}

func seedPayment(t *testing.T, db *sqlx.DB, studentID int64, day, amount, method string) *models.Payment {
	t.Helper()
	payment := &models.Payment{StudentID: studentID, PaymentDate: date(t, day), Amount: dec(amount), PaymentMethod: method}
	require.NoError(t, NewPaymentRepository(db).Create(context.Background(), payment))
	return payment
}
