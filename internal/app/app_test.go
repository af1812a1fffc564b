package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/service"
	"github.com/noah-isme/tutoring-ledger/pkg/config"
)

func TestNewWiresServicesAgainstMigratedSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(dir, "ledger.db"), AutoMigrate: true},
		Exports:  config.ExportsConfig{Dir: filepath.Join(dir, "exports")},
		Business: config.BusinessConfig{Name: "Tutoring Services", DefaultPackageType: models.PackageIndividual},
	}

	a, err := New(cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	student, err := a.Students.Create(ctx, service.CreateStudentRequest{Name: "Alice", Email: "alice@example.com", HourlyRate: "50"})
	require.NoError(t, err)

	balances, err := a.Reports.StudentBalances(ctx, &student.ID)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].BalanceDue.IsZero())

	path, err := a.Exports.ExportTable(ctx, "students", "csv", "students.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exports", "students.csv"), path)
}

func TestCloseIsNilSafe(t *testing.T) {
	var a *App
	assert.NoError(t, a.Close())
}
