// Package app wires the ledger's repositories and services from configuration.
package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/repository"
	"github.com/noah-isme/tutoring-ledger/internal/service"
	"github.com/noah-isme/tutoring-ledger/pkg/config"
	"github.com/noah-isme/tutoring-ledger/pkg/database"
	"github.com/noah-isme/tutoring-ledger/pkg/storage"
)

// App holds the wired services shared by the HTTP server and the CLI.
type App struct {
	DB       *sqlx.DB
	Metrics  *service.MetricsService
	Students *service.StudentService
	Sessions *service.SessionService
	Payments *service.PaymentService
	Reports  *service.ReportService
	Exports  *service.ExportService
	Business service.BusinessInfo
}

// New opens the database and builds every service on top of it.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	files, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare exports dir: %w", err)
	}

	validate := service.NewValidator()
	metrics := service.NewMetricsService()
	business := service.BusinessInfo{
		Name:  cfg.Business.Name,
		Email: cfg.Business.Email,
		Phone: cfg.Business.Phone,
	}

	students := service.NewStudentService(repository.NewStudentRepository(db), validate, logger, service.StudentDefaults{
		HourlyRate:  cfg.Business.DefaultHourlyRate,
		PackageType: cfg.Business.DefaultPackageType,
	})
	sessions := service.NewSessionService(repository.NewSessionRepository(db), validate, logger)
	payments := service.NewPaymentService(repository.NewPaymentRepository(db), validate, logger)
	reports := service.NewReportService(repository.NewReportRepository(db), metrics, logger, service.ReportConfig{
		RevenueMonths: cfg.Reports.RevenueMonths,
		SummaryMonths: cfg.Reports.SummaryMonths,
	})
	exports := service.NewExportService(repository.NewExportRepository(db), reports, files, business, logger, nil, nil, nil)

	logger.Info("ledger ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("auto_migrate", cfg.Database.AutoMigrate),
	)

	return &App{
		DB:       db,
		Metrics:  metrics,
		Students: students,
		Sessions: sessions,
		Payments: payments,
		Reports:  reports,
		Exports:  exports,
		Business: business,
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
