package router

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/handler"
	internalmiddleware "github.com/noah-isme/tutoring-ledger/internal/middleware"
	"github.com/noah-isme/tutoring-ledger/internal/service"
	"github.com/noah-isme/tutoring-ledger/pkg/config"
	"github.com/noah-isme/tutoring-ledger/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutoring-ledger/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutoring-ledger/pkg/middleware/requestid"
	"github.com/noah-isme/tutoring-ledger/web"
)

// Pinger reports database reachability for the readiness probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies bundles everything the HTTP surface needs.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       Pinger
	Metrics  *service.MetricsService
	Students *service.StudentService
	Sessions *service.SessionService
	Payments *service.PaymentService
	Reports  *service.ReportService
	Exports  *service.ExportService
	Business service.BusinessInfo
}

// New builds the gin engine with middleware, HTML pages and the JSON API.
func New(deps Dependencies) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("router: config is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.Metrics))

	metricsHandler := handler.NewMetricsHandler(deps.Metrics, deps.DB)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if deps.Config.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerWebRoutes(r, handler.NewWebHandler(
		deps.Students, deps.Sessions, deps.Payments, deps.Reports, deps.Exports, deps.Business, deps.Logger,
	))
	registerAPIRoutes(r, deps, metricsHandler)

	return r, nil
}

func registerWebRoutes(r *gin.Engine, h *handler.WebHandler) {
	r.GET("/", h.Dashboard)

	r.GET("/students", h.Students)
	r.GET("/students/new", h.NewStudent)
	r.POST("/students/new", h.CreateStudent)
	r.POST("/students/:id/deactivate", h.DeactivateStudent)
	r.POST("/students/:id/activate", h.ReactivateStudent)

	r.GET("/sessions", h.Sessions)
	r.GET("/sessions/new", h.NewSession)
	r.POST("/sessions/new", h.CreateSession)
	r.POST("/sessions/:id/status/:status", h.UpdateSessionStatus)

	r.GET("/payments", h.Payments)
	r.GET("/payments/new", h.NewPayment)
	r.POST("/payments/new", h.CreatePayment)

	r.GET("/reports", h.Reports)
	r.GET("/reports/pdf", h.BalancesPDF)
	r.GET("/invoice/:student_id/:month", h.Invoice)
	r.GET("/invoice/:student_id/:month/pdf", h.InvoicePDF)
}

func registerAPIRoutes(r *gin.Engine, deps Dependencies, metricsHandler *handler.MetricsHandler) {
	students := handler.NewStudentHandler(deps.Students)
	sessions := handler.NewSessionHandler(deps.Sessions)
	payments := handler.NewPaymentHandler(deps.Payments)
	reports := handler.NewReportHandler(deps.Reports, deps.Exports)

	// Paths served by the first version of the app.
	r.GET("/api/students", students.LegacyList)
	r.GET("/api/student_balance", reports.LegacyBalances)

	api := r.Group(deps.Config.APIPrefix)
	{
		api.GET("/students", students.List)
		api.POST("/students", students.Create)
		api.GET("/students/by-email", students.ByEmail)
		api.GET("/students/:id", students.Get)
		api.POST("/students/:id/deactivate", students.Deactivate)
		api.POST("/students/:id/activate", students.Reactivate)

		api.GET("/sessions", sessions.List)
		api.POST("/sessions", sessions.Create)
		api.PATCH("/sessions/:id/status", sessions.UpdateStatus)

		api.GET("/payments", payments.List)
		api.POST("/payments", payments.Create)

		api.GET("/reports/balances", reports.Balances)
		api.GET("/reports/revenue", reports.Revenue)
		api.GET("/reports/payment-summary", reports.PaymentSummary)
		api.GET("/reports/dashboard", reports.Dashboard)
		api.GET("/reports/invoice/:student_id/:month", reports.Invoice)
		api.GET("/reports/invoice/:student_id/:month/pdf", reports.InvoicePDF)

		api.GET("/metrics/system", metricsHandler.System)
	}
}
