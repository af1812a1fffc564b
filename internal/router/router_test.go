package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-ledger/internal/app"
	"github.com/noah-isme/tutoring-ledger/pkg/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	cfg := &config.Config{
		Env:       config.EnvProduction,
		APIPrefix: "/api/v1",
		Database:  config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(dir, "ledger.db"), AutoMigrate: true},
		Exports:   config.ExportsConfig{Dir: filepath.Join(dir, "exports")},
		Business:  config.BusinessConfig{Name: "Tutoring Services", DefaultPackageType: "Individual"},
		Metrics:   config.MetricsConfig{Enabled: true},
	}
	ledger, err := app.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })

	r, err := New(Dependencies{
		Config:   cfg,
		DB:       ledger.DB,
		Metrics:  ledger.Metrics,
		Students: ledger.Students,
		Sessions: ledger.Sessions,
		Payments: ledger.Payments,
		Reports:  ledger.Reports,
		Exports:  ledger.Exports,
		Business: ledger.Business,
	})
	require.NoError(t, err)
	return r
}

func serve(r *gin.Engine, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterLedgerFlowOverJSON(t *testing.T) {
	r := newTestRouter(t)
	const jsonType = "application/json"

	w := serve(r, http.MethodPost, "/api/v1/students", jsonType, `{"name":"Alice","email":"alice@example.com","hourly_rate":50}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodPost, "/api/v1/students", jsonType, `{"name":"Alice Again","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodPost, "/api/v1/sessions", jsonType,
		`{"student_id":1,"session_date":"2024-01-10","start_time":"15:00","end_time":"16:30","duration_hours":1.5,"subject":"Math","session_cost":75,"status":"Completed"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodPost, "/api/v1/payments", jsonType, `{"student_id":1,"amount":40,"payment_method":"Cash","payment_date":"2024-01-15"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodGet, "/api/v1/reports/balances", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance_due":"35"`)

	w = serve(r, http.MethodGet, "/api/v1/reports/invoice/1/2024-01", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_sessions":1`)

	w = serve(r, http.MethodGet, "/api/v1/reports/invoice/99/2024-01", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/students/by-email?email=alice@example.com", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPatch, "/api/v1/sessions/1/status", jsonType, `{"status":"Cancelled"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":true`)

	w = serve(r, http.MethodGet, "/api/student_balance", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "["))
}

func TestRouterWebForms(t *testing.T) {
	r := newTestRouter(t)
	const formType = "application/x-www-form-urlencoded"

	form := url.Values{"name": {"Bob"}, "email": {"bob@example.com"}, "package_type": {"Weekly"}, "hourly_rate": {"60.00"}}
	w := serve(r, http.MethodPost, "/students/new", formType, form.Encode())
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = serve(r, http.MethodGet, "/students", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bob@example.com")

	w = serve(r, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bob")

	w = serve(r, http.MethodGet, "/reports", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/reports/pdf", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestRouterOperationalEndpoints(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ready", "", "").Code)

	w := serve(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/docs/index.html", "", "").Code)
}

func TestRouterHasNoExportEndpoint(t *testing.T) {
	r := newTestRouter(t)
	for _, target := range []string{"/export/students", "/api/v1/export?table=students", "/api/v1/exports/students"} {
		assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, target, "", "").Code, target)
	}
}
