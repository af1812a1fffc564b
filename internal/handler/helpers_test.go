package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/service"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
	"github.com/noah-isme/tutoring-ledger/web"
)

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newHTMLEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (map[string]interface{}, map[string]interface{}) {
	t.Helper()
	var env struct {
		Data  json.RawMessage        `json:"data"`
		Error map[string]interface{} `json:"error"`
		Meta  map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error, env.Meta
}

func errNotFound(message string) error {
	return appErrors.Clone(appErrors.ErrNotFound, message)
}

func mustDecimal(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

type fakeStudents struct {
	students   []models.Student
	lastFilter models.StudentFilter
	created    *service.CreateStudentRequest
	getErr     error
	createErr  error
	activeErr  error
	activeCall []bool
}

func (f *fakeStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	f.lastFilter = filter
	return f.students, nil
}

func (f *fakeStudents) Get(ctx context.Context, id int64) (*models.Student, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.students {
		if f.students[i].ID == id {
			return &f.students[i], nil
		}
	}
	return nil, errNotFound("student not found")
}

func (f *fakeStudents) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].Email == email {
			return &f.students[i], nil
		}
	}
	return nil, errNotFound("student not found")
}

func (f *fakeStudents) Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	return &models.Student{ID: 7, Name: req.Name, Email: req.Email, IsActive: true}, nil
}

func (f *fakeStudents) Deactivate(ctx context.Context, id int64) error {
	f.activeCall = append(f.activeCall, false)
	return f.activeErr
}

func (f *fakeStudents) Reactivate(ctx context.Context, id int64) error {
	f.activeCall = append(f.activeCall, true)
	return f.activeErr
}

func (f *fakeStudents) Defaults() service.StudentDefaults {
	return service.StudentDefaults{HourlyRate: mustDecimal("50"), PackageType: models.PackageIndividual}
}

type fakeSessions struct {
	sessions   []models.SessionDetail
	lastFilter models.SessionFilter
	created    *service.CreateSessionRequest
	createErr  error
	updated    bool
	updateErr  error
	lastStatus string
}

func (f *fakeSessions) Create(ctx context.Context, req service.CreateSessionRequest) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	return &models.Session{ID: 3, StudentID: req.StudentID, Subject: req.Subject, Status: models.SessionStatusScheduled}, nil
}

func (f *fakeSessions) UpdateStatus(ctx context.Context, id int64, req service.UpdateSessionStatusRequest) (bool, error) {
	f.lastStatus = req.Status
	return f.updated, f.updateErr
}

func (f *fakeSessions) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, error) {
	f.lastFilter = filter
	return f.sessions, nil
}

type fakePayments struct {
	payments   []models.PaymentDetail
	lastFilter models.PaymentFilter
	created    *service.CreatePaymentRequest
	createErr  error
}

func (f *fakePayments) Create(ctx context.Context, req service.CreatePaymentRequest) (*models.Payment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	amount, err := req.Amount.Decimal()
	if err != nil {
		return nil, err
	}
	return &models.Payment{ID: 5, StudentID: req.StudentID, Amount: amount, PaymentMethod: req.PaymentMethod}, nil
}

func (f *fakePayments) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	f.lastFilter = filter
	return f.payments, nil
}

type fakeReports struct {
	balances      []models.StudentBalance
	revenue       []models.MonthlyRevenue
	summary       []models.PaymentSummary
	invoice       *models.Invoice
	invoiceErr    error
	dashboard     *models.Dashboard
	dashboardErr  error
	lastStudentID *int64
	lastMonths    int
}

func (f *fakeReports) StudentBalances(ctx context.Context, studentID *int64) ([]models.StudentBalance, error) {
	f.lastStudentID = studentID
	return f.balances, nil
}

func (f *fakeReports) MonthlyRevenue(ctx context.Context, months int) ([]models.MonthlyRevenue, error) {
	f.lastMonths = months
	return f.revenue, nil
}

func (f *fakeReports) PaymentSummary(ctx context.Context, months int) ([]models.PaymentSummary, error) {
	f.lastMonths = months
	return f.summary, nil
}

func (f *fakeReports) Invoice(ctx context.Context, studentID int64, month string) (*models.Invoice, error) {
	return f.invoice, f.invoiceErr
}

func (f *fakeReports) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	return f.dashboard, f.dashboardErr
}

type fakeDocuments struct {
	pdf []byte
	err error
}

func (f *fakeDocuments) InvoicePDF(ctx context.Context, studentID int64, month string) ([]byte, *models.Invoice, error) {
	return f.pdf, nil, f.err
}

func (f *fakeDocuments) BalancesPDF(ctx context.Context) ([]byte, error) {
	return f.pdf, f.err
}
