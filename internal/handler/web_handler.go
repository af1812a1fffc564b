package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/service"
	appErrors "github.com/noah-isme/tutoring-ledger/pkg/errors"
	"github.com/noah-isme/tutoring-ledger/pkg/export"
)

// WebHandler renders the server-side HTML pages.
type WebHandler struct {
	students  studentService
	sessions  sessionService
	payments  paymentService
	reports   reportService
	documents documentService
	business  service.BusinessInfo
	logger    *zap.Logger
	now       func() time.Time
}

// NewWebHandler constructs WebHandler.
func NewWebHandler(students studentService, sessions sessionService, payments paymentService, reports reportService, documents documentService, business service.BusinessInfo, logger *zap.Logger) *WebHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebHandler{
		students:  students,
		sessions:  sessions,
		payments:  payments,
		reports:   reports,
		documents: documents,
		business:  business,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *WebHandler) render(c *gin.Context, page, title, active string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Active"] = active
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = popFlash(c)
	}
	c.HTML(http.StatusOK, page, data)
}

func (h *WebHandler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

func (h *WebHandler) fail(c *gin.Context, location string, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("web request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	setFlash(c, flashError, "Error: "+appErr.Message)
	h.redirect(c, location)
}

func (h *WebHandler) studentOptions(c *gin.Context, activeOnly bool) []models.Student {
	students, err := h.students.List(c.Request.Context(), models.StudentFilter{ActiveOnly: activeOnly})
	if err != nil {
		h.logger.Error("load student options", zap.Error(err))
		return nil
	}
	return students
}

// Dashboard renders the landing page.
func (h *WebHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("load dashboard", zap.Error(err))
		h.render(c, "dashboard.html", "Dashboard", "dashboard", gin.H{
			"Dashboard": &models.Dashboard{},
			"Flash":     &Flash{Kind: flashError, Message: "Error loading dashboard: " + appErrors.FromError(err).Message},
		})
		return
	}
	h.render(c, "dashboard.html", "Dashboard", "dashboard", gin.H{"Dashboard": dashboard})
}

// Students renders the student list.
func (h *WebHandler) Students(c *gin.Context) {
	showAll := truthy(c.Query("all"))
	students, err := h.students.List(c.Request.Context(), models.StudentFilter{ActiveOnly: !showAll})
	if err != nil {
		h.fail(c, "/", err)
		return
	}
	h.render(c, "students.html", "Students", "students", gin.H{"Students": students, "ShowAll": showAll})
}

// NewStudent renders the add student form.
func (h *WebHandler) NewStudent(c *gin.Context) {
	h.render(c, "add_student.html", "Add student", "students", gin.H{
		"Defaults":     h.students.Defaults(),
		"PackageTypes": models.PackageTypes,
	})
}

// CreateStudent handles the add student form.
func (h *WebHandler) CreateStudent(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "/students", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "/students", err)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Student %s added successfully!", student.Name))
	h.redirect(c, "/students")
}

// DeactivateStudent soft-deletes a student.
func (h *WebHandler) DeactivateStudent(c *gin.Context) {
	h.setActive(c, false)
}

// ReactivateStudent restores a deactivated student.
func (h *WebHandler) ReactivateStudent(c *gin.Context) {
	h.setActive(c, true)
}

func (h *WebHandler) setActive(c *gin.Context, active bool) {
	id, err := pathID(c, "id")
	if err != nil {
		h.fail(c, "/students", err)
		return
	}
	if active {
		err = h.students.Reactivate(c.Request.Context(), id)
	} else {
		err = h.students.Deactivate(c.Request.Context(), id)
	}
	if err != nil {
		h.fail(c, "/students?all=1", err)
		return
	}
	if active {
		setFlash(c, flashSuccess, "Student reactivated")
	} else {
		setFlash(c, flashSuccess, "Student deactivated")
	}
	h.redirect(c, "/students?all=1")
}

// Sessions renders the session list.
func (h *WebHandler) Sessions(c *gin.Context) {
	filter, err := rangeFromQuery(c)
	if err != nil {
		h.fail(c, "/sessions", err)
		return
	}
	sessions, err := h.sessions.List(c.Request.Context(), filter.sessions())
	if err != nil {
		h.fail(c, "/", err)
		return
	}
	h.render(c, "sessions.html", "Sessions", "sessions", gin.H{
		"Sessions": sessions,
		"Students": h.studentOptions(c, false),
		"Statuses": models.SessionStatuses,
		"Filter":   filterValues(c),
	})
}

// NewSession renders the add session form.
func (h *WebHandler) NewSession(c *gin.Context) {
	h.render(c, "add_session.html", "Add session", "sessions", gin.H{
		"Students": h.studentOptions(c, true),
		"Statuses": models.SessionStatuses,
		"Today":    models.NewDate(h.now()).String(),
	})
}

// CreateSession handles the add session form.
func (h *WebHandler) CreateSession(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "/sessions", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form"))
		return
	}
	if _, err := h.sessions.Create(c.Request.Context(), req); err != nil {
		h.fail(c, "/sessions", err)
		return
	}
	setFlash(c, flashSuccess, "Session added successfully!")
	h.redirect(c, "/sessions")
}

// UpdateSessionStatus moves a session to the status named in the path.
func (h *WebHandler) UpdateSessionStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.fail(c, "/sessions", err)
		return
	}
	status := c.Param("status")
	updated, err := h.sessions.UpdateStatus(c.Request.Context(), id, service.UpdateSessionStatusRequest{Status: status})
	if err != nil {
		h.fail(c, "/sessions", err)
		return
	}
	if !updated {
		setFlash(c, flashError, fmt.Sprintf("Session %d was not found", id))
	} else {
		setFlash(c, flashSuccess, "Session status updated to "+status)
	}
	h.redirect(c, "/sessions")
}

// Payments renders the payment list.
func (h *WebHandler) Payments(c *gin.Context) {
	filter, err := rangeFromQuery(c)
	if err != nil {
		h.fail(c, "/payments", err)
		return
	}
	payments, err := h.payments.List(c.Request.Context(), filter.payments())
	if err != nil {
		h.fail(c, "/", err)
		return
	}
	h.render(c, "payments.html", "Payments", "payments", gin.H{
		"Payments": payments,
		"Students": h.studentOptions(c, false),
		"Filter":   filterValues(c),
	})
}

// NewPayment renders the record payment form.
func (h *WebHandler) NewPayment(c *gin.Context) {
	h.render(c, "add_payment.html", "Record payment", "payments", gin.H{
		"Students":        h.studentOptions(c, true),
		"Methods":         models.PaymentMethods,
		"SelectedStudent": c.Query("student_id"),
		"Today":           models.NewDate(h.now()).String(),
	})
}

// CreatePayment handles the record payment form.
func (h *WebHandler) CreatePayment(c *gin.Context) {
	var req service.CreatePaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "/payments", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form"))
		return
	}
	payment, err := h.payments.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "/payments", err)
		return
	}
	setFlash(c, flashSuccess, fmt.Sprintf("Payment of $%s recorded successfully!", payment.Amount.StringFixed(2)))
	h.redirect(c, "/payments")
}

// Reports renders balances, revenue and the payment method summary.
func (h *WebHandler) Reports(c *gin.Context) {
	ctx := c.Request.Context()
	balances, err := h.reports.StudentBalances(ctx, nil)
	if err != nil {
		h.fail(c, "/", err)
		return
	}
	revenue, err := h.reports.MonthlyRevenue(ctx, 0)
	if err != nil {
		h.fail(c, "/", err)
		return
	}
	summary, err := h.reports.PaymentSummary(ctx, 0)
	if err != nil {
		h.fail(c, "/", err)
		return
	}
	h.render(c, "reports.html", "Reports", "reports", gin.H{
		"Balances":     balances,
		"Revenue":      revenue,
		"Summary":      summary,
		"Students":     h.studentOptions(c, true),
		"CurrentMonth": models.NewDate(h.now()).Month(),
	})
}

// BalancesPDF downloads the balance report as a PDF.
func (h *WebHandler) BalancesPDF(c *gin.Context) {
	pdf, err := h.documents.BalancesPDF(c.Request.Context())
	if err != nil {
		h.fail(c, "/reports", err)
		return
	}
	attachment(c, "student_balances.pdf", "application/pdf", pdf)
}

// Invoice renders a student's monthly invoice.
func (h *WebHandler) Invoice(c *gin.Context) {
	studentID, err := pathID(c, "student_id")
	if err != nil {
		h.fail(c, "/reports", err)
		return
	}
	invoice, err := h.reports.Invoice(c.Request.Context(), studentID, c.Param("month"))
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) {
			setFlash(c, flashError, "Student not found or no data for this period")
			h.redirect(c, "/reports")
			return
		}
		h.fail(c, "/reports", err)
		return
	}
	h.render(c, "invoice.html", "Invoice "+invoice.Summary.Month, "reports", gin.H{
		"Invoice":       invoice,
		"Business":      h.business,
		"AmountInWords": export.AmountInWords(invoice.Summary.BalanceDue),
	})
}

// InvoicePDF downloads a student's monthly invoice.
func (h *WebHandler) InvoicePDF(c *gin.Context) {
	studentID, err := pathID(c, "student_id")
	if err != nil {
		h.fail(c, "/reports", err)
		return
	}
	month := c.Param("month")
	pdf, _, err := h.documents.InvoicePDF(c.Request.Context(), studentID, month)
	if err != nil {
		h.fail(c, "/reports", err)
		return
	}
	attachment(c, fmt.Sprintf("invoice_%d_%s.pdf", studentID, month), "application/pdf", pdf)
}

func filterValues(c *gin.Context) gin.H {
	return gin.H{
		"StudentID": c.Query("student_id"),
		"Start":     c.Query("start"),
		"End":       c.Query("end"),
	}
}
