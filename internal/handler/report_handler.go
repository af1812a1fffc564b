package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-ledger/pkg/response"
)

// ReportHandler exposes the balance, revenue and invoice reports.
type ReportHandler struct {
	reports   reportService
	documents documentService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportService, documents documentService) *ReportHandler {
	return &ReportHandler{reports: reports, documents: documents}
}

// Balances godoc
// @Summary Outstanding balance per active student
// @Tags Reports
// @Produce json
// @Param student_id query int false "Restrict to one student"
// @Success 200 {object} response.Envelope
// @Router /reports/balances [get]
func (h *ReportHandler) Balances(c *gin.Context) {
	studentID, err := queryID(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	balances, err := h.reports.StudentBalances(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, balances, len(balances))
}

// Revenue godoc
// @Summary Monthly revenue, newest month first
// @Tags Reports
// @Produce json
// @Param months query int false "Number of months (default 12)"
// @Success 200 {object} response.Envelope
// @Router /reports/revenue [get]
func (h *ReportHandler) Revenue(c *gin.Context) {
	months, err := queryMonths(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	revenue, err := h.reports.MonthlyRevenue(c.Request.Context(), months)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, revenue, len(revenue))
}

// PaymentSummary godoc
// @Summary Payments per month and method
// @Tags Reports
// @Produce json
// @Param months query int false "Number of months (default 6)"
// @Success 200 {object} response.Envelope
// @Router /reports/payment-summary [get]
func (h *ReportHandler) PaymentSummary(c *gin.Context) {
	months, err := queryMonths(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.reports.PaymentSummary(c.Request.Context(), months)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, summary, len(summary))
}

// Invoice godoc
// @Summary Monthly invoice for one student
// @Tags Reports
// @Produce json
// @Param student_id path int true "Student ID"
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/invoice/{student_id}/{month} [get]
func (h *ReportHandler) Invoice(c *gin.Context) {
	studentID, err := pathID(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	invoice, err := h.reports.Invoice(c.Request.Context(), studentID, c.Param("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice)
}

// InvoicePDF godoc
// @Summary Monthly invoice as PDF
// @Tags Reports
// @Produce application/pdf
// @Param student_id path int true "Student ID"
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {file} file
// @Router /reports/invoice/{student_id}/{month}/pdf [get]
func (h *ReportHandler) InvoicePDF(c *gin.Context) {
	studentID, err := pathID(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	month := c.Param("month")
	pdf, _, err := h.documents.InvoicePDF(c.Request.Context(), studentID, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	attachment(c, fmt.Sprintf("invoice_%d_%s.pdf", studentID, month), "application/pdf", pdf)
}

// Dashboard godoc
// @Summary Dashboard headline figures
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard)
}

// LegacyBalances serves GET /api/student_balance as a bare array.
func (h *ReportHandler) LegacyBalances(c *gin.Context) {
	balances, err := h.reports.StudentBalances(c.Request.Context(), nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}
