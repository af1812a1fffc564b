package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/divan/num2words"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// PDFExporter renders datasets and invoices into PDF documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	colWidth := 190.0 / float64(len(data.Headers))
	widths := make([]float64, len(data.Headers))
	for i := range widths {
		widths[i] = colWidth
	}
	drawTable(pdf, widths, data.Headers, data.Rows)

	return output(pdf)
}

// InvoiceLine is one billed session on an invoice.
type InvoiceLine struct {
	Date    string
	Time    string
	Subject string
	Status  string
	Hours   decimal.Decimal
	Cost    decimal.Decimal
}

// InvoicePayment is one payment received during the invoice month.
type InvoicePayment struct {
	Date      string
	Method    string
	Reference string
	Amount    decimal.Decimal
}

// InvoiceDocument is everything printed on a monthly invoice.
type InvoiceDocument struct {
	BusinessName  string
	BusinessEmail string
	BusinessPhone string

	StudentName  string
	StudentEmail string
	ParentName   string
	ParentEmail  string

	Month    string
	Sessions []InvoiceLine
	Payments []InvoicePayment

	TotalSessions int
	TotalHours    decimal.Decimal
	TotalOwed     decimal.Decimal
	TotalPaid     decimal.Decimal
	BalanceDue    decimal.Decimal
}

// RenderInvoice lays out a one-student monthly invoice.
func (e *PDFExporter) RenderInvoice(doc InvoiceDocument) ([]byte, error) {
	if doc.StudentName == "" || doc.Month == "" {
		return nil, fmt.Errorf("invoice requires a student and a month")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, doc.BusinessName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range []string{doc.BusinessEmail, doc.BusinessPhone} {
		if line != "" {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "INVOICE "+doc.Month, "", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, doc.StudentName+" <"+doc.StudentEmail+">", "", 1, "L", false, 0, "")
	if doc.ParentName != "" {
		parent := "Parent: " + doc.ParentName
		if doc.ParentEmail != "" {
			parent += " <" + doc.ParentEmail + ">"
		}
		pdf.CellFormat(0, 5, parent, "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Sessions", "", 1, "L", false, 0, "")
	sessionRows := make([][]string, 0, len(doc.Sessions))
	for _, s := range doc.Sessions {
		sessionRows = append(sessionRows, []string{s.Date, s.Time, s.Subject, s.Status, s.Hours.StringFixed(2), money(s.Cost)})
	}
	if len(sessionRows) == 0 {
		sessionRows = append(sessionRows, []string{"-", "", "No sessions this month", "", "", ""})
	}
	drawTable(pdf, []float64{25, 30, 50, 25, 20, 30}, []string{"Date", "Time", "Subject", "Status", "Hours", "Cost"}, sessionRows)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Payments", "", 1, "L", false, 0, "")
	paymentRows := make([][]string, 0, len(doc.Payments))
	for _, p := range doc.Payments {
		paymentRows = append(paymentRows, []string{p.Date, p.Method, p.Reference, money(p.Amount)})
	}
	if len(paymentRows) == 0 {
		paymentRows = append(paymentRows, []string{"-", "No payments this month", "", ""})
	}
	drawTable(pdf, []float64{30, 50, 70, 30}, []string{"Date", "Method", "Reference", "Amount"}, paymentRows)
	pdf.Ln(6)

	summary := [][2]string{
		{"Sessions", fmt.Sprintf("%d", doc.TotalSessions)},
		{"Hours", doc.TotalHours.StringFixed(2)},
		{"Total owed", money(doc.TotalOwed)},
		{"Total paid", money(doc.TotalPaid)},
		{"Balance due", money(doc.BalanceDue)},
	}
	for i, line := range summary {
		style := ""
		if i == len(summary)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(150, 6, line[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, line[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "Amount due in words: "+AmountInWords(doc.BalanceDue), "", "L", false)

	return output(pdf)
}

// AmountInWords spells out a currency amount, e.g. "thirty-five dollars and 50 cents".
// Negative amounts are reported as a credit.
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	prefix := ""
	if amount.IsNegative() {
		prefix = "credit of "
		amount = amount.Abs()
	}
	dollars := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(dollars)).Mul(decimal.NewFromInt(100)).IntPart()
	unit := "dollars"
	if dollars == 1 {
		unit = "dollar"
	}
	return fmt.Sprintf("%s%s %s and %02d cents", prefix, num2words.Convert(int(dollars)), unit, cents)
}

func money(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func drawTable(pdf *gofpdf.Fpdf, widths []float64, headers []string, rows [][]string) {
	pdf.SetFont("Arial", "B", 9)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		for i := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(widths[i], 6, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
