package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/tutoring-ledger/internal/app"
	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/internal/service"
)

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("-%s is required", name)
	}
	return nil
}

func addStudent(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	defaults := ledger.Students.Defaults()
	fs := newFlagSet("add-student", out)
	var req service.CreateStudentRequest
	var rate string
	fs.StringVar(&req.Name, "name", "", "student name")
	fs.StringVar(&req.Email, "email", "", "student email (unique)")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	fs.StringVar(&req.ParentName, "parent-name", "", "parent name")
	fs.StringVar(&req.ParentEmail, "parent-email", "", "parent email")
	fs.StringVar(&req.PackageType, "package", defaults.PackageType, "Individual, Weekly or Intensive")
	fs.StringVar(&rate, "rate", defaults.HourlyRate.StringFixed(2), "hourly rate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.HourlyRate = service.Amount(rate)

	student, err := ledger.Students.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Student %s added with ID %d\n", student.Name, student.ID)
	return nil
}

func addSession(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("add-session", out)
	var req service.CreateSessionRequest
	var hours, cost string
	fs.Int64Var(&req.StudentID, "student", 0, "student ID")
	fs.StringVar(&req.SessionDate, "date", models.Today().String(), "session date (YYYY-MM-DD)")
	fs.StringVar(&req.StartTime, "start", "", "start time (HH:MM)")
	fs.StringVar(&req.EndTime, "end", "", "end time (HH:MM)")
	fs.StringVar(&hours, "hours", "", "duration in hours")
	fs.StringVar(&req.Subject, "subject", "", "subject")
	fs.StringVar(&cost, "cost", "", "session cost")
	fs.StringVar(&req.Status, "status", string(models.SessionStatusScheduled), "Scheduled, Completed, Cancelled or No-Show")
	fs.StringVar(&req.Notes, "notes", "", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("student", req.StudentID); err != nil {
		return err
	}
	req.DurationHours = service.Amount(hours)
	req.SessionCost = service.Amount(cost)

	session, err := ledger.Sessions.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Session %d added for student %d on %s\n", session.ID, session.StudentID, session.SessionDate)
	return nil
}

func recordPayment(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("record-payment", out)
	var req service.CreatePaymentRequest
	var amount string
	fs.Int64Var(&req.StudentID, "student", 0, "student ID")
	fs.StringVar(&amount, "amount", "", "amount received")
	fs.StringVar(&req.PaymentMethod, "method", "Cash", "Cash, Check, Venmo, Zelle, Bank Transfer or Other")
	fs.StringVar(&req.PaymentDate, "date", "", "payment date (YYYY-MM-DD, default today)")
	fs.StringVar(&req.ReferenceNumber, "ref", "", "reference number")
	fs.StringVar(&req.Notes, "notes", "", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("student", req.StudentID); err != nil {
		return err
	}
	req.Amount = service.Amount(amount)

	payment, err := ledger.Payments.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Payment of %s recorded for student %d (ID %d)\n", money(payment.Amount), payment.StudentID, payment.ID)
	return nil
}

func setStatus(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("set-status", out)
	id := fs.Int64("session", 0, "session ID")
	status := fs.String("status", "", "Scheduled, Completed, Cancelled or No-Show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("session", *id); err != nil {
		return err
	}
	updated, err := ledger.Sessions.UpdateStatus(ctx, *id, service.UpdateSessionStatusRequest{Status: *status})
	if err != nil {
		return err
	}
	if !updated {
		fmt.Fprintf(out, "No session with ID %d\n", *id)
		return nil
	}
	fmt.Fprintf(out, "Session %d status updated to %s\n", *id, *status)
	return nil
}

func deactivateStudent(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	return toggleStudent(ctx, ledger, "deactivate", args, out)
}

func reactivateStudent(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	return toggleStudent(ctx, ledger, "reactivate", args, out)
}

func toggleStudent(ctx context.Context, ledger *app.App, action string, args []string, out io.Writer) error {
	fs := newFlagSet(action, out)
	id := fs.Int64("student", 0, "student ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("student", *id); err != nil {
		return err
	}
	var err error
	if action == "reactivate" {
		err = ledger.Students.Reactivate(ctx, *id)
	} else {
		err = ledger.Students.Deactivate(ctx, *id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Student %d %sd\n", *id, action)
	return nil
}

func listStudents(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("students", out)
	all := fs.Bool("all", false, "include inactive students")
	if err := fs.Parse(args); err != nil {
		return err
	}
	students, err := ledger.Students.List(ctx, models.StudentFilter{ActiveOnly: !*all})
	if err != nil {
		return err
	}
	w := table(out)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPACKAGE\tRATE\tACTIVE")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\n", s.ID, s.Name, s.Email, s.PackageType, money(s.HourlyRate), s.IsActive)
	}
	return w.Flush()
}

func showBalances(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("balances", out)
	id := fs.Int64("student", 0, "only this student")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var studentID *int64
	if *id > 0 {
		studentID = id
	}
	balances, err := ledger.Reports.StudentBalances(ctx, studentID)
	if err != nil {
		return err
	}
	w := table(out)
	fmt.Fprintln(w, "ID\tNAME\tCOMPLETED\tOWED\tPAID\tBALANCE")
	for _, b := range balances {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n", b.StudentID, b.Name, b.CompletedSessions, money(b.TotalOwed), money(b.TotalPaid), money(b.BalanceDue))
	}
	return w.Flush()
}

func showRevenue(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("revenue", out)
	months := fs.Int("months", ledger.Reports.Config().RevenueMonths, "number of months")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rows, err := ledger.Reports.MonthlyRevenue(ctx, *months)
	if err != nil {
		return err
	}
	w := table(out)
	fmt.Fprintln(w, "MONTH\tREVENUE\tPAYMENTS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\n", r.Month, money(r.Revenue), r.PaymentCount)
	}
	return w.Flush()
}

func showSummary(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("summary", out)
	months := fs.Int("months", ledger.Reports.Config().SummaryMonths, "number of months")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rows, err := ledger.Reports.PaymentSummary(ctx, *months)
	if err != nil {
		return err
	}
	w := table(out)
	fmt.Fprintln(w, "MONTH\tMETHOD\tRECEIVED\tPAYMENTS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.Month, r.PaymentMethod, money(r.TotalReceived), r.PaymentCount)
	}
	return w.Flush()
}

func showInvoice(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("invoice", out)
	id := fs.Int64("student", 0, "student ID")
	month := fs.String("month", models.Today().Month(), "month (YYYY-MM)")
	pdfPath := fs.String("pdf", "", "also write the invoice as PDF to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("student", *id); err != nil {
		return err
	}

	var invoice *models.Invoice
	if *pdfPath != "" {
		pdf, inv, err := ledger.Exports.InvoicePDF(ctx, *id, *month)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			return fmt.Errorf("write invoice pdf: %w", err)
		}
		invoice = inv
	} else {
		inv, err := ledger.Reports.Invoice(ctx, *id, *month)
		if err != nil {
			return err
		}
		invoice = inv
	}
	if invoice == nil {
		return errors.New("student not found")
	}

	sum := invoice.Summary
	fmt.Fprintf(out, "Invoice for %s - %s\n", invoice.Student.Name, sum.Month)
	w := table(out)
	fmt.Fprintf(w, "Total sessions:\t%d\n", sum.TotalSessions)
	fmt.Fprintf(w, "Total hours:\t%s\n", sum.TotalHours.String())
	fmt.Fprintf(w, "Amount owed:\t%s\n", money(sum.TotalOwed))
	fmt.Fprintf(w, "Amount paid:\t%s\n", money(sum.TotalPaid))
	fmt.Fprintf(w, "Balance due:\t%s\n", money(sum.BalanceDue))
	if err := w.Flush(); err != nil {
		return err
	}
	if *pdfPath != "" {
		fmt.Fprintf(out, "PDF written to %s\n", *pdfPath)
	}
	return nil
}

func exportTable(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("export", out)
	tableName := fs.String("table", "", "students, sessions or payments")
	format := fs.String("format", "", "csv or xlsx (default from -out extension, else csv)")
	dest := fs.String("out", "", "output file; relative paths land in EXPORTS_DIR")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tableName == "" {
		return errors.New("-table is required")
	}
	path, err := ledger.Exports.ExportTable(ctx, *tableName, *format, *dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Data exported to %s\n", path)
	return nil
}

func recentSessions(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("sessions", out)
	limit := fs.Int("limit", 10, "number of sessions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sessions, err := ledger.Sessions.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	w := table(out)
	fmt.Fprintln(w, "DATE\tSTUDENT\tSUBJECT\tCOST\tSTATUS")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.SessionDate, s.StudentName, s.Subject, money(s.SessionCost), s.Status)
	}
	return w.Flush()
}

func recentPayments(ctx context.Context, ledger *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("payments", out)
	limit := fs.Int("limit", 10, "number of payments")
	if err := fs.Parse(args); err != nil {
		return err
	}
	payments, err := ledger.Payments.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	w := table(out)
	fmt.Fprintln(w, "DATE\tSTUDENT\tAMOUNT\tMETHOD")
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.PaymentDate, p.StudentName, money(p.Amount), p.PaymentMethod)
	}
	return w.Flush()
}
