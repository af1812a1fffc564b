package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/noah-isme/tutoring-ledger/internal/app"
	"github.com/noah-isme/tutoring-ledger/pkg/config"
	"github.com/noah-isme/tutoring-ledger/pkg/logger"
)

type command struct {
	summary string
	run     func(ctx context.Context, ledger *app.App, args []string, out io.Writer) error
}

var commands = map[string]command{
	"add-student":    {"register a student", addStudent},
	"add-session":    {"record a tutoring session", addSession},
	"record-payment": {"record a payment received", recordPayment},
	"set-status":     {"change a session status", setStatus},
	"deactivate":     {"deactivate a student", deactivateStudent},
	"reactivate":     {"reactivate a student", reactivateStudent},
	"students":       {"list students", listStudents},
	"balances":       {"show outstanding balances", showBalances},
	"revenue":        {"show monthly revenue", showRevenue},
	"summary":        {"show payments by month and method", showSummary},
	"invoice":        {"show a monthly invoice, optionally as PDF", showInvoice},
	"export":         {"export students, sessions or payments to CSV or XLSX", exportTable},
	"sessions":       {"show recent sessions", recentSessions},
	"payments":       {"show recent payments", recentPayments},
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	name := os.Args[1]
	cmd, ok := commands[name]
	if !ok {
		if name != "help" && name != "-h" && name != "--help" {
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		}
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ledger, err := app.New(cfg, logr)
	if err != nil {
		log.Fatalf("failed to open ledger: %v", err)
	}
	defer ledger.Close() //nolint:errcheck

	if err := cmd.run(context.Background(), ledger, os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ledger.Close() //nolint:errcheck
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: tutorctl <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tutorctl <command> -h' for the flags of a command.")
	fmt.Fprintln(w, "Configuration comes from .env and the environment (DB_DRIVER, DB_PATH, EXPORTS_DIR, ...).")
}
