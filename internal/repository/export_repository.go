package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ExportableTables lists the tables that may be dumped. Table names cannot be
// bound as parameters, so anything outside this list is rejected before a
// query is built.
var ExportableTables = []string{"students", "sessions", "payments"}

// ErrTableNotExportable is returned for table names outside ExportableTables.
type ErrTableNotExportable struct {
	Table string
}

func (e *ErrTableNotExportable) Error() string {
	return fmt.Sprintf("table %q cannot be exported", e.Table)
}

// TableDump is a raw table snapshot with columns in storage order.
type TableDump struct {
	Table   string
	Columns []string
	Rows    [][]string
}

// ExportRepository reads whole tables for export.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository constructs the repository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// IsExportable reports whether table is on the allow-list.
func IsExportable(table string) bool {
	for _, allowed := range ExportableTables {
		if table == allowed {
			return true
		}
	}
	return false
}

// Dump reads every row of an allow-listed table, rendering values as text.
func (r *ExportRepository) Dump(ctx context.Context, table string) (*TableDump, error) {
	if !IsExportable(table) {
		return nil, &ErrTableNotExportable{Table: table}
	}

	rows, err := r.db.QueryxContext(ctx, "SELECT * FROM "+table+" ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("dump %s columns: %w", table, err)
	}

	dump := &TableDump{Table: table, Columns: columns, Rows: [][]string{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("dump %s row: %w", table, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatCell(v)
		}
		dump.Rows = append(dump.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}
	return dump, nil
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(val)
	}
}
