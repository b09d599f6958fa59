package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// timeLayouts are the stored date formats, tried in order. CURRENT_TIMESTAMP
// defaults use the space-separated form.
var timeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTime parses a stored date or timestamp string.
func ParseTime(str string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
}

// ParseDate parses a stored calendar date. The sqlite driver hands DATE
// columns back as RFC3339 timestamps, plain "2006-01-02" strings are accepted too.
func ParseDate(str string) (civil.Date, error) {
	t, err := ParseTime(str)
	if err != nil {
		return civil.Date{}, err
	}
	return civil.DateOf(t), nil
}

// parseNullDate converts a nullable date column.
func parseNullDate(ns sql.NullString) (*civil.Date, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// nullInt converts a nullable integer column.
func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// nullDateArg converts an optional date into a query argument.
func nullDateArg(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// inClause returns "?,?,?" and the matching args for an IN (...) filter.
func inClause(ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}
