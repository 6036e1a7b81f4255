package bookings

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jmagar/bookingcurve/internal/models"
)

// database/sql driver names registered by the imports above
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLLoader reads every row of Table through database/sql.
type SQLLoader struct {
	Driver string
	DSN    string
	Table  string
}

func (l *SQLLoader) Describe() string {
	return fmt.Sprintf("%s:%s", l.Driver, l.Table)
}

func (l *SQLLoader) Load(ctx context.Context) (*models.BookingTable, error) {
	if !tableNamePattern.MatchString(l.Table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrUnsupportedSource, l.Table)
	}

	db, err := openDatabase(ctx, l.Driver, l.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return queryTable(ctx, db, l.Table, l.Describe())
}

// openDatabase opens and pings a connection.
func openDatabase(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func queryTable(ctx context.Context, db *sql.DB, table, source string) (*models.BookingTable, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(header))
	dest := make([]any, len(header))
	for i := range values {
		dest[i] = &values[i]
	}

	var records []models.BookingRecord
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(records)+1, err)
		}

		b := recordBuilder{row: len(records) + 1}
		for _, col := range models.RequiredColumns() {
			if err := b.set(col, values[index[col]]); err != nil {
				return nil, err
			}
		}
		records = append(records, b.rec)
	}

	// Check for errors from iterating over rows
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return newTable(source, records), nil
}
