// Package bookings loads the pre-computed booking table from parquet, CSV,
// XLSX, SQLite or Postgres. Every loader enforces the same required columns
// and produces a models.BookingTable in source row order.
package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jmagar/bookingcurve/internal/config"
	"github.com/jmagar/bookingcurve/internal/models"
)

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrInvalidValue      = errors.New("invalid value")
	ErrUnsupportedSource = errors.New("unsupported source")
)

// Loader produces a fresh booking table on every call.
type Loader interface {
	Load(ctx context.Context) (*models.BookingTable, error)
	// Describe names the source for logs and the dataset summary.
	Describe() string
}

// NewLoader picks a Loader for the configured source. Kind "auto" is
// resolved from the file extension of source.path.
func NewLoader(cfg config.SourceConfig) (Loader, error) {
	kind := cfg.Kind
	if kind == "" || kind == config.SourceAuto {
		detected, err := DetectKind(cfg.Path)
		if err != nil {
			return nil, err
		}
		kind = detected
	}

	switch kind {
	case config.SourceParquet:
		return &ParquetLoader{Path: cfg.Path}, nil
	case config.SourceCSV:
		return &CSVLoader{Path: cfg.Path}, nil
	case config.SourceXLSX:
		return &XLSXLoader{Path: cfg.Path, Sheet: cfg.Sheet}, nil
	case config.SourceSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		return &SQLLoader{Driver: DriverSQLite, DSN: dsn, Table: cfg.Table}, nil
	case config.SourcePostgres:
		return &SQLLoader{Driver: DriverPostgres, DSN: cfg.DSN, Table: cfg.Table}, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedSource, kind)
	}
}

// DetectKind maps a file extension to a source kind.
func DetectKind(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return config.SourceParquet, nil
	case ".csv":
		return config.SourceCSV, nil
	case ".xlsx", ".xlsm":
		return config.SourceXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return config.SourceSQLite, nil
	default:
		return "", fmt.Errorf("%w: cannot infer kind from %q", ErrUnsupportedSource, path)
	}
}

// columnIndex maps each required column to its position in a header.
func columnIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	index := make(map[string]int, len(models.RequiredColumns()))
	for _, col := range models.RequiredColumns() {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		index[col] = pos
	}
	return index, nil
}

// invalidValue reports a bad cell. row is 1-based and excludes any header.
func invalidValue(row int, column string, err error) error {
	return fmt.Errorf("%w: row %d column %s: %v", ErrInvalidValue, row, column, err)
}

// decodeCount converts a driver or parser value into a non-negative count.
func decodeCount(v any) (int, error) {
	var n int
	switch val := v.(type) {
	case nil:
		return 0, errors.New("null count")
	case int:
		n = val
	case int32:
		n = int(val)
	case int64:
		n = int(val)
	case float32:
		return decodeCount(float64(val))
	case float64:
		if math.IsNaN(val) || val != math.Trunc(val) {
			return 0, fmt.Errorf("non-integral count %v", val)
		}
		n = int(val)
	case []byte:
		return decodeCount(string(val))
	case string:
		s := strings.TrimSpace(val)
		parsed, err := strconv.Atoi(s)
		if err != nil {
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return 0, fmt.Errorf("not a number: %q", val)
			}
			return decodeCount(f)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("unsupported count type %T", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// decodeDate converts a driver or parser value into a calendar date.
func decodeDate(v any) (models.Date, error) {
	switch val := v.(type) {
	case nil:
		return models.Date{}, errors.New("null date")
	case time.Time:
		return models.NewDate(val), nil
	case []byte:
		return models.ParseDate(string(val))
	case string:
		return models.ParseDate(val)
	default:
		return models.Date{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// recordBuilder assembles BookingRecords cell by cell.
type recordBuilder struct {
	rec models.BookingRecord
	row int
}

func (b *recordBuilder) set(column string, v any) error {
	switch column {
	case models.ColumnStayDate, models.ColumnReportDate:
		d, err := decodeDate(v)
		if err != nil {
			return invalidValue(b.row, column, err)
		}
		if column == models.ColumnStayDate {
			b.rec.StayDate = d
		} else {
			b.rec.ReportDate = d
		}
		return nil
	}

	n, err := decodeCount(v)
	if err != nil {
		return invalidValue(b.row, column, err)
	}
	if column == models.ColumnTotalReservations {
		b.rec.TotalReservations = n
		return nil
	}
	for _, g := range models.NamedGroups() {
		if g.Column() == column {
			b.rec.Reservations[g] = n
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

func newTable(source string, records []models.BookingRecord) *models.BookingTable {
	if records == nil {
		records = []models.BookingRecord{}
	}
	return &models.BookingTable{
		Records:  records,
		Source:   source,
		LoadedAt: time.Now(),
	}
}
