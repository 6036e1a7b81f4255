package bookings

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/jmagar/bookingcurve/internal/models"
)

// CSVLoader reads a comma-separated file with a header row.
type CSVLoader struct {
	Path string
}

func (l *CSVLoader) Describe() string {
	return "csv:" + l.Path
}

func (l *CSVLoader) Load(ctx context.Context) (*models.BookingTable, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(f, loadOptions()...)
	return tableFromFrame(l.Describe(), df)
}

// XLSXLoader reads the first worksheet, or Sheet when set.
type XLSXLoader struct {
	Path  string
	Sheet string
}

func (l *XLSXLoader) Describe() string {
	if l.Sheet != "" {
		return "xlsx:" + l.Path + "#" + l.Sheet
	}
	return "xlsx:" + l.Path
}

func (l *XLSXLoader) Load(ctx context.Context) (*models.BookingTable, error) {
	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := l.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", l.Path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return tableFromRecords(l.Describe(), rows)
}

// tableFromRecords loads string records (header first) through gota.
// Spreadsheet rows drop trailing empty cells, so rows are padded to the header width.
func tableFromRecords(source string, records [][]string) (*models.BookingTable, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, models.ColumnReportDate)
	}
	if _, err := columnIndex(records[0]); err != nil {
		return nil, err
	}
	if len(records) == 1 {
		return newTable(source, nil), nil
	}

	width := len(records[0])
	padded := make([][]string, len(records))
	for i, row := range records {
		if len(row) < width {
			row = append(append(make([]string, 0, width), row...), make([]string, width-len(row))...)
		}
		padded[i] = row[:width]
	}

	df := dataframe.LoadRecords(padded, loadOptions()...)
	return tableFromFrame(source, df)
}

// loadOptions keeps every cell a string; decodeCount and decodeDate parse them
// so CSV and XLSX accept the same values as parquet and SQL (e.g. "6.0").
func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	}
}

func tableFromFrame(source string, df dataframe.DataFrame) (*models.BookingTable, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", df.Err)
	}
	if _, err := columnIndex(df.Names()); err != nil {
		return nil, err
	}

	records := make([]models.BookingRecord, df.Nrow())
	for _, col := range models.RequiredColumns() {
		s := df.Col(col)
		if s.Err != nil {
			return nil, fmt.Errorf("failed to read column %s: %w", col, s.Err)
		}
		for i := 0; i < s.Len(); i++ {
			b := recordBuilder{rec: records[i], row: i + 1}
			if err := b.set(col, elementValue(s.Elem(i))); err != nil {
				return nil, err
			}
			records[i] = b.rec
		}
	}

	return newTable(source, records), nil
}

// elementValue unwraps a gota element. NA and blank cells decode to nil and are rejected downstream.
func elementValue(e series.Element) any {
	if e.IsNA() {
		return nil
	}
	v := strings.TrimSpace(e.String())
	if v == "" {
		return nil
	}
	return v
}
