package bookings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/jmagar/bookingcurve/internal/models"
)

// julianUnixEpoch is the Julian day number of 1970-01-01, used by INT96 timestamps.
const julianUnixEpoch = 2440588

const parquetBatchSize = 512

// ParquetLoader reads a flat parquet file such as the one pandas writes.
type ParquetLoader struct {
	Path string
}

func (l *ParquetLoader) Describe() string {
	return "parquet:" + l.Path
}

type parquetColumn struct {
	name    string
	index   int
	logical *format.LogicalType
}

func (l *ParquetLoader) Load(ctx context.Context) (*models.BookingTable, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet footer: %w", err)
	}

	schema := pf.Schema()
	columns := make([]parquetColumn, 0, len(models.RequiredColumns()))
	for _, name := range models.RequiredColumns() {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		columns = append(columns, parquetColumn{
			name:    name,
			index:   leaf.ColumnIndex,
			logical: leaf.Node.Type().LogicalType(),
		})
	}

	reader := parquet.NewReader(pf)
	defer reader.Close()

	records := make([]models.BookingRecord, 0, pf.NumRows())
	byColumn := make([]parquet.Value, len(schema.Columns()))
	buf := make([]parquet.Row, parquetBatchSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, readErr := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			for i := range byColumn {
				byColumn[i] = parquet.Value{}
			}
			for _, v := range row {
				if c := v.Column(); c >= 0 && c < len(byColumn) {
					byColumn[c] = v
				}
			}

			b := recordBuilder{row: len(records) + 1}
			for _, col := range columns {
				v, err := parquetValue(byColumn[col.index], col.logical, col.name)
				if err != nil {
					return nil, invalidValue(b.row, col.name, err)
				}
				if err := b.set(col.name, v); err != nil {
					return nil, err
				}
			}
			records = append(records, b.rec)
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", readErr)
		}
	}

	return newTable(l.Describe(), records), nil
}

// parquetValue converts a physical parquet value into the Go value recordBuilder expects.
// Date columns come back as time.Time; count columns as int64 or float64.
func parquetValue(v parquet.Value, logical *format.LogicalType, column string) (any, error) {
	if v.IsNull() {
		return nil, nil
	}

	isDate := column == models.ColumnStayDate || column == models.ColumnReportDate
	switch v.Kind() {
	case parquet.Int32:
		if isDate {
			return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32())), nil
		}
		return int64(v.Int32()), nil
	case parquet.Int64:
		if isDate {
			return parquetTimestamp(v.Int64(), logical), nil
		}
		return v.Int64(), nil
	case parquet.Int96:
		if !isDate {
			return nil, fmt.Errorf("unexpected INT96 count")
		}
		i96 := v.Int96()
		nanos := int64(uint64(i96[1])<<32 | uint64(i96[0]))
		days := int(i96[2]) - julianUnixEpoch
		return time.Unix(0, 0).UTC().AddDate(0, 0, days).Add(time.Duration(nanos)), nil
	case parquet.Float:
		return float64(v.Float()), nil
	case parquet.Double:
		return v.Double(), nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray()), nil
	default:
		return nil, fmt.Errorf("unsupported parquet kind %s", v.Kind())
	}
}

// parquetTimestamp interprets an INT64 date column. Without a logical type
// pandas' nanosecond default is assumed.
func parquetTimestamp(n int64, logical *format.LogicalType) time.Time {
	if logical != nil && logical.Timestamp != nil {
		unit := logical.Timestamp.Unit
		switch {
		case unit.Millis != nil:
			return time.UnixMilli(n).UTC()
		case unit.Micros != nil:
			return time.UnixMicro(n).UTC()
		}
	}
	return time.Unix(0, n).UTC()
}
