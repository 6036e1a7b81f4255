package bookings

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parquetBooking struct {
	ReportDate string `parquet:"report_date"`
	StayDate   string `parquet:"stay_date"`
	Total      int64  `parquet:"total_reservations"`
	RMA        int64  `parquet:"RMA_reservation"`
	RMB        int64  `parquet:"RMB_reservation"`
	RMC        int64  `parquet:"RMC_reservation"`
	RMD        int64  `parquet:"RMD_reservation"`
	RME        int64  `parquet:"RME_reservation"`
	RMF        int64  `parquet:"RMF_reservation"`
	RMG        int64  `parquet:"RMG_reservation"`
	RMH        int64  `parquet:"RMH_reservation"`
	RMI        int64  `parquet:"RMI_reservation"`
	RMJ        int64  `parquet:"RMJ_reservation"`
	RMK        int64  `parquet:"RMK_reservation"`
	RML        int64  `parquet:"RML_reservation"`
	RMQ        int64  `parquet:"RMQ_reservation"`
	RMT        int64  `parquet:"RMT_reservation"`
	RMZ        int64  `parquet:"RMZ_reservation"`
	Others     int64  `parquet:"others_reservation"`
	HotelID    string `parquet:"hotel_id"`
}

type parquetBookingNoOthers struct {
	ReportDate string `parquet:"report_date"`
	StayDate   string `parquet:"stay_date"`
	Total      int64  `parquet:"total_reservations"`
}

func sampleParquetRows() []parquetBooking {
	rows := make([]parquetBooking, 0, len(sampleRows))
	for _, r := range sampleRows {
		rows = append(rows, parquetBooking{
			ReportDate: r.report, StayDate: r.stay, Total: int64(r.total),
			RMA: int64(r.rma), RMB: 1, RMC: 1, RMD: 1, RME: 1, RMF: 1, RMG: 1, RMH: 1,
			RMI: 1, RMJ: 1, RMK: 1, RML: 1, RMQ: 1, RMT: 1, RMZ: 1,
			Others: int64(r.others), HotelID: "H1",
		})
	}
	return rows
}

func TestParquetLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_bookings.parquet")
	require.NoError(t, parquet.WriteFile(path, sampleParquetRows()))

	table, err := (&ParquetLoader{Path: path}).Load(context.Background())
	require.NoError(t, err)
	requireSampleTable(t, table)
}

func TestParquetLoader_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.parquet")
	require.NoError(t, parquet.WriteFile(path, []parquetBookingNoOthers{
		{ReportDate: "2024-01-01", StayDate: "2024-01-05", Total: 3},
	}))

	_, err := (&ParquetLoader{Path: path}).Load(context.Background())
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParquetLoader_NegativeCount(t *testing.T) {
	rows := sampleParquetRows()
	rows[1].RMK = -2
	path := filepath.Join(t.TempDir(), "negative.parquet")
	require.NoError(t, parquet.WriteFile(path, rows))

	_, err := (&ParquetLoader{Path: path}).Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "RMK_reservation")
}

func TestParquetLoader_MissingFile(t *testing.T) {
	_, err := (&ParquetLoader{Path: filepath.Join(t.TempDir(), "nope.parquet")}).Load(context.Background())
	assert.Error(t, err)
}

func TestParquetValue_Dates(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := parquetValue(parquet.Int32Value(19723), &format.LogicalType{Date: &format.DateType{}}, "stay_date")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	millis := &format.LogicalType{Timestamp: &format.TimestampType{Unit: format.TimeUnit{Millis: &format.MilliSeconds{}}}}
	got, err = parquetValue(parquet.Int64Value(want.UnixMilli()), millis, "report_date")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	micros := &format.LogicalType{Timestamp: &format.TimestampType{Unit: format.TimeUnit{Micros: &format.MicroSeconds{}}}}
	got, err = parquetValue(parquet.Int64Value(want.UnixMicro()), micros, "report_date")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = parquetValue(parquet.Int64Value(want.UnixNano()), nil, "report_date")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = parquetValue(parquet.ByteArrayValue([]byte("2024-01-01")), nil, "stay_date")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got)
}

func TestParquetValue_Counts(t *testing.T) {
	got, err := parquetValue(parquet.Int32Value(4), nil, "RMA_reservation")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	got, err = parquetValue(parquet.DoubleValue(6), nil, "RMA_reservation")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)

	got, err = parquetValue(parquet.Value{}, nil, "RMA_reservation")
	require.NoError(t, err)
	assert.Nil(t, got)
}
