package bookings

import (
	"testing"
	"time"

	"github.com/jmagar/bookingcurve/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "data/processed_bookings.parquet", want: config.SourceParquet},
		{path: "bookings.CSV", want: config.SourceCSV},
		{path: "bookings.xlsx", want: config.SourceXLSX},
		{path: "bookings.sqlite3", want: config.SourceSQLite},
		{path: "bookings.feather", wantErr: true},
		{path: "bookings", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectKind(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLoader(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.SourceConfig
		assert func(t *testing.T, l Loader)
	}{
		{
			name: "auto parquet",
			cfg:  config.SourceConfig{Kind: config.SourceAuto, Path: "data/b.parquet"},
			assert: func(t *testing.T, l Loader) {
				assert.IsType(t, &ParquetLoader{}, l)
				assert.Equal(t, "parquet:data/b.parquet", l.Describe())
			},
		},
		{
			name: "explicit csv",
			cfg:  config.SourceConfig{Kind: config.SourceCSV, Path: "b.txt"},
			assert: func(t *testing.T, l Loader) {
				assert.IsType(t, &CSVLoader{}, l)
			},
		},
		{
			name: "xlsx with sheet",
			cfg:  config.SourceConfig{Kind: config.SourceXLSX, Path: "b.xlsx", Sheet: "May"},
			assert: func(t *testing.T, l Loader) {
				assert.Equal(t, "xlsx:b.xlsx#May", l.Describe())
			},
		},
		{
			name: "sqlite falls back to path",
			cfg:  config.SourceConfig{Kind: config.SourceSQLite, Path: "b.db", Table: "processed_bookings"},
			assert: func(t *testing.T, l Loader) {
				sl, ok := l.(*SQLLoader)
				require.True(t, ok)
				assert.Equal(t, DriverSQLite, sl.Driver)
				assert.Equal(t, "b.db", sl.DSN)
			},
		},
		{
			name: "postgres",
			cfg:  config.SourceConfig{Kind: config.SourcePostgres, DSN: "postgres://localhost/bookings", Table: "processed_bookings"},
			assert: func(t *testing.T, l Loader) {
				sl, ok := l.(*SQLLoader)
				require.True(t, ok)
				assert.Equal(t, DriverPostgres, sl.Driver)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLoader(tt.cfg)
			require.NoError(t, err)
			tt.assert(t, l)
		})
	}

	_, err := NewLoader(config.SourceConfig{Kind: "feather", Path: "b.feather"})
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestColumnIndex_MissingColumn(t *testing.T) {
	records := sampleRecords("others_reservation")
	_, err := columnIndex(records[0])
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "others_reservation")

	index, err := columnIndex(sampleRecords("")[0])
	require.NoError(t, err)
	assert.Equal(t, 0, index["report_date"])
}

func TestDecodeCount(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int
		wantErr bool
	}{
		{name: "int64", in: int64(7), want: 7},
		{name: "int32", in: int32(3), want: 3},
		{name: "integral float", in: 12.0, want: 12},
		{name: "string", in: " 5 ", want: 5},
		{name: "float string", in: "6.0", want: 6},
		{name: "bytes", in: []byte("9"), want: 9},
		{name: "fractional", in: 1.5, wantErr: true},
		{name: "negative", in: int64(-1), wantErr: true},
		{name: "null", in: nil, wantErr: true},
		{name: "text", in: "many", wantErr: true},
		{name: "bool", in: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeDate(t *testing.T) {
	d, err := decodeDate(time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06", d.String())

	d, err = decodeDate([]byte("2024-05-07 00:00:00"))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-07", d.String())

	_, err = decodeDate(nil)
	assert.Error(t, err)
	_, err = decodeDate(20240507)
	assert.Error(t, err)
}
