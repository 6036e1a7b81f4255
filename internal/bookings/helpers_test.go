package bookings

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/stretchr/testify/require"
)

// sampleRow is one input row; every named group except RMA and others gets count 1.
type sampleRow struct {
	report, stay string
	total        int
	rma, others  int
}

var sampleRows = []sampleRow{
	{report: "2024-01-01", stay: "2024-02-01", total: 12, rma: 4, others: 0},
	{report: "2024-01-02", stay: "2024-02-01", total: 20, rma: 6, others: 3},
	{report: "2024-01-03", stay: "2024-02-03", total: 30, rma: 10, others: 9},
}

func (r sampleRow) count(col string) int {
	switch col {
	case models.ColumnTotalReservations:
		return r.total
	case models.GroupRMA.Column():
		return r.rma
	case models.GroupOthers.Column():
		return r.others
	default:
		return 1
	}
}

// sampleRecords renders sampleRows as string records with a header.
// An extra hotel_id column checks that unknown columns are ignored.
func sampleRecords(drop string) [][]string {
	var header []string
	for _, col := range models.RequiredColumns() {
		if col != drop {
			header = append(header, col)
		}
	}
	header = append(header, "hotel_id")

	records := [][]string{header}
	for _, r := range sampleRows {
		var row []string
		for _, col := range header {
			switch col {
			case models.ColumnReportDate:
				row = append(row, r.report)
			case models.ColumnStayDate:
				row = append(row, r.stay)
			case "hotel_id":
				row = append(row, "H1")
			default:
				row = append(row, strconv.Itoa(r.count(col)))
			}
		}
		records = append(records, row)
	}
	return records
}

func writeCSV(t *testing.T, records [][]string) string {
	t.Helper()
	var sb strings.Builder
	for _, row := range records {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), "bookings.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

// requireSampleTable checks a loaded table against sampleRows.
func requireSampleTable(t *testing.T, table *models.BookingTable) {
	t.Helper()
	require.Equal(t, len(sampleRows), table.Len())
	for i, want := range sampleRows {
		got := table.Records[i]
		require.Equal(t, want.report, got.ReportDate.String(), "row %d report_date", i+1)
		require.Equal(t, want.stay, got.StayDate.String(), "row %d stay_date", i+1)
		require.Equal(t, want.total, got.TotalReservations, "row %d total", i+1)
		require.Equal(t, want.rma, got.Count(models.GroupRMA), "row %d RMA", i+1)
		require.Equal(t, want.others, got.Count(models.GroupOthers), "row %d others", i+1)
		require.Equal(t, 1, got.Count(models.GroupRMZ), "row %d RMZ", i+1)
	}
	require.NotEmpty(t, table.Source)
	require.False(t, table.LoadedAt.IsZero())
}
