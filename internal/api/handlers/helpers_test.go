package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/jmagar/bookingcurve/internal/services"
)

type tableLoader struct {
	table *models.BookingTable
	err   error
}

func (l *tableLoader) Load(ctx context.Context) (*models.BookingTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.table, l.err
}

func (l *tableLoader) Describe() string {
	return "test"
}

// testTable has RMA_reservation = [4, 6, 10] and total_reservations = [12, 30, 25].
func testTable(t *testing.T) *models.BookingTable {
	t.Helper()
	rows := []struct {
		stay, report string
		rma, total   int
	}{
		{"2024-02-01", "2024-01-01", 4, 12},
		{"2024-02-02", "2024-01-05", 6, 30},
		{"2024-02-03", "2024-01-09", 10, 25},
	}

	table := &models.BookingTable{Source: "test", LoadedAt: time.Now()}
	for _, r := range rows {
		stay, err := models.ParseDate(r.stay)
		require.NoError(t, err)
		report, err := models.ParseDate(r.report)
		require.NoError(t, err)

		rec := models.BookingRecord{StayDate: stay, ReportDate: report, TotalReservations: r.total}
		rec.Reservations[models.GroupRMA] = r.rma
		table.Records = append(table.Records, rec)
	}
	return table
}

// setupTestDashboard returns a dashboard service, reloaded once when loaded is true.
func setupTestDashboard(t *testing.T, loaded bool) *services.DashboardService {
	t.Helper()
	svc := services.NewDashboardService(&tableLoader{table: testTable(t)}, services.DashboardOptions{}, zaptest.NewLogger(t))
	if loaded {
		_, err := svc.Reload(context.Background())
		require.NoError(t, err)
	}
	return svc
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeBody(t, w)
	errorObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %s", w.Body.String())
	code, _ := errorObj["code"].(string)
	return code
}
