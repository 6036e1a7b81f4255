package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

// rmaTable has RMA_reservation = [4, 6, 10] and total_reservations peaking at 30.
func rmaTable(t *testing.T) *models.BookingTable {
	t.Helper()
	table := &models.BookingTable{Records: []models.BookingRecord{
		{StayDate: date(t, "2024-02-01"), ReportDate: date(t, "2024-01-01"), TotalReservations: 12},
		{StayDate: date(t, "2024-02-02"), ReportDate: date(t, "2024-01-05"), TotalReservations: 30},
		{StayDate: date(t, "2024-02-03"), ReportDate: date(t, "2024-01-09"), TotalReservations: 25},
	}}
	for i, c := range []int{4, 6, 10} {
		table.Records[i].Reservations[models.GroupRMA] = c
	}
	return table
}

// randomTable builds n rows with counts drawn from [0, 40].
func randomTable(t *testing.T, n int, seed int64) *models.BookingTable {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	table := &models.BookingTable{Records: make([]models.BookingRecord, n)}
	for i := range table.Records {
		rec := &table.Records[i]
		rec.ReportDate = models.NewDate(base.AddDate(0, 0, r.Intn(90)))
		rec.StayDate = models.NewDate(rec.ReportDate.AddDate(0, 0, r.Intn(120)))
		for g := range rec.Reservations {
			rec.Reservations[g] = r.Intn(41)
			rec.TotalReservations += rec.Reservations[g]
		}
	}
	return table
}

func TestBuildBarFrame_RMAScenario(t *testing.T) {
	agg := NewAggregator(rmaTable(t), DefaultYHeadroom)

	counts := agg.BuildBarFrame(5)
	assert.Equal(t, 2, counts[models.GroupRMA])
	assert.Len(t, counts, 16)
	assert.NotContains(t, counts, models.GroupTotal)
}

func TestBuildScatterFrame_StrictBoundary(t *testing.T) {
	agg := NewAggregator(rmaTable(t), DefaultYHeadroom)

	frame := agg.BuildScatterFrame(models.GroupTotal, 30)
	assert.Empty(t, frame.X)
	assert.Empty(t, frame.Y)
	assert.Empty(t, frame.Color)
	assert.NotNil(t, frame.X, "empty frames serialize as []")

	frame = agg.BuildScatterFrame(models.GroupTotal, 29)
	require.Equal(t, 1, frame.Len())
	assert.Equal(t, 30, frame.Color[0])
	assert.Equal(t, "2024-02-02", frame.X[0].String())
	assert.Equal(t, "2024-01-05", frame.Y[0].String())
}

func TestBuildScatterFrame_KeepsRowOrder(t *testing.T) {
	agg := NewAggregator(rmaTable(t), DefaultYHeadroom)

	frame := agg.BuildScatterFrame(models.GroupRMA, 5)
	assert.Equal(t, models.GroupRMA, frame.Group)
	assert.Equal(t, 5, frame.Threshold)
	assert.Equal(t, []int{6, 10}, frame.Color)
	assert.Equal(t, "2024-02-02", frame.X[0].String())
	assert.Equal(t, "2024-02-03", frame.X[1].String())
}

func TestBuildBarFrame_ThresholdBelowEveryCount(t *testing.T) {
	table := randomTable(t, 50, 7)
	for i := range table.Records {
		for g := range table.Records[i].Reservations {
			table.Records[i].Reservations[g]++
		}
	}
	agg := NewAggregator(table, DefaultYHeadroom)

	for g, c := range agg.BuildBarFrame(0) {
		assert.Equal(t, table.Len(), c, "group %s", g)
	}
}

func TestAggregator_Properties(t *testing.T) {
	table := randomTable(t, 300, 42)
	agg := NewAggregator(table, DefaultYHeadroom)
	thresholds := models.DefaultThresholdRange.Values()

	for _, g := range models.AllGroups() {
		prev := -1
		for _, th := range thresholds {
			frame := agg.BuildScatterFrame(g, th)
			assert.Equal(t, len(frame.X), len(frame.Y), "%s@%d", g, th)
			assert.Equal(t, len(frame.X), len(frame.Color), "%s@%d", g, th)
			for _, c := range frame.Color {
				assert.Greater(t, c, th)
			}
			if prev >= 0 {
				assert.LessOrEqual(t, frame.Len(), prev, "%s@%d grew", g, th)
			}
			prev = frame.Len()
		}
	}

	var prevCounts map[models.Group]int
	for _, th := range thresholds {
		counts := agg.BuildBarFrame(th)
		require.Len(t, counts, 16)
		for g, c := range counts {
			assert.GreaterOrEqual(t, c, 0)
			assert.LessOrEqual(t, c, table.Len())
			assert.Equal(t, agg.BuildScatterFrame(g, th).Len(), c, "%s@%d", g, th)
			if prevCounts != nil {
				assert.LessOrEqual(t, c, prevCounts[g], "%s@%d grew", g, th)
			}
		}
		prevCounts = counts
	}
}

func TestAggregator_BarFrame(t *testing.T) {
	agg := NewAggregator(rmaTable(t), DefaultYHeadroom)

	frame := agg.BarFrame(5)
	assert.Equal(t, 5, frame.Threshold)
	require.Len(t, frame.Groups, 16)
	require.Len(t, frame.Counts, 16)
	assert.Equal(t, models.GroupRMA, frame.Groups[0])
	assert.Equal(t, 2, frame.Counts[0])
	assert.InDelta(t, 2.2, frame.YMax, 1e-9)

	assert.Zero(t, agg.BarFrame(10).YMax)
}

func TestAggregator_EmptyTable(t *testing.T) {
	agg := NewAggregator(&models.BookingTable{}, 0)

	assert.Equal(t, 0, agg.BuildScatterFrame(models.GroupRMA, 5).Len())
	for _, c := range agg.BuildBarFrame(5) {
		assert.Zero(t, c)
	}
}
