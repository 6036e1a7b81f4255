package services

import (
	"github.com/jmagar/bookingcurve/internal/models"
)

// DefaultYHeadroom scales the tallest bar to leave room above it.
const DefaultYHeadroom = 1.1

// Aggregator filters a booking table by reservation thresholds.
// A row passes a threshold when its count is strictly greater than it.
type Aggregator struct {
	table     *models.BookingTable
	yHeadroom float64
}

func NewAggregator(table *models.BookingTable, yHeadroom float64) *Aggregator {
	if yHeadroom <= 0 {
		yHeadroom = DefaultYHeadroom
	}
	return &Aggregator{table: table, yHeadroom: yHeadroom}
}

// BuildScatterFrame returns the stay dates, report dates and counts of every
// row whose count for group exceeds threshold, in table order. GroupTotal
// filters on total_reservations.
func (a *Aggregator) BuildScatterFrame(group models.Group, threshold int) models.ScatterFrame {
	frame := models.ScatterFrame{
		Group:     group,
		Threshold: threshold,
		X:         []models.Date{},
		Y:         []models.Date{},
		Color:     []int{},
	}
	for i := range a.table.Records {
		rec := &a.table.Records[i]
		c := rec.Count(group)
		if c <= threshold {
			continue
		}
		frame.X = append(frame.X, rec.StayDate)
		frame.Y = append(frame.Y, rec.ReportDate)
		frame.Color = append(frame.Color, c)
	}
	return frame
}

// BuildBarFrame counts, for each of the 16 named groups, the rows whose count exceeds threshold.
func (a *Aggregator) BuildBarFrame(threshold int) map[models.Group]int {
	counts := make(map[models.Group]int, models.NumNamedGroups)
	for _, g := range models.NamedGroups() {
		counts[g] = 0
	}
	for i := range a.table.Records {
		rec := &a.table.Records[i]
		for _, g := range models.NamedGroups() {
			if rec.Count(g) > threshold {
				counts[g]++
			}
		}
	}
	return counts
}

// BarFrame orders BuildBarFrame by group and sets the y-axis ceiling.
func (a *Aggregator) BarFrame(threshold int) models.BarFrame {
	counts := a.BuildBarFrame(threshold)

	frame := models.BarFrame{
		Threshold: threshold,
		Groups:    models.NamedGroups(),
		Counts:    make([]int, 0, models.NumNamedGroups),
	}
	peak := 0
	for _, g := range frame.Groups {
		c := counts[g]
		frame.Counts = append(frame.Counts, c)
		if c > peak {
			peak = c
		}
	}
	frame.YMax = float64(peak) * a.yHeadroom
	return frame
}
