package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date. The time component is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD, optionally followed by a time component
// ("2024-01-05 00:00:00", "2024-01-05T00:00:00Z").
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON shadows the promoted time.Time encoder so dates stay YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	return d.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// BookingRecord is one (stay_date, report_date) row of the input table.
type BookingRecord struct {
	StayDate          Date
	ReportDate        Date
	TotalReservations int
	Reservations      [NumNamedGroups]int
}

// Count returns the reservation count for g, reading TotalReservations for GroupTotal.
func (r *BookingRecord) Count(g Group) int {
	if g == GroupTotal {
		return r.TotalReservations
	}
	return r.Reservations[g]
}

// BookingTable is the loaded, read-only input table.
type BookingTable struct {
	Records  []BookingRecord
	Source   string
	LoadedAt time.Time
}

func (t *BookingTable) Len() int {
	return len(t.Records)
}

// DateRange is an inclusive pair of calendar dates.
type DateRange struct {
	Min Date `json:"min"`
	Max Date `json:"max"`
}

// DateBounds spans every stay and report date in the table.
// ok is false for an empty table.
func (t *BookingTable) DateBounds() (r DateRange, ok bool) {
	for i := range t.Records {
		rec := &t.Records[i]
		for _, d := range []Date{rec.StayDate, rec.ReportDate} {
			if !ok || d.Before(r.Min.Time) {
				r.Min = d
			}
			if !ok || d.After(r.Max.Time) {
				r.Max = d
			}
			ok = true
		}
	}
	return r, ok
}

// MaxCount is the largest count observed for g, or 0 for an empty table.
func (t *BookingTable) MaxCount(g Group) int {
	peak := 0
	for i := range t.Records {
		if c := t.Records[i].Count(g); c > peak {
			peak = c
		}
	}
	return peak
}

// ThresholdRange is the inclusive set of thresholds offered by the dashboard.
type ThresholdRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultThresholdRange covers thresholds 5 through 30.
var DefaultThresholdRange = ThresholdRange{Min: 5, Max: 30}

func (r ThresholdRange) Contains(threshold int) bool {
	return threshold >= r.Min && threshold <= r.Max
}

// Values lists every threshold in ascending order.
func (r ThresholdRange) Values() []int {
	if r.Max < r.Min {
		return nil
	}
	values := make([]int, 0, r.Max-r.Min+1)
	for t := r.Min; t <= r.Max; t++ {
		values = append(values, t)
	}
	return values
}
