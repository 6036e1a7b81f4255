package models

import "time"

// ScatterFrame is the filtered view of one (group, threshold) pair:
// parallel stay dates, report dates and counts in table order.
type ScatterFrame struct {
	Group     Group  `json:"group"`
	Threshold int    `json:"threshold"`
	X         []Date `json:"x"`
	Y         []Date `json:"y"`
	Color     []int  `json:"color"`
}

func (f ScatterFrame) Len() int {
	return len(f.X)
}

// ColorBounds returns the observed min and max of Color. ok is false for an empty frame.
func (f ScatterFrame) ColorBounds() (lo, hi int, ok bool) {
	for i, c := range f.Color {
		if i == 0 || c < lo {
			lo = c
		}
		if i == 0 || c > hi {
			hi = c
		}
	}
	return lo, hi, len(f.Color) > 0
}

// BarFrame holds the per-group counts for one threshold, in NamedGroups order.
type BarFrame struct {
	Threshold int     `json:"threshold"`
	Groups    []Group `json:"groups"`
	Counts    []int   `json:"counts"`
	YMax      float64 `json:"y_max"`
}

// ThresholdFrames is one slider step of the scatter figure: a trace per group in AllGroups order.
type ThresholdFrames struct {
	Threshold int            `json:"threshold"`
	Traces    []ScatterFrame `json:"traces"`
}

// ScatterFigure is everything the scatter widget needs to render without further requests.
type ScatterFigure struct {
	Title      string            `json:"title"`
	Groups     []Group           `json:"groups"`
	Thresholds []int             `json:"thresholds"`
	AxisRange  *DateRange        `json:"axis_range,omitempty"`
	ColorScale []ColorStop       `json:"colorscale"`
	MarkerSize int               `json:"marker_size"`
	Frames     []ThresholdFrames `json:"frames"`
}

// BarFigure drives the bar chart slider and its Play/Pause animation.
type BarFigure struct {
	Title      string     `json:"title"`
	Groups     []Group    `json:"groups"`
	Thresholds []int      `json:"thresholds"`
	Frames     []BarFrame `json:"frames"`
}

// DatasetSummary describes the table behind a Dashboard.
type DatasetSummary struct {
	Source    string         `json:"source"`
	Rows      int            `json:"rows"`
	LoadedAt  time.Time      `json:"loaded_at"`
	DateRange *DateRange     `json:"date_range,omitempty"`
	MaxCounts map[Group]int  `json:"max_counts"`
	Range     ThresholdRange `json:"threshold_range"`
}

// Dashboard is an immutable snapshot of every precomputed frame.
type Dashboard struct {
	Summary DatasetSummary
	Scatter ScatterFigure
	Bars    BarFigure
	BuiltAt time.Time

	thresholdIndex map[int]int
}

// NewDashboard indexes the figures by threshold. Both figures must share the threshold list.
func NewDashboard(summary DatasetSummary, scatter ScatterFigure, bars BarFigure) *Dashboard {
	index := make(map[int]int, len(scatter.Thresholds))
	for i, t := range scatter.Thresholds {
		index[t] = i
	}
	return &Dashboard{
		Summary:        summary,
		Scatter:        scatter,
		Bars:           bars,
		BuiltAt:        time.Now(),
		thresholdIndex: index,
	}
}

// ScatterFrame looks up a precomputed frame.
func (d *Dashboard) ScatterFrame(g Group, threshold int) (ScatterFrame, bool) {
	i, ok := d.thresholdIndex[threshold]
	if !ok || !g.Valid() {
		return ScatterFrame{}, false
	}
	return d.Scatter.Frames[i].Traces[g], true
}

// BarFrame looks up a precomputed bar frame.
func (d *Dashboard) BarFrame(threshold int) (BarFrame, bool) {
	i, ok := d.thresholdIndex[threshold]
	if !ok {
		return BarFrame{}, false
	}
	return d.Bars.Frames[i], true
}

// FrameCount is the number of precomputed scatter and bar frames.
func (d *Dashboard) FrameCount() int {
	n := len(d.Bars.Frames)
	for _, f := range d.Scatter.Frames {
		n += len(f.Traces)
	}
	return n
}
