package services

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jmagar/bookingcurve/internal/models"
)

// Exporter renders frames to static PNG charts.
type Exporter struct {
	Width      vg.Length
	Height     vg.Length
	MarkerSize int
	ColorScale []models.ColorStop
}

func NewExporter(markerSize int) *Exporter {
	if markerSize <= 0 {
		markerSize = DefaultMarkerSize
	}
	return &Exporter{
		Width:      20 * vg.Centimeter,
		Height:     12 * vg.Centimeter,
		MarkerSize: markerSize,
		ColorScale: models.ReservationColorScale,
	}
}

// BarChartPNG draws one bar frame with the y axis fixed to [0, YMax].
func (e *Exporter) BarChartPNG(frame models.BarFrame, w io.Writer) error {
	values := make(plotter.Values, len(frame.Counts))
	names := make([]string, len(frame.Groups))
	for i, c := range frame.Counts {
		values[i] = float64(c)
	}
	for i, g := range frame.Groups {
		names[i] = g.String()
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (threshold %d)", BarTitle, frame.Threshold)
	p.X.Label.Text = "Group"
	p.Y.Label.Text = "Number of Spike Instances"

	bars, err := plotter.NewBarChart(values, 0.6*vg.Centimeter)
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = models.ReservationColorScale[2].RGBA
	p.Add(bars)
	p.NominalX(names...)

	p.Y.Min = 0
	p.Y.Max = frame.YMax
	if p.Y.Max <= 0 {
		p.Y.Max = 1
	}

	return e.write(p, w)
}

// ScatterPNG draws one scatter frame on a shared date axis. Each glyph is
// colored through the color scale over the frame's own count range.
func (e *Exporter) ScatterPNG(frame models.ScatterFrame, axis models.DateRange, w io.Writer) error {
	pts := make(plotter.XYs, frame.Len())
	for i := range frame.X {
		pts[i].X = float64(frame.X[i].Unix())
		pts[i].Y = float64(frame.Y[i].Unix())
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Reservations (threshold %d)", frame.Group, frame.Threshold)
	p.X.Label.Text = "Stay Date"
	p.Y.Label.Text = "Report Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: models.DateLayout}
	p.Y.Tick.Marker = plot.TimeTicks{Format: models.DateLayout}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter plot: %w", err)
	}
	lo, hi, _ := frame.ColorBounds()
	radius := vg.Points(float64(e.MarkerSize) / 2)
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  models.ColorFor(e.ColorScale, float64(frame.Color[i]), float64(lo), float64(hi)),
			Radius: radius,
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(scatter)

	if !axis.Min.IsZero() && !axis.Max.IsZero() {
		p.X.Min, p.X.Max = float64(axis.Min.Unix()), float64(axis.Max.Unix())
		p.Y.Min, p.Y.Max = p.X.Min, p.X.Max
	}

	return e.write(p, w)
}

func (e *Exporter) write(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(e.Width, e.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}
