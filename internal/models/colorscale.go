package models

import (
	"encoding/json"
	"image/color"
	"math"
)

// ColorStop is one stop of a linear gradient. Position is in [0, 1].
type ColorStop struct {
	Position float64
	Name     string
	RGBA     color.RGBA
}

// MarshalJSON emits the [position, "name"] pair Plotly expects for a colorscale.
func (s ColorStop) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Position, s.Name})
}

// ReservationColorScale runs white → light blue → blue → light green → yellow → red.
var ReservationColorScale = []ColorStop{
	{Position: 0, Name: "white", RGBA: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	{Position: 0.2, Name: "lightblue", RGBA: color.RGBA{R: 173, G: 216, B: 230, A: 255}},
	{Position: 0.4, Name: "blue", RGBA: color.RGBA{R: 0, G: 0, B: 255, A: 255}},
	{Position: 0.6, Name: "lightgreen", RGBA: color.RGBA{R: 144, G: 238, B: 144, A: 255}},
	{Position: 0.8, Name: "yellow", RGBA: color.RGBA{R: 255, G: 255, B: 0, A: 255}},
	{Position: 1, Name: "red", RGBA: color.RGBA{R: 255, G: 0, B: 0, A: 255}},
}

// ColorFor maps value linearly onto the scale over [lo, hi].
// A degenerate range maps everything to the top stop.
func ColorFor(scale []ColorStop, value, lo, hi float64) color.RGBA {
	if len(scale) == 0 {
		return color.RGBA{A: 255}
	}
	pos := 1.0
	if hi > lo {
		pos = math.Max(0, math.Min(1, (value-lo)/(hi-lo)))
	}
	for i := 1; i < len(scale); i++ {
		a, b := scale[i-1], scale[i]
		if pos > b.Position {
			continue
		}
		span := b.Position - a.Position
		if span <= 0 {
			return b.RGBA
		}
		f := (pos - a.Position) / span
		return color.RGBA{
			R: lerp(a.RGBA.R, b.RGBA.R, f),
			G: lerp(a.RGBA.G, b.RGBA.G, f),
			B: lerp(a.RGBA.B, b.RGBA.B, f),
			A: 255,
		}
	}
	return scale[len(scale)-1].RGBA
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}
