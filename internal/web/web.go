// Package web renders the dashboard page. The page draws both figures with
// Plotly.js, either fetching them from the API or from data inlined at render time.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/jmagar/bookingcurve/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// PlotlyURL is the Plotly.js bundle loaded by the page.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Figures is the data of a standalone page.
type Figures struct {
	Scatter models.ScatterFigure `json:"scatter"`
	Bars    models.BarFigure     `json:"bars"`
}

type Page struct {
	Title   string
	Groups  []models.Group
	Range   models.ThresholdRange
	Summary *models.DatasetSummary

	// APIBase is the prefix the page fetches figures from. Ignored when Inline is set.
	APIBase string
	Inline  *Figures

	PlotlyURL string
}

// NewPage describes a page served next to the API under apiBase.
func NewPage(apiBase string, rng models.ThresholdRange) Page {
	return Page{
		Title:     "Reservation Analysis by Thresholding",
		Groups:    models.AllGroups(),
		Range:     rng,
		APIBase:   apiBase,
		PlotlyURL: PlotlyURL,
	}
}

// NewStandalonePage describes a page carrying every frame of dash.
func NewStandalonePage(dash *models.Dashboard) Page {
	p := NewPage("", dash.Summary.Range)
	summary := dash.Summary
	p.Summary = &summary
	p.Inline = &Figures{Scatter: dash.Scatter, Bars: dash.Bars}
	return p
}

func Render(w io.Writer, page Page) error {
	if page.PlotlyURL == "" {
		page.PlotlyURL = PlotlyURL
	}
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render dashboard page: %w", err)
	}
	return nil
}
