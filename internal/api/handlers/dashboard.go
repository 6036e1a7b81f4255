package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/jmagar/bookingcurve/internal/services"
	"github.com/jmagar/bookingcurve/internal/web"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
	Exporter  *services.Exporter
	APIBase   string
}

type GroupInfo struct {
	Label  string `json:"label"`
	Column string `json:"column"`
	Named  bool   `json:"named"`
}

type ThresholdsResponse struct {
	Min    int   `json:"min"`
	Max    int   `json:"max"`
	Values []int `json:"values"`
}

type SummaryResponse struct {
	models.DatasetSummary
	BuiltAt string `json:"built_at"`
	Frames  int    `json:"frames"`
}

func NewDashboardHandler(dashboard *services.DashboardService, exporter *services.Exporter, apiBase string) *DashboardHandler {
	return &DashboardHandler{
		Dashboard: dashboard,
		Exporter:  exporter,
		APIBase:   apiBase,
	}
}

// GET /
func (h *DashboardHandler) Page(c *gin.Context) {
	page := web.NewPage(h.APIBase, h.Dashboard.Range())
	if dash, err := h.Dashboard.Current(); err == nil {
		summary := dash.Summary
		page.Summary = &summary
	}

	var buf bytes.Buffer
	if err := web.Render(&buf, page); err != nil {
		serviceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Groups godoc
// @Summary Group labels in display order
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /groups [get]
func (h *DashboardHandler) Groups(c *gin.Context) {
	groups := make([]GroupInfo, 0, len(models.AllGroups()))
	for _, g := range models.AllGroups() {
		groups = append(groups, GroupInfo{Label: g.String(), Column: g.Column(), Named: g.IsNamed()})
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"total":  len(groups),
	})
}

// Thresholds godoc
// @Summary Threshold range offered by the sliders
// @Tags dashboard
// @Produce json
// @Success 200 {object} ThresholdsResponse
// @Router /thresholds [get]
func (h *DashboardHandler) Thresholds(c *gin.Context) {
	rng := h.Dashboard.Range()
	c.JSON(http.StatusOK, ThresholdsResponse{
		Min:    rng.Min,
		Max:    rng.Max,
		Values: rng.Values(),
	})
}

// Summary godoc
// @Summary Loaded dataset summary
// @Tags dashboard
// @Produce json
// @Success 200 {object} SummaryResponse
// @Failure 503 {object} ErrorResponse
// @Router /summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	dash, err := h.Dashboard.Current()
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{
		DatasetSummary: dash.Summary,
		BuiltAt:        dash.BuiltAt.UTC().Format(time.RFC3339),
		Frames:         dash.FrameCount(),
	})
}

// Scatter godoc
// @Summary Rows of one group above a threshold
// @Tags dashboard
// @Produce json
// @Param group query string false "Group label, defaults to RMA"
// @Param threshold query int false "Threshold, defaults to the range minimum"
// @Success 200 {object} models.ScatterFrame
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /scatter [get]
func (h *DashboardHandler) Scatter(c *gin.Context) {
	group, ok := queryGroup(c)
	if !ok {
		return
	}
	threshold, ok := queryThreshold(c, h.Dashboard.Range())
	if !ok {
		return
	}

	frame, err := h.Dashboard.ScatterFrame(group, threshold)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, frame)
}

// Bars godoc
// @Summary Per-group counts above a threshold
// @Tags dashboard
// @Produce json
// @Param threshold query int false "Threshold, defaults to the range minimum"
// @Success 200 {object} models.BarFrame
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /bars [get]
func (h *DashboardHandler) Bars(c *gin.Context) {
	threshold, ok := queryThreshold(c, h.Dashboard.Range())
	if !ok {
		return
	}

	frame, err := h.Dashboard.BarFrame(threshold)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, frame)
}

// ScatterFigure godoc
// @Summary Every precomputed scatter frame with axis range and color scale
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.ScatterFigure
// @Failure 503 {object} ErrorResponse
// @Router /figures/scatter [get]
func (h *DashboardHandler) ScatterFigure(c *gin.Context) {
	dash, err := h.Dashboard.Current()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash.Scatter)
}

// BarFigure godoc
// @Summary Every precomputed bar frame
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.BarFigure
// @Failure 503 {object} ErrorResponse
// @Router /figures/bars [get]
func (h *DashboardHandler) BarFigure(c *gin.Context) {
	dash, err := h.Dashboard.Current()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash.Bars)
}

// ExportBarsPNG godoc
// @Summary Bar chart for one threshold as PNG
// @Tags export
// @Produce png
// @Param threshold query int false "Threshold"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /export/bars.png [get]
func (h *DashboardHandler) ExportBarsPNG(c *gin.Context) {
	threshold, ok := queryThreshold(c, h.Dashboard.Range())
	if !ok {
		return
	}
	frame, err := h.Dashboard.BarFrame(threshold)
	if err != nil {
		serviceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.Exporter.BarChartPNG(frame, &buf); err != nil {
		serviceError(c, err)
		return
	}
	h.png(c, fmt.Sprintf("bars-%d.png", threshold), buf.Bytes())
}

// ExportScatterPNG godoc
// @Summary Scatter plot for one group and threshold as PNG
// @Tags export
// @Produce png
// @Param group query string false "Group label"
// @Param threshold query int false "Threshold"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /export/scatter.png [get]
func (h *DashboardHandler) ExportScatterPNG(c *gin.Context) {
	group, ok := queryGroup(c)
	if !ok {
		return
	}
	threshold, ok := queryThreshold(c, h.Dashboard.Range())
	if !ok {
		return
	}

	dash, err := h.Dashboard.Current()
	if err != nil {
		serviceError(c, err)
		return
	}
	frame, err := h.Dashboard.ScatterFrame(group, threshold)
	if err != nil {
		serviceError(c, err)
		return
	}
	var axis models.DateRange
	if dash.Scatter.AxisRange != nil {
		axis = *dash.Scatter.AxisRange
	}

	var buf bytes.Buffer
	if err := h.Exporter.ScatterPNG(frame, axis, &buf); err != nil {
		serviceError(c, err)
		return
	}
	h.png(c, fmt.Sprintf("scatter-%s-%d.png", group, threshold), buf.Bytes())
}

func (h *DashboardHandler) png(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "image/png", data)
}
