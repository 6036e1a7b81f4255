package handlers

import (
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmagar/bookingcurve/internal/api/middleware"
	"github.com/jmagar/bookingcurve/internal/services"
)

func setupDashboardTestRouter(t *testing.T, loaded bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	h := NewDashboardHandler(setupTestDashboard(t, loaded), services.NewExporter(0), "/api/v1")

	router.GET("/", h.Page)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/groups", h.Groups)
		v1.GET("/thresholds", h.Thresholds)
		v1.GET("/summary", h.Summary)
		v1.GET("/scatter", h.Scatter)
		v1.GET("/bars", h.Bars)
		v1.GET("/figures/scatter", h.ScatterFigure)
		v1.GET("/figures/bars", h.BarFigure)
		v1.GET("/export/bars.png", h.ExportBarsPNG)
		v1.GET("/export/scatter.png", h.ExportScatterPNG)
	}
	return router
}

func get(router *gin.Engine, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDashboardHandler_Page(t *testing.T) {
	router := setupDashboardTestRouter(t, true)

	w := get(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)

	options := doc.Find("#group-select option")
	assert.Equal(t, 17, options.Length())
	assert.Equal(t, "RMA", options.First().Text())
	assert.Equal(t, "total", options.Last().Text())
	assert.Equal(t, "3", doc.Find("#summary").AttrOr("data-rows", ""))
}

func TestDashboardHandler_PageBeforeLoad(t *testing.T) {
	router := setupDashboardTestRouter(t, false)

	w := get(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, 17, doc.Find("#group-select option").Length())
	assert.Zero(t, doc.Find("#summary").Length())
}

func TestDashboardHandler_Groups(t *testing.T) {
	router := setupDashboardTestRouter(t, false)

	w := get(router, "/api/v1/groups")
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, float64(17), response["total"])
	groups, ok := response["groups"].([]interface{})
	require.True(t, ok)
	require.Len(t, groups, 17)

	first := groups[0].(map[string]interface{})
	assert.Equal(t, "RMA", first["label"])
	assert.Equal(t, "RMA_reservation", first["column"])
	assert.Equal(t, true, first["named"])

	last := groups[16].(map[string]interface{})
	assert.Equal(t, "total", last["label"])
	assert.Equal(t, "total_reservations", last["column"])
	assert.Equal(t, false, last["named"])
}

func TestDashboardHandler_Thresholds(t *testing.T) {
	router := setupDashboardTestRouter(t, false)

	w := get(router, "/api/v1/thresholds")
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, float64(5), response["min"])
	assert.Equal(t, float64(30), response["max"])
	assert.Len(t, response["values"], 26)
}

func TestDashboardHandler_Summary(t *testing.T) {
	router := setupDashboardTestRouter(t, true)

	w := get(router, "/api/v1/summary")
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	for _, field := range []string{"source", "rows", "loaded_at", "date_range", "max_counts", "threshold_range", "built_at", "frames"} {
		assert.Contains(t, response, field)
	}
	assert.Equal(t, float64(3), response["rows"])
	assert.Equal(t, float64(26*17+26), response["frames"])

	maxCounts := response["max_counts"].(map[string]interface{})
	assert.Equal(t, float64(10), maxCounts["RMA"])
	assert.Equal(t, float64(30), maxCounts["total"])
}

func TestDashboardHandler_Scatter(t *testing.T) {
	router := setupDashboardTestRouter(t, true)

	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectedCode   string
		expectedColors []interface{}
	}{
		{
			name:           "RMA above 5",
			url:            "/api/v1/scatter?group=RMA&threshold=5",
			expectedStatus: http.StatusOK,
			expectedColors: []interface{}{float64(6), float64(10)},
		},
		{
			name:           "case insensitive group",
			url:            "/api/v1/scatter?group=rma&threshold=9",
			expectedStatus: http.StatusOK,
			expectedColors: []interface{}{float64(10)},
		},
		{
			name:           "defaults to RMA at the range minimum",
			url:            "/api/v1/scatter",
			expectedStatus: http.StatusOK,
			expectedColors: []interface{}{float64(6), float64(10)},
		},
		{
			name:           "total at its maximum is empty",
			url:            "/api/v1/scatter?group=total&threshold=30",
			expectedStatus: http.StatusOK,
			expectedColors: []interface{}{},
		},
		{
			name:           "unknown group",
			url:            "/api/v1/scatter?group=XYZ&threshold=5",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   CodeInvalidGroup,
		},
		{
			name:           "non-integer threshold",
			url:            "/api/v1/scatter?group=RMA&threshold=five",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   CodeInvalidThreshold,
		},
		{
			name:           "threshold below range",
			url:            "/api/v1/scatter?group=RMA&threshold=4",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   CodeInvalidThreshold,
		},
		{
			name:           "threshold above range",
			url:            "/api/v1/scatter?group=RMA&threshold=31",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   CodeInvalidThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.url)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, w))
				return
			}

			response := decodeBody(t, w)
			for _, field := range []string{"group", "threshold", "x", "y", "color"} {
				assert.Contains(t, response, field)
			}
			assert.Equal(t, tt.expectedColors, response["color"])
			assert.Len(t, response["x"], len(tt.expectedColors))
			assert.Len(t, response["y"], len(tt.expectedColors))
		})
	}
}

func TestDashboardHandler_Bars(t *testing.T) {
	router := setupDashboardTestRouter(t, true)

	w := get(router, "/api/v1/bars?threshold=5")
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	counts := response["counts"].([]interface{})
	require.Len(t, counts, 16)
	assert.Equal(t, float64(2), counts[0])
	assert.Len(t, response["groups"], 16)
	assert.InDelta(t, 2.2, response["y_max"], 1e-9)

	w = get(router, "/api/v1/bars?threshold=100")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidThreshold, errorCode(t, w))
}

func TestDashboardHandler_Figures(t *testing.T) {
	router := setupDashboardTestRouter(t, true)

	w := get(router, "/api/v1/figures/scatter")
	assert.Equal(t, http.StatusOK, w.Code)
	scatter := decodeBody(t, w)
	assert.Equal(t, services.ScatterTitle, scatter["title"])
	assert.Len(t, scatter["groups"], 17)
	assert.Len(t, scatter["colorscale"], 6)
	frames := scatter["frames"].([]interface{})
	require.Len(t, frames, 26)
	assert.Len(t, frames[0].(map[string]interface{})["traces"], 17)
	axis := scatter["axis_range"].(map[string]interface{})
	assert.Equal(t, "2024-01-01", axis["min"])
	assert.Equal(t, "2024-02-03", axis["max"])

	w = get(router, "/api/v1/figures/bars")
	assert.Equal(t, http.StatusOK, w.Code)
	bars := decodeBody(t, w)
	assert.Equal(t, services.BarTitle, bars["title"])
	assert.Len(t, bars["frames"], 26)
}

func TestDashboardHandler_NotLoaded(t *testing.T) {
	router := setupDashboardTestRouter(t, false)

	for _, url := range []string{
		"/api/v1/summary",
		"/api/v1/scatter?group=RMA&threshold=5",
		"/api/v1/bars?threshold=5",
		"/api/v1/figures/scatter",
		"/api/v1/figures/bars",
		"/api/v1/export/bars.png?threshold=5",
	} {
		t.Run(url, func(t *testing.T) {
			w := get(router, url)
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, CodeNotLoaded, errorCode(t, w))
		})
	}
}

func TestDashboardHandler_ExportPNG(t *testing.T) {
	router := setupDashboardTestRouter(t, true)

	for _, url := range []string{
		"/api/v1/export/bars.png?threshold=5",
		"/api/v1/export/scatter.png?group=RMA&threshold=5",
		"/api/v1/export/scatter.png?group=total&threshold=30",
	} {
		t.Run(url, func(t *testing.T) {
			w := get(router, url)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), ".png")

			_, err := png.Decode(w.Body)
			assert.NoError(t, err)
		})
	}

	w := get(router, "/api/v1/export/scatter.png?group=nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidGroup, errorCode(t, w))
}
