package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcurve_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	ReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcurve_reloads_total",
		Help: "Booking table reloads by outcome",
	}, []string{"outcome"})

	ReloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookingcurve_reload_duration_seconds",
		Help:    "Time to load the booking table and rebuild every frame",
		Buckets: prometheus.DefBuckets,
	})

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookingcurve_dataset_rows",
		Help: "Rows in the currently served booking table",
	})

	PrecomputedFrames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookingcurve_precomputed_frames",
		Help: "Scatter and bar frames in the current snapshot",
	})
)
