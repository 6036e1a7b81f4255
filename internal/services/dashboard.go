package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/internal/bookings"
	"github.com/jmagar/bookingcurve/internal/metrics"
	"github.com/jmagar/bookingcurve/internal/models"
)

var (
	ErrNotLoaded           = errors.New("booking table not loaded")
	ErrThresholdOutOfRange = errors.New("threshold out of range")
)

const (
	ScatterTitle = "Reservation Analysis"
	BarTitle     = "Reservation Counts by Group"

	DefaultMarkerSize = 8
)

type DashboardOptions struct {
	Range      models.ThresholdRange
	YHeadroom  float64
	MarkerSize int
}

// DashboardService owns the current dashboard snapshot. Reads are lock-free;
// reloads are serialized and publish a new snapshot only on success.
type DashboardService struct {
	loader bookings.Loader
	opts   DashboardOptions
	log    *zap.Logger

	current  atomic.Pointer[models.Dashboard]
	reloadMu sync.Mutex
}

func NewDashboardService(loader bookings.Loader, opts DashboardOptions, log *zap.Logger) *DashboardService {
	if opts.Range == (models.ThresholdRange{}) {
		opts.Range = models.DefaultThresholdRange
	}
	if opts.YHeadroom <= 0 {
		opts.YHeadroom = DefaultYHeadroom
	}
	if opts.MarkerSize <= 0 {
		opts.MarkerSize = DefaultMarkerSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{loader: loader, opts: opts, log: log}
}

func (s *DashboardService) Range() models.ThresholdRange {
	return s.opts.Range
}

// Reload loads the table and rebuilds every frame. The previous snapshot keeps
// serving if anything fails.
func (s *DashboardService) Reload(ctx context.Context) (*models.Dashboard, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	log := s.log.With(zap.String("source", s.loader.Describe()))
	log.Info("Reloading booking table")

	table, err := s.loader.Load(ctx)
	if err != nil {
		metrics.ReloadsTotal.WithLabelValues("failure").Inc()
		log.Error("Failed to load booking table", zap.Error(err))
		return nil, fmt.Errorf("failed to load booking table: %w", err)
	}

	dash := Build(table, s.opts)
	s.current.Store(dash)

	elapsed := time.Since(start)
	metrics.ReloadsTotal.WithLabelValues("success").Inc()
	metrics.ReloadDuration.Observe(elapsed.Seconds())
	metrics.DatasetRows.Set(float64(table.Len()))
	metrics.PrecomputedFrames.Set(float64(dash.FrameCount()))

	log.Info("Dashboard rebuilt",
		zap.Int("rows", table.Len()),
		zap.Int("frames", dash.FrameCount()),
		zap.Duration("elapsed", elapsed),
	)
	return dash, nil
}

// Current returns the published snapshot, or ErrNotLoaded before the first successful reload.
func (s *DashboardService) Current() (*models.Dashboard, error) {
	dash := s.current.Load()
	if dash == nil {
		return nil, ErrNotLoaded
	}
	return dash, nil
}

func (s *DashboardService) ScatterFrame(group models.Group, threshold int) (models.ScatterFrame, error) {
	dash, err := s.Current()
	if err != nil {
		return models.ScatterFrame{}, err
	}
	if !group.Valid() {
		return models.ScatterFrame{}, fmt.Errorf("%w: %d", models.ErrUnknownGroup, int(group))
	}
	frame, ok := dash.ScatterFrame(group, threshold)
	if !ok {
		return models.ScatterFrame{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrThresholdOutOfRange, threshold, s.opts.Range.Min, s.opts.Range.Max)
	}
	return frame, nil
}

func (s *DashboardService) BarFrame(threshold int) (models.BarFrame, error) {
	dash, err := s.Current()
	if err != nil {
		return models.BarFrame{}, err
	}
	frame, ok := dash.BarFrame(threshold)
	if !ok {
		return models.BarFrame{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrThresholdOutOfRange, threshold, s.opts.Range.Min, s.opts.Range.Max)
	}
	return frame, nil
}

// Build precomputes every scatter and bar frame of table for opts.Range.
func Build(table *models.BookingTable, opts DashboardOptions) *models.Dashboard {
	agg := NewAggregator(table, opts.YHeadroom)
	thresholds := opts.Range.Values()
	groups := models.AllGroups()

	scatter := models.ScatterFigure{
		Title:      ScatterTitle,
		Groups:     groups,
		Thresholds: thresholds,
		ColorScale: models.ReservationColorScale,
		MarkerSize: opts.MarkerSize,
		Frames:     make([]models.ThresholdFrames, 0, len(thresholds)),
	}
	bars := models.BarFigure{
		Title:      BarTitle,
		Groups:     models.NamedGroups(),
		Thresholds: thresholds,
		Frames:     make([]models.BarFrame, 0, len(thresholds)),
	}

	for _, t := range thresholds {
		traces := make([]models.ScatterFrame, 0, len(groups))
		for _, g := range groups {
			traces = append(traces, agg.BuildScatterFrame(g, t))
		}
		scatter.Frames = append(scatter.Frames, models.ThresholdFrames{Threshold: t, Traces: traces})
		bars.Frames = append(bars.Frames, agg.BarFrame(t))
	}

	summary := models.DatasetSummary{
		Source:    table.Source,
		Rows:      table.Len(),
		LoadedAt:  table.LoadedAt,
		MaxCounts: make(map[models.Group]int, len(groups)),
		Range:     opts.Range,
	}
	if bounds, ok := table.DateBounds(); ok {
		scatter.AxisRange = &bounds
		summary.DateRange = &bounds
	}
	for _, g := range groups {
		summary.MaxCounts[g] = table.MaxCount(g)
	}

	return models.NewDashboard(summary, scatter, bars)
}
