package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/internal/models"
)

// DefaultReloadTimeout bounds one background reload.
const DefaultReloadTimeout = 5 * time.Minute

// ReloadResult is stored on a completed reload job.
type ReloadResult struct {
	Source     string `json:"source"`
	Rows       int    `json:"rows"`
	Frames     int    `json:"frames"`
	DurationMs int64  `json:"duration_ms"`
}

// ReloadRunner runs dashboard reloads as tracked jobs.
type ReloadRunner struct {
	Dashboard *DashboardService
	Jobs      *models.JobManager
	Timeout   time.Duration

	log *zap.Logger
}

func NewReloadRunner(dashboard *DashboardService, jobs *models.JobManager, log *zap.Logger) *ReloadRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReloadRunner{
		Dashboard: dashboard,
		Jobs:      jobs,
		Timeout:   DefaultReloadTimeout,
		log:       log,
	}
}

// Start queues a reload job and runs it in the background.
func (r *ReloadRunner) Start() models.Job {
	job := r.Jobs.CreateJob(models.JobTypeReload)
	_ = r.Jobs.UpdateJob(job.ID, func(j *models.Job) {
		j.Message = "Reload queued"
	})

	go r.Run(context.Background(), job.ID)

	job, _ = r.Jobs.GetJob(job.ID)
	return job
}

// Run executes the reload for an existing job and records the outcome on it.
func (r *ReloadRunner) Run(ctx context.Context, jobID string) error {
	if err := r.Jobs.Start(jobID); err != nil {
		return err
	}
	_ = r.Jobs.UpdateJob(jobID, func(j *models.Job) {
		j.Message = "Reloading booking table"
	})

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	dash, err := r.Dashboard.Reload(ctx)
	if err != nil {
		r.log.Warn("Reload job failed", zap.String("job_id", jobID), zap.Error(err))
		_ = r.Jobs.UpdateJob(jobID, func(j *models.Job) {
			j.Message = "Reload failed, previous data still served"
		})
		_ = r.Jobs.Finish(jobID, nil, err)
		return err
	}

	result := ReloadResult{
		Source:     dash.Summary.Source,
		Rows:       dash.Summary.Rows,
		Frames:     dash.FrameCount(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	_ = r.Jobs.UpdateJob(jobID, func(j *models.Job) {
		j.Message = "Reload completed"
	})
	return r.Jobs.Finish(jobID, result, nil)
}

// RunNow creates a job and reloads synchronously. Used by the scheduler.
func (r *ReloadRunner) RunNow(ctx context.Context) (models.Job, error) {
	job := r.Jobs.CreateJob(models.JobTypeReload)
	err := r.Run(ctx, job.ID)
	job, _ = r.Jobs.GetJob(job.ID)
	return job, err
}
