// Package scheduler runs the periodic reload and job cleanup tasks on gocron.
package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/internal/services"
)

const (
	ReloadJobName  = "reload-bookings"
	CleanupJobName = "cleanup-jobs"

	// JobRetention is how long finished reload jobs stay visible.
	JobRetention = 24 * time.Hour
)

var (
	ErrEmptyJobName  = errors.New("job name is required")
	ErrEmptyCronExpr = errors.New("cron expression is required")
)

// Service wraps a gocron scheduler.
type Service struct {
	scheduler gocron.Scheduler
	log       *zap.Logger
	stopOnce  sync.Once
	stopErr   error
}

func New(log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error("Scheduler job panicked",
						zap.String("job_id", jobID.String()),
						zap.String("job_name", jobName),
						zap.Any("panic", recoverData),
					)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Service{scheduler: sched, log: log}, nil
}

// Start begins running scheduled jobs.
func (s *Service) Start() {
	s.log.Info("Scheduler starting", zap.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop shuts down the scheduler and waits for running jobs.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.log.Info("Scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

// AddCronJob registers task on a five-field cron expression.
func (s *Service) AddCronJob(name, cronExpr string, task func()) (gocron.Job, error) {
	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}
	return s.addJob(name, gocron.CronJob(cronExpr, false), task, zap.String("cron", cronExpr))
}

// AddIntervalJob registers task every interval.
func (s *Service) AddIntervalJob(name string, interval time.Duration, task func()) (gocron.Job, error) {
	return s.addJob(name, gocron.DurationJob(interval), task, zap.Duration("interval", interval))
}

func (s *Service) addJob(name string, def gocron.JobDefinition, task func(), field zap.Field) (gocron.Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}
	jobLogger := s.log.With(zap.String("job_name", name), field)

	wrappedTask := func() {
		jobLogger.Debug("Scheduler job started")
		task()
		jobLogger.Debug("Scheduler job completed")
	}

	job, err := s.scheduler.NewJob(def, gocron.NewTask(wrappedTask), gocron.WithName(name))
	if err != nil {
		jobLogger.Error("Failed to register scheduler job", zap.Error(err))
		return nil, err
	}
	jobLogger.Info("Scheduler job registered")
	return job, nil
}

// RegisterReload reloads the dashboard on cronExpr and prunes finished jobs
// hourly. An empty cronExpr registers only the cleanup.
func (s *Service) RegisterReload(runner *services.ReloadRunner, cronExpr string) error {
	if strings.TrimSpace(cronExpr) != "" {
		_, err := s.AddCronJob(ReloadJobName, cronExpr, func() {
			// failures are logged and counted by the runner
			_, _ = runner.RunNow(context.Background())
		})
		if err != nil {
			return err
		}
	}

	_, err := s.AddIntervalJob(CleanupJobName, time.Hour, func() {
		if n := runner.Jobs.CleanupOldJobs(JobRetention); n > 0 {
			s.log.Info("Pruned finished jobs", zap.Int("count", n))
		}
	})
	return err
}
