package models

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

type JobType string

const (
	JobTypeReload JobType = "reload"
)

type Job struct {
	ID          string     `json:"id"`
	Type        JobType    `json:"type"`
	Status      JobStatus  `json:"status"`
	Message     string     `json:"message"`
	Error       string     `json:"error,omitempty"`
	Result      any        `json:"result,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Done reports whether the job reached a terminal status.
func (j *Job) Done() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// JobManager tracks background jobs in memory. Returned jobs are copies.
type JobManager struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*Job),
	}
}

func (jm *JobManager) CreateJob(jobType JobType) Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
	}

	jm.jobs[job.ID] = job
	return *job
}

func (jm *JobManager) GetJob(id string) (Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return Job{}, false
	}
	return *job, true
}

func (jm *JobManager) UpdateJob(id string, updates func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return ErrJobNotFound
	}

	updates(job)
	return nil
}

// Start marks a job running.
func (jm *JobManager) Start(id string) error {
	return jm.UpdateJob(id, func(j *Job) {
		now := time.Now()
		j.Status = JobStatusRunning
		j.StartedAt = &now
	})
}

// Finish records the outcome of a job. A nil err completes it with result.
func (jm *JobManager) Finish(id string, result any, err error) error {
	return jm.UpdateJob(id, func(j *Job) {
		now := time.Now()
		j.CompletedAt = &now
		if err != nil {
			j.Status = JobStatusFailed
			j.Error = err.Error()
			return
		}
		j.Status = JobStatusCompleted
		j.Result = result
	})
}

// ListJobs returns every job, newest first.
func (jm *JobManager) ListJobs() []Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})

	return jobs
}

func (jm *JobManager) CleanupOldJobs(maxAge time.Duration) int {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0

	for id, job := range jm.jobs {
		if job.CreatedAt.Before(cutoff) && job.Done() {
			delete(jm.jobs, id)
			cleaned++
		}
	}

	return cleaned
}

var ErrJobNotFound = errors.New("job not found")
