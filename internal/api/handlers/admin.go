package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/jmagar/bookingcurve/internal/services"
)

type AdminHandler struct {
	Reloads *services.ReloadRunner
	Jobs    *models.JobManager
}

type ReloadResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type JobStatusResponse struct {
	JobID       string      `json:"job_id"`
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Message     string      `json:"message"`
	Error       string      `json:"error,omitempty"`
	Result      interface{} `json:"result,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	DurationMs  int64       `json:"duration_ms,omitempty"`
}

func NewAdminHandler(reloads *services.ReloadRunner) *AdminHandler {
	return &AdminHandler{
		Reloads: reloads,
		Jobs:    reloads.Jobs,
	}
}

func jobResponse(job models.Job) JobStatusResponse {
	response := JobStatusResponse{
		JobID:       job.ID,
		Type:        string(job.Type),
		Status:      string(job.Status),
		Message:     job.Message,
		Error:       job.Error,
		Result:      job.Result,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}

	if job.StartedAt != nil {
		if job.CompletedAt != nil {
			response.DurationMs = job.CompletedAt.Sub(*job.StartedAt).Milliseconds()
		} else if job.Status == models.JobStatusRunning {
			response.DurationMs = time.Since(*job.StartedAt).Milliseconds()
		}
	}
	return response
}

// Reload godoc
// @Summary Reload the booking table in the background
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 202 {object} ReloadResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /admin/reload [post]
func (h *AdminHandler) Reload(c *gin.Context) {
	job := h.Reloads.Start()

	c.JSON(http.StatusAccepted, ReloadResponse{
		Success: true,
		JobID:   job.ID,
		Status:  string(job.Status),
		Message: "Reload initiated",
	})
}

// GetJob godoc
// @Summary Get a reload job
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /admin/jobs/{id} [get]
func (h *AdminHandler) GetJob(c *gin.Context) {
	job, exists := h.Jobs.GetJob(c.Param("id"))
	if !exists {
		errorResponse(c, http.StatusNotFound, CodeJobNotFound, "Job not found")
		return
	}

	response := jobResponse(job)
	c.JSON(http.StatusOK, gin.H{
		"job":    response,
		"status": response.Status,
	})
}

// ListJobs godoc
// @Summary List reload jobs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum jobs returned (1-100)" default(10)
// @Param status query string false "Only jobs in this status"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /admin/jobs [get]
func (h *AdminHandler) ListJobs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}
	statusFilter := c.Query("status")

	// ListJobs is newest first
	jobs := []JobStatusResponse{}
	total := 0
	for _, job := range h.Jobs.ListJobs() {
		if statusFilter != "" && string(job.Status) != statusFilter {
			continue
		}
		total++
		if len(jobs) < limit {
			jobs = append(jobs, jobResponse(job))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs": jobs,
		"pagination": gin.H{
			"total": total,
			"limit": limit,
		},
	})
}
