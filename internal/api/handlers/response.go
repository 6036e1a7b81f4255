package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmagar/bookingcurve/internal/api/middleware"
	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/jmagar/bookingcurve/internal/services"
)

// Error codes returned in the error envelope
const (
	CodeInvalidGroup     = "INVALID_GROUP"
	CodeInvalidThreshold = "INVALID_THRESHOLD"
	CodeNotLoaded        = "NOT_LOADED"
	CodeJobNotFound      = "JOB_NOT_FOUND"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// ErrorResponse is the envelope every failed request returns
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	Timestamp string      `json:"timestamp"`
}

func errorResponse(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: c.GetString(middleware.RequestIDKey),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// serviceError maps dashboard service errors onto the envelope
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotLoaded):
		errorResponse(c, http.StatusServiceUnavailable, CodeNotLoaded, "Booking data has not been loaded yet")
	case errors.Is(err, services.ErrThresholdOutOfRange):
		errorResponse(c, http.StatusBadRequest, CodeInvalidThreshold, err.Error())
	case errors.Is(err, models.ErrUnknownGroup):
		errorResponse(c, http.StatusBadRequest, CodeInvalidGroup, err.Error())
	default:
		_ = c.Error(err)
		errorResponse(c, http.StatusInternalServerError, CodeInternal, "Internal server error occurred")
	}
}

// queryGroup reads the group query parameter, defaulting to the first group.
func queryGroup(c *gin.Context) (models.Group, bool) {
	raw := c.Query("group")
	if strings.TrimSpace(raw) == "" {
		return models.GroupRMA, true
	}
	g, err := models.ParseGroup(raw)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidGroup, err.Error())
		return 0, false
	}
	return g, true
}

// queryThreshold reads the threshold query parameter, defaulting to the range minimum.
func queryThreshold(c *gin.Context, rng models.ThresholdRange) (int, bool) {
	raw := c.Query("threshold")
	if strings.TrimSpace(raw) == "" {
		return rng.Min, true
	}
	t, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidThreshold, "threshold must be an integer")
		return 0, false
	}
	if !rng.Contains(t) {
		errorResponse(c, http.StatusBadRequest, CodeInvalidThreshold,
			"threshold must be between "+strconv.Itoa(rng.Min)+" and "+strconv.Itoa(rng.Max))
		return 0, false
	}
	return t, true
}
