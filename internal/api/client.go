package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/internal/api/handlers"
)

// ErrJobFailed is returned by WaitForJob when the job ends in the failed state.
var ErrJobFailed = errors.New("job failed")

// ClientConfig holds retry settings for Client
type ClientConfig struct {
	RetryMaxAttempts int
	RetryDelay       time.Duration
	Timeout          time.Duration
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		RetryMaxAttempts: 3,
		RetryDelay:       2 * time.Second,
		Timeout:          30 * time.Second,
	}
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client calls the admin endpoints of a running server.
type Client struct {
	baseURL    string
	token      string
	config     ClientConfig
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a client for the server at baseURL (for example http://localhost:8080).
func NewClient(baseURL, token string, config ClientConfig, log *zap.Logger) *Client {
	if config.RetryMaxAttempts < 1 {
		config.RetryMaxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + APIBase,
		token:   token,
		config:  config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		log: log,
	}
}

// TriggerReload starts a background reload on the server.
func (c *Client) TriggerReload(ctx context.Context) (*handlers.ReloadResponse, error) {
	var resp handlers.ReloadResponse
	if err := c.do(ctx, http.MethodPost, "/admin/reload", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetJob fetches the status of a job.
func (c *Client) GetJob(ctx context.Context, id string) (*handlers.JobStatusResponse, error) {
	var resp struct {
		Job handlers.JobStatusResponse `json:"job"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/jobs/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp.Job, nil
}

// WaitForJob polls a job until it completes, fails or ctx ends.
func (c *Client) WaitForJob(ctx context.Context, id string, interval time.Duration) (*handlers.JobStatusResponse, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		switch job.Status {
		case "completed":
			return job, nil
		case "failed":
			return job, fmt.Errorf("%w: %s", ErrJobFailed, job.Error)
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}

// do performs a request with retries. GETs are retried on transport errors
// and 5xx responses; other methods only when the connection was never made,
// so a POST the server may have accepted is not sent twice.
func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	var lastError error

	for attempt := 1; attempt <= c.config.RetryMaxAttempts; attempt++ {
		err := c.once(ctx, method, path, out)
		if err == nil {
			return nil
		}
		lastError = err

		if !retryable(method, err) {
			if attempt == 1 {
				return err
			}
			return fmt.Errorf("request failed after %d attempts: %w", attempt, err)
		}
		if attempt == c.config.RetryMaxAttempts {
			break
		}

		backoff := c.config.RetryDelay * time.Duration(attempt)
		c.log.Warn("Request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.config.RetryMaxAttempts),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.config.RetryMaxAttempts, lastError)
}

func retryable(method string, err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return method == http.MethodGet && apiErr.StatusCode >= http.StatusInternalServerError
	}
	if method == http.MethodGet {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (c *Client) once(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope handlers.ErrorResponse
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
