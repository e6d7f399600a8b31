package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPConfig holds the monitoring backend connection settings. Credentials
// are supplied out-of-band (see config.MonitoringConfig).
type HTTPConfig struct {
	BaseURL    string
	PublicKey  string
	SecretKey  string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPRecorder talks to the remote monitoring backend. It implements both
// Recorder (synchronous) and Backend (for the async dispatcher).
type HTTPRecorder struct {
	config     HTTPConfig
	httpClient *http.Client
}

// NewHTTPRecorder creates a recorder for the configured monitoring backend.
func NewHTTPRecorder(config HTTPConfig) *HTTPRecorder {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &HTTPRecorder{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BeginTrace implements Recorder
func (r *HTTPRecorder) BeginTrace(ctx context.Context, name, input string) (string, error) {
	trace := Trace{
		ID:        uuid.NewString(),
		Name:      name,
		Input:     input,
		Timestamp: time.Now().UTC(),
	}
	// The id is issued client-side so it stays valid even when submission
	// fails; the caller logs the error and carries on.
	if err := r.SubmitTrace(ctx, trace); err != nil {
		return trace.ID, err
	}
	return trace.ID, nil
}

// RecordScore implements Recorder
func (r *HTTPRecorder) RecordScore(ctx context.Context, traceID, name string, value Value) (string, error) {
	score := Score{
		ID:        uuid.NewString(),
		TraceID:   traceID,
		Name:      name,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}
	if err := r.SubmitScore(ctx, score); err != nil {
		return score.ID, err
	}
	return score.ID, nil
}

// UpdateScore implements Recorder and Backend
func (r *HTTPRecorder) UpdateScore(ctx context.Context, traceID, scoreID, name string, value Value) error {
	payload := map[string]interface{}{
		"traceId": traceID,
		"name":    name,
		"value":   value,
	}
	status, err := r.do(ctx, http.MethodPatch, "/api/public/scores/"+scoreID, payload)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return ErrScoreNotFound
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("monitoring backend returned status %d", status)
	}
	return nil
}

// SubmitTrace implements Backend
func (r *HTTPRecorder) SubmitTrace(ctx context.Context, trace Trace) error {
	status, err := r.do(ctx, http.MethodPost, "/api/public/traces", trace)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("monitoring backend returned status %d", status)
	}
	return nil
}

// SubmitScore implements Backend
func (r *HTTPRecorder) SubmitScore(ctx context.Context, score Score) error {
	status, err := r.do(ctx, http.MethodPost, "/api/public/scores", score)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("monitoring backend returned status %d", status)
	}
	return nil
}

// do sends one JSON request with retry on 5xx and transport errors.
func (r *HTTPRecorder) do(ctx context.Context, method, path string, payload interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal monitoring payload: %w", err)
	}

	var status int
	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, r.config.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return 0, fmt.Errorf("failed to create monitoring request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(r.config.PublicKey, r.config.SecretKey)

		resp, err := r.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		status = resp.StatusCode
		if status < 500 {
			return status, nil
		}
		lastErr = fmt.Errorf("monitoring backend returned status %d", status)
	}

	return status, lastErr
}
