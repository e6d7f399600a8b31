// Package tracing records traces and scores against an external monitoring
// backend. The backend owns trace and score lifetimes; this package only
// issues identifiers and propagates them. All calls except UpdateScore are
// observability-only and safe to treat as best effort.
package tracing

import (
	"context"
	"errors"
	"time"
)

// ErrScoreNotFound is returned when a (trace_id, score_id) pair does not
// resolve on the backend.
var ErrScoreNotFound = errors.New("score not found")

// Value is a score value: float64, string, or bool.
type Value interface{}

// Trace is one logical unit-of-work record. The gateway only ever holds the
// ID; the record itself lives in the monitoring backend.
type Trace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Input     string    `json:"input,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Score is a named, typed, mutable value attached to exactly one trace.
type Score struct {
	ID        string    `json:"id"`
	TraceID   string    `json:"traceId"`
	Name      string    `json:"name"`
	Value     Value     `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder is the gate-facing trace recorder contract.
//
// BeginTrace and RecordScore issue identifiers client-side so the
// classification flow never blocks on the monitoring backend. UpdateScore is
// synchronous because ErrScoreNotFound is part of its contract.
type Recorder interface {
	// BeginTrace starts a unit-of-work trace and returns its id.
	BeginTrace(ctx context.Context, name, input string) (string, error)
	// RecordScore attaches a new named score to a trace and returns the
	// score id, the sole valid key for later updates.
	RecordScore(ctx context.Context, traceID, name string, value Value) (string, error)
	// UpdateScore mutates an existing score in place. Repeated updates with
	// the same final value are safe; the backend treats them as an upsert.
	UpdateScore(ctx context.Context, traceID, scoreID, name string, value Value) error
}

// Backend is the id-accepting submission contract implemented by concrete
// backends and consumed by the async dispatcher.
type Backend interface {
	SubmitTrace(ctx context.Context, trace Trace) error
	SubmitScore(ctx context.Context, score Score) error
	UpdateScore(ctx context.Context, traceID, scoreID, name string, value Value) error
}
