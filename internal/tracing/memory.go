package tracing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRecorder is an in-process Recorder and Backend. It backs tests and
// local development when no monitoring credentials are configured.
type MemoryRecorder struct {
	mu     sync.RWMutex
	traces map[string]Trace
	scores map[string]Score // keyed by score id
}

// NewMemoryRecorder creates an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		traces: make(map[string]Trace),
		scores: make(map[string]Score),
	}
}

// BeginTrace implements Recorder
func (r *MemoryRecorder) BeginTrace(ctx context.Context, name, input string) (string, error) {
	trace := Trace{
		ID:        uuid.NewString(),
		Name:      name,
		Input:     input,
		Timestamp: time.Now().UTC(),
	}
	if err := r.SubmitTrace(ctx, trace); err != nil {
		return "", err
	}
	return trace.ID, nil
}

// RecordScore implements Recorder
func (r *MemoryRecorder) RecordScore(ctx context.Context, traceID, name string, value Value) (string, error) {
	score := Score{
		ID:        uuid.NewString(),
		TraceID:   traceID,
		Name:      name,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}
	if err := r.SubmitScore(ctx, score); err != nil {
		return "", err
	}
	return score.ID, nil
}

// UpdateScore implements Recorder and Backend
func (r *MemoryRecorder) UpdateScore(ctx context.Context, traceID, scoreID, name string, value Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	score, ok := r.scores[scoreID]
	if !ok || score.TraceID != traceID {
		return ErrScoreNotFound
	}

	score.Name = name
	score.Value = value
	score.Timestamp = time.Now().UTC()
	r.scores[scoreID] = score
	return nil
}

// SubmitTrace implements Backend
func (r *MemoryRecorder) SubmitTrace(_ context.Context, trace Trace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traces[trace.ID] = trace
	return nil
}

// SubmitScore implements Backend
func (r *MemoryRecorder) SubmitScore(_ context.Context, score Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[score.ID] = score
	return nil
}

// Trace returns a stored trace by id.
func (r *MemoryRecorder) Trace(traceID string) (Trace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trace, ok := r.traces[traceID]
	return trace, ok
}

// Score returns a stored score by id.
func (r *MemoryRecorder) Score(scoreID string) (Score, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	score, ok := r.scores[scoreID]
	return score, ok
}

// Traces returns all stored traces.
func (r *MemoryRecorder) Traces() []Trace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Trace, 0, len(r.traces))
	for _, trace := range r.traces {
		out = append(out, trace)
	}
	return out
}

// ScoresByTrace returns all scores recorded against a trace.
func (r *MemoryRecorder) ScoresByTrace(traceID string) []Score {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Score
	for _, score := range r.scores {
		if score.TraceID == traceID {
			out = append(out, score)
		}
	}
	return out
}
