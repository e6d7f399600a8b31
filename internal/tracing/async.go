package tracing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AsyncConfig holds configuration for the async dispatcher.
type AsyncConfig struct {
	BufferSize int // size of the event buffer channel
	Workers    int // number of concurrent submission workers
}

// DefaultAsyncConfig returns the default dispatcher configuration.
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		BufferSize: 1000,
		Workers:    2,
	}
}

// event is one pending submission to the monitoring backend.
type event struct {
	kind   string
	submit func(ctx context.Context) error
}

// AsyncRecorder wraps a Backend with a fire-and-forget dispatcher. Trace and
// score ids are issued synchronously; submission happens on a worker pool so
// the classification decision never waits on the monitoring backend. When
// the buffer is full the event is dropped and logged, never blocked on.
//
// UpdateScore stays synchronous: the conversion path needs ErrScoreNotFound.
type AsyncRecorder struct {
	backend Backend
	logger  *zap.Logger
	events  chan event

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewAsyncRecorder creates the dispatcher and starts its workers.
func NewAsyncRecorder(backend Backend, logger *zap.Logger, config AsyncConfig) *AsyncRecorder {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultAsyncConfig().BufferSize
	}
	if config.Workers <= 0 {
		config.Workers = DefaultAsyncConfig().Workers
	}

	r := &AsyncRecorder{
		backend: backend,
		logger:  logger,
		events:  make(chan event, config.BufferSize),
	}

	for i := 0; i < config.Workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	return r
}

// BeginTrace implements Recorder
func (r *AsyncRecorder) BeginTrace(ctx context.Context, name, input string) (string, error) {
	trace := Trace{
		ID:        uuid.NewString(),
		Name:      name,
		Input:     input,
		Timestamp: time.Now().UTC(),
	}
	r.enqueue(event{
		kind: "trace",
		submit: func(ctx context.Context) error {
			return r.backend.SubmitTrace(ctx, trace)
		},
	})
	return trace.ID, nil
}

// RecordScore implements Recorder
func (r *AsyncRecorder) RecordScore(ctx context.Context, traceID, name string, value Value) (string, error) {
	score := Score{
		ID:        uuid.NewString(),
		TraceID:   traceID,
		Name:      name,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}
	r.enqueue(event{
		kind: "score",
		submit: func(ctx context.Context) error {
			return r.backend.SubmitScore(ctx, score)
		},
	})
	return score.ID, nil
}

// UpdateScore implements Recorder
func (r *AsyncRecorder) UpdateScore(ctx context.Context, traceID, scoreID, name string, value Value) error {
	return r.backend.UpdateScore(ctx, traceID, scoreID, name, value)
}

// Stop drains queued events and waits for the workers to finish.
func (r *AsyncRecorder) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.events)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *AsyncRecorder) enqueue(ev event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		r.logger.Warn("monitoring event dropped: recorder stopped",
			zap.String("kind", ev.kind))
		return
	}

	select {
	case r.events <- ev:
	default:
		r.logger.Warn("monitoring event dropped: buffer full",
			zap.String("kind", ev.kind))
	}
}

func (r *AsyncRecorder) worker(id int) {
	defer r.wg.Done()

	for ev := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := ev.submit(ctx); err != nil {
			r.logger.Warn("monitoring submission failed",
				zap.String("kind", ev.kind),
				zap.String("worker", fmt.Sprintf("worker-%d", id)),
				zap.Error(err))
		}
		cancel()
	}
}
