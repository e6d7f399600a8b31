package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAsyncRecorderDrainsOnStop(t *testing.T) {
	backend := NewMemoryRecorder()
	recorder := NewAsyncRecorder(backend, zap.NewNop(), AsyncConfig{BufferSize: 100, Workers: 2})
	ctx := context.Background()

	traceID, err := recorder.BeginTrace(ctx, "classify", "input")
	require.NoError(t, err)
	require.NotEmpty(t, traceID)

	scoreID, err := recorder.RecordScore(ctx, traceID, "prompt_injection", 0.2)
	require.NoError(t, err)
	require.NotEmpty(t, scoreID)

	recorder.Stop()

	_, ok := backend.Trace(traceID)
	assert.True(t, ok, "trace should be submitted before Stop returns")
	score, ok := backend.Score(scoreID)
	require.True(t, ok, "score should be submitted before Stop returns")
	assert.Equal(t, 0.2, score.Value)
}

func TestAsyncRecorderUpdateScoreSynchronous(t *testing.T) {
	backend := NewMemoryRecorder()
	recorder := NewAsyncRecorder(backend, zap.NewNop(), DefaultAsyncConfig())
	defer recorder.Stop()
	ctx := context.Background()

	// Unknown pairs surface immediately; conversion depends on it.
	err := recorder.UpdateScore(ctx, "t1", "s1", "converted", true)
	assert.ErrorIs(t, err, ErrScoreNotFound)
}

func TestAsyncRecorderStopTwice(t *testing.T) {
	recorder := NewAsyncRecorder(NewMemoryRecorder(), zap.NewNop(), DefaultAsyncConfig())
	recorder.Stop()
	recorder.Stop()
}

func TestAsyncRecorderEnqueueAfterStop(t *testing.T) {
	recorder := NewAsyncRecorder(NewMemoryRecorder(), zap.NewNop(), DefaultAsyncConfig())
	recorder.Stop()

	// Ids are still issued; the event is dropped with a warning.
	traceID, err := recorder.BeginTrace(context.Background(), "classify", "input")
	require.NoError(t, err)
	assert.NotEmpty(t, traceID)
}
