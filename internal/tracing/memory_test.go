package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecorderRecordAndUpdate(t *testing.T) {
	recorder := NewMemoryRecorder()
	ctx := context.Background()

	traceID, err := recorder.BeginTrace(ctx, "classify", "some input")
	require.NoError(t, err)
	require.NotEmpty(t, traceID)

	scoreID, err := recorder.RecordScore(ctx, traceID, "converted", false)
	require.NoError(t, err)
	require.NotEmpty(t, scoreID)

	score, ok := recorder.Score(scoreID)
	require.True(t, ok)
	assert.Equal(t, false, score.Value)
	assert.Equal(t, traceID, score.TraceID)

	err = recorder.UpdateScore(ctx, traceID, scoreID, "converted", true)
	require.NoError(t, err)

	score, ok = recorder.Score(scoreID)
	require.True(t, ok)
	assert.Equal(t, true, score.Value)
}

func TestMemoryRecorderUpdateIdempotent(t *testing.T) {
	recorder := NewMemoryRecorder()
	ctx := context.Background()

	traceID, err := recorder.BeginTrace(ctx, "classify", "input")
	require.NoError(t, err)
	scoreID, err := recorder.RecordScore(ctx, traceID, "converted", false)
	require.NoError(t, err)

	require.NoError(t, recorder.UpdateScore(ctx, traceID, scoreID, "converted", true))
	require.NoError(t, recorder.UpdateScore(ctx, traceID, scoreID, "converted", true))

	score, ok := recorder.Score(scoreID)
	require.True(t, ok)
	assert.Equal(t, true, score.Value)
}

func TestMemoryRecorderUpdateUnknownScore(t *testing.T) {
	recorder := NewMemoryRecorder()
	ctx := context.Background()

	err := recorder.UpdateScore(ctx, "t1", "s1", "converted", true)
	assert.ErrorIs(t, err, ErrScoreNotFound)
}

func TestMemoryRecorderUpdateWrongTrace(t *testing.T) {
	recorder := NewMemoryRecorder()
	ctx := context.Background()

	traceID, err := recorder.BeginTrace(ctx, "classify", "input")
	require.NoError(t, err)
	scoreID, err := recorder.RecordScore(ctx, traceID, "converted", false)
	require.NoError(t, err)

	// The score id alone is not enough; the pair must resolve.
	err = recorder.UpdateScore(ctx, "other-trace", scoreID, "converted", true)
	assert.ErrorIs(t, err, ErrScoreNotFound)
}

func TestMemoryRecorderScoresByTrace(t *testing.T) {
	recorder := NewMemoryRecorder()
	ctx := context.Background()

	traceID, err := recorder.BeginTrace(ctx, "classify", "input")
	require.NoError(t, err)

	_, err = recorder.RecordScore(ctx, traceID, "prompt_injection", 0.1)
	require.NoError(t, err)
	_, err = recorder.RecordScore(ctx, traceID, "converted", false)
	require.NoError(t, err)

	scores := recorder.ScoresByTrace(traceID)
	assert.Len(t, scores, 2)
}
