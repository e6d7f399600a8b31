package guardrail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScanner returns a fixed score or error.
type stubScanner struct {
	name  string
	score float64
	err   error
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Evaluate(_ context.Context, _ string) (float64, error) {
	return s.score, s.err
}

func TestEvaluatorReturnsAllScores(t *testing.T) {
	evaluator := NewEvaluator(
		&stubScanner{name: "first", score: 0.2},
		&stubScanner{name: "second", score: 0.9},
	)

	result, err := evaluator.Scan(context.Background(), "some text")
	require.NoError(t, err)

	assert.Len(t, result, 2)
	assert.Equal(t, 0.2, result["first"])
	assert.Equal(t, 0.9, result["second"])
}

func TestEvaluatorScannerUnavailable(t *testing.T) {
	backingErr := errors.New("model backend down")
	evaluator := NewEvaluator(
		&stubScanner{name: "ok", score: 0.0},
		&stubScanner{name: "broken", err: backingErr},
	)

	result, err := evaluator.Scan(context.Background(), "some text")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, backingErr)
	assert.Contains(t, err.Error(), "broken")
}

func TestPolicyDecide(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		result  ScanResult
		allowed bool
		scanner string
	}{
		{
			name:    "below threshold allows",
			policy:  Policy{"prompt_injection": 0.5},
			result:  ScanResult{"prompt_injection": 0.49},
			allowed: true,
		},
		{
			name:    "at threshold blocks",
			policy:  Policy{"prompt_injection": 0.5},
			result:  ScanResult{"prompt_injection": 0.5},
			allowed: false,
			scanner: "prompt_injection",
		},
		{
			name:    "non-gating scanner only annotates",
			policy:  Policy{"prompt_injection": 0.5},
			result:  ScanResult{"prompt_injection": 0.1, "regex": 1.0},
			allowed: true,
		},
		{
			name:    "per-scanner thresholds",
			policy:  Policy{"prompt_injection": 0.5, "regex": 1.0},
			result:  ScanResult{"prompt_injection": 0.1, "regex": 1.0},
			allowed: false,
			scanner: "regex",
		},
		{
			name:    "empty result allows",
			policy:  Policy{"prompt_injection": 0.5},
			result:  ScanResult{},
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := tt.policy.Decide(tt.result)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, tt.scanner, decision.Scanner)
				assert.GreaterOrEqual(t, decision.Score, decision.Threshold)
			}
		})
	}
}
