package guardrail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexScannerBlockedPolarity(t *testing.T) {
	scanner, err := NewRegexScanner([]string{`(?i)forbidden`, `\d{3}-\d{2}-\d{4}`}, PolarityBlocked, MatchSubstring, false)
	require.NoError(t, err)

	tests := []struct {
		name  string
		text  string
		score float64
	}{
		{"clean text", "a perfectly normal description", 0.0},
		{"blocked word", "this contains a Forbidden term", 1.0},
		{"ssn shaped number", "my number is 123-45-6789 ok", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := scanner.Evaluate(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.score, score)
		})
	}
}

func TestRegexScannerAllowedPolarity(t *testing.T) {
	scanner, err := NewRegexScanner([]string{`^[a-z ]+$`}, PolarityAllowed, MatchSubstring, false)
	require.NoError(t, err)

	score, err := scanner.Evaluate(context.Background(), "all lowercase words")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = scanner.Evaluate(context.Background(), "Contains UPPERCASE")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestRegexScannerFullMatchMode(t *testing.T) {
	scanner, err := NewRegexScanner([]string{`secret`}, PolarityBlocked, MatchFull, false)
	require.NoError(t, err)

	// Substring occurrence is not enough in full-match mode.
	score, err := scanner.Evaluate(context.Background(), "the secret is out")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = scanner.Evaluate(context.Background(), "secret")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestRegexScannerRedact(t *testing.T) {
	scanner, err := NewRegexScanner([]string{`\d{3}-\d{2}-\d{4}`}, PolarityBlocked, MatchSubstring, true)
	require.NoError(t, err)

	redacted := scanner.Redact("ssn 123-45-6789 here")
	assert.Equal(t, "ssn [REDACTED] here", redacted)
}

func TestRegexScannerRedactDisabled(t *testing.T) {
	scanner, err := NewRegexScanner([]string{`\d+`}, PolarityBlocked, MatchSubstring, false)
	require.NoError(t, err)

	text := "number 42"
	assert.Equal(t, text, scanner.Redact(text))
}

func TestRegexScannerInvalidPattern(t *testing.T) {
	_, err := NewRegexScanner([]string{`(unclosed`}, PolarityBlocked, MatchSubstring, false)
	assert.Error(t, err)
}
