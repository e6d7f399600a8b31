package guardrail

import (
	"context"
	"fmt"
	"regexp"
)

// RegexScannerName is the scanner name under which the regex risk score is
// recorded.
const RegexScannerName = "regex"

// Polarity controls how pattern matches translate into risk.
type Polarity int

const (
	// PolarityBlocked treats a match as risky: any match scores 1.0.
	PolarityBlocked Polarity = iota
	// PolarityAllowed treats patterns as an allow-list: input that matches
	// none of them scores 1.0.
	PolarityAllowed
)

// MatchMode controls whether a pattern must cover the whole input.
type MatchMode int

const (
	MatchSubstring MatchMode = iota
	MatchFull
)

// RegexScanner scores input against a configured pattern set. The score is
// boolean collapsed to {0,1}.
type RegexScanner struct {
	patterns []*regexp.Regexp
	polarity Polarity
	mode     MatchMode
	redact   bool
}

// NewRegexScanner compiles the pattern set. Invalid patterns are a
// configuration error, not a runtime one.
func NewRegexScanner(patterns []string, polarity Polarity, mode MatchMode, redact bool) (*RegexScanner, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &RegexScanner{
		patterns: compiled,
		polarity: polarity,
		mode:     mode,
		redact:   redact,
	}, nil
}

// Name implements Scanner
func (s *RegexScanner) Name() string {
	return RegexScannerName
}

// Evaluate implements Scanner
func (s *RegexScanner) Evaluate(ctx context.Context, text string) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	matched := false
	for _, re := range s.patterns {
		if s.matches(re, text) {
			matched = true
			break
		}
	}

	switch s.polarity {
	case PolarityAllowed:
		if !matched {
			return 1.0, nil
		}
	default:
		if matched {
			return 1.0, nil
		}
	}
	return 0.0, nil
}

// Redact replaces blocked-pattern matches with a placeholder. It is a no-op
// unless the scanner was configured with redaction and blocked polarity.
func (s *RegexScanner) Redact(text string) string {
	if !s.redact || s.polarity != PolarityBlocked {
		return text
	}
	for _, re := range s.patterns {
		text = re.ReplaceAllString(text, "[REDACTED]")
	}
	return text
}

func (s *RegexScanner) matches(re *regexp.Regexp, text string) bool {
	if s.mode == MatchFull {
		loc := re.FindStringIndex(text)
		return loc != nil && loc[0] == 0 && loc[1] == len(text)
	}
	return re.MatchString(text)
}
