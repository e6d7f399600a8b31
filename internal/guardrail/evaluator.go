package guardrail

import (
	"context"
	"fmt"
)

// Evaluator runs an ordered set of scanners against input text. It returns
// the full score map, not just a verdict, so callers can record every score
// even when only one threshold gates the request.
type Evaluator struct {
	scanners []Scanner
}

// NewEvaluator creates an Evaluator over the given scanners. Order is
// preserved; each scanner runs at most once per request.
func NewEvaluator(scanners ...Scanner) *Evaluator {
	return &Evaluator{scanners: scanners}
}

// Scan evaluates every configured scanner. A scanner that cannot execute
// fails the whole scan; whether that is fail-open or fail-closed is the
// caller's policy, not the evaluator's.
func (e *Evaluator) Scan(ctx context.Context, text string) (ScanResult, error) {
	result := make(ScanResult, len(e.scanners))
	for _, scanner := range e.scanners {
		score, err := scanner.Evaluate(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("scanner %s unavailable: %w", scanner.Name(), err)
		}
		result[scanner.Name()] = score
	}
	return result, nil
}
