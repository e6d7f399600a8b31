// Package guardrail inspects raw input text before it is allowed to reach
// the downstream classifier. An ordered list of scanners each emits a risk
// score in [0,1]; a separate blocking policy decides which scores gate the
// request and which only annotate the trace.
package guardrail

import "context"

// Scanner evaluates input text and emits a risk score in [0,1].
// Scanners must be side-effect free and deterministic for a given input.
type Scanner interface {
	Name() string
	Evaluate(ctx context.Context, text string) (float64, error)
}

// ScanResult maps scanner name to its risk score for one request.
type ScanResult map[string]float64

// Decision is the outcome of applying the blocking policy to a scan result.
// It is used only to decide control flow and is never stored.
type Decision struct {
	Allowed   bool
	Scanner   string
	Score     float64
	Threshold float64
}

// Policy maps scanner name to its blocking threshold. Scanners absent from
// the map only annotate; their scores are recorded but never gate.
type Policy map[string]float64

// Decide applies the policy to a scan result. The first scanner whose score
// reaches its threshold rejects the request.
func (p Policy) Decide(result ScanResult) Decision {
	for name, threshold := range p {
		score, ok := result[name]
		if !ok {
			continue
		}
		if score >= threshold {
			return Decision{
				Allowed:   false,
				Scanner:   name,
				Score:     score,
				Threshold: threshold,
			}
		}
	}
	return Decision{Allowed: true}
}
