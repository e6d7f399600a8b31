package guardrail

import (
	"context"
	"regexp"
)

// InjectionScannerName is the scanner name under which the prompt-injection
// risk score is recorded.
const InjectionScannerName = "prompt_injection"

// injectionClass groups patterns of one attack family with the confidence
// and weight assigned to a match.
type injectionClass struct {
	name       string
	confidence float64
	weight     float64
	patterns   []*regexp.Regexp
}

var injectionClasses = []injectionClass{
	{
		name:       "instruction_override",
		confidence: 0.9,
		weight:     1.5,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)ignore\s+(previous|all|any|above|prior)\s+(instructions?|prompts?|commands?)`),
			regexp.MustCompile(`(?i)forget\s+(all\s+|everything\s+)?(your|the|previous|prior|above)\s+(instructions?|rules|commands?)`),
			regexp.MustCompile(`(?i)disregard\s+(all|previous|above|any)\s+(instructions?|rules|commands?)`),
			regexp.MustCompile(`(?i)override\s+(all|previous|system)\s+(instructions?|rules|settings?)`),
			regexp.MustCompile(`(?i)start\s+over\s+with\s+new\s+instructions?`),
		},
	},
	{
		name:       "system_prompt_leak",
		confidence: 0.9,
		weight:     1.5,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(show|give|send)\s+(me\s+)?(your|the)\s+(system\s+)?(prompt|instructions?)`),
			regexp.MustCompile(`(?i)what\s+(is|are|was|were)\s+(your|the)\s+(system|original|initial)\s+(prompt|instructions?)`),
			regexp.MustCompile(`(?i)(reveal|print|repeat)\s+(your|the)\s+(system|hidden|original)\s+(prompt|instructions?)`),
		},
	},
	{
		name:       "role_manipulation",
		confidence: 0.85,
		weight:     1.0,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(you|your)\s+(are|role|identity)\s+(now|is|changed)`),
			regexp.MustCompile(`(?i)pretend\s+(to\s+)?be\s+(a|an)`),
			regexp.MustCompile(`(?i)act\s+as\s+(if\s+)?(you|you're|you\s+are)`),
			regexp.MustCompile(`(?i)from\s+now\s+on[,]?\s+(you|your)\s+(are|will)`),
		},
	},
	{
		name:       "jailbreak",
		confidence: 0.95,
		weight:     2.0,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)DAN\s+mode`),
			regexp.MustCompile(`(?i)developer\s+mode`),
			regexp.MustCompile(`(?i)jailbreak`),
			regexp.MustCompile(`(?i)without\s+(any|ethical|moral)\s+(restrictions?|limitations?|guidelines?)`),
		},
	},
	{
		name:       "delimiter_attack",
		confidence: 0.8,
		weight:     1.0,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(\[SYSTEM\]|\[\/SYSTEM\]|\[USER\]|\[\/USER\]|\[ASSISTANT\]|\[\/ASSISTANT\])`),
			regexp.MustCompile(`(<\|system\|>|<\|user\|>|<\|assistant\|>|<\|end\|>)`),
			regexp.MustCompile(`###\s*(SYSTEM|USER|ASSISTANT|INSTRUCTION)`),
		},
	},
}

// InjectionScanner detects prompt-injection attempts with regex pattern
// classes. The emitted score is the weighted average confidence of the
// matched classes, 0.0 when nothing matches.
type InjectionScanner struct {
	classes []injectionClass
}

// NewInjectionScanner creates an InjectionScanner with the built-in pattern set.
func NewInjectionScanner() *InjectionScanner {
	return &InjectionScanner{classes: injectionClasses}
}

// Name implements Scanner
func (s *InjectionScanner) Name() string {
	return InjectionScannerName
}

// Evaluate implements Scanner
func (s *InjectionScanner) Evaluate(ctx context.Context, text string) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	var totalConfidence, totalWeight float64
	for _, class := range s.classes {
		for _, pattern := range class.patterns {
			if pattern.MatchString(text) {
				totalConfidence += class.confidence * class.weight
				totalWeight += class.weight
				break
			}
		}
	}

	if totalWeight == 0 {
		return 0.0, nil
	}

	score := totalConfidence / totalWeight
	if score > 1.0 {
		score = 1.0
	}
	return score, nil
}
