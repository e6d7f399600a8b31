// Package gate orchestrates one classification request: guardrail
// evaluation, trace correlation, the downstream classifier call, and the
// initial conversion score. Guardrail evaluation always runs before the
// classifier; rejected input never reaches it.
package gate

import (
	"context"
	"strings"

	"github.com/upb/classification-gateway/internal/guardrail"
	"github.com/upb/classification-gateway/internal/tracing"
	"github.com/upb/classification-gateway/models"
	"github.com/upb/classification-gateway/services"
	"github.com/upb/classification-gateway/services/classifier"
	"go.uber.org/zap"
)

const (
	traceName            = "classify"
	scoreConverted       = "converted"
	scoreClassifySuccess = "classification_success"
)

// Config holds the gate's policy decisions.
type Config struct {
	// Policy maps scanner name to blocking threshold. Scanners not listed
	// only annotate the trace.
	Policy guardrail.Policy
	// FailOpen lets requests through when a scanner cannot execute. The
	// default is fail-closed: unavailability rejects the request.
	FailOpen bool
}

// Response is the gate's answer for an accepted request. ScoreID keys the
// converted score for the later conversion callback; it is empty when the
// initial score could not be issued.
type Response struct {
	TraceID string                       `json:"trace_id"`
	ScoreID string                       `json:"score_id"`
	Result  *models.ClassificationResult `json:"result"`
}

// Service is the classification gate.
type Service struct {
	evaluator  *guardrail.Evaluator
	recorder   tracing.Recorder
	classifier classifier.Classifier
	config     Config
	logger     *zap.Logger
}

// NewService creates a classification gate.
func NewService(evaluator *guardrail.Evaluator, recorder tracing.Recorder, clf classifier.Classifier, config Config, logger *zap.Logger) *Service {
	return &Service{
		evaluator:  evaluator,
		recorder:   recorder,
		classifier: clf,
		config:     config,
		logger:     logger,
	}
}

// Handle processes one classification request end to end.
//
// Monitoring calls are observability-only: failures are logged, never
// raised, so the blocking decision stays authoritative even when telemetry
// is down. A caller disconnect after the guardrail check leaves an already
// recorded partial trace valid; it reflects a real partial execution.
func (s *Service) Handle(ctx context.Context, description string) (*Response, error) {
	if strings.TrimSpace(description) == "" {
		// No trace is opened and no scanner runs for empty input.
		return nil, services.ErrInvalidInput
	}

	traceID, err := s.recorder.BeginTrace(ctx, traceName, description)
	if err != nil {
		s.logger.Warn("failed to open trace", zap.Error(err))
	}

	scores, err := s.evaluator.Scan(ctx, description)
	if err != nil {
		if !s.config.FailOpen {
			return nil, services.NewDomainError(services.ErrorTypeExternal, "guardrail scanner unavailable", err)
		}
		s.logger.Warn("guardrail scan failed, continuing fail-open",
			zap.String("trace_id", traceID),
			zap.Error(err))
		scores = guardrail.ScanResult{}
	}

	// Record every scanner score, not just the gating one.
	for name, score := range scores {
		if _, err := s.recorder.RecordScore(ctx, traceID, name, score); err != nil {
			s.logger.Warn("failed to record scanner score",
				zap.String("trace_id", traceID),
				zap.String("scanner", name),
				zap.Error(err))
		}
	}

	decision := s.config.Policy.Decide(scores)
	if !decision.Allowed {
		s.logger.Info("input blocked by guardrail",
			zap.String("trace_id", traceID),
			zap.String("scanner", decision.Scanner),
			zap.Float64("score", decision.Score),
			zap.Float64("threshold", decision.Threshold))
		return nil, services.ErrBlockedInput.
			WithDetail("scanner", decision.Scanner).
			WithDetail("score", decision.Score).
			WithDetail("threshold", decision.Threshold)
	}

	result, err := s.classifier.Classify(ctx, description)
	s.recordOutcome(ctx, traceID, err == nil)
	if err != nil {
		return nil, err
	}

	scoreID, err := s.recorder.RecordScore(ctx, traceID, scoreConverted, false)
	if err != nil {
		s.logger.Warn("failed to record converted score",
			zap.String("trace_id", traceID),
			zap.Error(err))
		scoreID = ""
	}

	return &Response{
		TraceID: traceID,
		ScoreID: scoreID,
		Result:  result,
	}, nil
}

func (s *Service) recordOutcome(ctx context.Context, traceID string, success bool) {
	if _, err := s.recorder.RecordScore(ctx, traceID, scoreClassifySuccess, success); err != nil {
		s.logger.Warn("failed to record classification outcome",
			zap.String("trace_id", traceID),
			zap.Error(err))
	}
}
