// Package conversion handles the out-of-band confirmation that a
// classification result was acted upon. It arrives any time after the
// original response; no time bound is enforced.
package conversion

import (
	"context"
	"errors"

	"github.com/upb/classification-gateway/internal/tracing"
	"github.com/upb/classification-gateway/services"
	"go.uber.org/zap"
)

const scoreConverted = "converted"

// Service flips a previously issued converted score to true.
type Service struct {
	recorder tracing.Recorder
	logger   *zap.Logger
}

// NewService creates a conversion service.
func NewService(recorder tracing.Recorder, logger *zap.Logger) *Service {
	return &Service{
		recorder: recorder,
		logger:   logger,
	}
}

// Convert marks the (traceID, scoreID) pair as converted. The update is an
// upsert on the backend, so repeating it with the same final value is safe.
func (s *Service) Convert(ctx context.Context, traceID, scoreID string) error {
	err := s.recorder.UpdateScore(ctx, traceID, scoreID, scoreConverted, true)
	if err != nil {
		if errors.Is(err, tracing.ErrScoreNotFound) {
			return services.ErrScoreNotFound.
				WithDetail("trace_id", traceID).
				WithDetail("score_id", scoreID)
		}
		return services.WrapExternal("failed to update conversion score", err)
	}

	s.logger.Info("conversion recorded",
		zap.String("trace_id", traceID),
		zap.String("score_id", scoreID))
	return nil
}
