package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/upb/classification-gateway/middleware"
	"github.com/upb/classification-gateway/utils"
	"go.uber.org/zap"
)

// ConvertRequest represents the POST /convert body
type ConvertRequest struct {
	TraceID string `json:"trace_id" validate:"required"`
	ScoreID string `json:"score_id" validate:"required"`
}

// ConversionService defines the conversion operations the handler needs
type ConversionService interface {
	Convert(ctx context.Context, traceID, scoreID string) error
}

// ConvertHandler handles conversion callback HTTP requests
type ConvertHandler struct {
	service ConversionService
	logger  *zap.Logger
}

// NewConvertHandler creates a new ConvertHandler
func NewConvertHandler(service ConversionService, logger *zap.Logger) *ConvertHandler {
	return &ConvertHandler{
		service: service,
		logger:  logger,
	}
}

// HandleConvert handles POST /convert
func (h *ConvertHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.service.Convert(ctx, req.TraceID, req.ScoreID); err != nil {
		h.logger.Warn("conversion failed",
			zap.String("request_id", requestID),
			zap.String("trace_id", req.TraceID),
			zap.String("score_id", req.ScoreID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, true); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
