package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/upb/classification-gateway/middleware"
	"github.com/upb/classification-gateway/services/gate"
	"github.com/upb/classification-gateway/utils"
	"go.uber.org/zap"
)

// ClassifyRequest represents the POST /classify body
type ClassifyRequest struct {
	Description string `json:"description"`
}

// GateService defines the gate operations the handler needs
type GateService interface {
	Handle(ctx context.Context, description string) (*gate.Response, error)
}

// ClassifyHandler handles classification HTTP requests
type ClassifyHandler struct {
	service GateService
	logger  *zap.Logger
}

// NewClassifyHandler creates a new ClassifyHandler
func NewClassifyHandler(service GateService, logger *zap.Logger) *ClassifyHandler {
	return &ClassifyHandler{
		service: service,
		logger:  logger,
	}
}

// HandleClassify handles POST /classify
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	// Empty descriptions are rejected by the gate itself so the InvalidInput
	// contract is identical for HTTP and non-HTTP callers.
	resp, err := h.service.Handle(ctx, req.Description)
	if err != nil {
		h.logger.Warn("classification rejected",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("classification successful",
		zap.String("request_id", requestID),
		zap.String("trace_id", resp.TraceID),
		zap.String("score_id", resp.ScoreID),
		zap.String("category_id", resp.Result.ID))

	if err := utils.WriteOK(w, resp); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
