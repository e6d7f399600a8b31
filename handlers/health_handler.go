package handlers

import (
	"net/http"

	"github.com/upb/classification-gateway/utils"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = utils.WriteOK(w, HealthResponse{Status: "ok"})
}
