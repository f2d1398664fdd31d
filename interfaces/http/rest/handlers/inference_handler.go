package handlers

import (
	"net/http"

	"semnet/application/services"
	pkgerrors "semnet/pkg/errors"

	"go.uber.org/zap"
)

// InferenceHandler handles inference requests
type InferenceHandler struct {
	service *services.GraphService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewInferenceHandler creates a new inference handler
func NewInferenceHandler(service *services.GraphService, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *InferenceHandler {
	return &InferenceHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// Potential handles GET /inference/potential
func (h *InferenceHandler) Potential(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"inference_count": h.service.CountPotential(),
	})
}

// Run handles POST /inference
func (h *InferenceHandler) Run(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, h.service.RunInference(r.Context()))
}
