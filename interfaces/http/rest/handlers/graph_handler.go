package handlers

import (
	"net/http"

	"semnet/application/services"
	"semnet/domain/core/entities"
	pkgerrors "semnet/pkg/errors"

	"go.uber.org/zap"
)

// GraphHandler handles graph reads and mutations
type GraphHandler struct {
	service *services.GraphService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(service *services.GraphService, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// AddNodeRequest represents the request body for adding a node
type AddNodeRequest struct {
	Name     string            `json:"name" validate:"required,max=200"`
	Color    *string           `json:"color,omitempty" validate:"omitempty,max=64"`
	X        *float64          `json:"x,omitempty"`
	Y        *float64          `json:"y,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RemoveNodeRequest represents the request body for removing a node
type RemoveNodeRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddRelationRequest represents the request body for adding a relation
type AddRelationRequest struct {
	Source   string `json:"source" validate:"required"`
	Relation string `json:"relation" validate:"required,max=200"`
	Target   string `json:"target" validate:"required"`
}

// RemoveRelationRequest represents the request body for removing a relation.
// Relation is accepted for symmetry with AddRelationRequest; a pair holds at
// most one relation, so source and target identify it.
type RemoveRelationRequest struct {
	Source   string `json:"source" validate:"required"`
	Relation string `json:"relation,omitempty"`
	Target   string `json:"target" validate:"required"`
}

// GetGraph handles GET /graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, h.service.Snapshot())
}

// AddNode handles POST /nodes
func (h *GraphHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var req AddNodeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	attrs := entities.NodeAttributes{
		Color:    req.Color,
		X:        req.X,
		Y:        req.Y,
		Metadata: req.Metadata,
	}
	if err := h.service.AddNode(r.Context(), req.Name, attrs); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"success": true})
}

// RemoveNode handles POST /nodes/remove
func (h *GraphHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	var req RemoveNodeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	removed := h.service.RemoveNode(r.Context(), req.Name)
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success": true,
		"removed": removed,
	})
}

// AddRelation handles POST /relations. The response carries the number of
// relations the next inference pass would create, -1 when it would report
// conflicts.
func (h *GraphHandler) AddRelation(w http.ResponseWriter, r *http.Request) {
	var req AddRelationRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	count, err := h.service.AddRelation(r.Context(), req.Source, req.Relation, req.Target)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"inference_count": count,
	})
}

// RemoveRelation handles POST /relations/remove
func (h *GraphHandler) RemoveRelation(w http.ResponseWriter, r *http.Request) {
	var req RemoveRelationRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	removed := h.service.RemoveRelation(r.Context(), req.Source, req.Target)
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success": true,
		"removed": removed,
	})
}
