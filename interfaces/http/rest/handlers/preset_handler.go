package handlers

import (
	"net/http"

	"semnet/application/services"
	"semnet/domain/preset"
	pkgerrors "semnet/pkg/errors"

	"go.uber.org/zap"
)

// PresetHandler handles preset listing, import and export
type PresetHandler struct {
	service *services.GraphService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(service *services.GraphService, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *PresetHandler {
	return &PresetHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// ImportPresetRequest represents the request body for importing a preset
type ImportPresetRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
}

// ExportPresetRequest represents the request body for exporting the graph.
// ImgData is an opaque base64 thumbnail.
type ExportPresetRequest struct {
	Name    string   `json:"name" validate:"omitempty,max=200"`
	ImgData *string  `json:"img_data,omitempty"`
	Palette []string `json:"palette,omitempty" validate:"omitempty,dive,max=64"`
}

// ListPresets handles GET /presets
func (h *PresetHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListPresets(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []preset.Summary{}
	}

	respondJSON(h.logger, w, http.StatusOK, summaries)
}

// ImportPreset handles POST /presets/import
func (h *PresetHandler) ImportPreset(w http.ResponseWriter, r *http.Request) {
	var req ImportPresetRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.service.ImportPreset(r.Context(), req.Filename); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"success": true})
}

// ExportPreset handles POST /presets/export
func (h *PresetHandler) ExportPreset(w http.ResponseWriter, r *http.Request) {
	var req ExportPresetRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if req.Name == "" {
		req.Name = preset.DefaultName
	}

	filename, err := h.service.ExportPreset(r.Context(), services.ExportRequest{
		Name:      req.Name,
		Thumbnail: req.ImgData,
		Palette:   req.Palette,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"filename": filename,
	})
}
