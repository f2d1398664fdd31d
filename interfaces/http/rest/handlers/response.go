package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "semnet/pkg/errors"
	"semnet/pkg/utils"

	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; exports carry base64 thumbnails
const maxBodyBytes = 10 << 20

// decodeAndValidate reads a JSON body into dst and runs its validation tags.
// Malformed bodies are VALIDATION errors.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.NewValidationError("request body is required")
		}
		return pkgerrors.NewValidationError("invalid request body").WithCause(err)
	}

	return utils.ValidateStruct(dst)
}

func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}
