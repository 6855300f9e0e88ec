package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/pkg/logger"
)

// maxJSONBodyBytes bounds request bodies carrying a full document
const maxJSONBodyBytes = 5 << 20

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSONBody decodes a size-limited request body into v
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeServiceError maps a service error to a status code. Client errors carry
// their message, anything else is logged and answered with a generic one.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error, action string) {
	var (
		unsafe    *domain.ErrUnsafeHTML
		uploadErr *domain.ErrAssetUpload
	)
	switch {
	case domain.IsNotFound(err):
		WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &unsafe):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   err.Error(),
			"reasons": unsafe.Reasons,
		})
	case domain.IsValidation(err):
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &uploadErr):
		log.WithField("error", err.Error()).Error("Asset upload failed")
		WriteJSONError(w, "Failed to store "+uploadErr.Filename, http.StatusBadGateway)
	default:
		log.WithField("error", err.Error()).Error("Failed to " + action)
		WriteJSONError(w, "Failed to "+action, http.StatusInternalServerError)
	}
}
