package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/veyra-id/veyra/internal/apierr"
)

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondError writes the {error, message} shape at err's status.
// Any error that isn't an *apierr.Error is logged with detail and
// reported to the client as a generic internal_error.
func RespondError(w http.ResponseWriter, err error) {
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		slog.Error("unclassified error reached handler boundary", "error", err)
		apiErr = apierr.Internal
	}
	RespondJSON(w, apiErr.Status, map[string]string{
		"error":   apiErr.Kind,
		"message": apiErr.Message,
	})
}
