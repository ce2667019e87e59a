package web

import (
	"encoding/json"
	"net/http"

	"github.com/scvtools/scvcheck/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError logs the technical error server-side and returns a JSON error
// with a stable code to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	logger := logging.FromContext(r.Context())
	if err != nil {
		logger.Error("request error",
			"path", r.URL.Path,
			"method", r.Method,
			"status", status,
			"code", code,
			"error", err,
		)
	} else {
		logger.Warn("request rejected",
			"path", r.URL.Path,
			"method", r.Method,
			"status", status,
			"code", code,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// respondJSON encodes v as JSON. Encoding errors are logged since headers
// are already sent.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
