// Package response writes the JSON envelopes returned by the matching API.
// Callers always receive a well-formed envelope with a server-generated
// timestamp, even on failure.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ErrorEnvelope is the failure envelope: {success: false, error, timestamp}.
type ErrorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Timestamp returns the server-generated RFC 3339 UTC timestamp included in
// every envelope.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// RespondError writes the failure envelope with the given status and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, ErrorEnvelope{
		Success:   false,
		Error:     message,
		Timestamp: Timestamp(),
	})
}

// RespondBadRequest writes a 400 failure envelope.
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondMethodNotAllowed writes a 405 failure envelope.
func RespondMethodNotAllowed(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusMethodNotAllowed, message)
}

// RespondInternalServerError writes a 500 failure envelope.
func RespondInternalServerError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusInternalServerError, message)
}
