package utils

import (
	"encoding/json"
	"net/http"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// RespondWithErrorTrace mirrors the error payload shape used across the API:
// {"error": ..., "traceId": ...} so callers can correlate with server logs.
func RespondWithErrorTrace(w http.ResponseWriter, code int, msg, traceID string) {
	RespondWithJSON(w, code, map[string]string{"error": msg, "traceId": traceID})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type M map[string]interface{}
