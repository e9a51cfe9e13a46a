package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/scrutor/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WritePipelineError maps the pipeline error taxonomy onto HTTP statuses.
func WritePipelineError(w http.ResponseWriter, err error) error {
	switch {
	case models.IsConfigurationMissing(err):
		return WriteError(w, http.StatusServiceUnavailable, err.Error())
	case models.IsDataUnavailable(err):
		return WriteError(w, http.StatusNotFound, err.Error())
	case models.IsQuotaExhausted(err):
		return WriteError(w, http.StatusTooManyRequests, err.Error())
	case models.IsNoModelAvailable(err), models.IsModelNotFound(err):
		return WriteError(w, http.StatusBadGateway, err.Error())
	default:
		return WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
