package handlers

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// FailureResponse writes the {success:false, message} shape used by the
// mutating form endpoint.
func FailureResponse(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// ErrorResponse writes the {error} shape used by the read endpoints.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// DeleteFailureResponse writes the {success:false, error} shape used by the
// delete endpoints.
func DeleteFailureResponse(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
