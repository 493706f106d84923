// utils/http.go - net/http response helpers
package utils

import (
	"encoding/json"
	"net/http"
)

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// JSONError sends a JSON error response in the API's envelope shape
func JSONError(w http.ResponseWriter, status int, message string) error {
	return JSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
