// Package respond writes JSON responses.
package respond

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, map[string]string{"error": message})
}

// Data wraps v in the {"data": ...} envelope.
func Data(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	JSON(w, r, code, map[string]interface{}{"data": v})
}

// Errors writes a 400 with field level messages.
func Errors(w http.ResponseWriter, r *http.Request, fields map[string][]string) {
	JSON(w, r, http.StatusBadRequest, map[string]interface{}{"errors": fields})
}

func NoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
