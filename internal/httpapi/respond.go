// Package httpapi holds the JSON request/response helpers shared by the
// entity handlers. All responses are JSON; errors use the {"error": msg}
// envelope the API has always exposed.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
)

// ErrorMessageInternal is the generic message for unexpected persistence faults.
const ErrorMessageInternal = "Error interno del servidor"

// DecodeJSON decodes the request body into dst and closes it.
func DecodeJSON(body io.ReadCloser, dst any) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dst)
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an {"error": msg} response with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteMessage writes a {"message": msg} confirmation response.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"message": msg})
}
