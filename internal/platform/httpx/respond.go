// Package httpx provides JSON request/response utilities shared by every
// API handler.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Message is the error/confirmation body the front-end expects.
type Message struct {
	Mensaje string `json:"mensaje"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Msg sends a plain {"mensaje": ...} body.
func Msg(w http.ResponseWriter, status int, mensaje string) {
	JSON(w, status, Message{Mensaje: mensaje})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
