package httpx

import (
	"encoding/json"
	"net/http"
)

// Message is the body of every non-2xx response. Ref is only set for
// internal failures and correlates the response with the error log line.
type Message struct {
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"message": msg} with the given status code.
func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Message{Message: msg})
}

// NoContent sends an empty 204.
func NoContent(w http.ResponseWriter) {
	NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Record data is personal, so intermediaries must never keep it.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
