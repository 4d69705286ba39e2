package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

type envelope struct {
	Success   bool          `json:"success"`
	Error     *errorPayload `json:"error,omitempty"`
	Timestamp string        `json:"timestamp"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   false,
		Error:     &errorPayload{Code: code, Message: message},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
