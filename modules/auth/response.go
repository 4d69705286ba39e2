package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// envelope is the wire format shared by every endpoint. Exactly one of
// Data/Error is present depending on Success.
type envelope struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message,omitempty"`
	Data      any           `json:"data,omitempty"`
	Error     *errorPayload `json:"error,omitempty"`
	Timestamp string        `json:"timestamp"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{
		Success:   false,
		Error:     &errorPayload{Code: code, Message: message},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondServiceError maps domain errors onto the status codes and error
// codes the frontend keys on.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		respondError(w, http.StatusBadRequest, "USER_EXISTS", "User with this email already exists")
	case errors.Is(err, ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrAccountLocked):
		respondError(w, http.StatusLocked, "ACCOUNT_LOCKED", "Account is locked due to multiple failed login attempts")
	case errors.Is(err, ErrAccountInactive):
		respondError(w, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is inactive. Please contact support.")
	case errors.Is(err, ErrUserInactive):
		respondError(w, http.StatusUnauthorized, "USER_INACTIVE", "User account is inactive")
	case errors.Is(err, ErrUserNotFound):
		respondError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrInvalidToken):
		respondError(w, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired token")
	case errors.Is(err, ErrWeakPassword):
		respondError(w, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 8 characters")
	case errors.Is(err, ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
