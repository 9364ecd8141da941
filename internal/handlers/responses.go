package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"erp-import-platform/internal/services"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error     string `json:"error"`
	SessionID string `json:"sessionId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps known service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *services.SessionConflictError
	var notRunning *services.SessionNotRunningError

	switch {
	case errors.Is(err, services.ErrConnectionNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:     conflict.Error(),
			SessionID: conflict.SessionID,
		})
	case errors.As(err, &notRunning):
		writeError(w, http.StatusConflict, notRunning.Error())
	case errors.Is(err, services.ErrCredentialDecrypt):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
