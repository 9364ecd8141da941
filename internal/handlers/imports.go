package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/middleware"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/services"
)

// ImportHandler runs imports and streams their progress over SSE
type ImportHandler struct {
	logger    *logger.Logger
	service   services.ImportService
	validator *models.StructValidator
}

// NewImportHandler creates a new import handler
func NewImportHandler(log *logger.Logger, service services.ImportService, validator *models.StructValidator) *ImportHandler {
	return &ImportHandler{
		logger:    log,
		service:   service,
		validator: validator,
	}
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/imports", h.Start).Methods("POST")
	router.HandleFunc("/imports/{id}/cancel", h.Cancel).Methods("POST")
}

// Start handles POST /imports. The response is a server-sent event stream:
// one progress event per batch followed by a single terminal event.
func (h *ImportHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req services.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.EntityType.IsValid() {
		writeError(w, http.StatusBadRequest, "Unknown entity type")
		return
	}

	events, err := h.service.Start(r.Context(), userID, &req)
	if err != nil {
		h.logger.WithError(err).Warn("Import start rejected")
		writeServiceError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// The import keeps running if the client disconnects; the channel is
	// buffered and closed by the processor after its terminal event.
	for event := range events {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			h.logger.WithError(err).Error("Event serialization failed")
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
		flusher.Flush()
	}
}

// Cancel handles POST /imports/{id}/cancel
func (h *ImportHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	sessionID := mux.Vars(r)["id"]

	if err := h.service.Cancel(r.Context(), userID, sessionID); err != nil {
		h.logger.WithError(err).Warn("Import cancel rejected")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancelling"})
}
