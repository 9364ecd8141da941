package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/middleware"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/services"
)

// ValidationHandler handles pre-import validation endpoints
type ValidationHandler struct {
	logger    *logger.Logger
	service   services.ValidationService
	validator *models.StructValidator
}

// NewValidationHandler creates a new validation handler
func NewValidationHandler(log *logger.Logger, service services.ValidationService, validator *models.StructValidator) *ValidationHandler {
	return &ValidationHandler{
		logger:    log,
		service:   service,
		validator: validator,
	}
}

// RegisterRoutes registers validation routes
func (h *ValidationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/validate", h.Validate).Methods("POST")
}

// Validate handles POST /validate
func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req services.ValidateRequest
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

	resp, err := h.service.Validate(r.Context(), userID, &req)
	if err != nil {
		h.logger.WithError(err).Error("Validation run failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
