package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/middleware"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/repositories"
)

// TemplateHandler manages saved mapping templates
type TemplateHandler struct {
	logger    *logger.Logger
	templates repositories.MappingTemplateRepository
	validator *models.StructValidator
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(log *logger.Logger, templates repositories.MappingTemplateRepository, validator *models.StructValidator) *TemplateHandler {
	return &TemplateHandler{
		logger:    log,
		templates: templates,
		validator: validator,
	}
}

// RegisterRoutes registers mapping template routes
func (h *TemplateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/templates", h.Create).Methods("POST")
	router.HandleFunc("/templates", h.List).Methods("GET")
	router.HandleFunc("/templates/{id}", h.Get).Methods("GET")
	router.HandleFunc("/templates/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/templates/{id}", h.Delete).Methods("DELETE")
}

// TemplateRequest is the create/update payload
type TemplateRequest struct {
	Name           string                `json:"name" validate:"required,min=1,max=255"`
	EntityType     models.EntityType     `json:"entityType" validate:"required"`
	Mappings       []models.FieldMapping `json:"mappings" validate:"required,min=1"`
	IgnoredColumns []string              `json:"ignoredColumns"`
}

// Create handles POST /templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	template := &models.MappingTemplate{
		UserID:         userID,
		Name:           req.Name,
		EntityType:     req.EntityType,
		Mappings:       req.Mappings,
		IgnoredColumns: req.IgnoredColumns,
	}
	if err := h.templates.Create(r.Context(), template); err != nil {
		h.logger.WithError(err).Error("Template create failed")
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

// List handles GET /templates with an optional entityType filter
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	entityType := models.EntityType(r.URL.Query().Get("entityType"))

	templates, err := h.templates.GetByUser(r.Context(), userID, entityType)
	if err != nil {
		h.logger.WithError(err).Error("Template list failed")
		writeError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}
	if templates == nil {
		templates = []*models.MappingTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// Get handles GET /templates/{id}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	template, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// Update handles PUT /templates/{id}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	template, ok := h.load(w, r)
	if !ok {
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	template.Name = req.Name
	template.EntityType = req.EntityType
	template.Mappings = req.Mappings
	template.IgnoredColumns = req.IgnoredColumns

	if err := h.templates.Update(r.Context(), template); err != nil {
		h.logger.WithError(err).Error("Template update failed")
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// Delete handles DELETE /templates/{id}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.templates.Delete(r.Context(), id, userID); err != nil {
		h.logger.WithError(err).Error("Template delete failed")
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplateHandler) decode(w http.ResponseWriter, r *http.Request) (*TemplateRequest, bool) {
	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if !req.EntityType.IsValid() {
		writeError(w, http.StatusBadRequest, "Unknown entity type")
		return nil, false
	}
	return &req, true
}

func (h *TemplateHandler) load(w http.ResponseWriter, r *http.Request) (*models.MappingTemplate, bool) {
	userID := middleware.UserID(r.Context())
	id := mux.Vars(r)["id"]

	template, err := h.templates.GetByID(r.Context(), id, userID)
	if err != nil {
		h.logger.WithError(err).Error("Template fetch failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch template")
		return nil, false
	}
	if template == nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return nil, false
	}
	return template, true
}
