package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"erp-import-platform/internal/entities"
	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/mapping"
	"erp-import-platform/internal/middleware"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/repositories"
	"erp-import-platform/internal/security"
	"erp-import-platform/internal/services"
)

const sampleValueLimit = 5

// EntityHandler serves entity metadata and column mapping endpoints
type EntityHandler struct {
	logger      *logger.Logger
	connections repositories.ConnectionRepository
	cipher      *security.CredentialCipher
	factory     *erp.Factory
	validator   *models.StructValidator
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(
	log *logger.Logger,
	connections repositories.ConnectionRepository,
	cipher *security.CredentialCipher,
	factory *erp.Factory,
	validator *models.StructValidator,
) *EntityHandler {
	return &EntityHandler{
		logger:      log,
		connections: connections,
		cipher:      cipher,
		factory:     factory,
		validator:   validator,
	}
}

// RegisterRoutes registers entity metadata routes
func (h *EntityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/entities", h.List).Methods("GET")
	router.HandleFunc("/entities/{type}/fields", h.Fields).Methods("GET")
	router.HandleFunc("/entities/{type}/automap", h.AutoMap).Methods("POST")
}

// EntityInfo describes one importable entity type
type EntityInfo struct {
	Type     models.EntityType `json:"type"`
	Label    string            `json:"label"`
	KeyField string            `json:"keyField"`
}

// List handles GET /entities
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	types := []models.EntityType{models.EntityStockItem, models.EntityCustomer, models.EntityVendor}

	infos := make([]EntityInfo, 0, len(types))
	for _, t := range types {
		adapter, err := entities.GetAdapter(t)
		if err != nil {
			continue
		}
		infos = append(infos, EntityInfo{
			Type:     adapter.EntityType(),
			Label:    adapter.EntityLabel(),
			KeyField: adapter.KeyField(),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

// FieldsResponse carries the merged field schema for an entity type
type FieldsResponse struct {
	Fields   []models.EntityField `json:"fields"`
	Warnings []string             `json:"warnings,omitempty"`
}

// Fields handles GET /entities/{type}/fields. With a connectionId query
// parameter, user-defined fields discovered from the instance schema are
// merged into the static list.
func (h *EntityHandler) Fields(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.adapter(w, r)
	if !ok {
		return
	}

	fields := adapter.Fields()
	var warnings []string

	if connectionID := r.URL.Query().Get("connectionId"); connectionID != "" {
		custom, err := h.fetchCustomFields(r, adapter, connectionID)
		if err != nil {
			h.logger.WithError(err).Warn("Custom field discovery failed")
			warnings = append(warnings, "Failed to load custom fields: "+erp.HumanizeGatewayError(err))
		} else {
			fields = entities.MergeFields(fields, custom)
		}
	}

	writeJSON(w, http.StatusOK, FieldsResponse{Fields: fields, Warnings: warnings})
}

// AutoMapRequest is the automatic mapping payload
type AutoMapRequest struct {
	Headers []string            `json:"headers" validate:"required,min=1"`
	Rows    []map[string]string `json:"rows"`
}

// AutoMapResponse carries the proposed mappings plus per-column samples
type AutoMapResponse struct {
	Mappings     []models.FieldMapping `json:"mappings"`
	SampleValues map[string][]string   `json:"sampleValues"`
}

// AutoMap handles POST /entities/{type}/automap
func (h *EntityHandler) AutoMap(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.adapter(w, r)
	if !ok {
		return
	}

	var req AutoMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mappings := mapping.AutoMap(req.Headers, adapter.Fields(), adapter.Aliases())

	samples := make(map[string][]string, len(req.Headers))
	if len(req.Rows) > 0 {
		for _, header := range req.Headers {
			samples[header] = mapping.SampleValues(req.Rows, header, sampleValueLimit)
		}
	}

	writeJSON(w, http.StatusOK, AutoMapResponse{Mappings: mappings, SampleValues: samples})
}

func (h *EntityHandler) adapter(w http.ResponseWriter, r *http.Request) (entities.Adapter, bool) {
	entityType := models.EntityType(mux.Vars(r)["type"])
	adapter, err := entities.GetAdapter(entityType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return adapter, true
}

func (h *EntityHandler) fetchCustomFields(r *http.Request, adapter entities.Adapter, connectionID string) ([]models.EntityField, error) {
	userID := middleware.UserID(r.Context())

	conn, err := h.connections.GetByID(r.Context(), connectionID, userID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, services.ErrConnectionNotFound
	}

	var creds models.Credentials
	if err := h.cipher.DecryptJSON(conn.Credentials, &creds); err != nil {
		return nil, err
	}

	client := h.factory.ClientFor(conn, creds)
	return adapter.FetchCustomFields(r.Context(), client)
}
