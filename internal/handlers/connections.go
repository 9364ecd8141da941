package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/middleware"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/repositories"
	"erp-import-platform/internal/security"
)

// ConnectionHandler handles ERP connection management endpoints
type ConnectionHandler struct {
	logger      *logger.Logger
	connections repositories.ConnectionRepository
	cipher      *security.CredentialCipher
	factory     *erp.Factory
	validator   *models.StructValidator
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(
	log *logger.Logger,
	connections repositories.ConnectionRepository,
	cipher *security.CredentialCipher,
	factory *erp.Factory,
	validator *models.StructValidator,
) *ConnectionHandler {
	return &ConnectionHandler{
		logger:      log,
		connections: connections,
		cipher:      cipher,
		factory:     factory,
		validator:   validator,
	}
}

// RegisterRoutes registers connection routes
func (h *ConnectionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/connections", h.Create).Methods("POST")
	router.HandleFunc("/connections", h.List).Methods("GET")
	router.HandleFunc("/connections/{id}", h.Get).Methods("GET")
	router.HandleFunc("/connections/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/connections/{id}", h.Delete).Methods("DELETE")
	router.HandleFunc("/connections/{id}/test", h.Test).Methods("POST")
}

// ConnectionRequest is the create/update payload. Credentials are accepted
// in plaintext and stored encrypted.
type ConnectionRequest struct {
	Name        string             `json:"name" validate:"required,min=1,max=255"`
	InstanceURL string             `json:"instanceUrl" validate:"required,url"`
	APIVersion  string             `json:"apiVersion"`
	Credentials models.Credentials `json:"credentials"`
}

// Create handles POST /connections
func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Credentials.Username == "" || req.Credentials.Password == "" {
		writeError(w, http.StatusBadRequest, "Credentials require a username and password")
		return
	}

	encrypted, err := h.cipher.EncryptJSON(req.Credentials)
	if err != nil {
		h.logger.WithError(err).Error("Credential encryption failed")
		writeError(w, http.StatusInternalServerError, "Failed to store credentials")
		return
	}

	conn := &models.Connection{
		UserID:      userID,
		Name:        req.Name,
		InstanceURL: req.InstanceURL,
		APIVersion:  req.APIVersion,
		AuthType:    "basic",
		Credentials: encrypted,
		IsActive:    true,
	}
	if conn.APIVersion == "" {
		conn.APIVersion = "24.200.001"
	}

	if err := h.connections.Create(r.Context(), conn); err != nil {
		h.logger.WithError(err).Error("Connection create failed")
		writeError(w, http.StatusInternalServerError, "Failed to create connection")
		return
	}

	writeJSON(w, http.StatusCreated, conn)
}

// List handles GET /connections
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	conns, err := h.connections.GetByUser(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Connection list failed")
		writeError(w, http.StatusInternalServerError, "Failed to list connections")
		return
	}
	if conns == nil {
		conns = []*models.Connection{}
	}
	writeJSON(w, http.StatusOK, conns)
}

// Get handles GET /connections/{id}
func (h *ConnectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// Update handles PUT /connections/{id}. Credentials are replaced only when
// provided; an empty credential block keeps the stored one.
func (h *ConnectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.load(w, r)
	if !ok {
		return
	}

	var req ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn.Name = req.Name
	conn.InstanceURL = req.InstanceURL
	if req.APIVersion != "" {
		conn.APIVersion = req.APIVersion
	}
	if req.Credentials.Username != "" && req.Credentials.Password != "" {
		encrypted, err := h.cipher.EncryptJSON(req.Credentials)
		if err != nil {
			h.logger.WithError(err).Error("Credential encryption failed")
			writeError(w, http.StatusInternalServerError, "Failed to store credentials")
			return
		}
		conn.Credentials = encrypted
	}

	if err := h.connections.Update(r.Context(), conn); err != nil {
		h.logger.WithError(err).Error("Connection update failed")
		writeError(w, http.StatusInternalServerError, "Failed to update connection")
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// Delete handles DELETE /connections/{id}
func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.connections.Delete(r.Context(), id, userID); err != nil {
		h.logger.WithError(err).Error("Connection delete failed")
		writeError(w, http.StatusInternalServerError, "Failed to delete connection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TestResponse is the connection test result
type TestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Test handles POST /connections/{id}/test by logging in to the instance
func (h *ConnectionHandler) Test(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.load(w, r)
	if !ok {
		return
	}

	var creds models.Credentials
	if err := h.cipher.DecryptJSON(conn.Credentials, &creds); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to decrypt connection credentials")
		return
	}

	client := h.factory.ClientFor(conn, creds)
	if err := client.Get(r.Context(), "", nil); err != nil {
		writeJSON(w, http.StatusOK, TestResponse{
			Success: false,
			Message: erp.HumanizeGatewayError(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, TestResponse{Success: true, Message: "Connection successful"})
}

// load fetches the connection from the path id scoped to the current user,
// writing the error response on failure
func (h *ConnectionHandler) load(w http.ResponseWriter, r *http.Request) (*models.Connection, bool) {
	userID := middleware.UserID(r.Context())
	id := mux.Vars(r)["id"]

	conn, err := h.connections.GetByID(r.Context(), id, userID)
	if err != nil {
		h.logger.WithError(err).Error("Connection fetch failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch connection")
		return nil, false
	}
	if conn == nil {
		writeError(w, http.StatusNotFound, "Connection not found")
		return nil, false
	}
	return conn, true
}
