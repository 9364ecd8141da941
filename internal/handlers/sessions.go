package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/middleware"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/repositories"
	"erp-import-platform/internal/services"
)

const defaultSessionPageSize = 50

// SessionHandler serves import session history and audit logs
type SessionHandler struct {
	logger   *logger.Logger
	sessions repositories.ImportSessionRepository
	rowLogs  repositories.ImportRowLogRepository
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(log *logger.Logger, sessions repositories.ImportSessionRepository, rowLogs repositories.ImportRowLogRepository) *SessionHandler {
	return &SessionHandler{
		logger:   log,
		sessions: sessions,
		rowLogs:  rowLogs,
	}
}

// RegisterRoutes registers session history routes
func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", h.List).Methods("GET")
	router.HandleFunc("/sessions/{id}", h.Get).Methods("GET")
	router.HandleFunc("/sessions/{id}/rows", h.Rows).Methods("GET")
	router.HandleFunc("/sessions/{id}/export", h.Export).Methods("GET")
}

// List handles GET /sessions with limit/offset paging
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	limit := intQuery(r, "limit", defaultSessionPageSize)
	offset := intQuery(r, "offset", 0)

	sessions, err := h.sessions.GetByUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Session list failed")
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*models.ImportSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Get handles GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Rows handles GET /sessions/{id}/rows
func (h *SessionHandler) Rows(w http.ResponseWriter, r *http.Request) {
	session, ok := h.load(w, r)
	if !ok {
		return
	}

	logs, err := h.rowLogs.GetBySession(r.Context(), session.ID)
	if err != nil {
		h.logger.WithError(err).Error("Row log fetch failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch row logs")
		return
	}
	if logs == nil {
		logs = []*models.ImportRowLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// Export handles GET /sessions/{id}/export, streaming the row logs as CSV
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	session, ok := h.load(w, r)
	if !ok {
		return
	}

	logs, err := h.rowLogs.GetBySession(r.Context(), session.ID)
	if err != nil {
		h.logger.WithError(err).Error("Row log fetch failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch row logs")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "import-"+session.ID+".csv"))
	if err := services.WriteRowLogsCSV(w, logs); err != nil {
		h.logger.WithError(err).Error("CSV export failed")
	}
}

func (h *SessionHandler) load(w http.ResponseWriter, r *http.Request) (*models.ImportSession, bool) {
	userID := middleware.UserID(r.Context())
	id := mux.Vars(r)["id"]

	session, err := h.sessions.GetByID(r.Context(), id, userID)
	if err != nil {
		h.logger.WithError(err).Error("Session fetch failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch session")
		return nil, false
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return session, true
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
