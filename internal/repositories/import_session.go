package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"erp-import-platform/internal/database"
	"erp-import-platform/internal/models"
)

// importSessionRepository implements ImportSessionRepository
type importSessionRepository struct {
	db *database.Connection
}

// NewImportSessionRepository creates a new import session repository
func NewImportSessionRepository(db *database.Connection) ImportSessionRepository {
	return &importSessionRepository{db: db}
}

// Create creates a new import session row
func (r *importSessionRepository) Create(ctx context.Context, session *models.ImportSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID retrieves a session by ID, scoped to its owner
func (r *importSessionRepository) GetByID(ctx context.Context, id, userID string) (*models.ImportSession, error) {
	var session models.ImportSession
	err := r.db.WithContext(ctx).
		Preload("Connection").
		First(&session, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// GetByUser retrieves a user's sessions, newest first, with pagination
func (r *importSessionRepository) GetByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ImportSession, error) {
	var sessions []*models.ImportSession
	err := r.db.WithContext(ctx).
		Preload("Connection").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	return sessions, err
}

// GetRunningByConnection retrieves the running session for a connection,
// if any. Used by the one-running-import-per-connection gate.
func (r *importSessionRepository) GetRunningByConnection(ctx context.Context, connectionID string) (*models.ImportSession, error) {
	var session models.ImportSession
	err := r.db.WithContext(ctx).
		First(&session, "connection_id = ? AND status = ?", connectionID, models.SessionRunning).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Update persists session progress or finalization
func (r *importSessionRepository) Update(ctx context.Context, session *models.ImportSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
