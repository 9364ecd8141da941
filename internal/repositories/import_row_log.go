package repositories

import (
	"context"

	"erp-import-platform/internal/database"
	"erp-import-platform/internal/models"
)

// importRowLogRepository implements ImportRowLogRepository
type importRowLogRepository struct {
	db *database.Connection
}

// NewImportRowLogRepository creates a new row log repository
func NewImportRowLogRepository(db *database.Connection) ImportRowLogRepository {
	return &importRowLogRepository{db: db}
}

// CreateBatch inserts one batch of row logs
func (r *importRowLogRepository) CreateBatch(ctx context.Context, logs []*models.ImportRowLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(logs).Error
}

// GetBySession retrieves all row logs of a session in row order
func (r *importRowLogRepository) GetBySession(ctx context.Context, sessionID string) ([]*models.ImportRowLog, error) {
	var logs []*models.ImportRowLog
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("row_number ASC").
		Find(&logs).Error
	return logs, err
}
