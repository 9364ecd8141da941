package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"erp-import-platform/internal/database"
	"erp-import-platform/internal/models"
)

// connectionRepository implements ConnectionRepository
type connectionRepository struct {
	db *database.Connection
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *database.Connection) ConnectionRepository {
	return &connectionRepository{db: db}
}

// Create creates a new ERP connection
func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

// GetByID retrieves a connection by ID, scoped to its owner
func (r *connectionRepository) GetByID(ctx context.Context, id, userID string) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).First(&conn, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

// GetByUser retrieves all connections owned by a user
func (r *connectionRepository) GetByUser(ctx context.Context, userID string) ([]*models.Connection, error) {
	var conns []*models.Connection
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}

// Update updates an existing connection
func (r *connectionRepository) Update(ctx context.Context, conn *models.Connection) error {
	return r.db.WithContext(ctx).Save(conn).Error
}

// Delete soft-deletes a connection, scoped to its owner
func (r *connectionRepository) Delete(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Connection{}).Error
}
