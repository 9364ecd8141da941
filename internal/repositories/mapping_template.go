package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"erp-import-platform/internal/database"
	"erp-import-platform/internal/models"
)

// mappingTemplateRepository implements MappingTemplateRepository
type mappingTemplateRepository struct {
	db *database.Connection
}

// NewMappingTemplateRepository creates a new mapping template repository
func NewMappingTemplateRepository(db *database.Connection) MappingTemplateRepository {
	return &mappingTemplateRepository{db: db}
}

// Create creates a new mapping template
func (r *mappingTemplateRepository) Create(ctx context.Context, template *models.MappingTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// GetByID retrieves a template by ID, scoped to its owner
func (r *mappingTemplateRepository) GetByID(ctx context.Context, id, userID string) (*models.MappingTemplate, error) {
	var template models.MappingTemplate
	err := r.db.WithContext(ctx).First(&template, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// GetByUser retrieves a user's templates, optionally filtered by entity type
func (r *mappingTemplateRepository) GetByUser(ctx context.Context, userID string, entityType models.EntityType) ([]*models.MappingTemplate, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}

	var templates []*models.MappingTemplate
	err := query.Order("updated_at DESC").Find(&templates).Error
	return templates, err
}

// Update updates an existing mapping template
func (r *mappingTemplateRepository) Update(ctx context.Context, template *models.MappingTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete deletes a mapping template, scoped to its owner
func (r *mappingTemplateRepository) Delete(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.MappingTemplate{}).Error
}
