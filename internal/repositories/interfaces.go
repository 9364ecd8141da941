package repositories

import (
	"context"

	"erp-import-platform/internal/models"
)

// ConnectionRepository defines the interface for ERP connection data operations
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id, userID string) (*models.Connection, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Connection, error)
	Update(ctx context.Context, conn *models.Connection) error
	Delete(ctx context.Context, id, userID string) error
}

// ImportSessionRepository defines the interface for import session data operations
type ImportSessionRepository interface {
	Create(ctx context.Context, session *models.ImportSession) error
	GetByID(ctx context.Context, id, userID string) (*models.ImportSession, error)
	GetByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ImportSession, error)
	GetRunningByConnection(ctx context.Context, connectionID string) (*models.ImportSession, error)
	Update(ctx context.Context, session *models.ImportSession) error
}

// ImportRowLogRepository defines the interface for row log data operations
type ImportRowLogRepository interface {
	CreateBatch(ctx context.Context, logs []*models.ImportRowLog) error
	GetBySession(ctx context.Context, sessionID string) ([]*models.ImportRowLog, error)
}

// MappingTemplateRepository defines the interface for mapping template data operations
type MappingTemplateRepository interface {
	Create(ctx context.Context, template *models.MappingTemplate) error
	GetByID(ctx context.Context, id, userID string) (*models.MappingTemplate, error)
	GetByUser(ctx context.Context, userID string, entityType models.EntityType) ([]*models.MappingTemplate, error)
	Update(ctx context.Context, template *models.MappingTemplate) error
	Delete(ctx context.Context, id, userID string) error
}
