package container

import (
	"database/sql"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"erp-import-platform/internal/config"
	"erp-import-platform/internal/database"
	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/handlers"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/middleware"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/repositories"
	"erp-import-platform/internal/security"
	"erp-import-platform/internal/server"
	"erp-import-platform/internal/services"
)

// Module provides dependency injection configuration
var Module = fx.Options(
	// Configuration
	fx.Provide(config.LoadConfig),

	// Logging
	fx.Provide(logger.NewLogger),

	// Database
	fx.Provide(database.NewConnection),
	fx.Provide(func(conn *database.Connection) *gorm.DB {
		return conn.DB
	}),
	fx.Provide(func(conn *database.Connection) (*sql.DB, error) {
		return conn.DB.DB()
	}),
	fx.Provide(database.NewMigrator),
	fx.Provide(database.NewRedisClient),

	// Repositories
	fx.Provide(repositories.NewConnectionRepository),
	fx.Provide(repositories.NewImportSessionRepository),
	fx.Provide(repositories.NewImportRowLogRepository),
	fx.Provide(repositories.NewMappingTemplateRepository),

	// Security
	fx.Provide(security.NewCredentialCipher),

	// ERP gateway
	fx.Provide(erp.NewFactory),

	// Services
	fx.Provide(services.NewMetrics),
	fx.Provide(services.NewLookupService),
	fx.Provide(services.NewValidationService),
	fx.Provide(services.NewImportService),

	// Handlers
	fx.Provide(handlers.NewHealthHandler),
	fx.Provide(handlers.NewConnectionHandler),
	fx.Provide(handlers.NewEntityHandler),
	fx.Provide(handlers.NewTemplateHandler),
	fx.Provide(handlers.NewValidationHandler),
	fx.Provide(handlers.NewImportHandler),
	fx.Provide(handlers.NewSessionHandler),

	// Middleware
	fx.Provide(middleware.NewAuthMiddleware),

	// Server
	fx.Provide(server.NewServer),

	// Models (for validation and serialization)
	fx.Provide(models.NewStructValidator),

	// Invoke migrations on startup
	fx.Invoke(func(migrator *database.Migrator) error {
		return migrator.Up()
	}),
)
