package database

import (
	"erp-import-platform/internal/models"
)

// Migrator handles database migrations
type Migrator struct {
	db *Connection
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *Connection) *Migrator {
	return &Migrator{db: db}
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	return m.db.AutoMigrate(
		&models.Connection{},
		&models.ImportSession{},
		&models.ImportRowLog{},
		&models.MappingTemplate{},
	)
}

// Down rolls back all migrations (for testing purposes)
func (m *Migrator) Down() error {
	return m.db.Migrator().DropTable(
		&models.MappingTemplate{},
		&models.ImportRowLog{},
		&models.ImportSession{},
		&models.Connection{},
	)
}
