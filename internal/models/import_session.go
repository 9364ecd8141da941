package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SessionStatus is the lifecycle state of an import session
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

// IsTerminal reports whether the status permits no further transitions
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionFailed || s == SessionCancelled
}

// MappingJSON stores the mapping array used by a session as a jsonb column
type MappingJSON []FieldMapping

// Value implements driver.Valuer interface for GORM
func (m MappingJSON) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for GORM
func (m *MappingJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into MappingJSON", value)
	}
	return json.Unmarshal(bytes, m)
}

// ImportSession tracks one run of the import pipeline against one connection.
// Created with status running; mutated only by the import processor or by an
// external cancel request. Never deleted.
type ImportSession struct {
	ID           string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID       string        `json:"user_id" gorm:"not null;index" validate:"required"`
	ConnectionID string        `json:"connection_id" gorm:"type:uuid;not null;index" validate:"required"`
	EntityType   EntityType    `json:"entity_type" gorm:"not null" validate:"required"`
	Mode         ImportMode    `json:"mode" gorm:"not null" validate:"required"`
	FileName     string        `json:"file_name" gorm:"not null"`
	TotalRows    int           `json:"total_rows" gorm:"not null;default:0"`
	SuccessCount int           `json:"success_count" gorm:"not null;default:0"`
	FailCount    int           `json:"fail_count" gorm:"not null;default:0"`
	CreatedCount int           `json:"created_count" gorm:"not null;default:0"`
	UpdatedCount int           `json:"updated_count" gorm:"not null;default:0"`
	Status       SessionStatus `json:"status" gorm:"not null;default:'running';index:idx_sessions_connection_status,composite:connection_status"`
	StartedAt    time.Time     `json:"started_at" gorm:"autoCreateTime"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	DurationMs   *int64        `json:"duration_ms,omitempty"`
	MappingUsed  MappingJSON   `json:"mapping_used,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time     `json:"created_at"`

	// Relationships
	Connection *Connection    `json:"connection,omitempty" gorm:"foreignKey:ConnectionID"`
	RowLogs    []ImportRowLog `json:"row_logs,omitempty" gorm:"foreignKey:SessionID"`
}

// TableName returns the table name for ImportSession
func (ImportSession) TableName() string {
	return "import_sessions"
}
