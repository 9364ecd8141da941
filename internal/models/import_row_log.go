package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RowLogStatus is the outcome of one processed row
type RowLogStatus string

const (
	RowLogSuccess RowLogStatus = "success"
	RowLogFailed  RowLogStatus = "failed"
	RowLogSkipped RowLogStatus = "skipped"
)

// RowOperation distinguishes created from updated pushes
type RowOperation string

const (
	OperationCreated RowOperation = "created"
	OperationUpdated RowOperation = "updated"
)

// RecordJSON stores a mapped record as a jsonb column
type RecordJSON map[string]interface{}

// Value implements driver.Valuer interface for GORM
func (r RecordJSON) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner interface for GORM
func (r *RecordJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into RecordJSON", value)
	}
	return json.Unmarshal(bytes, r)
}

// ImportRowLog is the permanent per-row audit record of an import session.
// Append-only; written in batches as rows are processed.
type ImportRowLog struct {
	ID           string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SessionID    string       `json:"session_id" gorm:"type:uuid;not null;index:idx_row_logs_session_row" validate:"required"`
	RowNumber    int          `json:"row_number" gorm:"not null;index:idx_row_logs_session_row"`
	KeyValue     string       `json:"key_value" gorm:"not null"`
	Status       RowLogStatus `json:"status" gorm:"not null"`
	Operation    RowOperation `json:"operation,omitempty"`
	MappedData   RecordJSON   `json:"mapped_data,omitempty" gorm:"type:jsonb"`
	ErrorMessage string       `json:"error_message,omitempty"`
	ErrorCode    string       `json:"error_code,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TableName returns the table name for ImportRowLog
func (ImportRowLog) TableName() string {
	return "import_row_logs"
}
