package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringListJSON stores a string slice as a jsonb column
type StringListJSON []string

// Value implements driver.Valuer interface for GORM
func (s StringListJSON) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM
func (s *StringListJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StringListJSON", value)
	}
	return json.Unmarshal(bytes, s)
}

// MappingTemplate is a saved, named column mapping for reuse across imports
// of the same entity type
type MappingTemplate struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID         string         `json:"user_id" gorm:"not null;uniqueIndex:idx_templates_user_entity_name" validate:"required"`
	OrgID          string         `json:"org_id,omitempty"`
	EntityType     EntityType     `json:"entity_type" gorm:"not null;uniqueIndex:idx_templates_user_entity_name" validate:"required"`
	Name           string         `json:"name" gorm:"not null;uniqueIndex:idx_templates_user_entity_name" validate:"required,min=1,max=255"`
	Mappings       MappingJSON    `json:"mappings" gorm:"type:jsonb;not null"`
	IgnoredColumns StringListJSON `json:"ignored_columns,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName returns the table name for MappingTemplate
func (MappingTemplate) TableName() string {
	return "mapping_templates"
}
