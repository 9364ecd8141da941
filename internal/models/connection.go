package models

import (
	"time"

	"gorm.io/gorm"
)

// Connection represents a stored ERP instance connection. Credentials is an
// encrypted JSON blob; see internal/security.
type Connection struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID      string         `json:"user_id" gorm:"not null;index" validate:"required"`
	OrgID       string         `json:"org_id,omitempty"`
	Name        string         `json:"name" gorm:"not null" validate:"required,min=1,max=255"`
	InstanceURL string         `json:"instance_url" gorm:"not null" validate:"required,url"`
	APIVersion  string         `json:"api_version" gorm:"not null;default:'24.200.001'"`
	AuthType    string         `json:"auth_type" gorm:"not null;default:'basic'" validate:"oneof=basic oauth2"`
	Credentials string         `json:"-" gorm:"not null"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for Connection
func (Connection) TableName() string {
	return "connections"
}

// Credentials is the decrypted credential set for a basic-auth ERP login
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Company  string `json:"company,omitempty"`
	Branch   string `json:"branch,omitempty"`
}
