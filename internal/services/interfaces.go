package services

import (
	"context"

	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/models"
)

// LookupProgress reports reference-data fetch progress per requirement
type LookupProgress struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Current   string `json:"current"`
}

// LookupResult carries fetched reference key sets and per-requirement
// degradation warnings
type LookupResult struct {
	Lookups  map[string]map[string]struct{}
	Warnings []string
}

// LookupService fetches reference-table key sets for validation
type LookupService interface {
	FetchLookupData(ctx context.Context, client *erp.Client, requirements []models.LookupRequirement, onProgress func(LookupProgress)) *LookupResult
}

// ValidateRequest is the validation request contract
type ValidateRequest struct {
	ConnectionID  string                 `json:"connectionId" validate:"required"`
	EntityType    models.EntityType      `json:"entityType" validate:"required"`
	Mode          models.ImportMode      `json:"mode" validate:"required"`
	Rows          []map[string]string    `json:"rows" validate:"required,min=1"`
	Mappings      []models.FieldMapping  `json:"mappings" validate:"required,min=1"`
	DefaultValues map[string]string      `json:"defaultValues"`
}

// ValidateResponse is the validation response contract
type ValidateResponse struct {
	ValidationResults []models.RowValidationResult `json:"validationResults"`
	LookupWarnings    []string                     `json:"lookupWarnings"`
	Summary           models.ValidationSummary     `json:"summary"`
}

// ValidationService validates parsed rows against entity rules, reference
// data and import mode constraints
type ValidationService interface {
	Validate(ctx context.Context, userID string, req *ValidateRequest) (*ValidateResponse, error)
}

// ImportRequest is the import request contract. Rows already exclude any
// user-excluded rows.
type ImportRequest struct {
	ConnectionID  string                `json:"connectionId" validate:"required"`
	EntityType    models.EntityType     `json:"entityType" validate:"required"`
	Mode          models.ImportMode     `json:"mode" validate:"required"`
	Rows          []map[string]string   `json:"rows" validate:"required,min=1"`
	Mappings      []models.FieldMapping `json:"mappings" validate:"required,min=1"`
	DefaultValues map[string]string     `json:"defaultValues"`
	FileName      string                `json:"fileName"`
}

// ImportService runs the batched import pipeline and streams progress
type ImportService interface {
	// Start validates preconditions, creates the session and launches the
	// import. The returned channel is ordered and closes after a terminal
	// event (complete, cancelled or error).
	Start(ctx context.Context, userID string, req *ImportRequest) (<-chan Event, error)

	// Cancel transitions a running session to cancelled
	Cancel(ctx context.Context, userID, sessionID string) error
}
