package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"erp-import-platform/internal/entities"
	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/models"
	"erp-import-platform/internal/repositories"
	"erp-import-platform/internal/security"
)

// ErrConnectionNotFound is returned when a connection does not exist or is
// not owned by the requesting user
var ErrConnectionNotFound = errors.New("connection not found")

// ErrCredentialDecrypt is returned when stored credentials cannot be decrypted
var ErrCredentialDecrypt = errors.New("failed to decrypt connection credentials")

// ValidateRowsOptions carries everything the row validation pass needs.
// The engine performs no I/O; all reference data is provided pre-fetched.
type ValidateRowsOptions struct {
	Rows          []map[string]string
	Mappings      []models.FieldMapping
	DefaultValues map[string]string
	Fields        []models.EntityField
	KeyField      string
	Lookups       models.LookupContext
	Mode          models.ImportMode
}

var validationNumericCleaner = strings.NewReplacer(",", "", "$", "")

var booleanTokens = map[string]struct{}{
	"true": {}, "false": {}, "yes": {}, "no": {},
	"1": {}, "0": {}, "y": {}, "n": {},
}

// ValidateRows checks every row against required fields, declared types,
// max lengths, in-file duplicate keys, mode-key conflicts and lookup sets.
func ValidateRows(opts ValidateRowsOptions) []models.RowValidationResult {
	fieldMap := make(map[string]*models.EntityField, len(opts.Fields))
	for i := range opts.Fields {
		fieldMap[opts.Fields[i].APIName] = &opts.Fields[i]
	}

	targetToSource := make(map[string]string)
	for _, m := range opts.Mappings {
		if m.TargetField != "" && !m.Ignored {
			targetToSource[m.TargetField] = m.SourceColumn
		}
	}

	keySourceColumn := targetToSource[opts.KeyField]
	keyValue := func(row map[string]string) string {
		if keySourceColumn != "" {
			if v := strings.TrimSpace(row[keySourceColumn]); v != "" {
				return v
			}
		}
		return strings.TrimSpace(opts.DefaultValues[opts.KeyField])
	}

	// in-file duplicates: any key value appearing in two or more rows
	keyCounts := make(map[string]int)
	if keySourceColumn != "" {
		for _, row := range opts.Rows {
			if k := keyValue(row); k != "" {
				keyCounts[k]++
			}
		}
	}

	results := make([]models.RowValidationResult, 0, len(opts.Rows))

	for i, row := range opts.Rows {
		if rowIsEmpty(row) {
			results = append(results, models.RowValidationResult{
				RowIndex: i,
				Status:   models.RowWarn,
				Errors:   []models.ValidationError{},
				Warnings: []models.ValidationWarning{
					{Field: "_row", Message: "Row is entirely empty and will be skipped"},
				},
			})
			continue
		}

		var rowErrors []models.ValidationError
		var rowWarnings []models.ValidationWarning
		key := keyValue(row)

		// required fields
		for _, field := range opts.Fields {
			if !field.Required {
				continue
			}
			raw := ""
			if col, ok := targetToSource[field.APIName]; ok {
				raw = strings.TrimSpace(row[col])
			}
			if raw == "" && strings.TrimSpace(opts.DefaultValues[field.APIName]) == "" {
				rowErrors = append(rowErrors, models.ValidationError{
					Field:   field.APIName,
					Message: fmt.Sprintf("Required field %q is empty", field.Name),
				})
			}
		}

		// declared types and max lengths
		for _, m := range opts.Mappings {
			if m.Ignored || m.TargetField == "" {
				continue
			}
			raw := effectiveValue(row, m, opts.DefaultValues)
			if raw == "" {
				continue
			}

			field := fieldMap[strings.SplitN(m.TargetField, ".", 2)[0]]
			if field == nil {
				continue
			}

			switch field.Type {
			case models.FieldDecimal:
				cleaned := validationNumericCleaner.Replace(raw)
				if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
					rowErrors = append(rowErrors, models.ValidationError{
						Field:   field.APIName,
						Message: fmt.Sprintf("%q expects a number, got %q", field.Name, raw),
						Value:   raw,
					})
				}
			case models.FieldInteger:
				cleaned := validationNumericCleaner.Replace(raw)
				if _, err := strconv.ParseInt(cleaned, 10, 64); err != nil {
					rowErrors = append(rowErrors, models.ValidationError{
						Field:   field.APIName,
						Message: fmt.Sprintf("%q expects an integer, got %q", field.Name, raw),
						Value:   raw,
					})
				}
			case models.FieldBoolean:
				if _, ok := booleanTokens[strings.ToLower(raw)]; !ok {
					rowErrors = append(rowErrors, models.ValidationError{
						Field:   field.APIName,
						Message: fmt.Sprintf("%q expects a boolean, got %q", field.Name, raw),
						Value:   raw,
					})
				}
			}

			if field.MaxLength > 0 && len(raw) > field.MaxLength {
				rowWarnings = append(rowWarnings, models.ValidationWarning{
					Field:   field.APIName,
					Message: fmt.Sprintf("%q exceeds max length of %d (got %d)", field.Name, field.MaxLength, len(raw)),
					Value:   raw,
				})
			}
		}

		// duplicate key within the file
		if key != "" && keyCounts[key] > 1 {
			rowErrors = append(rowErrors, models.ValidationError{
				Field:   opts.KeyField,
				Message: fmt.Sprintf("Duplicate key %q found in file", key),
				Value:   key,
			})
		}

		// mode-key conflicts
		if key != "" && opts.Lookups.ExistingKeys != nil {
			_, exists := opts.Lookups.ExistingKeys[key]
			if opts.Mode == models.ModeCreate && exists {
				rowErrors = append(rowErrors, models.ValidationError{
					Field:   opts.KeyField,
					Message: fmt.Sprintf("Key %q already exists (Create Only mode)", key),
					Value:   key,
				})
			}
			if opts.Mode == models.ModeUpdate && !exists {
				rowErrors = append(rowErrors, models.ValidationError{
					Field:   opts.KeyField,
					Message: fmt.Sprintf("Key %q not found (Update Only mode)", key),
					Value:   key,
				})
			}
		}

		// lookup sets
		for _, m := range opts.Mappings {
			if m.Ignored || m.TargetField == "" {
				continue
			}
			raw := effectiveValue(row, m, opts.DefaultValues)
			if raw == "" {
				continue
			}
			lookupSet := opts.Lookups.Lookups[m.TargetField]
			if len(lookupSet) == 0 {
				continue
			}

			if _, ok := lookupSet[raw]; ok {
				continue
			}
			if closeMatch := caseInsensitiveMatch(lookupSet, raw); closeMatch != "" {
				rowWarnings = append(rowWarnings, models.ValidationWarning{
					Field:      m.TargetField,
					Message:    fmt.Sprintf("%q is close to %q, check casing", raw, closeMatch),
					Suggestion: closeMatch,
					Value:      raw,
				})
			} else {
				rowErrors = append(rowErrors, models.ValidationError{
					Field:   m.TargetField,
					Message: fmt.Sprintf("%q is not a valid value for %s", raw, m.TargetField),
					Value:   raw,
				})
			}
		}

		if rowErrors == nil {
			rowErrors = []models.ValidationError{}
		}
		if rowWarnings == nil {
			rowWarnings = []models.ValidationWarning{}
		}
		results = append(results, models.RowValidationResult{
			RowIndex: i,
			Status:   models.DeriveStatus(rowErrors, rowWarnings),
			Errors:   rowErrors,
			Warnings: rowWarnings,
		})
	}

	return results
}

func rowIsEmpty(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func effectiveValue(row map[string]string, m models.FieldMapping, defaults map[string]string) string {
	if v := strings.TrimSpace(row[m.SourceColumn]); v != "" {
		return v
	}
	return strings.TrimSpace(defaults[m.TargetField])
}

func caseInsensitiveMatch(set map[string]struct{}, value string) string {
	upper := strings.ToUpper(value)
	for candidate := range set {
		if strings.ToUpper(candidate) == upper {
			return candidate
		}
	}
	return ""
}

// validationService implements ValidationService
type validationService struct {
	connections repositories.ConnectionRepository
	cipher      *security.CredentialCipher
	factory     *erp.Factory
	lookups     LookupService
	logger      *logger.Logger
}

// NewValidationService creates a new validation service
func NewValidationService(
	connections repositories.ConnectionRepository,
	cipher *security.CredentialCipher,
	factory *erp.Factory,
	lookups LookupService,
	log *logger.Logger,
) ValidationService {
	return &validationService{
		connections: connections,
		cipher:      cipher,
		factory:     factory,
		lookups:     lookups,
		logger:      log,
	}
}

// Validate fetches reference data for the entity type and runs the row
// validation pass
func (s *validationService) Validate(ctx context.Context, userID string, req *ValidateRequest) (*ValidateResponse, error) {
	adapter, err := entities.GetAdapter(req.EntityType)
	if err != nil {
		return nil, err
	}

	conn, err := s.connections.GetByID(ctx, req.ConnectionID, userID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrConnectionNotFound
	}

	var creds models.Credentials
	if err := s.cipher.DecryptJSON(conn.Credentials, &creds); err != nil {
		return nil, ErrCredentialDecrypt
	}

	client := s.factory.ClientFor(conn, creds)
	lookupResult := s.lookups.FetchLookupData(ctx, client, adapter.LookupRequirements(), nil)

	var existingKeys map[string]struct{}
	if req.Mode == models.ModeCreate || req.Mode == models.ModeUpdate {
		existingKeys, err = adapter.FetchExistingKeys(ctx, client)
		if err != nil {
			s.logger.WithConnection(conn.ID).WithError(err).Warn("Existing keys fetch failed, skipping mode validation")
			lookupResult.Warnings = append(lookupResult.Warnings, fmt.Sprintf(
				"Failed to fetch existing keys: %s. Mode-based validation will be skipped.",
				erp.HumanizeGatewayError(err)))
			existingKeys = nil
		}
	}

	results := ValidateRows(ValidateRowsOptions{
		Rows:          req.Rows,
		Mappings:      req.Mappings,
		DefaultValues: req.DefaultValues,
		Fields:        adapter.Fields(),
		KeyField:      adapter.KeyField(),
		Lookups: models.LookupContext{
			Lookups:      lookupResult.Lookups,
			ExistingKeys: existingKeys,
		},
		Mode: req.Mode,
	})

	return &ValidateResponse{
		ValidationResults: results,
		LookupWarnings:    lookupResult.Warnings,
		Summary:           models.Summarize(results),
	}, nil
}
