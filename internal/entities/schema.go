package entities

import (
	"strings"

	"erp-import-platform/internal/models"
)

// SchemaField is one entry of the ERP's schema discovery response
type SchemaField struct {
	FieldName   string `json:"FieldName"`
	ObjectName  string `json:"ObjectName"`
	FieldType   string `json:"FieldType"`
	Required    bool   `json:"Required"`
	Description string `json:"Description"`
	MaxLength   int    `json:"MaxLength"`
}

// ParseSchemaFields converts schema discovery output into custom entity
// fields. User-defined fields follow the "Usr" name prefix.
func ParseSchemaFields(schemaFields []SchemaField) []models.EntityField {
	var fields []models.EntityField
	for _, f := range schemaFields {
		if !strings.HasPrefix(f.FieldName, "Usr") {
			continue
		}
		description := f.Description
		if description == "" {
			description = "Custom field: " + f.FieldName
		}
		fields = append(fields, models.EntityField{
			Name:        f.FieldName,
			APIName:     f.FieldName,
			Type:        mapSchemaType(f.FieldType),
			Required:    f.Required,
			Description: description,
			MaxLength:   f.MaxLength,
			IsCustom:    true,
		})
	}
	return fields
}

func mapSchemaType(schemaType string) models.FieldType {
	switch strings.ToLower(schemaType) {
	case "int", "int32", "int64":
		return models.FieldInteger
	case "decimal", "double", "float":
		return models.FieldDecimal
	case "bool", "boolean":
		return models.FieldBoolean
	default:
		return models.FieldString
	}
}

// MergeFields appends custom fields to the static list, dropping custom
// fields whose apiName collides with a static one
func MergeFields(staticFields, customFields []models.EntityField) []models.EntityField {
	existing := make(map[string]struct{}, len(staticFields))
	for _, f := range staticFields {
		existing[f.APIName] = struct{}{}
	}

	merged := make([]models.EntityField, 0, len(staticFields)+len(customFields))
	merged = append(merged, staticFields...)
	for _, f := range customFields {
		if _, ok := existing[f.APIName]; !ok {
			merged = append(merged, f)
		}
	}
	return merged
}
