package entities

import (
	"strconv"
	"strings"

	"erp-import-platform/internal/models"
)

var numericCleaner = strings.NewReplacer(",", "", "$", "")

// CoerceValue converts a raw string to the field's declared type. Values
// that fail to parse are returned as the raw string; the validation engine
// is responsible for flagging them before a record is built.
func CoerceValue(raw string, field *models.EntityField) interface{} {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if field == nil {
		return trimmed
	}

	switch field.Type {
	case models.FieldDecimal:
		if num, err := strconv.ParseFloat(numericCleaner.Replace(trimmed), 64); err == nil {
			return num
		}
		return trimmed
	case models.FieldInteger:
		if num, err := strconv.ParseInt(numericCleaner.Replace(trimmed), 10, 64); err == nil {
			return num
		}
		return trimmed
	case models.FieldBoolean:
		switch strings.ToLower(trimmed) {
		case "true", "yes", "1", "y":
			return true
		case "false", "no", "0", "n":
			return false
		}
		return trimmed
	default:
		return trimmed
	}
}

// setNestedValue places a value in the record under a dotted path, building
// nested objects so "MainAddress.City" becomes
// {MainAddress: {City: {value: ...}}}.
func setNestedValue(record models.Record, path string, value interface{}) {
	parts := strings.Split(path, ".")
	if len(parts) == 1 {
		record[parts[0]] = models.FieldValue{Value: value}
		return
	}

	current := map[string]interface{}(record)
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = models.FieldValue{Value: value}
}

// ApplyDefaults fills in default values for target fields the record does
// not already carry. Fields already set by a mapping keep their value.
func ApplyDefaults(record models.Record, defaults map[string]string, fields []models.EntityField) {
	if len(defaults) == 0 {
		return
	}
	fieldMap := make(map[string]*models.EntityField, len(fields))
	for i := range fields {
		fieldMap[fields[i].APIName] = &fields[i]
	}

	for target, raw := range defaults {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		root := strings.SplitN(target, ".", 2)[0]
		if _, ok := record[root]; ok {
			continue
		}
		setNestedValue(record, target, CoerceValue(raw, fieldMap[root]))
	}
}

// BuildRecord transforms a flat source row into an ERP wire record using
// the provided mappings. Type coercion follows the schema type of the root
// field name (the part before the first dot).
func BuildRecord(row map[string]string, mappings []models.FieldMapping, fields []models.EntityField) models.Record {
	fieldMap := make(map[string]*models.EntityField, len(fields))
	for i := range fields {
		fieldMap[fields[i].APIName] = &fields[i]
	}

	record := make(models.Record)
	for _, m := range mappings {
		if m.Ignored || m.TargetField == "" {
			continue
		}

		value := row[m.SourceColumn]
		if value == "" {
			value = m.DefaultValue
		}
		if value == "" {
			continue
		}

		root := strings.SplitN(m.TargetField, ".", 2)[0]
		coerced := CoerceValue(value, fieldMap[root])
		setNestedValue(record, m.TargetField, coerced)
	}

	return record
}
