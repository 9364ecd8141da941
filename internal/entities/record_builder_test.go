package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-import-platform/internal/models"
)

var builderFields = []models.EntityField{
	{Name: "Inventory ID", APIName: "InventoryID", Type: models.FieldString},
	{Name: "Default Price", APIName: "DefaultPrice", Type: models.FieldDecimal},
	{Name: "Reorder Point", APIName: "ReorderPoint", Type: models.FieldInteger},
	{Name: "Is Kit", APIName: "IsKit", Type: models.FieldBoolean},
	{Name: "Main Address", APIName: "MainAddress", Type: models.FieldString},
}

func TestCoerceValue(t *testing.T) {
	decimal := &models.EntityField{Type: models.FieldDecimal}
	integer := &models.EntityField{Type: models.FieldInteger}
	boolean := &models.EntityField{Type: models.FieldBoolean}

	t.Run("decimal values strip separators and currency", func(t *testing.T) {
		assert.Equal(t, 1234.5, CoerceValue("1,234.50", decimal))
		assert.Equal(t, 19.99, CoerceValue("$19.99", decimal))
		assert.Equal(t, -3.5, CoerceValue("-3.5", decimal))
	})

	t.Run("integer values", func(t *testing.T) {
		assert.Equal(t, int64(42), CoerceValue("42", integer))
		assert.Equal(t, int64(1000), CoerceValue("1,000", integer))
	})

	t.Run("boolean tokens", func(t *testing.T) {
		assert.Equal(t, true, CoerceValue("yes", boolean))
		assert.Equal(t, true, CoerceValue("Y", boolean))
		assert.Equal(t, true, CoerceValue("1", boolean))
		assert.Equal(t, false, CoerceValue("No", boolean))
		assert.Equal(t, false, CoerceValue("FALSE", boolean))
	})

	t.Run("unparseable values fall back to the raw string", func(t *testing.T) {
		assert.Equal(t, "N/A", CoerceValue("N/A", decimal))
		assert.Equal(t, "maybe", CoerceValue("maybe", boolean))
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		assert.Nil(t, CoerceValue("   ", decimal))
		assert.Nil(t, CoerceValue("", nil))
	})

	t.Run("nil field keeps the trimmed string", func(t *testing.T) {
		assert.Equal(t, "hello", CoerceValue(" hello ", nil))
	})
}

func TestBuildRecord(t *testing.T) {
	mappings := []models.FieldMapping{
		{SourceColumn: "SKU", TargetField: "InventoryID"},
		{SourceColumn: "Price", TargetField: "DefaultPrice"},
		{SourceColumn: "Kit", TargetField: "IsKit"},
		{SourceColumn: "City", TargetField: "MainAddress.City"},
		{SourceColumn: "Notes", TargetField: ""},
		{SourceColumn: "Internal", TargetField: "ReorderPoint", Ignored: true},
	}
	row := map[string]string{
		"SKU":      "WIDGET-01",
		"Price":    "1,234.50",
		"Kit":      "yes",
		"City":     "Portland",
		"Notes":    "skip me",
		"Internal": "99",
	}

	record := BuildRecord(row, mappings, builderFields)

	assert.Equal(t, models.FieldValue{Value: "WIDGET-01"}, record["InventoryID"])
	assert.Equal(t, models.FieldValue{Value: 1234.5}, record["DefaultPrice"])
	assert.Equal(t, models.FieldValue{Value: true}, record["IsKit"])

	address, ok := record["MainAddress"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, models.FieldValue{Value: "Portland"}, address["City"])

	_, hasReorder := record["ReorderPoint"]
	assert.False(t, hasReorder, "ignored mappings must not be built")
	assert.Len(t, record, 4)
}

func TestBuildRecord_DefaultValueFallback(t *testing.T) {
	mappings := []models.FieldMapping{
		{SourceColumn: "SKU", TargetField: "InventoryID"},
		{SourceColumn: "Price", TargetField: "DefaultPrice", DefaultValue: "9.99"},
	}
	row := map[string]string{"SKU": "WIDGET-02", "Price": ""}

	record := BuildRecord(row, mappings, builderFields)

	assert.Equal(t, models.FieldValue{Value: 9.99}, record["DefaultPrice"])
}

func TestBuildRecord_EmptyValuesOmitted(t *testing.T) {
	mappings := []models.FieldMapping{
		{SourceColumn: "SKU", TargetField: "InventoryID"},
		{SourceColumn: "Price", TargetField: "DefaultPrice"},
	}
	row := map[string]string{"SKU": "WIDGET-03", "Price": ""}

	record := BuildRecord(row, mappings, builderFields)

	_, hasPrice := record["DefaultPrice"]
	assert.False(t, hasPrice)
}

func TestApplyDefaults(t *testing.T) {
	mappings := []models.FieldMapping{
		{SourceColumn: "SKU", TargetField: "InventoryID"},
	}
	record := BuildRecord(map[string]string{"SKU": "WIDGET-04"}, mappings, builderFields)

	ApplyDefaults(record, map[string]string{
		"DefaultPrice": "5.00",
		"InventoryID":  "OVERRIDE",
		"ReorderPoint": "  ",
	}, builderFields)

	assert.Equal(t, models.FieldValue{Value: 5.0}, record["DefaultPrice"])
	// mapped values keep precedence over defaults
	assert.Equal(t, models.FieldValue{Value: "WIDGET-04"}, record["InventoryID"])
	_, hasReorder := record["ReorderPoint"]
	assert.False(t, hasReorder, "blank defaults are not applied")
}
