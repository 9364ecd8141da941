package mapping

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-import-platform/internal/models"
)

var testFields = []models.EntityField{
	{Name: "Inventory ID", APIName: "InventoryID", Type: models.FieldString, Required: true, Description: "Unique item identifier"},
	{Name: "Description", APIName: "Description", Type: models.FieldString, Description: "Item description"},
	{Name: "Item Class", APIName: "ItemClass", Type: models.FieldString, Description: "Item class"},
	{Name: "Default Price", APIName: "DefaultPrice", Type: models.FieldDecimal, Description: "Default sales price"},
	{Name: "Base UOM", APIName: "BaseUOM", Type: models.FieldString, Description: "Base unit of measure"},
}

var testAliases = models.AliasMap{
	"SKU":         "InventoryID",
	"Part Number": "InventoryID",
	"Item":        "InventoryID",
	"Price":       "DefaultPrice",
	"UOM":         "BaseUOM",
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "inventoryid", Normalize("Inventory ID"))
	assert.Equal(t, "partnumber", Normalize("Part_Number"))
	assert.Equal(t, "baseuom", Normalize("base-uom"))
	assert.Equal(t, "sku", Normalize("  SKU\t"))
}

func TestAutoMap_ExactMatch(t *testing.T) {
	mappings := AutoMap([]string{"Inventory ID", "Description"}, testFields, testAliases)

	require.Len(t, mappings, 2)
	assert.Equal(t, "InventoryID", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceExact, mappings[0].Confidence)
	assert.Equal(t, "Description", mappings[1].TargetField)
	assert.Equal(t, models.ConfidenceExact, mappings[1].Confidence)
}

func TestAutoMap_AliasMatch(t *testing.T) {
	mappings := AutoMap([]string{"SKU", "Price"}, testFields, testAliases)

	assert.Equal(t, "InventoryID", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceAlias, mappings[0].Confidence)
	assert.Equal(t, "DefaultPrice", mappings[1].TargetField)
	assert.Equal(t, models.ConfidenceAlias, mappings[1].Confidence)
}

func TestAutoMap_FuzzyMatch(t *testing.T) {
	mappings := AutoMap([]string{"Descriptio"}, testFields, testAliases)

	assert.Equal(t, "Description", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceFuzzy, mappings[0].Confidence)
}

func TestAutoMap_ExactBeatsAlias(t *testing.T) {
	// "SKU" aliases to InventoryID but "Inventory ID" matches it exactly,
	// so the exact header keeps the claim regardless of column order
	mappings := AutoMap([]string{"SKU", "Inventory ID"}, testFields, testAliases)

	assert.Equal(t, "", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceNone, mappings[0].Confidence)
	assert.Equal(t, "InventoryID", mappings[1].TargetField)
	assert.Equal(t, models.ConfidenceExact, mappings[1].Confidence)
}

func TestAutoMap_FirstClaimWinsWithinSameConfidence(t *testing.T) {
	// Two aliases of the same target: the earlier column keeps it
	mappings := AutoMap([]string{"SKU", "Part Number"}, testFields, testAliases)

	assert.Equal(t, "InventoryID", mappings[0].TargetField)
	assert.Equal(t, "", mappings[1].TargetField)
}

func TestAutoMap_ShortHeadersSkipFuzzy(t *testing.T) {
	mappings := AutoMap([]string{"De"}, testFields, testAliases)

	assert.Equal(t, "", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceNone, mappings[0].Confidence)
}

func TestAutoMap_UnmatchableHeader(t *testing.T) {
	mappings := AutoMap([]string{"zzzzzzzzzz"}, testFields, testAliases)

	assert.Equal(t, "", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceNone, mappings[0].Confidence)
}

func TestAutoMap_SingleOwnerProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	headerGen := gen.SliceOf(gen.OneConstOf(
		"SKU", "Part Number", "Inventory ID", "Description", "Item Class",
		"Price", "Default Price", "UOM", "Base UOM", "Color", "Weight", "Item",
	))

	properties.Property("every target field is claimed by at most one column", prop.ForAll(
		func(headers []string) bool {
			mappings := AutoMap(headers, testFields, testAliases)
			seen := make(map[string]int)
			for _, m := range mappings {
				if m.TargetField != "" {
					seen[m.TargetField]++
				}
			}
			for _, count := range seen {
				if count > 1 {
					return false
				}
			}
			return true
		},
		headerGen,
	))

	properties.Property("mapping output is deterministic", prop.ForAll(
		func(headers []string) bool {
			first := AutoMap(headers, testFields, testAliases)
			second := AutoMap(headers, testFields, testAliases)
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}
			return true
		},
		headerGen,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUpdateMapping_ClearsPreviousOwner(t *testing.T) {
	mappings := AutoMap([]string{"SKU", "Some Column"}, testFields, testAliases)
	require.Equal(t, "InventoryID", mappings[0].TargetField)

	UpdateMapping(mappings, 1, "InventoryID")

	assert.Equal(t, "", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceNone, mappings[0].Confidence)
	assert.Equal(t, "InventoryID", mappings[1].TargetField)
	assert.Equal(t, models.ConfidenceExact, mappings[1].Confidence)
}

func TestUpdateMapping_ReassignmentResetsConfidence(t *testing.T) {
	mappings := AutoMap([]string{"Descriptio"}, testFields, testAliases)
	require.Equal(t, "Description", mappings[0].TargetField)
	require.Equal(t, models.ConfidenceFuzzy, mappings[0].Confidence)

	UpdateMapping(mappings, 0, "ItemClass")

	assert.Equal(t, "ItemClass", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceExact, mappings[0].Confidence)
	assert.False(t, mappings[0].Ignored)
}

func TestUpdateMapping_EmptyTargetUnmaps(t *testing.T) {
	mappings := AutoMap([]string{"SKU"}, testFields, testAliases)

	UpdateMapping(mappings, 0, "")

	assert.Equal(t, "", mappings[0].TargetField)
	assert.Equal(t, models.ConfidenceNone, mappings[0].Confidence)
}

func TestUpdateMapping_IndexOutOfRange(t *testing.T) {
	mappings := AutoMap([]string{"SKU"}, testFields, testAliases)

	UpdateMapping(mappings, 5, "Description")
	UpdateMapping(mappings, -1, "Description")

	assert.Equal(t, "InventoryID", mappings[0].TargetField)
}

func TestSampleValues(t *testing.T) {
	rows := []map[string]string{
		{"Color": "Red"},
		{"Color": "Blue"},
		{"Color": "Red"},
		{"Color": "  "},
		{"Color": "Green"},
		{"Color": "Black"},
	}

	samples := SampleValues(rows, "Color", 3)
	assert.Equal(t, []string{"Red", "Blue", "Green"}, samples)

	assert.Empty(t, SampleValues(rows, "Missing", 3))
}
