package models

// EntityType identifies one of the importable ERP record kinds
type EntityType string

const (
	EntityStockItem EntityType = "StockItem"
	EntityCustomer  EntityType = "Customer"
	EntityVendor    EntityType = "Vendor"
)

// EntityTypes lists all importable entity types
var EntityTypes = []EntityType{EntityStockItem, EntityCustomer, EntityVendor}

// IsValid reports whether the entity type is one of the importable kinds
func (t EntityType) IsValid() bool {
	switch t {
	case EntityStockItem, EntityCustomer, EntityVendor:
		return true
	}
	return false
}

// ImportMode controls how existing records are treated during an import
type ImportMode string

const (
	ModeCreate         ImportMode = "create"
	ModeCreateOrUpdate ImportMode = "create_or_update"
	ModeUpdate         ImportMode = "update"
)

// IsValid reports whether the import mode is recognised
func (m ImportMode) IsValid() bool {
	switch m {
	case ModeCreate, ModeCreateOrUpdate, ModeUpdate:
		return true
	}
	return false
}

// FieldType is the declared value type of an entity field
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldDecimal FieldType = "decimal"
	FieldInteger FieldType = "integer"
	FieldBoolean FieldType = "boolean"
)

// EntityField describes one target field of an ERP entity
type EntityField struct {
	Name        string    `json:"name"`
	APIName     string    `json:"apiName"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
	MaxLength   int       `json:"maxLength,omitempty"`
	IsCustom    bool      `json:"isCustom,omitempty"`
}

// AliasMap maps a known source-header alias to a target field API name
type AliasMap map[string]string

// FieldValue is the ERP wire representation of a single field value
type FieldValue struct {
	Value interface{} `json:"value"`
}

// Record is a transformed row in ERP wire shape. Values are either
// FieldValue leaves or nested map[string]interface{} sub-records for
// dotted field paths.
type Record map[string]interface{}

// KeyValue returns the string form of the record's value for the given
// top-level field, or "" when absent.
func (r Record) KeyValue(field string) string {
	v, ok := r[field]
	if !ok {
		return ""
	}
	fv, ok := v.(FieldValue)
	if !ok {
		return ""
	}
	if fv.Value == nil {
		return ""
	}
	if s, ok := fv.Value.(string); ok {
		return s
	}
	return ""
}

// LookupRequirement declares a remote reference table whose key values
// constrain a target field's acceptable input
type LookupRequirement struct {
	Name     string `json:"name"`
	Entity   string `json:"entity"`
	KeyField string `json:"keyField"`
	Label    string `json:"label"`
}

// LookupContext carries pre-fetched reference data for one validation or
// import run. ExistingKeys is nil when the fetch failed or was not needed.
type LookupContext struct {
	Lookups      map[string]map[string]struct{}
	ExistingKeys map[string]struct{}
}
