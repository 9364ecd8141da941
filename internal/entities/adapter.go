package entities

import (
	"context"
	"fmt"
	"strings"

	"erp-import-platform/internal/erp"
	"erp-import-platform/internal/models"
)

// Adapter is the per-entity-type contract the import pipeline runs against
type Adapter interface {
	EntityType() models.EntityType
	EntityLabel() string
	KeyField() string
	Fields() []models.EntityField
	RequiredFields() []models.EntityField
	Aliases() models.AliasMap
	LookupRequirements() []models.LookupRequirement

	// FetchExistingKeys pulls the full key set of the remote entity
	FetchExistingKeys(ctx context.Context, client *erp.Client) (map[string]struct{}, error)

	// FetchCustomFields discovers user-defined fields from the remote
	// entity's ad hoc schema
	FetchCustomFields(ctx context.Context, client *erp.Client) ([]models.EntityField, error)

	// MapRecord transforms one source row into the ERP wire shape
	MapRecord(row map[string]string, mappings []models.FieldMapping) models.Record

	// PushRecord upserts one record through the gateway
	PushRecord(ctx context.Context, client *erp.Client, record models.Record) error
}

// entityAdapter is the shared implementation; each entity type is a
// registered variant differing only in its static schema
type entityAdapter struct {
	entityType models.EntityType
	label      string
	apiEntity  string
	keyField   string
	fields     []models.EntityField
	aliases    models.AliasMap
	lookups    []models.LookupRequirement
}

func (a *entityAdapter) EntityType() models.EntityType { return a.entityType }
func (a *entityAdapter) EntityLabel() string           { return a.label }
func (a *entityAdapter) KeyField() string              { return a.keyField }
func (a *entityAdapter) Fields() []models.EntityField  { return a.fields }
func (a *entityAdapter) Aliases() models.AliasMap      { return a.aliases }

func (a *entityAdapter) RequiredFields() []models.EntityField {
	var required []models.EntityField
	for _, f := range a.fields {
		if f.Required {
			required = append(required, f)
		}
	}
	return required
}

func (a *entityAdapter) LookupRequirements() []models.LookupRequirement {
	return a.lookups
}

func (a *entityAdapter) FetchExistingKeys(ctx context.Context, client *erp.Client) (map[string]struct{}, error) {
	var records []map[string]models.FieldValue
	path := fmt.Sprintf("/%s?$select=%s", a.apiEntity, a.keyField)
	if err := client.Get(ctx, path, &records); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(records))
	for _, record := range records {
		if fv, ok := record[a.keyField]; ok {
			if s, ok := fv.Value.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					keys[trimmed] = struct{}{}
				}
			}
		}
	}
	return keys, nil
}

func (a *entityAdapter) FetchCustomFields(ctx context.Context, client *erp.Client) ([]models.EntityField, error) {
	var schemaFields []SchemaField
	path := fmt.Sprintf("/%s/$adHocSchema", a.apiEntity)
	if err := client.Get(ctx, path, &schemaFields); err != nil {
		return nil, err
	}
	return ParseSchemaFields(schemaFields), nil
}

func (a *entityAdapter) MapRecord(row map[string]string, mappings []models.FieldMapping) models.Record {
	return BuildRecord(row, mappings, a.fields)
}

func (a *entityAdapter) PushRecord(ctx context.Context, client *erp.Client, record models.Record) error {
	return client.Put(ctx, "/"+a.apiEntity, record, nil)
}

// registry holds the adapter variant per entity type
var registry = map[models.EntityType]Adapter{
	models.EntityStockItem: &entityAdapter{
		entityType: models.EntityStockItem,
		label:      "Stock Items",
		apiEntity:  "StockItem",
		keyField:   "InventoryID",
		fields:     stockItemFields,
		aliases:    stockItemAliases,
		lookups:    stockItemLookups,
	},
	models.EntityCustomer: &entityAdapter{
		entityType: models.EntityCustomer,
		label:      "Customers",
		apiEntity:  "Customer",
		keyField:   "CustomerID",
		fields:     customerFields,
		aliases:    customerAliases,
		lookups:    customerLookups,
	},
	models.EntityVendor: &entityAdapter{
		entityType: models.EntityVendor,
		label:      "Vendors",
		apiEntity:  "Vendor",
		keyField:   "VendorID",
		fields:     vendorFields,
		aliases:    vendorAliases,
		lookups:    vendorLookups,
	},
}

// GetAdapter resolves the adapter for an entity type
func GetAdapter(entityType models.EntityType) (Adapter, error) {
	adapter, ok := registry[entityType]
	if !ok {
		return nil, fmt.Errorf("unknown entity type: %s", entityType)
	}
	return adapter, nil
}
