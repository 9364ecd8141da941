package entities

import "erp-import-platform/internal/models"

var stockItemFields = []models.EntityField{
	{Name: "Inventory ID", APIName: "InventoryID", Type: models.FieldString, Required: true, Description: "Unique identifier, uppercase"},
	{Name: "Description", APIName: "Description", Type: models.FieldString, Required: true, Description: "Item description", MaxLength: 256},
	{Name: "Item Class", APIName: "ItemClass", Type: models.FieldString, Required: true, Description: "Must exist in the ERP system"},
	{Name: "Item Type", APIName: "ItemType", Type: models.FieldString, Required: true, Description: "Finished Good, Component, Subassembly, etc."},
	{Name: "Item Status", APIName: "ItemStatus", Type: models.FieldString, Required: true, Description: "Active, Inactive, No Sales, etc."},
	{Name: "Base UOM", APIName: "BaseUOM", Type: models.FieldString, Required: true, Description: "Unit of measure (EACH, LB, etc.)"},
	{Name: "Default Price", APIName: "DefaultPrice", Type: models.FieldDecimal, Required: false, Description: "Default selling price"},
	{Name: "Current Cost", APIName: "CurrentStdCost", Type: models.FieldDecimal, Required: false, Description: "Current standard cost"},
	{Name: "Tax Category", APIName: "TaxCategory", Type: models.FieldString, Required: false, Description: "Tax category code"},
	{Name: "Warehouse", APIName: "DefaultWarehouse", Type: models.FieldString, Required: false, Description: "Default warehouse ID"},
	{Name: "Product Class", APIName: "ProductClass", Type: models.FieldString, Required: false, Description: "For reporting/grouping"},
	{Name: "Weight", APIName: "Weight", Type: models.FieldDecimal, Required: false, Description: "Item weight"},
	{Name: "Volume", APIName: "Volume", Type: models.FieldDecimal, Required: false, Description: "Item volume"},
}

var stockItemAliases = models.AliasMap{
	"SKU":          "InventoryID",
	"Part Number":  "InventoryID",
	"Item Number":  "InventoryID",
	"Name":         "Description",
	"Item Name":    "Description",
	"Product Name": "Description",
	"Class":        "ItemClass",
	"Category":     "ItemClass",
	"UOM":          "BaseUOM",
	"Unit":         "BaseUOM",
	"Price":        "DefaultPrice",
	"Sell Price":   "DefaultPrice",
	"List Price":   "DefaultPrice",
	"Cost":         "CurrentStdCost",
	"Unit Cost":    "CurrentStdCost",
	"Std Cost":     "CurrentStdCost",
}

var stockItemLookups = []models.LookupRequirement{
	{Name: "ItemClass", Entity: "ItemClass", KeyField: "ClassID", Label: "Item Classes"},
	{Name: "BaseUOM", Entity: "UnitOfMeasure", KeyField: "UOM", Label: "Units of Measure"},
	{Name: "TaxCategory", Entity: "TaxCategory", KeyField: "TaxCategoryID", Label: "Tax Categories"},
	{Name: "DefaultWarehouse", Entity: "Warehouse", KeyField: "WarehouseID", Label: "Warehouses"},
}
