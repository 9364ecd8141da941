package entities

import "erp-import-platform/internal/models"

var vendorFields = []models.EntityField{
	{Name: "Vendor ID", APIName: "VendorID", Type: models.FieldString, Required: true, Description: "Unique identifier"},
	{Name: "Vendor Name", APIName: "VendorName", Type: models.FieldString, Required: true, Description: "Legal/display name", MaxLength: 256},
	{Name: "Vendor Class", APIName: "VendorClass", Type: models.FieldString, Required: true, Description: "Must exist in the ERP system"},
	{Name: "Status", APIName: "Status", Type: models.FieldString, Required: true, Description: "Active, On Hold, One-Time"},
	{Name: "Terms", APIName: "Terms", Type: models.FieldString, Required: false, Description: "Payment terms code"},
	{Name: "Currency", APIName: "CurrencyID", Type: models.FieldString, Required: false, Description: "Defaults to base currency"},
	{Name: "Tax Zone", APIName: "TaxZone", Type: models.FieldString, Required: false, Description: "Tax zone code"},
	{Name: "Payment Method", APIName: "PaymentMethod", Type: models.FieldString, Required: false, Description: "Default payment method"},
	{Name: "Cash Account", APIName: "CashAccount", Type: models.FieldString, Required: false, Description: "Default cash account"},
	{Name: "Landed Cost Vendor", APIName: "LandedCostVendor", Type: models.FieldBoolean, Required: false, Description: "Is landed cost vendor"},
	{Name: "Tax Agency", APIName: "TaxAgency", Type: models.FieldBoolean, Required: false, Description: "Is tax agency"},
	{Name: "Email", APIName: "Email", Type: models.FieldString, Required: false, Description: "Primary email"},
	{Name: "Phone", APIName: "Phone", Type: models.FieldString, Required: false, Description: "Primary phone"},
}

var vendorAliases = models.AliasMap{
	"Supplier":       "VendorID",
	"Supplier ID":    "VendorID",
	"Vendor #":       "VendorID",
	"Vendor Number":  "VendorID",
	"Supplier Name":  "VendorName",
	"Company":        "VendorName",
	"Company Name":   "VendorName",
	"Class":          "VendorClass",
	"Vendor Type":    "VendorClass",
	"Category":       "VendorClass",
	"Payment Terms":  "Terms",
	"Net Terms":      "Terms",
	"Terms Code":     "Terms",
	"Address":        "MainAddress.AddressLine1",
	"Street":         "MainAddress.AddressLine1",
	"Address Line 1": "MainAddress.AddressLine1",
	"Contact":        "MainContact.DisplayName",
	"Contact Name":   "MainContact.DisplayName",
}

var vendorLookups = []models.LookupRequirement{
	{Name: "VendorClass", Entity: "VendorClass", KeyField: "ClassID", Label: "Vendor Classes"},
	{Name: "Terms", Entity: "Terms", KeyField: "TermsID", Label: "Payment Terms"},
	{Name: "TaxZone", Entity: "TaxZone", KeyField: "TaxZoneID", Label: "Tax Zones"},
	{Name: "PaymentMethod", Entity: "PaymentMethod", KeyField: "PaymentMethodID", Label: "Payment Methods"},
	{Name: "CashAccount", Entity: "CashAccount", KeyField: "CashAccountCD", Label: "Cash Accounts"},
}
