package entities

import "erp-import-platform/internal/models"

var customerFields = []models.EntityField{
	{Name: "Customer ID", APIName: "CustomerID", Type: models.FieldString, Required: true, Description: "Unique identifier"},
	{Name: "Customer Name", APIName: "CustomerName", Type: models.FieldString, Required: true, Description: "Legal/display name", MaxLength: 256},
	{Name: "Customer Class", APIName: "CustomerClass", Type: models.FieldString, Required: true, Description: "Must exist in the ERP system"},
	{Name: "Status", APIName: "Status", Type: models.FieldString, Required: true, Description: "Active, On Hold, One-Time, etc."},
	{Name: "Terms", APIName: "Terms", Type: models.FieldString, Required: false, Description: "Payment terms code"},
	{Name: "Currency", APIName: "CurrencyID", Type: models.FieldString, Required: false, Description: "Defaults to base currency"},
	{Name: "Tax Zone", APIName: "TaxZone", Type: models.FieldString, Required: false, Description: "Tax zone code"},
	{Name: "Credit Limit", APIName: "CreditLimit", Type: models.FieldDecimal, Required: false, Description: "Credit limit amount"},
	{Name: "Statement Type", APIName: "StatementType", Type: models.FieldString, Required: false, Description: "Balance Brought Forward, Open Item"},
	{Name: "Parent Account", APIName: "ParentAccount", Type: models.FieldString, Required: false, Description: "Parent customer ID"},
	{Name: "Email", APIName: "Email", Type: models.FieldString, Required: false, Description: "Primary email"},
	{Name: "Phone", APIName: "Phone", Type: models.FieldString, Required: false, Description: "Primary phone"},
}

var customerAliases = models.AliasMap{
	"Account":        "CustomerID",
	"Acct":           "CustomerID",
	"Cust ID":        "CustomerID",
	"Company":        "CustomerName",
	"Company Name":   "CustomerName",
	"Account Name":   "CustomerName",
	"Class":          "CustomerClass",
	"Customer Type":  "CustomerClass",
	"Payment Terms":  "Terms",
	"Net Terms":      "Terms",
	"Address":        "MainAddress.AddressLine1",
	"Street":         "MainAddress.AddressLine1",
	"Address Line 1": "MainAddress.AddressLine1",
	"City":           "MainAddress.City",
	"Town":           "MainAddress.City",
	"State":          "MainAddress.State",
	"Province":       "MainAddress.State",
	"Region":         "MainAddress.State",
	"Zip":            "MainAddress.PostalCode",
	"Zip Code":       "MainAddress.PostalCode",
	"Postal Code":    "MainAddress.PostalCode",
	"Contact":        "MainContact.DisplayName",
	"Contact Name":   "MainContact.DisplayName",
	"Contact Email":  "MainContact.Email",
	"Contact Phone":  "MainContact.Phone1",
}

var customerLookups = []models.LookupRequirement{
	{Name: "CustomerClass", Entity: "CustomerClass", KeyField: "ClassID", Label: "Customer Classes"},
	{Name: "Terms", Entity: "Terms", KeyField: "TermsID", Label: "Payment Terms"},
	{Name: "TaxZone", Entity: "TaxZone", KeyField: "TaxZoneID", Label: "Tax Zones"},
	{Name: "CurrencyID", Entity: "Currency", KeyField: "CurrencyID", Label: "Currencies"},
}
