package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// TransactionSortFields contains allowed sort fields for treasury transactions
var TransactionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"date":       true,
	"type":       true,
	"amount":     true,
	"status":     true,
	"category":   true,
}

// CashAccountSortFields contains allowed sort fields for cash accounts
var CashAccountSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"bank_name":      true,
	"account_name":   true,
	"account_number": true,
	"type":           true,
	"status":         true,
}

// ContractSortFields contains allowed sort fields for contracts
var ContractSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"name":       true,
	"type":       true,
	"value":      true,
	"status":     true,
	"signed_at":  true,
}

// ProjectSortFields contains allowed sort fields for projects
var ProjectSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"status":         true,
	"contract_value": true,
	"start_date":     true,
	"end_date":       true,
}

// PartnerSortFields contains allowed sort fields for partners
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"tax_code":   true,
}
