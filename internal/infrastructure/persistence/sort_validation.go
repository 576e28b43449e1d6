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

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
// Sort fields end up concatenated into ORDER BY, so everything not on the
// whitelist is refused.
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

// QuoteSortFields contains allowed sort fields for quotes
var QuoteSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"folio":       true,
	"client_name": true,
	"status":      true,
	"total":       true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"client_name":  true,
	"status":       true,
	"total":        true,
	"approved_at":  true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"po_number":     true,
	"supplier_name": true,
	"status":        true,
	"subtotal":      true,
	"sent_at":       true,
	"received_at":   true,
}

// PartnerSortFields contains allowed sort fields for clients and suppliers
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"rfc":        true,
}
