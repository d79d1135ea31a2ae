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

// SortSpec is a whitelisted ordering with its fallback
type SortSpec struct {
	Allowed      map[string]bool
	DefaultField string
	DefaultDir   string
}

// OrderClause builds a safe ORDER BY expression. An empty direction falls back
// to the default direction rather than DESC.
func (s SortSpec) OrderClause(orderBy, orderDir string) string {
	field := ValidateSortField(orderBy, s.Allowed, s.DefaultField)
	dir := s.DefaultDir
	if strings.TrimSpace(orderDir) != "" {
		dir = ValidateSortOrder(orderDir)
	}
	// id breaks ties so pages stay stable
	return field + " " + dir + ", id ASC"
}

// ProductSort orders products by title unless asked otherwise
var ProductSort = SortSpec{
	Allowed: map[string]bool{
		"unit_price":  true,
		"last_update": true,
		"title":       true,
	},
	DefaultField: "title",
	DefaultDir:   "ASC",
}

// CollectionSort orders collections by title
var CollectionSort = SortSpec{
	Allowed: map[string]bool{
		"title":      true,
		"created_at": true,
	},
	DefaultField: "title",
	DefaultDir:   "ASC",
}

// ReviewSort orders reviews newest first
var ReviewSort = SortSpec{
	Allowed: map[string]bool{
		"date":       true,
		"name":       true,
		"created_at": true,
	},
	DefaultField: "created_at",
	DefaultDir:   "DESC",
}

// CustomerSort orders customers by creation
var CustomerSort = SortSpec{
	Allowed: map[string]bool{
		"created_at": true,
		"membership": true,
		"phone":      true,
	},
	DefaultField: "created_at",
	DefaultDir:   "ASC",
}

// OrderSort orders orders newest first
var OrderSort = SortSpec{
	Allowed: map[string]bool{
		"placed_at":      true,
		"payment_status": true,
	},
	DefaultField: "placed_at",
	DefaultDir:   "DESC",
}
