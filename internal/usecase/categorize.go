package usecase

import "expense-tracker/internal/domain"

// Categorize returns the category mapped to vendor, or domain.FallbackCategory.
// The vendor is trimmed and then matched exactly, case included.
func Categorize(vendor string, table domain.CategoryTable) string {
	if category, ok := table.Lookup(vendor); ok {
		return category
	}
	return domain.FallbackCategory
}
