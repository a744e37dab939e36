package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryTable is a read-only vendor -> category lookup.
//
// Keys are trimmed of surrounding whitespace and matched case-sensitively.
// When the same vendor appears more than once the last entry wins. Entries
// with a blank category are skipped. The zero value is an empty table.
type CategoryTable struct {
	entries map[string]string
}

// NewCategoryTable builds a table from entries in their given order.
func NewCategoryTable(entries []VendorCategoryEntry) CategoryTable {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		category := strings.TrimSpace(e.Category)
		if category == "" {
			continue
		}
		m[strings.TrimSpace(e.Vendor)] = category
	}
	return CategoryTable{entries: m}
}

// Lookup returns the category mapped to vendor.
func (t CategoryTable) Lookup(vendor string) (string, bool) {
	category, ok := t.entries[strings.TrimSpace(vendor)]
	return category, ok
}

// With returns a copy of the table with vendor mapped to category.
// The receiver is left unchanged.
func (t CategoryTable) With(vendor, category string) CategoryTable {
	m := make(map[string]string, len(t.entries)+1)
	for k, v := range t.entries {
		m[k] = v
	}
	if category = strings.TrimSpace(category); category != "" {
		m[strings.TrimSpace(vendor)] = category
	}
	return CategoryTable{entries: m}
}

// Len returns the number of mapped vendors.
func (t CategoryTable) Len() int {
	return len(t.entries)
}

// Entries returns the mappings sorted by vendor.
func (t CategoryTable) Entries() []VendorCategoryEntry {
	out := make([]VendorCategoryEntry, 0, len(t.entries))
	for vendor, category := range t.entries {
		out = append(out, VendorCategoryEntry{Vendor: vendor, Category: category})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vendor < out[j].Vendor })
	return out
}

// NormalizeCurrency trims and upper-cases a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RateTable is an immutable snapshot of multipliers converting each currency
// into the reference currency.
type RateTable struct {
	reference string
	rates     map[string]decimal.Decimal
}

// NewRateTable copies rates into a new table. Every rate must be positive.
func NewRateTable(reference string, rates map[string]decimal.Decimal) (RateTable, error) {
	reference = NormalizeCurrency(reference)
	if reference == "" {
		return RateTable{}, fmt.Errorf("reference currency is required")
	}
	m := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		code = NormalizeCurrency(code)
		if code == "" {
			return RateTable{}, fmt.Errorf("empty currency code in rate table")
		}
		if !rate.IsPositive() {
			return RateTable{}, fmt.Errorf("rate for %s is %s: %w", code, rate.String(), ErrInvalidRate)
		}
		m[code] = rate
	}
	return RateTable{reference: reference, rates: m}, nil
}

// Reference returns the currency every amount is normalized to.
func (t RateTable) Reference() string {
	return t.reference
}

// Rate returns the multiplier for code.
func (t RateTable) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.rates[NormalizeCurrency(code)]
	return rate, ok
}

// Codes returns the currency codes in the table, sorted.
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Rates returns a copy of the underlying mapping.
func (t RateTable) Rates() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(t.rates))
	for code, rate := range t.rates {
		m[code] = rate
	}
	return m
}
