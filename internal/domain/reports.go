package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch is the output of one aggregation run.
type Batch struct {
	ReferenceCurrency string                `json:"reference_currency"`
	Transactions      []EnrichedTransaction `json:"transactions"`
}

// Empty reports whether the run had no transactions to work with. An empty
// batch is a valid result, not a failure.
func (b *Batch) Empty() bool {
	return b == nil || len(b.Transactions) == 0
}

// CategoryStats holds the totals for one category, in the reference currency.
type CategoryStats struct {
	Sum   decimal.Decimal `json:"sum"`
	Count int             `json:"count"`
	Mean  decimal.Decimal `json:"mean"`
}

// CategorySummary is a CategoryStats row labelled with its category.
type CategorySummary struct {
	Category string `json:"category"`
	CategoryStats
}

// MonthTotal is the normalized sum of one calendar month.
type MonthTotal struct {
	Month string          `json:"month"` // YYYY-MM
	Sum   decimal.Decimal `json:"sum"`
}

// MonthCategoryTotal is the normalized sum of one category within one month.
type MonthCategoryTotal struct {
	Month    string          `json:"month"`
	Category string          `json:"category"`
	Sum      decimal.Decimal `json:"sum"`
}

// CurrencyTotal groups transactions by their original currency.
type CurrencyTotal struct {
	Original   decimal.Decimal `json:"original"`
	Normalized decimal.Decimal `json:"normalized"`
	Count      int             `json:"count"`
}

// Overview provides high-level statistics of a batch. From and To are nil
// when there are no transactions.
type Overview struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	Mean  decimal.Decimal `json:"mean"`
	From  *time.Time      `json:"from,omitempty"`
	To    *time.Time      `json:"to,omitempty"`
	Days  int             `json:"days"`
}

// Summary is the top-level structure for the JSON report.
type Summary struct {
	Empty             bool                       `json:"empty"`
	ReferenceCurrency string                     `json:"reference_currency"`
	Overview          Overview                   `json:"overview"`
	Categories        []CategorySummary          `json:"categories"`
	Months            []MonthTotal               `json:"months"`
	MonthCategories   []MonthCategoryTotal       `json:"month_categories"`
	Accounts          map[string]decimal.Decimal `json:"accounts"`
	Currencies        map[string]CurrencyTotal   `json:"currencies"`
}

// NetWorth compares two balance snapshots in the reference currency.
type NetWorth struct {
	ReferenceCurrency string          `json:"reference_currency"`
	Initial           decimal.Decimal `json:"initial"`
	Current           decimal.Decimal `json:"current"`
	Change            decimal.Decimal `json:"change"`
	ChangePercent     decimal.Decimal `json:"change_percent"`
}

// EnrichmentReport describes what a brand lookup pass resolved.
type EnrichmentReport struct {
	Looked   int               `json:"looked"`
	Resolved map[string]string `json:"resolved"`
	NotFound []string          `json:"not_found"`
	Failed   []string          `json:"failed"`
}
