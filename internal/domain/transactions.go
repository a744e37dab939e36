package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FallbackCategory is assigned to every transaction whose vendor has no mapping.
const FallbackCategory = "Other"

// Transaction represents one row of a bank export.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // Negative for outflows
	Currency    string          `json:"currency"`
	Account     string          `json:"account"`

	// Provenance, used to point at the offending record in errors.
	Source string `json:"source,omitempty"` // e.g., "transactions_eur.csv"
	Row    int    `json:"row,omitempty"`    // 1-based, header excluded
}

// TransactionSet is the content of one source file. Currency and Account are
// attached by the caller and fill in rows that do not carry their own.
type TransactionSet struct {
	Currency     string        `json:"currency"`
	Account      string        `json:"account"`
	Transactions []Transaction `json:"transactions"`
}

// VendorCategoryEntry maps an exact vendor key to a category label.
type VendorCategoryEntry struct {
	Vendor   string `json:"vendor"`
	Category string `json:"category"`
}

// EnrichedTransaction is a Transaction with its category and its amount in the
// reference currency.
type EnrichedTransaction struct {
	Transaction
	Category         string          `json:"category"`
	NormalizedAmount decimal.Decimal `json:"normalized_amount"`
}

// Month returns the calendar year-month key of the transaction, e.g. "2025-01".
func (t EnrichedTransaction) Month() string {
	return t.Date.Format("2006-01")
}

// DefaultAccountLabel is the account name used when a source does not name one.
func DefaultAccountLabel(currency string) string {
	return currency + " Account"
}

// Source names one bank export file and the currency and account it belongs to.
type Source struct {
	Path     string `json:"path"`
	Currency string `json:"currency"`
	Account  string `json:"account,omitempty"`
}
