package usecase

import (
	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
)

// Convert returns amount expressed in the reference currency of rates.
// The result is the exact decimal product; rounding is left to the caller.
func Convert(amount decimal.Decimal, currency string, rates domain.RateTable) (decimal.Decimal, error) {
	rate, ok := rates.Rate(currency)
	if !ok {
		return decimal.Zero, &domain.UnknownCurrencyError{Code: domain.NormalizeCurrency(currency)}
	}
	return amount.Mul(rate), nil
}
