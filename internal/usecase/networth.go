package usecase

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// NetWorth converts two sets of account balances into the reference currency
// and compares them. ChangePercent is zero when the initial total is zero.
func NetWorth(initial, current map[string]decimal.Decimal, rates domain.RateTable) (domain.NetWorth, error) {
	initialTotal, err := convertBalances(initial, rates)
	if err != nil {
		return domain.NetWorth{}, fmt.Errorf("initial balances: %w", err)
	}
	currentTotal, err := convertBalances(current, rates)
	if err != nil {
		return domain.NetWorth{}, fmt.Errorf("current balances: %w", err)
	}

	nw := domain.NetWorth{
		ReferenceCurrency: rates.Reference(),
		Initial:           initialTotal,
		Current:           currentTotal,
		Change:            currentTotal.Sub(initialTotal),
	}
	if !initialTotal.IsZero() {
		nw.ChangePercent = nw.Change.Div(initialTotal).Mul(hundred)
	}
	return nw, nil
}

func convertBalances(balances map[string]decimal.Decimal, rates domain.RateTable) (decimal.Decimal, error) {
	// Sorted so the first unknown currency reported is deterministic.
	codes := make([]string, 0, len(balances))
	for code := range balances {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	total := decimal.Zero
	for _, code := range codes {
		converted, err := Convert(balances[code], code, rates)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(converted)
	}
	return total, nil
}
