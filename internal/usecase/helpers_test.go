package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func mustRates(t *testing.T, reference string, rates map[string]string) domain.RateTable {
	t.Helper()
	m := make(map[string]decimal.Decimal, len(rates))
	for code, r := range rates {
		m[code] = dec(r)
	}
	table, err := domain.NewRateTable(reference, m)
	require.NoError(t, err)
	return table
}

func defaultRates(t *testing.T) domain.RateTable {
	return mustRates(t, "USD", map[string]string{"EUR": "1.09", "USD": "1.00", "PEN": "0.27"})
}
