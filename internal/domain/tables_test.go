package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryTable(t *testing.T) {
	table := NewCategoryTable([]VendorCategoryEntry{
		{Vendor: " Netflix ", Category: "Entertainment"},
		{Vendor: "Uber", Category: "Transport"},
		{Vendor: "Netflix", Category: " Subscriptions "},
		{Vendor: "Uber", Category: "   "},
	})

	assert.Equal(t, 2, table.Len())

	category, ok := table.Lookup("Netflix")
	require.True(t, ok)
	assert.Equal(t, "Subscriptions", category)

	category, ok = table.Lookup("  Uber")
	require.True(t, ok)
	assert.Equal(t, "Transport", category)

	_, ok = table.Lookup("netflix")
	assert.False(t, ok)
}

func TestCategoryTable_ZeroValue(t *testing.T) {
	var table CategoryTable

	_, ok := table.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Entries())

	extended := table.With("Uber", "Transport")
	assert.Equal(t, 1, extended.Len())
}

func TestCategoryTable_WithLeavesReceiverUnchanged(t *testing.T) {
	base := NewCategoryTable([]VendorCategoryEntry{{Vendor: "Uber", Category: "Transport"}})

	extended := base.With("Lidl", "Groceries").With("Uber", "Rides").With("Nobody", " ")

	assert.Equal(t, []VendorCategoryEntry{{Vendor: "Uber", Category: "Transport"}}, base.Entries())
	assert.Equal(t, []VendorCategoryEntry{
		{Vendor: "Lidl", Category: "Groceries"},
		{Vendor: "Uber", Category: "Rides"},
	}, extended.Entries())
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "EUR", NormalizeCurrency(" eur "))
	assert.Equal(t, "USD", NormalizeCurrency("USD"))
	assert.Equal(t, "", NormalizeCurrency("  "))
}

func TestNewRateTable(t *testing.T) {
	t.Run("normalizes codes and copies input", func(t *testing.T) {
		input := map[string]decimal.Decimal{
			"eur": decimal.RequireFromString("1.09"),
			"USD": decimal.NewFromInt(1),
		}
		table, err := NewRateTable(" usd", input)
		require.NoError(t, err)

		input["EUR"] = decimal.NewFromInt(99)

		assert.Equal(t, "USD", table.Reference())
		assert.Equal(t, []string{"EUR", "USD"}, table.Codes())
		rate, ok := table.Rate("Eur")
		require.True(t, ok)
		assert.Equal(t, "1.09", rate.String())

		copied := table.Rates()
		copied["EUR"] = decimal.NewFromInt(7)
		rate, _ = table.Rate("EUR")
		assert.Equal(t, "1.09", rate.String())
	})

	t.Run("reference is not implied", func(t *testing.T) {
		table, err := NewRateTable("USD", map[string]decimal.Decimal{"EUR": decimal.RequireFromString("1.09")})
		require.NoError(t, err)

		_, ok := table.Rate("USD")
		assert.False(t, ok)
	})

	t.Run("rejects non positive rates", func(t *testing.T) {
		for _, r := range []string{"0", "-1.5"} {
			_, err := NewRateTable("USD", map[string]decimal.Decimal{"EUR": decimal.RequireFromString(r)})
			assert.True(t, errors.Is(err, ErrInvalidRate), r)
		}
	})

	t.Run("rejects missing codes", func(t *testing.T) {
		_, err := NewRateTable("", nil)
		assert.Error(t, err)

		_, err = NewRateTable("USD", map[string]decimal.Decimal{" ": decimal.NewFromInt(1)})
		assert.Error(t, err)
	})
}

func TestBatch_Empty(t *testing.T) {
	var nilBatch *Batch
	assert.True(t, nilBatch.Empty())
	assert.True(t, (&Batch{ReferenceCurrency: "USD"}).Empty())
	assert.False(t, (&Batch{Transactions: []EnrichedTransaction{{}}}).Empty())
}

func TestErrors(t *testing.T) {
	cause := errors.New("could not parse date '31/01/2025'")
	malformed := &MalformedRecordError{Source: "transactions_eur.csv", Row: 3, Field: "date", Err: cause}

	assert.Equal(t, `malformed record: field "date" in transactions_eur.csv row 3: could not parse date '31/01/2025'`, malformed.Error())
	assert.True(t, errors.Is(malformed, cause))
	assert.Equal(t, `malformed record: field "amount" row 0`, (&MalformedRecordError{Field: "amount"}).Error())

	assert.Equal(t, `unknown currency "GBP" (transactions_gbp.csv row 1)`, (&UnknownCurrencyError{Code: "GBP", Source: "transactions_gbp.csv", Row: 1}).Error())
	assert.Equal(t, `unknown currency "JPY"`, (&UnknownCurrencyError{Code: "JPY"}).Error())
}

func TestEnrichedTransaction_Month(t *testing.T) {
	tx := EnrichedTransaction{Transaction: Transaction{Date: time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)}}
	assert.Equal(t, "2025-12", tx.Month())
	assert.Equal(t, "PEN Account", DefaultAccountLabel("PEN"))
}
