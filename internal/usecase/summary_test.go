package usecase_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/usecase"
)

func enriched(date string, vendor, category, currency, account, amount, normalized string) domain.EnrichedTransaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.EnrichedTransaction{
		Transaction: domain.Transaction{
			Date:     d,
			Vendor:   vendor,
			Amount:   dec(amount),
			Currency: currency,
			Account:  account,
		},
		Category:         category,
		NormalizedAmount: dec(normalized),
	}
}

func sampleTransactions() []domain.EnrichedTransaction {
	return []domain.EnrichedTransaction{
		enriched("2025-01-03", "Whole Foods", "Groceries", "USD", "USD Account", "-40.00", "-40.00"),
		enriched("2025-01-15", "McDonald's", "Restaurants", "EUR", "EUR Account", "-11.80", "-12.862"),
		enriched("2025-01-20", "Tambo", "Groceries", "PEN", "PEN Account", "-20.00", "-5.40"),
		enriched("2025-02-01", "Salary", "Income", "EUR", "EUR Account", "1000.00", "1090.00"),
		enriched("2025-02-10", "Whole Foods", "Groceries", "USD", "USD Account", "-60.00", "-60.00"),
	}
}

func TestByCategory(t *testing.T) {
	stats := usecase.ByCategory(sampleTransactions())

	require.Len(t, stats, 3)
	assertDecimal(t, "-105.40", stats["Groceries"].Sum)
	assert.Equal(t, 3, stats["Groceries"].Count)
	assertDecimal(t, "-35.1333333333333333", stats["Groceries"].Mean)
	assertDecimal(t, "-12.862", stats["Restaurants"].Sum)
	assertDecimal(t, "-12.862", stats["Restaurants"].Mean)
	assertDecimal(t, "1090", stats["Income"].Sum)
}

func TestSortedCategories(t *testing.T) {
	rows := usecase.SortedCategories(usecase.ByCategory(sampleTransactions()))

	var names []string
	for _, row := range rows {
		names = append(names, row.Category)
	}
	assert.Equal(t, []string{"Groceries", "Restaurants", "Income"}, names)

	tied := usecase.SortedCategories(map[string]domain.CategoryStats{
		"Travel":    {Sum: dec("-10"), Count: 1, Mean: dec("-10")},
		"Transport": {Sum: dec("-10"), Count: 2, Mean: dec("-5")},
	})
	assert.Equal(t, "Transport", tied[0].Category)
	assert.Equal(t, "Travel", tied[1].Category)
}

func TestByMonth(t *testing.T) {
	months := usecase.ByMonth(sampleTransactions())

	require.Len(t, months, 2)
	assert.Equal(t, "2025-01", months[0].Month)
	assertDecimal(t, "-58.262", months[0].Sum)
	assert.Equal(t, "2025-02", months[1].Month)
	assertDecimal(t, "1030", months[1].Sum)
}

func TestByMonthAndCategory(t *testing.T) {
	rows := usecase.ByMonthAndCategory(sampleTransactions())

	want := []struct{ month, category, sum string }{
		{"2025-01", "Groceries", "-45.40"},
		{"2025-01", "Restaurants", "-12.862"},
		{"2025-02", "Groceries", "-60"},
		{"2025-02", "Income", "1090"},
	}
	require.Len(t, rows, len(want))
	for i, w := range want {
		assert.Equal(t, w.month, rows[i].Month)
		assert.Equal(t, w.category, rows[i].Category)
		assertDecimal(t, w.sum, rows[i].Sum, "row %d", i)
	}
}

func TestByAccount(t *testing.T) {
	accounts := usecase.ByAccount(sampleTransactions())

	require.Len(t, accounts, 3)
	assertDecimal(t, "-100", accounts["USD Account"])
	assertDecimal(t, "1077.138", accounts["EUR Account"])
	assertDecimal(t, "-5.40", accounts["PEN Account"])
}

func TestByCurrency(t *testing.T) {
	currencies := usecase.ByCurrency(sampleTransactions())

	eur := currencies["EUR"]
	assertDecimal(t, "988.20", eur.Original)
	assertDecimal(t, "1077.138", eur.Normalized)
	assert.Equal(t, 2, eur.Count)

	pen := currencies["PEN"]
	assertDecimal(t, "-20", pen.Original)
	assertDecimal(t, "-5.4", pen.Normalized)
	assert.Equal(t, 1, pen.Count)
}

func TestOverview(t *testing.T) {
	o := usecase.Overview(sampleTransactions())

	assert.Equal(t, 5, o.Count)
	assertDecimal(t, "971.738", o.Total)
	assertDecimal(t, "194.3476", o.Mean)
	require.NotNil(t, o.From)
	require.NotNil(t, o.To)
	assert.Equal(t, "2025-01-03", o.From.Format("2006-01-02"))
	assert.Equal(t, "2025-02-10", o.To.Format("2006-01-02"))
	assert.Equal(t, 38, o.Days)

	empty := usecase.Overview(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Total.IsZero())
	assert.True(t, empty.Mean.IsZero())
	assert.Nil(t, empty.From)
	assert.Nil(t, empty.To)

	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"from"`)
	assert.NotContains(t, string(out), `"to"`)
}

func TestSummarize(t *testing.T) {
	t.Run("populated batch", func(t *testing.T) {
		batch := &domain.Batch{ReferenceCurrency: "USD", Transactions: sampleTransactions()}
		summary := usecase.Summarize(batch)

		assert.False(t, summary.Empty)
		assert.Equal(t, "USD", summary.ReferenceCurrency)
		assert.Equal(t, 5, summary.Overview.Count)
		assert.Len(t, summary.Categories, 3)
		assert.Len(t, summary.Months, 2)
		assert.Len(t, summary.MonthCategories, 4)
		assert.Len(t, summary.Accounts, 3)
		assert.Len(t, summary.Currencies, 3)
	})

	t.Run("empty batch", func(t *testing.T) {
		summary := usecase.Summarize(&domain.Batch{ReferenceCurrency: "USD", Transactions: []domain.EnrichedTransaction{}})

		assert.True(t, summary.Empty)
		assert.Equal(t, "USD", summary.ReferenceCurrency)
		assert.Empty(t, summary.Categories)
		assert.Empty(t, summary.Months)
		assert.Empty(t, summary.Accounts)
	})

	t.Run("nil batch", func(t *testing.T) {
		summary := usecase.Summarize(nil)
		assert.True(t, summary.Empty)
		assert.Equal(t, 0, summary.Overview.Count)
	})
}

func TestFilter_Apply(t *testing.T) {
	txs := sampleTransactions()

	tests := []struct {
		name    string
		filter  usecase.Filter
		vendors []string
	}{
		{
			name:    "empty filter keeps everything",
			filter:  usecase.Filter{},
			vendors: []string{"Whole Foods", "McDonald's", "Tambo", "Salary", "Whole Foods"},
		},
		{
			name:    "by category",
			filter:  usecase.Filter{Categories: []string{"Groceries"}},
			vendors: []string{"Whole Foods", "Tambo", "Whole Foods"},
		},
		{
			name:    "by currency is case-insensitive",
			filter:  usecase.Filter{Currencies: []string{"eur"}},
			vendors: []string{"McDonald's", "Salary"},
		},
		{
			name:    "both",
			filter:  usecase.Filter{Categories: []string{"Groceries", "Income"}, Currencies: []string{"USD", "EUR"}},
			vendors: []string{"Whole Foods", "Salary", "Whole Foods"},
		},
		{
			name:    "no match",
			filter:  usecase.Filter{Categories: []string{"Travel"}},
			vendors: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tx := range tt.filter.Apply(txs) {
				got = append(got, tx.Vendor)
			}
			assert.Equal(t, tt.vendors, got)
		})
	}
}

func TestFilter_Sort(t *testing.T) {
	txs := sampleTransactions()

	tests := []struct {
		sort    string
		vendors []string
	}{
		{sort: usecase.SortByDate, vendors: []string{"Whole Foods", "Salary", "Tambo", "McDonald's", "Whole Foods"}},
		{sort: usecase.SortByAmount, vendors: []string{"Salary", "Tambo", "McDonald's", "Whole Foods", "Whole Foods"}},
		{sort: usecase.SortByVendor, vendors: []string{"Whole Foods", "Whole Foods", "Tambo", "Salary", "McDonald's"}},
		{sort: usecase.SortByCategory, vendors: []string{"McDonald's", "Salary", "Whole Foods", "Tambo", "Whole Foods"}},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			f := usecase.Filter{Sort: tt.sort}
			require.NoError(t, f.Validate())

			var got []string
			for _, tx := range f.Apply(txs) {
				got = append(got, tx.Vendor)
			}
			assert.Equal(t, tt.vendors, got)
		})
	}

	t.Run("ties keep batch order", func(t *testing.T) {
		sorted := usecase.Filter{Sort: usecase.SortByCategory, Categories: []string{"Groceries"}}.Apply(txs)
		require.Len(t, sorted, 3)
		assert.Equal(t, "2025-01-03", sorted[0].Date.Format("2006-01-02"))
		assert.Equal(t, "2025-01-20", sorted[1].Date.Format("2006-01-02"))
		assert.Equal(t, "2025-02-10", sorted[2].Date.Format("2006-01-02"))
	})

	t.Run("input is not reordered", func(t *testing.T) {
		usecase.Filter{Sort: usecase.SortByAmount}.Apply(txs)
		assert.Equal(t, "Whole Foods", txs[0].Vendor)
		assert.Equal(t, "McDonald's", txs[1].Vendor)
	})

	t.Run("unknown key", func(t *testing.T) {
		err := usecase.Filter{Sort: "amount_eur"}.Validate()
		assert.True(t, errors.Is(err, usecase.ErrUnknownSortKey))
	})
}
