package usecase

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
)

// ByCategory reduces txs to sum, count and mean of the normalized amount per category.
func ByCategory(txs []domain.EnrichedTransaction) map[string]domain.CategoryStats {
	out := make(map[string]domain.CategoryStats)
	for _, tx := range txs {
		stats := out[tx.Category]
		stats.Sum = stats.Sum.Add(tx.NormalizedAmount)
		stats.Count++
		out[tx.Category] = stats
	}
	for category, stats := range out {
		stats.Mean = mean(stats.Sum, stats.Count)
		out[category] = stats
	}
	return out
}

// SortedCategories orders category stats for display: largest outflow first
// (lowest sum), ties by name.
func SortedCategories(stats map[string]domain.CategoryStats) []domain.CategorySummary {
	out := make([]domain.CategorySummary, 0, len(stats))
	for category, s := range stats {
		out = append(out, domain.CategorySummary{Category: category, CategoryStats: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Sum.Cmp(out[j].Sum); c != 0 {
			return c < 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ByMonth sums the normalized amount per calendar month, oldest month first.
func ByMonth(txs []domain.EnrichedTransaction) []domain.MonthTotal {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		month := tx.Month()
		sums[month] = sums[month].Add(tx.NormalizedAmount)
	}
	out := make([]domain.MonthTotal, 0, len(sums))
	for month, sum := range sums {
		out = append(out, domain.MonthTotal{Month: month, Sum: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ByMonthAndCategory sums the normalized amount per month and category.
func ByMonthAndCategory(txs []domain.EnrichedTransaction) []domain.MonthCategoryTotal {
	type key struct{ month, category string }
	sums := make(map[key]decimal.Decimal)
	for _, tx := range txs {
		k := key{tx.Month(), tx.Category}
		sums[k] = sums[k].Add(tx.NormalizedAmount)
	}
	out := make([]domain.MonthCategoryTotal, 0, len(sums))
	for k, sum := range sums {
		out = append(out, domain.MonthCategoryTotal{Month: k.month, Category: k.category, Sum: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ByAccount sums the normalized amount per account label.
func ByAccount(txs []domain.EnrichedTransaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		out[tx.Account] = out[tx.Account].Add(tx.NormalizedAmount)
	}
	return out
}

// ByCurrency sums amounts per original currency, both as booked and normalized.
func ByCurrency(txs []domain.EnrichedTransaction) map[string]domain.CurrencyTotal {
	out := make(map[string]domain.CurrencyTotal)
	for _, tx := range txs {
		total := out[tx.Currency]
		total.Original = total.Original.Add(tx.Amount)
		total.Normalized = total.Normalized.Add(tx.NormalizedAmount)
		total.Count++
		out[tx.Currency] = total
	}
	return out
}

// Overview computes the headline figures of a batch.
func Overview(txs []domain.EnrichedTransaction) domain.Overview {
	var o domain.Overview
	var from, to time.Time
	for _, tx := range txs {
		o.Total = o.Total.Add(tx.NormalizedAmount)
		if o.Count == 0 || tx.Date.Before(from) {
			from = tx.Date
		}
		if o.Count == 0 || tx.Date.After(to) {
			to = tx.Date
		}
		o.Count++
	}
	o.Mean = mean(o.Total, o.Count)
	if o.Count > 0 {
		o.From, o.To = &from, &to
		o.Days = int(to.Sub(from) / (24 * time.Hour))
	}
	return o
}

// Summarize builds every summary view of a batch.
func Summarize(batch *domain.Batch) domain.Summary {
	var txs []domain.EnrichedTransaction
	var reference string
	if batch != nil {
		txs = batch.Transactions
		reference = batch.ReferenceCurrency
	}
	return domain.Summary{
		Empty:             batch.Empty(),
		ReferenceCurrency: reference,
		Overview:          Overview(txs),
		Categories:        SortedCategories(ByCategory(txs)),
		Months:            ByMonth(txs),
		MonthCategories:   ByMonthAndCategory(txs),
		Accounts:          ByAccount(txs),
		Currencies:        ByCurrency(txs),
	}
}

// Sort keys accepted by Filter.Sort.
const (
	SortByDate     = "date"
	SortByAmount   = "amount" // normalized amount
	SortByVendor   = "vendor"
	SortByCategory = "category"
)

// ErrUnknownSortKey is returned by Filter.Validate for an unsupported sort key.
var ErrUnknownSortKey = errors.New("unknown sort key")

var sortLess = map[string]func(a, b domain.EnrichedTransaction) bool{
	SortByDate:     func(a, b domain.EnrichedTransaction) bool { return a.Date.Before(b.Date) },
	SortByAmount:   func(a, b domain.EnrichedTransaction) bool { return a.NormalizedAmount.LessThan(b.NormalizedAmount) },
	SortByVendor:   func(a, b domain.EnrichedTransaction) bool { return a.Vendor < b.Vendor },
	SortByCategory: func(a, b domain.EnrichedTransaction) bool { return a.Category < b.Category },
}

// Filter selects transactions by category and currency. An empty list in the
// filter matches everything. With Sort set, the result is ordered by that key
// descending and ties keep their batch order; otherwise batch order is kept.
type Filter struct {
	Categories []string
	Currencies []string
	Sort       string
}

// Validate reports whether f can be applied.
func (f Filter) Validate() error {
	if f.Sort == "" {
		return nil
	}
	if _, ok := sortLess[f.Sort]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownSortKey, f.Sort)
	}
	return nil
}

// Apply returns the transactions matching f. An unknown sort key leaves the
// order unchanged.
func (f Filter) Apply(txs []domain.EnrichedTransaction) []domain.EnrichedTransaction {
	categories := toSet(f.Categories, func(s string) string { return s })
	currencies := toSet(f.Currencies, domain.NormalizeCurrency)

	out := make([]domain.EnrichedTransaction, 0, len(txs))
	for _, tx := range txs {
		if categories != nil && !categories[tx.Category] {
			continue
		}
		if currencies != nil && !currencies[tx.Currency] {
			continue
		}
		out = append(out, tx)
	}

	if less, ok := sortLess[f.Sort]; ok {
		sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
	}
	return out
}

func toSet(values []string, norm func(string) string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[norm(v)] = true
	}
	return set
}

func mean(sum decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}
