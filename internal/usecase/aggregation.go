package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/logger"
)

// Request describes one aggregation run.
type Request struct {
	Sources        []domain.Source
	CategoriesPath string // optional; no table means every vendor falls back
	Rates          domain.RateTable
	Accounts       []string // currency codes to include; empty includes every source
	Enrich         bool
}

// AggregationUseCase orchestrates loading, enrichment and aggregation.
type AggregationUseCase struct {
	repo     TransactionRepository
	enricher *EnrichmentUseCase
}

// NewAggregationUseCase creates a new instance of the usecase. enricher may be nil.
func NewAggregationUseCase(repo TransactionRepository, enricher *EnrichmentUseCase) *AggregationUseCase {
	return &AggregationUseCase{repo: repo, enricher: enricher}
}

// Run loads every selected source and the vendor table, then aggregates them.
func (uc *AggregationUseCase) Run(ctx context.Context, req Request) (*domain.Batch, error) {
	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{"run_id": uuid.NewString()})
	ctx = logger.WithContext(ctx, log)

	// Step 1: Data Ingestion
	sources := SelectSources(req.Sources, req.Accounts)
	sets := make([]domain.TransactionSet, 0, len(sources))
	for _, src := range sources {
		set, err := uc.repo.GetTransactionSet(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("could not get transactions from %s: %w", src.Path, err)
		}
		sets = append(sets, set)
	}

	table := domain.CategoryTable{}
	if req.CategoriesPath != "" {
		entries, err := uc.repo.GetVendorCategories(ctx, req.CategoriesPath)
		if err != nil {
			return nil, fmt.Errorf("could not get vendor categories: %w", err)
		}
		table = domain.NewCategoryTable(entries)
	}

	// Step 2: Optional best-effort enrichment of unmapped vendors
	if req.Enrich && uc.enricher != nil {
		var report domain.EnrichmentReport
		table, report = uc.enricher.Enrich(ctx, sets, table)
		log.Info().
			Int("looked", report.Looked).
			Int("resolved", len(report.Resolved)).
			Int("not_found", len(report.NotFound)).
			Int("failed", len(report.Failed)).
			Msg("Vendor enrichment finished")
	}

	// Step 3: Aggregation
	batch, err := Aggregate(sets, table, req.Rates)
	if err != nil {
		log.Error().Err(err).Msg("Aggregation failed")
		return nil, err
	}

	log.Info().
		Int("sources", len(sets)).
		Int("transactions", len(batch.Transactions)).
		Bool("empty", batch.Empty()).
		Msg("Aggregation finished")
	return batch, nil
}

// SelectSources keeps the sources whose currency is listed in accounts.
// An empty accounts list keeps everything.
func SelectSources(sources []domain.Source, accounts []string) []domain.Source {
	if len(accounts) == 0 {
		return sources
	}
	wanted := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		wanted[domain.NormalizeCurrency(a)] = true
	}
	var selected []domain.Source
	for _, src := range sources {
		if wanted[domain.NormalizeCurrency(src.Currency)] {
			selected = append(selected, src)
		}
	}
	return selected
}

// Aggregate categorises and converts every transaction of every set, then
// merges them into one sequence sorted by date. Transactions sharing a date
// keep their input order. Any malformed transaction or unknown currency
// aborts the whole call.
func Aggregate(sets []domain.TransactionSet, table domain.CategoryTable, rates domain.RateTable) (*domain.Batch, error) {
	total := 0
	for _, set := range sets {
		total += len(set.Transactions)
	}

	batch := &domain.Batch{
		ReferenceCurrency: rates.Reference(),
		Transactions:      make([]domain.EnrichedTransaction, 0, total),
	}

	for _, set := range sets {
		for i, tx := range set.Transactions {
			enriched, err := enrichTransaction(tx, i, set, table, rates)
			if err != nil {
				return nil, err
			}
			batch.Transactions = append(batch.Transactions, enriched)
		}
	}

	sort.SliceStable(batch.Transactions, func(i, j int) bool {
		return batch.Transactions[i].Date.Before(batch.Transactions[j].Date)
	})

	return batch, nil
}

func enrichTransaction(tx domain.Transaction, index int, set domain.TransactionSet, table domain.CategoryTable, rates domain.RateTable) (domain.EnrichedTransaction, error) {
	if tx.Row == 0 {
		tx.Row = index + 1
	}
	if tx.Currency == "" {
		tx.Currency = set.Currency
	}
	tx.Currency = domain.NormalizeCurrency(tx.Currency)
	if tx.Account == "" {
		tx.Account = set.Account
	}
	if tx.Account == "" && tx.Currency != "" {
		tx.Account = domain.DefaultAccountLabel(tx.Currency)
	}

	if tx.Date.IsZero() {
		return domain.EnrichedTransaction{}, &domain.MalformedRecordError{Source: tx.Source, Row: tx.Row, Field: "date"}
	}
	if tx.Currency == "" {
		return domain.EnrichedTransaction{}, &domain.MalformedRecordError{Source: tx.Source, Row: tx.Row, Field: "currency"}
	}

	normalized, err := Convert(tx.Amount, tx.Currency, rates)
	if err != nil {
		var unknown *domain.UnknownCurrencyError
		if errors.As(err, &unknown) {
			return domain.EnrichedTransaction{}, &domain.UnknownCurrencyError{Code: unknown.Code, Source: tx.Source, Row: tx.Row}
		}
		return domain.EnrichedTransaction{}, err
	}

	return domain.EnrichedTransaction{
		Transaction:      tx,
		Category:         Categorize(tx.Vendor, table),
		NormalizedAmount: normalized,
	}, nil
}
