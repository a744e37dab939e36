package usecase

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/logger"
)

const defaultEnrichmentWorkers = 4

// EnrichmentUseCase fills vendor table gaps from an external BrandLookup.
// Lookups are best effort: failures leave the vendor unmapped.
type EnrichmentUseCase struct {
	lookup  BrandLookup
	workers int
}

// NewEnrichmentUseCase creates a new instance of the usecase.
func NewEnrichmentUseCase(lookup BrandLookup, workers int) *EnrichmentUseCase {
	if workers < 1 {
		workers = defaultEnrichmentWorkers
	}
	return &EnrichmentUseCase{lookup: lookup, workers: workers}
}

type lookupResult struct {
	category string
	err      error
}

// Enrich resolves every vendor in sets that table does not map, and returns a
// new table including the resolved entries. table itself is not modified.
func (uc *EnrichmentUseCase) Enrich(ctx context.Context, sets []domain.TransactionSet, table domain.CategoryTable) (domain.CategoryTable, domain.EnrichmentReport) {
	log := logger.FromContext(ctx)

	vendors := unmappedVendors(sets, table)
	report := domain.EnrichmentReport{
		Looked:   len(vendors),
		Resolved: make(map[string]string),
		NotFound: make([]string, 0),
		Failed:   make([]string, 0),
	}
	if len(vendors) == 0 {
		return table, report
	}

	results := make([]lookupResult, len(vendors))
	var g errgroup.Group
	g.SetLimit(uc.workers)
	for i, vendor := range vendors {
		g.Go(func() error {
			category, err := uc.lookup.ResolveCategory(ctx, vendor)
			results[i] = lookupResult{category: category, err: err}
			return nil
		})
	}
	_ = g.Wait()

	// Applied in first-seen order so the resulting table is deterministic.
	for i, vendor := range vendors {
		res := results[i]
		switch {
		case errors.Is(res.err, domain.ErrCategoryNotFound):
			report.NotFound = append(report.NotFound, vendor)
		case res.err != nil:
			log.Warn().Err(res.err).Str("vendor", vendor).Msg("Brand lookup failed, using fallback category")
			report.Failed = append(report.Failed, vendor)
		case strings.TrimSpace(res.category) == "":
			report.NotFound = append(report.NotFound, vendor)
		default:
			table = table.With(vendor, res.category)
			report.Resolved[vendor] = strings.TrimSpace(res.category)
		}
	}

	return table, report
}

func unmappedVendors(sets []domain.TransactionSet, table domain.CategoryTable) []string {
	seen := make(map[string]bool)
	var vendors []string
	for _, set := range sets {
		for _, tx := range set.Transactions {
			vendor := strings.TrimSpace(tx.Vendor)
			if vendor == "" || seen[vendor] {
				continue
			}
			seen[vendor] = true
			if _, ok := table.Lookup(vendor); !ok {
				vendors = append(vendors, vendor)
			}
		}
	}
	return vendors
}
