package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"expense-tracker/internal/config"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/gateway"
	"expense-tracker/internal/logger"
	"expense-tracker/internal/usecase"
)

type report struct {
	domain.Summary
	Transactions []domain.EnrichedTransaction `json:"transactions,omitempty"`
}

func main() {
	cfg := config.Load()

	// Define command-line flags, defaulting to the environment
	sources := flag.String("sources", cfg.TransactionSources, "Comma-separated CUR=path list of transaction CSV files")
	categories := flag.String("categories", cfg.VendorCategoriesPath, "Path to the vendor,category CSV file (empty to skip)")
	rates := flag.String("rates", cfg.ExchangeRates, "Comma-separated CUR=rate list converting into the reference currency")
	reference := flag.String("reference", cfg.ReferenceCurrency, "Reference currency")
	accounts := flag.String("accounts", "", "Comma-separated currencies to include (default: all)")
	exportPath := flag.String("export", "", "Write the enriched transactions to this CSV file")
	enrich := flag.Bool("enrich", false, "Resolve unmapped vendors through BrandFetch")
	withTransactions := flag.Bool("transactions", false, "Include every transaction in the JSON report")
	flag.Parse()

	cfg.TransactionSources = *sources
	cfg.VendorCategoriesPath = *categories
	cfg.ExchangeRates = *rates
	cfg.ReferenceCurrency = *reference

	log := logger.New(cfg.LogLevel)

	if err := cfg.ValidateInputs(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}
	rateTable, _ := cfg.Rates()
	srcs, _ := cfg.Sources()

	// --- Dependency Injection (Wiring the application) ---
	csvRepo := gateway.NewCSVTransactionRepository()

	var enricher *usecase.EnrichmentUseCase
	if *enrich {
		if cfg.BrandFetchAPIKey == "" {
			log.Fatal().Msg("BRANDFETCH_API_KEY is required with -enrich")
		}
		enricher = usecase.NewEnrichmentUseCase(gateway.NewBrandFetchClient(cfg.BrandFetch()), cfg.EnrichmentWorkers)
	}

	aggregationUseCase := usecase.NewAggregationUseCase(csvRepo, enricher)

	// --- Execute the Usecase ---
	ctx := logger.WithContext(context.Background(), log)
	batch, err := aggregationUseCase.Run(ctx, usecase.Request{
		Sources:        srcs,
		CategoriesPath: cfg.VendorCategoriesPath,
		Rates:          rateTable,
		Accounts:       splitList(*accounts),
		Enrich:         *enrich,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Aggregation failed")
	}
	if batch.Empty() {
		log.Warn().Msg("No transaction data available for the selected accounts")
	}

	if *exportPath != "" {
		if err := writeExport(*exportPath, batch.Transactions); err != nil {
			log.Fatal().Err(err).Str("path", *exportPath).Msg("Export failed")
		}
		log.Info().Str("path", *exportPath).Int("rows", len(batch.Transactions)).Msg("Export written")
	}

	// --- Present the Output ---
	out := report{Summary: usecase.Summarize(batch)}
	if *withTransactions {
		out.Transactions = batch.Transactions
	}
	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate JSON report")
	}

	fmt.Println(string(output))
}

func writeExport(path string, txs []domain.EnrichedTransaction) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gateway.NewCSVExporter().Write(file, txs); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
