package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-tracker/internal/api"
	"expense-tracker/internal/config"
	"expense-tracker/internal/gateway"
	"expense-tracker/internal/logger"
	"expense-tracker/internal/usecase"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	rates, _ := cfg.Rates()
	sources, _ := cfg.Sources()

	var enricher *usecase.EnrichmentUseCase
	if cfg.BrandFetchAPIKey != "" {
		enricher = usecase.NewEnrichmentUseCase(gateway.NewBrandFetchClient(cfg.BrandFetch()), cfg.EnrichmentWorkers)
		log.Info().Msg("Brand lookup enrichment enabled")
	}

	uc := usecase.NewAggregationUseCase(gateway.NewCSVTransactionRepository(), enricher)
	server := api.NewServer(uc, api.NewRateStore(rates), api.Options{
		Sources:        sources,
		CategoriesPath: cfg.VendorCategoriesPath,
		Enrich:         enricher != nil,
	}, log)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        server.Routes(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		cancel()
	}()

	log.Info().Str("port", cfg.Port).Int("sources", len(sources)).Msg("Starting expense tracker server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Str("port", cfg.Port).Msg("Server error")
	}

	<-ctx.Done()
	log.Info().Msg("Server stopped gracefully")
}
