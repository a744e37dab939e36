package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/gateway"
)

type Config struct {
	// HTTP Server
	Port     string
	LogLevel string

	// Inputs
	ReferenceCurrency    string
	ExchangeRates        string // EUR=1.09,USD=1.00,PEN=0.27
	TransactionSources   string // EUR=transactions_eur.csv,USD=transactions_usd.csv
	VendorCategoriesPath string

	// Brand lookup
	BrandFetchAPIKey     string
	BrandFetchBaseURL    string
	BrandFetchTimeout    time.Duration
	BrandFetchRetries    int
	BrandFetchRatePerSec float64
	BrandFetchCacheTTL   time.Duration
	EnrichmentWorkers    int
}

// Load reads the configuration from the environment, after merging a .env
// file from the working directory when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ReferenceCurrency:    getEnv("REFERENCE_CURRENCY", "USD"),
		ExchangeRates:        getEnv("EXCHANGE_RATES", "EUR=1.09,USD=1.00,PEN=0.27"),
		TransactionSources:   getEnv("TRANSACTION_SOURCES", "EUR=transactions_eur.csv,USD=transactions_usd.csv,PEN=transactions_pen.csv"),
		VendorCategoriesPath: getEnv("VENDOR_CATEGORIES_PATH", "vendor_categories.csv"),

		BrandFetchAPIKey:     getEnv("BRANDFETCH_API_KEY", ""),
		BrandFetchBaseURL:    getEnv("BRANDFETCH_BASE_URL", "https://api.brandfetch.io"),
		BrandFetchTimeout:    getEnvDuration("BRANDFETCH_TIMEOUT", 10*time.Second),
		BrandFetchRetries:    getEnvInt("BRANDFETCH_RETRIES", 2),
		BrandFetchRatePerSec: getEnvFloat("BRANDFETCH_RATE_PER_SEC", 5),
		BrandFetchCacheTTL:   getEnvDuration("BRANDFETCH_CACHE_TTL", 24*time.Hour),
		EnrichmentWorkers:    getEnvInt("ENRICHMENT_WORKERS", 4),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	return joinErrors(append(errors, c.inputErrors()...))
}

// ValidateInputs validates everything an aggregation run reads. The listen
// port is not checked, so one-shot commands ignore a bad PORT.
func (c *Config) ValidateInputs() error {
	return joinErrors(c.inputErrors())
}

func (c *Config) inputErrors() []string {
	var errors []string

	if _, err := c.Rates(); err != nil {
		errors = append(errors, err.Error())
	}
	if _, err := c.Sources(); err != nil {
		errors = append(errors, err.Error())
	}

	if c.BrandFetchRetries < 0 || c.BrandFetchRetries > 10 {
		errors = append(errors, fmt.Sprintf("invalid brandfetch retries %d: must be between 0 and 10", c.BrandFetchRetries))
	}
	if c.BrandFetchTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid brandfetch timeout %v: must be at least 100ms", c.BrandFetchTimeout))
	}
	if c.BrandFetchRatePerSec < 0 {
		errors = append(errors, fmt.Sprintf("invalid brandfetch rate %v: must not be negative", c.BrandFetchRatePerSec))
	}
	if c.EnrichmentWorkers < 1 || c.EnrichmentWorkers > 64 {
		errors = append(errors, fmt.Sprintf("invalid enrichment workers %d: must be between 1 and 64", c.EnrichmentWorkers))
	}
	return errors
}

func joinErrors(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Rates parses ExchangeRates into a rate table for ReferenceCurrency.
func (c *Config) Rates() (domain.RateTable, error) {
	pairs, err := parsePairs(c.ExchangeRates)
	if err != nil {
		return domain.RateTable{}, fmt.Errorf("invalid EXCHANGE_RATES: %w", err)
	}
	rates := make(map[string]decimal.Decimal, len(pairs))
	for _, p := range pairs {
		rate, err := decimal.NewFromString(p.value)
		if err != nil {
			return domain.RateTable{}, fmt.Errorf("invalid EXCHANGE_RATES: rate for %s: %w", p.key, err)
		}
		rates[p.key] = rate
	}
	table, err := domain.NewRateTable(c.ReferenceCurrency, rates)
	if err != nil {
		return domain.RateTable{}, fmt.Errorf("invalid EXCHANGE_RATES: %w", err)
	}
	return table, nil
}

// Sources parses TransactionSources into per-currency sources, in order.
func (c *Config) Sources() ([]domain.Source, error) {
	pairs, err := parsePairs(c.TransactionSources)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSACTION_SOURCES: %w", err)
	}
	sources := make([]domain.Source, 0, len(pairs))
	for _, p := range pairs {
		sources = append(sources, domain.Source{
			Path:     p.value,
			Currency: p.key,
			Account:  domain.DefaultAccountLabel(p.key),
		})
	}
	return sources, nil
}

// BrandFetch returns the brand lookup client settings.
func (c *Config) BrandFetch() gateway.BrandFetchConfig {
	return gateway.BrandFetchConfig{
		APIKey:     c.BrandFetchAPIKey,
		BaseURL:    c.BrandFetchBaseURL,
		Timeout:    c.BrandFetchTimeout,
		Retries:    c.BrandFetchRetries,
		RatePerSec: c.BrandFetchRatePerSec,
		CacheTTL:   c.BrandFetchCacheTTL,
	}
}

type pair struct{ key, value string }

// parsePairs splits "A=x,B=y" keeping order. Keys are normalised currency codes.
func parsePairs(s string) ([]pair, error) {
	var pairs []pair
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, ok := strings.Cut(item, "=")
		key, value = domain.NormalizeCurrency(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("entry %q: expected CODE=value", item)
		}
		pairs = append(pairs, pair{key: key, value: value})
	}
	return pairs, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
