package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/logger"
)

const (
	// DefaultBrandFetchURL is the public BrandFetch API endpoint.
	DefaultBrandFetchURL = "https://api.brandfetch.io"

	// UntaggedCategory is returned for a brand the service knows but has not tagged.
	UntaggedCategory = "Uncategorized"
)

// BrandFetchConfig configures a BrandFetchClient.
type BrandFetchConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	Backoff    time.Duration
	RatePerSec float64
	CacheTTL   time.Duration
}

// BrandFetchClient resolves vendor categories through the BrandFetch search API.
// It implements usecase.BrandLookup.
type BrandFetchClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	retries    int
	backoff    time.Duration
	limiter    *rate.Limiter
	cache      *cache.Cache
}

type brandSearchResult struct {
	Name   string   `json:"name"`
	Domain string   `json:"domain"`
	Tags   []string `json:"tags"`
}

// cached not-found answers are stored as this marker
type notFoundMarker struct{}

// NewBrandFetchClient creates a client. Zero values in cfg fall back to defaults.
func NewBrandFetchClient(cfg BrandFetchConfig) *BrandFetchClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBrandFetchURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}

	return &BrandFetchClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retries:    cfg.Retries,
		backoff:    cfg.Backoff,
		limiter:    rate.NewLimiter(limit, 1),
		cache:      cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

// ResolveCategory returns the first tag of the best brand match for vendor,
// capitalized. Later tags are never consulted: a match whose first tag is
// missing or blank resolves to UntaggedCategory.
func (c *BrandFetchClient) ResolveCategory(ctx context.Context, vendor string) (string, error) {
	vendor = strings.TrimSpace(vendor)
	if vendor == "" {
		return "", domain.ErrCategoryNotFound
	}
	if c.apiKey == "" {
		return "", fmt.Errorf("brandfetch: API key not set")
	}

	// 1. Check Cache First
	cacheKey := "brand-" + vendor
	if v, found := c.cache.Get(cacheKey); found {
		if _, miss := v.(notFoundMarker); miss {
			return "", domain.ErrCategoryNotFound
		}
		return v.(string), nil
	}

	// 2. Query with retries on transport errors, 5xx and 429
	log := logger.FromContext(ctx)
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		category, retry, err := c.search(ctx, vendor)
		if err == nil {
			c.cache.Set(cacheKey, category, cache.DefaultExpiration)
			return category, nil
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			c.cache.Set(cacheKey, notFoundMarker{}, cache.DefaultExpiration)
			return "", err
		}
		lastErr = err
		if !retry {
			break
		}
		log.Debug().Err(err).Str("vendor", vendor).Int("attempt", attempt+1).Msg("Brand lookup attempt failed")
	}

	return "", lastErr
}

// search performs one request. The bool reports whether a failure is worth retrying.
func (c *BrandFetchClient) search(ctx context.Context, vendor string) (string, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	endpoint := fmt.Sprintf("%s/v2/search/%s", c.baseURL, url.PathEscape(vendor))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, fmt.Errorf("brandfetch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("brandfetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return "", false, domain.ErrCategoryNotFound
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return "", true, fmt.Errorf("brandfetch: status %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return "", false, fmt.Errorf("brandfetch: status %s", resp.Status)
	}

	var results []brandSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", false, fmt.Errorf("brandfetch: invalid response: %w", err)
	}
	if len(results) == 0 {
		return "", false, domain.ErrCategoryNotFound
	}
	tags := results[0].Tags
	if len(tags) == 0 || strings.TrimSpace(tags[0]) == "" {
		return UntaggedCategory, false, nil
	}
	return capitalize(strings.TrimSpace(tags[0])), false, nil
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
