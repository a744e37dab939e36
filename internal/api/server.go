package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/gateway"
	"expense-tracker/internal/logger"
	"expense-tracker/internal/usecase"
)

// RateStore holds the exchange rates that can be edited while the server runs.
// Every aggregation takes its own snapshot.
type RateStore struct {
	mu    sync.RWMutex
	table domain.RateTable
}

// NewRateStore creates a store seeded with table.
func NewRateStore(table domain.RateTable) *RateStore {
	return &RateStore{table: table}
}

// Snapshot returns the current table.
func (s *RateStore) Snapshot() domain.RateTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Update merges rates into the current table and returns the new one.
func (s *RateStore) Update(rates map[string]decimal.Decimal) (domain.RateTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.table.Rates()
	for code, rate := range rates {
		merged[domain.NormalizeCurrency(code)] = rate
	}
	table, err := domain.NewRateTable(s.table.Reference(), merged)
	if err != nil {
		return domain.RateTable{}, err
	}
	s.table = table
	return table, nil
}

// Options selects the inputs every request aggregates.
type Options struct {
	Sources        []domain.Source
	CategoriesPath string
	Enrich         bool
}

// Server exposes aggregation results as JSON and CSV.
type Server struct {
	uc       *usecase.AggregationUseCase
	rates    *RateStore
	opts     Options
	exporter *gateway.CSVExporter
	log      zerolog.Logger
	now      func() time.Time
}

// NewServer creates a new server.
func NewServer(uc *usecase.AggregationUseCase, rates *RateStore, opts Options, log zerolog.Logger) *Server {
	return &Server{
		uc:       uc,
		rates:    rates,
		opts:     opts,
		exporter: gateway.NewCSVExporter(),
		log:      log,
		now:      time.Now,
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.log))
	r.Use(recovery(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleTransactions)
		r.Get("/summary", s.handleSummary)
		r.Get("/export.csv", s.handleExport)
		r.Get("/rates", s.handleGetRates)
		r.Put("/rates", s.handlePutRates)
		r.Post("/net-worth", s.handleNetWorth)
	})

	return r
}

// run aggregates the configured sources with the current rates.
func (s *Server) run(r *http.Request) (*domain.Batch, error) {
	return s.uc.Run(r.Context(), usecase.Request{
		Sources:        s.opts.Sources,
		CategoriesPath: s.opts.CategoriesPath,
		Rates:          s.rates.Snapshot(),
		Accounts:       splitList(r.URL.Query().Get("accounts")),
		Enrich:         s.opts.Enrich,
	})
}

// filterFromQuery reads the category, currency and sort query parameters.
func filterFromQuery(r *http.Request) usecase.Filter {
	q := r.URL.Query()
	return usecase.Filter{
		Categories: splitList(q.Get("category")),
		Currencies: splitList(q.Get("currency")),
		Sort:       strings.ToLower(strings.TrimSpace(q.Get("sort"))),
	}
}

// handleTransactions handles GET /api/transactions
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	if err := filter.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := s.run(r)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}
	txs := filter.Apply(batch.Transactions)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"empty":              batch.Empty(),
		"reference_currency": batch.ReferenceCurrency,
		"count":              len(txs),
		"transactions":       txs,
	})
}

// handleSummary handles GET /api/summary
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	batch, err := s.run(r)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usecase.Summarize(batch))
}

// handleExport handles GET /api/export.csv
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	if err := filter.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := s.run(r)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", s.now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := s.exporter.Write(w, filter.Apply(batch.Transactions)); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Failed to write export")
	}
}

type ratesPayload struct {
	Reference string                     `json:"reference,omitempty"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// handleGetRates handles GET /api/rates
func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	table := s.rates.Snapshot()
	writeJSON(w, http.StatusOK, ratesPayload{Reference: table.Reference(), Rates: table.Rates()})
}

// handlePutRates handles PUT /api/rates
func (s *Server) handlePutRates(w http.ResponseWriter, r *http.Request) {
	var req ratesPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Rates) == 0 {
		writeError(w, http.StatusBadRequest, "rates are required")
		return
	}

	table, err := s.rates.Update(req.Rates)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := logger.FromContext(r.Context())
	log.Info().Strs("currencies", table.Codes()).Msg("Exchange rates updated")
	writeJSON(w, http.StatusOK, ratesPayload{Reference: table.Reference(), Rates: table.Rates()})
}

type netWorthRequest struct {
	Initial map[string]decimal.Decimal `json:"initial"`
	Current map[string]decimal.Decimal `json:"current"`
}

// handleNetWorth handles POST /api/net-worth
func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	var req netWorthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	nw, err := usecase.NetWorth(req.Initial, req.Current, s.rates.Snapshot())
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nw)
}

// writeRunError maps pipeline failures to responses that name the offending record.
func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	var malformed *domain.MalformedRecordError
	var unknown *domain.UnknownCurrencyError

	switch {
	case errors.As(err, &malformed):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  err.Error(),
			"kind":   "malformed_record",
			"field":  malformed.Field,
			"row":    malformed.Row,
			"source": malformed.Source,
		})
	case errors.As(err, &unknown):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":    err.Error(),
			"kind":     "unknown_currency",
			"currency": unknown.Code,
			"row":      unknown.Row,
			"source":   unknown.Source,
		})
	default:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Aggregation request failed")
		writeError(w, http.StatusInternalServerError, "failed to aggregate transactions")
	}
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
