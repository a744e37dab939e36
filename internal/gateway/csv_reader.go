package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/logger"
)

// Column names recognised in bank exports, matched case-insensitively.
var columnAliases = map[string][]string{
	"date":        {"date", "started date", "completed date"},
	"vendor":      {"vendor"},
	"description": {"description"},
	"amount":      {"amount"},
	"currency":    {"currency"},
	"category":    {"category"},
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var errEmptyField = errors.New("value is empty")

// CSVTransactionRepository implements the TransactionRepository interface for CSV files.
type CSVTransactionRepository struct{}

// NewCSVTransactionRepository creates a new repository instance.
func NewCSVTransactionRepository() *CSVTransactionRepository {
	return &CSVTransactionRepository{}
}

// GetTransactionSet reads and parses one bank export. Rows without a currency
// column value take the currency of the source. A file that does not exist
// yields an empty set, so the account shows up with no transactions.
func (r *CSVTransactionRepository) GetTransactionSet(ctx context.Context, source domain.Source) (domain.TransactionSet, error) {
	set := domain.TransactionSet{
		Currency: domain.NormalizeCurrency(source.Currency),
		Account:  source.Account,
	}
	if set.Account == "" && set.Currency != "" {
		set.Account = domain.DefaultAccountLabel(set.Currency)
	}

	file, err := os.Open(source.Path)
	if errors.Is(err, fs.ErrNotExist) {
		log := logger.FromContext(ctx)
		log.Warn().Str("path", source.Path).Str("currency", set.Currency).Msg("Transaction file not found, treating account as empty")
		set.Transactions = make([]domain.Transaction, 0)
		return set, nil
	}
	if err != nil {
		return domain.TransactionSet{}, fmt.Errorf("failed to open transaction file %s: %w", source.Path, err)
	}
	defer file.Close()

	name := filepath.Base(source.Path)
	set.Transactions, err = readTransactions(file, name, set)
	if err != nil {
		return domain.TransactionSet{}, err
	}
	return set, nil
}

// GetVendorCategories reads the vendor,category table in file order. A file
// that does not exist yields no entries.
func (r *CSVTransactionRepository) GetVendorCategories(ctx context.Context, path string) ([]domain.VendorCategoryEntry, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log := logger.FromContext(ctx)
		log.Warn().Str("path", path).Msg("Vendor category file not found, every vendor falls back")
		return make([]domain.VendorCategoryEntry, 0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open vendor category file %s: %w", path, err)
	}
	defer file.Close()

	reader := newReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	cols := indexColumns(header)
	vendorCol, ok := cols["vendor"]
	if !ok {
		return nil, fmt.Errorf("%s: missing column %q", path, "vendor")
	}
	categoryCol, ok := cols["category"]
	if !ok {
		return nil, fmt.Errorf("%s: missing column %q", path, "category")
	}

	entries := make([]domain.VendorCategoryEntry, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}
		entries = append(entries, domain.VendorCategoryEntry{
			Vendor:   field(record, vendorCol),
			Category: field(record, categoryCol),
		})
	}
	return entries, nil
}

func readTransactions(r io.Reader, name string, set domain.TransactionSet) ([]domain.Transaction, error) {
	reader := newReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", name, err)
	}
	cols := indexColumns(header)
	for _, required := range []string{"date", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, &domain.MalformedRecordError{Source: name, Row: 0, Field: required, Err: errors.New("column missing from header")}
		}
	}

	transactions := make([]domain.Transaction, 0)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", name, err)
		}

		tx, err := parseTransaction(record, cols, set)
		if err != nil {
			var malformed *domain.MalformedRecordError
			if errors.As(err, &malformed) {
				malformed.Source, malformed.Row = name, row
			}
			return nil, err
		}
		tx.Source, tx.Row = name, row
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func parseTransaction(record []string, cols map[string]int, set domain.TransactionSet) (domain.Transaction, error) {
	rawDate := lookup(record, cols, "date")
	if rawDate == "" {
		return domain.Transaction{}, &domain.MalformedRecordError{Field: "date", Err: errEmptyField}
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return domain.Transaction{}, &domain.MalformedRecordError{Field: "date", Err: err}
	}

	rawAmount := lookup(record, cols, "amount")
	if rawAmount == "" {
		return domain.Transaction{}, &domain.MalformedRecordError{Field: "amount", Err: errEmptyField}
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return domain.Transaction{}, &domain.MalformedRecordError{Field: "amount", Err: fmt.Errorf("could not parse amount '%s': %w", rawAmount, err)}
	}

	currency := domain.NormalizeCurrency(lookup(record, cols, "currency"))
	if currency == "" {
		currency = set.Currency
	}
	if currency == "" {
		return domain.Transaction{}, &domain.MalformedRecordError{Field: "currency", Err: errEmptyField}
	}

	account := set.Account
	if account == "" || currency != set.Currency {
		account = domain.DefaultAccountLabel(currency)
	}

	description := lookup(record, cols, "description")
	vendor := description
	if _, ok := cols["vendor"]; ok {
		vendor = lookup(record, cols, "vendor")
	}

	return domain.Transaction{
		Date:        date,
		Vendor:      vendor,
		Description: description,
		Amount:      amount,
		Currency:    currency,
		Account:     account,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date '%s'", s)
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// indexColumns maps canonical column names to their position in header.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for name, aliases := range columnAliases {
			if _, taken := cols[name]; taken {
				continue
			}
			for _, alias := range aliases {
				if h == alias {
					cols[name] = i
				}
			}
		}
	}
	return cols
}

func lookup(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	return field(record, i)
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
