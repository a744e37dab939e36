package gateway

import (
	"encoding/csv"
	"fmt"
	"io"

	"expense-tracker/internal/domain"
)

// ExportDateLayout is the date format written to exported rows.
const ExportDateLayout = "2006-01-02 15:04:05"

// ExportHeader is the fixed column order of an export.
var ExportHeader = []string{"date", "vendor", "description", "amount", "currency", "normalized_amount", "category"}

// CSVExporter writes enriched transactions as delimited rows.
type CSVExporter struct {
	Comma rune
}

// NewCSVExporter creates a comma separated exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{Comma: ','}
}

// Write emits the header followed by one row per transaction. Amounts are
// written at full precision.
func (e *CSVExporter) Write(w io.Writer, txs []domain.EnrichedTransaction) error {
	writer := csv.NewWriter(w)
	if e.Comma != 0 {
		writer.Comma = e.Comma
	}

	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			tx.Date.Format(ExportDateLayout),
			tx.Vendor,
			tx.Description,
			tx.Amount.String(),
			tx.Currency,
			tx.NormalizedAmount.String(),
			tx.Category,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
