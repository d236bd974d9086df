// Package report renders compliance outcomes as Excel workbooks for
// the finance back office.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/axiomflow/invoice-sentinel/internal/repository"
)

const (
	summarySheet = "Summary"
	checksSheet  = "Checks"
)

// Exporter builds compliance report workbooks.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a report exporter.
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// BuildWorkbook renders the stored results into a two-sheet workbook:
// one row per invoice decision, one row per individual check.
func (e *Exporter) BuildWorkbook(results []repository.StoredResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if _, err := f.NewSheet(checksSheet); err != nil {
		return nil, fmt.Errorf("failed to create checks sheet: %w", err)
	}

	summaryHeaders := []string{
		"Invoice ID", "Vendor", "Date", "Amount", "Currency",
		"Department", "Final Status", "Risk Score", "Processed At",
	}
	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write summary header: %w", err)
		}
	}

	checkHeaders := []string{"Invoice ID", "Check", "Status", "Message"}
	for i, h := range checkHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(checksSheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write checks header: %w", err)
		}
	}

	checkRow := 2
	for i, stored := range results {
		inv := stored.Result.Invoice
		row := []any{
			inv.InvoiceID,
			inv.VendorName,
			inv.DateISO(),
			inv.Amount,
			inv.Currency,
			inv.Department,
			string(stored.Result.FinalStatus),
			stored.Result.RiskScore,
			stored.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write summary row: %w", err)
			}
		}

		for _, check := range stored.Result.Checks {
			values := []any{inv.InvoiceID, check.CheckName, string(check.Status), check.Message}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, checkRow)
				if err := f.SetCellValue(checksSheet, cell, v); err != nil {
					return nil, fmt.Errorf("failed to write check row: %w", err)
				}
			}
			checkRow++
		}
	}

	e.logger.Info("Compliance report built",
		zap.Int("invoices", len(results)),
		zap.Int("checks", checkRow-2))
	return f, nil
}

// Export writes the workbook for the given results to path.
func (e *Exporter) Export(path string, results []repository.StoredResult) error {
	f, err := e.BuildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	e.logger.Info("Compliance report written", zap.String("path", path))
	return nil
}
