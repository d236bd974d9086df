// Package refdata loads the reference datasets (vendors, budgets,
// contracts) from CSV files. A missing file degrades to an empty
// dataset instead of failing startup.
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"go.uber.org/zap"
)

// File names expected inside the data directory.
const (
	VendorsFile   = "vendors.csv"
	BudgetsFile   = "budgets.csv"
	ContractsFile = "contracts.csv"
)

// Loader reads reference CSVs from a data directory.
type Loader struct {
	dir    string
	logger *zap.Logger
}

// NewLoader creates a loader rooted at the given data directory.
func NewLoader(dir string, logger *zap.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Load reads all three reference files and builds the indexed dataset.
// Each missing file is logged and replaced by an empty slice; malformed
// rows within a present file are a hard error.
func (l *Loader) Load() (*entity.ReferenceData, error) {
	vendors, err := l.loadVendors()
	if err != nil {
		return nil, err
	}
	budgets, err := l.loadBudgets()
	if err != nil {
		return nil, err
	}
	contracts, err := l.loadContracts()
	if err != nil {
		return nil, err
	}

	l.logger.Info("Reference data loaded",
		zap.Int("vendors", len(vendors)),
		zap.Int("budgets", len(budgets)),
		zap.Int("contracts", len(contracts)))

	return entity.NewReferenceData(vendors, budgets, contracts), nil
}

// readRows opens a CSV and returns its data rows plus a header index.
// A missing file returns (nil, nil, nil) so the caller can degrade.
func (l *Loader) readRows(name string) ([][]string, map[string]int, error) {
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("Reference file missing, operating in reduced capacity",
				zap.String("file", path))
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s header: %w", path, err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(strings.ToLower(col))] = i
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, idx, nil
}

// field returns the named column of a row, or "" when absent.
func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (l *Loader) loadVendors() ([]entity.VendorRecord, error) {
	rows, idx, err := l.readRows(VendorsFile)
	if err != nil || rows == nil {
		return nil, err
	}

	vendors := make([]entity.VendorRecord, 0, len(rows))
	for _, row := range rows {
		risk := field(row, idx, "risk_level")
		if risk == "" {
			// Unrated vendors default to Medium rather than slipping
			// through as low risk.
			risk = string(entity.RiskMedium)
		}
		vendors = append(vendors, entity.VendorRecord{
			VendorName: field(row, idx, "vendor_name"),
			IBAN:       field(row, idx, "iban"),
			RiskLevel:  entity.RiskLevel(risk),
		})
	}
	return vendors, nil
}

func (l *Loader) loadBudgets() ([]entity.BudgetRecord, error) {
	rows, idx, err := l.readRows(BudgetsFile)
	if err != nil || rows == nil {
		return nil, err
	}

	budgets := make([]entity.BudgetRecord, 0, len(rows))
	for n, row := range rows {
		total, err := parseAmount(field(row, idx, "total_budget"))
		if err != nil {
			return nil, fmt.Errorf("budgets row %d: %w", n+1, err)
		}
		remaining, err := parseAmount(field(row, idx, "remaining_budget"))
		if err != nil {
			return nil, fmt.Errorf("budgets row %d: %w", n+1, err)
		}
		budgets = append(budgets, entity.BudgetRecord{
			Department:      field(row, idx, "department"),
			TotalBudget:     total,
			RemainingBudget: remaining,
		})
	}
	return budgets, nil
}

func (l *Loader) loadContracts() ([]entity.ContractRecord, error) {
	rows, idx, err := l.readRows(ContractsFile)
	if err != nil || rows == nil {
		return nil, err
	}

	contracts := make([]entity.ContractRecord, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, entity.ContractRecord{
			VendorName: field(row, idx, "vendor_name"),
			StartDate:  field(row, idx, "start_date"),
			EndDate:    field(row, idx, "end_date"),
			IsActive:   parseBool(field(row, idx, "is_active")),
		})
	}
	return contracts, nil
}

func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(strings.ToLower(s))
	return err == nil && v
}
