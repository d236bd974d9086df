package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"github.com/axiomflow/invoice-sentinel/internal/repository"
)

func sampleStored() repository.StoredResult {
	d := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	return repository.StoredResult{
		ID: 1,
		Result: entity.ProcessingResult{
			Invoice: entity.Invoice{
				InvoiceID:  "INV-2024-001",
				VendorName: "Acme GmbH",
				Date:       &d,
				Amount:     500.00,
				Currency:   "EUR",
				Department: "IT",
			},
			Checks: []entity.CheckResult{
				{CheckName: "Financial Routing", Status: entity.CheckPass, Message: "IBAN verified."},
				{CheckName: "Vendor Risk", Status: entity.CheckWarning, Message: "Vendor unknown (First-time supplier)."},
			},
			FinalStatus: entity.StatusDraft,
			RiskScore:   50,
		},
		CreatedAt: time.Date(2024, 6, 16, 9, 30, 0, 0, time.UTC),
	}
}

func TestBuildWorkbook_SummaryAndChecks(t *testing.T) {
	e := NewExporter(zap.NewNop())

	f, err := e.BuildWorkbook([]repository.StoredResult{sampleStored()})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Invoice ID", rows[0][0])
	assert.Equal(t, "INV-2024-001", rows[1][0])
	assert.Equal(t, "DRAFT", rows[1][6])

	checkRows, err := f.GetRows("Checks")
	require.NoError(t, err)
	require.Len(t, checkRows, 3)
	assert.Equal(t, "Financial Routing", checkRows[1][1])
	assert.Equal(t, "WARNING", checkRows[2][2])
}

func TestBuildWorkbook_EmptyResults(t *testing.T) {
	e := NewExporter(zap.NewNop())

	f, err := e.BuildWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExport_WritesFile(t *testing.T) {
	e := NewExporter(zap.NewNop())
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, e.Export(path, []repository.StoredResult{sampleStored()}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
