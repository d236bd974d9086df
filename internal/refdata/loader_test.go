package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoad_FullDataset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, VendorsFile, `vendor_name,iban,risk_level
Acme GmbH,NL91 ABNA 0417 1643 00,Low
Dark Web Corp,DE89370400440532013000,High
Fresh Supplier,,
`)
	writeFile(t, dir, BudgetsFile, `department,total_budget,remaining_budget
IT,50000,12500.50
Marketing,20000,0
`)
	writeFile(t, dir, ContractsFile, `vendor_name,start_date,end_date,is_active
Acme GmbH,2024-01-01,2024-12-31,true
Acme GmbH,2022-01-01,2022-12-31,false
`)

	rd, err := NewLoader(dir, zap.NewNop()).Load()
	require.NoError(t, err)

	assert.Len(t, rd.VendorsByName, 3)
	assert.Equal(t, entity.RiskHigh, rd.VendorsByName["dark web corp"].RiskLevel)
	// IBANs are stored whitespace-stripped.
	assert.Contains(t, rd.AuthorizedIBANs, "NL91ABNA0417164300")
	// Unrated vendors default to Medium.
	assert.Equal(t, entity.RiskMedium, rd.VendorsByName["fresh supplier"].RiskLevel)

	assert.Equal(t, 12500.50, rd.BudgetsByDepartment["it"].RemainingBudget)
	assert.Equal(t, 20000.0, rd.BudgetsByDepartment["marketing"].TotalBudget)

	contracts := rd.ContractsByVendor["acme gmbh"]
	require.Len(t, contracts, 2)
	assert.True(t, contracts[0].IsActive)
	assert.False(t, contracts[1].IsActive)
}

func TestLoad_MissingFilesDegradeToEmpty(t *testing.T) {
	rd, err := NewLoader(t.TempDir(), zap.NewNop()).Load()
	require.NoError(t, err)

	assert.Empty(t, rd.VendorsByName)
	assert.Empty(t, rd.BudgetsByDepartment)
	assert.Empty(t, rd.ContractsByVendor)
	assert.NotNil(t, rd.AuthorizedIBANs)
}

func TestLoad_MalformedBudgetRowFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, BudgetsFile, `department,total_budget,remaining_budget
IT,not-a-number,100
`)

	_, err := NewLoader(dir, zap.NewNop()).Load()
	assert.Error(t, err)
}

func TestLoad_HeaderOnlyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, VendorsFile, "vendor_name,iban,risk_level\n")

	rd, err := NewLoader(dir, zap.NewNop()).Load()
	require.NoError(t, err)
	assert.Empty(t, rd.VendorsByName)
}
