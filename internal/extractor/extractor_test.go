package extractor

import (
	"testing"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExtractor() *Extractor {
	return NewExtractor(zap.NewNop())
}

func TestParse_LabeledLayout(t *testing.T) {
	e := newTestExtractor()

	text := `Vendor: Acme Tooling GmbH
Date: 2024-03-15
Invoice #: INV-2024-1042
IBAN: NL91 ABNA 0417 1643 00
Department: IT

Total Amount: EUR 1.234,56`

	inv, err := e.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "INV-2024-1042", inv.InvoiceID)
	assert.Equal(t, "Acme Tooling GmbH", inv.VendorName)
	assert.Equal(t, "NL91ABNA0417164300", inv.IBAN)
	assert.Equal(t, "2024-03-15", inv.DateISO())
	assert.Equal(t, 1234.56, inv.Amount)
	assert.Equal(t, "EUR", inv.Currency)
	assert.Equal(t, "IT", inv.Department)
}

func TestParse_CourierLayout(t *testing.T) {
	e := newTestExtractor()

	text := `FROM: Northwind Services
PAY TO: DE89370400440532013000

REF: INV-2023-771 / 2023-11-02
DEPT: Marketing

TOTAL: 12,000`

	inv, err := e.Parse(text)
	require.NoError(t, err)

	// Combined "REF: id / date" reference keeps only the id part.
	assert.Equal(t, "INV-2023-771", inv.InvoiceID)
	assert.Equal(t, "Northwind Services", inv.VendorName)
	assert.Equal(t, "DE89370400440532013000", inv.IBAN)
	assert.Equal(t, "2023-11-02", inv.DateISO())
	assert.Equal(t, 12000.0, inv.Amount)
	assert.Equal(t, "Marketing", inv.Department)
}

func TestParse_VendorPositionalFallback(t *testing.T) {
	e := newTestExtractor()

	text := `INVOICE

Globex Corporation
IBAN: NL00RABO0123456789
BALANCE DUE: 500.00 EUR`

	inv, err := e.Parse(text)
	require.NoError(t, err)

	// "INVOICE" is a generic heading; the first real line is the vendor.
	assert.Equal(t, "Globex Corporation", inv.VendorName)
	assert.Equal(t, 500.00, inv.Amount)
}

func TestParse_SentinelFallbacks(t *testing.T) {
	e := newTestExtractor()

	inv, err := e.Parse("completely unstructured text with no cues")
	require.NoError(t, err)

	assert.Equal(t, entity.UnknownInvoiceID, inv.InvoiceID)
	assert.Equal(t, entity.UnknownIBAN, inv.IBAN)
	assert.Equal(t, entity.UnknownDepartment, inv.Department)
	assert.Equal(t, 0.0, inv.Amount)
	assert.Nil(t, inv.Date)
	// The fallback vendor heuristic picks the first non-heading line.
	assert.Equal(t, "completely unstructured text with no cues", inv.VendorName)
}

func TestParse_EmptyDocumentIsHardFailure(t *testing.T) {
	e := newTestExtractor()

	for _, text := range []string{"", "   \n\t  "} {
		_, err := e.Parse(text)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	}
}

func TestNormalizeAmount(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name     string
		in       string
		expected float64
	}{
		{"eu grouped", "1.234,56", 1234.56},
		{"us grouped", "1,234.56", 1234.56},
		{"eu decimal comma", ",50", 0.50},
		{"us thousands comma", "12,000", 12000},
		{"plain decimal", "120.00", 120.00},
		{"plain integer", "500", 500},
		{"large eu", "1.234.567,89", 1234567.89},
		{"large us", "1,234,567.89", 1234567.89},
		{"garbage", "1.2.3,4,5", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.normalizeAmount(tt.in))
		})
	}
}

func TestNormalizeAmount_Idempotent(t *testing.T) {
	e := newTestExtractor()

	// Normalizing an already-normalized rendering gives the same value.
	for _, in := range []string{"1.234,56", "1,234.56"} {
		first := e.normalizeAmount(in)
		assert.Equal(t, first, e.normalizeAmount("1234.56"))
	}
}

func TestParse_InvalidAmountFallsBackToZero(t *testing.T) {
	e := newTestExtractor()

	inv, err := e.Parse("Vendor: Acme\nTotal Amount: EUR ..,,..")
	require.NoError(t, err)
	assert.Equal(t, 0.0, inv.Amount)
}
