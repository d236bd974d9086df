// Package extractor turns unstructured invoice text into typed invoice
// fields using ordered heuristic patterns. Missing cues yield sentinel
// fallbacks rather than failures; only an empty document aborts extraction.
package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"go.uber.org/zap"
)

// fieldPatterns are evaluated in priority order: the most specific labeled
// pattern first, the generic positional heuristic last. First match wins,
// so new document layouts are supported by extending these tables.
var (
	vendorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Vendor|FROM|Issuer):\s*(.+)`),
	}

	ibanPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:IBAN|Account|PAY TO)[:,]?\s*([A-Z]{2}[0-9A-Z ]{13,32})`),
	}

	invoiceIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Invoice #|REF|Invoice Number|ID):\s*([A-Z0-9\-/]+)`),
		regexp.MustCompile(`(INV-\d{4}-\d+)`),
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Date|Issued):\s*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	}

	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Total Amount|BALANCE DUE|TOTAL|Grand Total)[:\s]*(?:EUR|€)?\s*([\d.,]+)`),
	}

	departmentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Department|DEPT|Cost Center):\s*(\w+)`),
	}
)

// Document headings that never name a vendor, used by the positional
// vendor fallback.
var genericHeadings = map[string]bool{
	"INVOICE":     true,
	"BILL":        true,
	"RECEIPT":     true,
	"CREDIT NOTE": true,
}

// Extractor parses raw document text into an Invoice.
type Extractor struct {
	reader *DocumentReader
	logger *zap.Logger
}

// NewExtractor creates a new field extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{
		reader: NewDocumentReader(logger),
		logger: logger,
	}
}

// ParseFile loads a document file and extracts an invoice from its text.
func (e *Extractor) ParseFile(path string) (entity.Invoice, error) {
	text, err := e.reader.LoadText(path)
	if err != nil {
		return entity.Invoice{}, err
	}

	inv, err := e.Parse(text)
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("failed to process %s: %w", path, err)
	}
	inv.FilePath = path
	return inv, nil
}

// Parse extracts all invoice fields from raw text. Every field is
// extracted independently; an unmatched field falls back to its sentinel.
// Empty or whitespace-only text is a hard failure.
func (e *Extractor) Parse(rawText string) (entity.Invoice, error) {
	if strings.TrimSpace(rawText) == "" {
		return entity.Invoice{}, ErrEmptyDocument
	}

	inv := entity.Invoice{
		InvoiceID:  e.extractInvoiceID(rawText),
		VendorName: e.extractVendor(rawText),
		IBAN:       e.extractIBAN(rawText),
		Date:       e.extractDate(rawText),
		Amount:     e.extractAmount(rawText),
		Currency:   "EUR",
		Department: e.extractDepartment(rawText),
		Items:      []entity.LineItem{},
	}

	e.logger.Info("Parsed invoice document",
		zap.String("invoice_id", inv.InvoiceID),
		zap.String("vendor", inv.VendorName),
		zap.Float64("amount", inv.Amount))

	return inv, nil
}

// firstMatch runs patterns in order and returns the first capture group
// of the first pattern that matches.
func firstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

func (e *Extractor) extractInvoiceID(text string) string {
	if id, ok := firstMatch(invoiceIDPatterns, text); ok {
		// Handle combined references like "INV-123 / 2023".
		return strings.TrimSpace(strings.SplitN(id, "/", 2)[0])
	}
	return entity.UnknownInvoiceID
}

func (e *Extractor) extractVendor(text string) string {
	if vendor, ok := firstMatch(vendorPatterns, text); ok {
		return vendor
	}

	// Fallback: first line that is not a generic document heading.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !genericHeadings[strings.ToUpper(line)] {
			return line
		}
	}
	return entity.UnknownVendor
}

func (e *Extractor) extractIBAN(text string) string {
	if raw, ok := firstMatch(ibanPatterns, text); ok {
		return entity.NormalizeIBAN(raw)
	}
	return entity.UnknownIBAN
}

func (e *Extractor) extractDate(text string) *time.Time {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		d, err := time.Parse("2006-01-02", strings.TrimSpace(m[1]))
		if err != nil {
			continue
		}
		return &d
	}
	return nil
}

func (e *Extractor) extractAmount(text string) float64 {
	raw, ok := firstMatch(amountPatterns, text)
	if !ok {
		return 0.0
	}
	return e.normalizeAmount(raw)
}

func (e *Extractor) extractDepartment(text string) string {
	if dept, ok := firstMatch(departmentPatterns, text); ok {
		return dept
	}
	return entity.UnknownDepartment
}

// normalizeAmount disambiguates European (1.234,56) and North-American
// (1,234.56) numeric formats:
//
//   - Both separators present: the right-most one is the decimal mark, the
//     other is a grouping separator and is stripped.
//   - Only a comma: decimal mark when exactly two digits follow the last
//     comma, grouping separator otherwise.
//
// A value that still fails to parse yields 0.0, logged rather than raised.
func (e *Extractor) normalizeAmount(value string) float64 {
	s := strings.TrimSpace(value)

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// EU format: 1.234,56 -> 1234.56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// US format: 1,234.56 -> 1234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// Two digits after the last comma reads as a decimal mark (,50);
		// anything else reads as grouping (12,000). Heuristic, but the
		// document carries no locale hint.
		if len(s)-strings.LastIndex(s, ",")-1 == 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		e.logger.Warn("Could not parse currency value", zap.String("value", value))
		return 0.0
	}
	return amount
}
