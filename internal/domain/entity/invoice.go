package entity

import (
	"fmt"
	"strings"
	"time"
)

// LineItem represents a single line item within an invoice.
// Line items are carried for completeness but are not reconciled downstream.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Invoice is the core domain model representing a financial invoice.
// It is a value object: created once by the extractor (or a caller) and
// never mutated afterwards.
type Invoice struct {
	InvoiceID  string     `json:"invoice_id"`
	VendorName string     `json:"vendor_name"`
	IBAN       string     `json:"iban"`
	Date       *time.Time `json:"date,omitempty"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	Department string     `json:"department"`
	Items      []LineItem `json:"items"`

	// FilePath points at the source document, when there was one.
	FilePath string `json:"file_path,omitempty"`
}

// Sentinel values produced by the extractor when a field cannot be found.
// Downstream checks treat these as failing conditions, not as extractions.
const (
	UnknownInvoiceID  = "UNKNOWN"
	UnknownIBAN       = "UNKNOWN"
	UnknownVendor     = "Unknown Vendor"
	UnknownDepartment = "Unknown"
)

// Validate enforces the invoice invariants: positive amount and a
// 3-letter currency code.
func (i *Invoice) Validate() error {
	if i.Amount <= 0 {
		return fmt.Errorf("invoice amount must be positive: %.2f", i.Amount)
	}
	if len(i.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code: %q", i.Currency)
	}
	return nil
}

// NormalizedCurrency returns the upper-cased currency code.
func (i *Invoice) NormalizedCurrency() string {
	return strings.ToUpper(i.Currency)
}

// DateISO returns the invoice date formatted as an ISO date, or the empty
// string when no date was extracted.
func (i *Invoice) DateISO() string {
	if i.Date == nil {
		return ""
	}
	return i.Date.Format("2006-01-02")
}
