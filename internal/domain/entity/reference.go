package entity

import "strings"

// RiskLevel classifies a vendor in the reference directory.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// VendorRecord is one row of the authorized vendor directory.
type VendorRecord struct {
	VendorName string    `json:"vendor_name"`
	IBAN       string    `json:"iban"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// BudgetRecord is one row of the department budget ledger.
type BudgetRecord struct {
	Department      string  `json:"department"`
	TotalBudget     float64 `json:"total_budget"`
	RemainingBudget float64 `json:"remaining_budget"`
}

// ContractRecord is one row of the contract registry. Start and End are
// ISO dates; lexicographic comparison is valid for the coverage scan.
type ContractRecord struct {
	VendorName string `json:"vendor_name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	IsActive   bool   `json:"is_active"`
}

// ReferenceData bundles the three reference datasets, indexed for direct
// lookup. Loaded once per process and treated as read-only afterwards.
type ReferenceData struct {
	// VendorsByName maps normalized vendor name to its directory row.
	VendorsByName map[string]VendorRecord

	// AuthorizedIBANs is the whitespace-stripped IBAN set of the directory.
	AuthorizedIBANs map[string]struct{}

	// BudgetsByDepartment maps normalized department name to its allocation.
	BudgetsByDepartment map[string]BudgetRecord

	// ContractsByVendor maps normalized vendor name to its agreements.
	// Cardinality per vendor is expected to be small.
	ContractsByVendor map[string][]ContractRecord
}

// NormalizeName lower-cases and trims a vendor or department name for
// reference-data lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeIBAN strips all spaces from an IBAN.
func NormalizeIBAN(iban string) string {
	return strings.ReplaceAll(strings.TrimSpace(iban), " ", "")
}

// NewReferenceData builds an indexed ReferenceData from raw rows. Nil row
// slices yield empty (never nil) indexes so lookups degrade to misses.
func NewReferenceData(vendors []VendorRecord, budgets []BudgetRecord, contracts []ContractRecord) *ReferenceData {
	rd := &ReferenceData{
		VendorsByName:       make(map[string]VendorRecord, len(vendors)),
		AuthorizedIBANs:     make(map[string]struct{}, len(vendors)),
		BudgetsByDepartment: make(map[string]BudgetRecord, len(budgets)),
		ContractsByVendor:   make(map[string][]ContractRecord, len(contracts)),
	}

	for _, v := range vendors {
		rd.VendorsByName[NormalizeName(v.VendorName)] = v
		if iban := NormalizeIBAN(v.IBAN); iban != "" {
			rd.AuthorizedIBANs[iban] = struct{}{}
		}
	}
	for _, b := range budgets {
		rd.BudgetsByDepartment[NormalizeName(b.Department)] = b
	}
	for _, c := range contracts {
		key := NormalizeName(c.VendorName)
		rd.ContractsByVendor[key] = append(rd.ContractsByVendor[key], c)
	}

	return rd
}
