package entity

import "time"

// CheckStatus is the outcome of a single compliance check.
type CheckStatus string

const (
	CheckPass    CheckStatus = "PASS"
	CheckFail    CheckStatus = "FAIL"
	CheckWarning CheckStatus = "WARNING"
)

// FinalStatus is the aggregate decision for a processed invoice.
type FinalStatus string

const (
	StatusApproved FinalStatus = "APPROVED"
	StatusDraft    FinalStatus = "DRAFT"
	StatusRejected FinalStatus = "REJECTED"
)

// CheckResult captures the outcome of one compliance rule for one invoice.
// Results are immutable once produced.
type CheckResult struct {
	CheckName string      `json:"check_name"`
	Status    CheckStatus `json:"status"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// ProcessingResult is the aggregate outcome of running all compliance
// checks against a single invoice.
//
// Invariant: FinalStatus and RiskScore are pure functions of the check
// statuses. Any FAIL forces REJECTED/100, otherwise any WARNING forces
// DRAFT/50, otherwise APPROVED/0.
type ProcessingResult struct {
	Invoice     Invoice       `json:"invoice"`
	Checks      []CheckResult `json:"checks"`
	FinalStatus FinalStatus   `json:"final_status"`
	RiskScore   int           `json:"risk_score"`
}

// HasFailures reports whether any check failed.
func (r *ProcessingResult) HasFailures() bool {
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any check produced a warning.
func (r *ProcessingResult) HasWarnings() bool {
	for _, c := range r.Checks {
		if c.Status == CheckWarning {
			return true
		}
	}
	return false
}
