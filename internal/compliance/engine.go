// Package compliance runs the business rule checklist for invoices:
// payment routing, vendor risk, budget alignment, and contract
// coverage, aggregated into a single final decision.
package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"github.com/axiomflow/invoice-sentinel/internal/erp"
	"go.uber.org/zap"
)

// Check names as they appear in results and reports.
const (
	CheckFinancialRouting = "Financial Routing"
	CheckVendorRisk       = "Vendor Risk"
	CheckBudget           = "Budget Check"
	CheckContract         = "Contract Check"
)

// Risk scores attached to the aggregate decision.
const (
	scoreRejected = 100
	scoreDraft    = 50
	scoreApproved = 0
)

// Engine evaluates invoices against the loaded reference data. The
// reference dataset is read-only after construction, so a single Engine
// is safe for concurrent use.
type Engine struct {
	refData *entity.ReferenceData
	syncer  erp.RecordSyncer
	logger  *zap.Logger
}

// NewEngine creates a compliance engine over the given reference data.
// The syncer receives every invoice that clears all checks.
func NewEngine(refData *entity.ReferenceData, syncer erp.RecordSyncer, logger *zap.Logger) *Engine {
	return &Engine{
		refData: refData,
		syncer:  syncer,
		logger:  logger,
	}
}

// ProcessInvoice runs the full checklist and aggregates the outcome.
// Every check always runs; a failing check never short-circuits the
// rest, so the result carries the complete evidence trail.
func (e *Engine) ProcessInvoice(ctx context.Context, invoice entity.Invoice) entity.ProcessingResult {
	e.logger.Info("Starting compliance scan",
		zap.String("invoice_id", invoice.InvoiceID),
		zap.String("vendor", invoice.VendorName))

	checks := []entity.CheckResult{
		e.verifyFinancialRouting(invoice),
		e.assessVendorRisk(invoice),
		e.validateBudgetaryAlignment(invoice),
		e.verifyContractualStanding(invoice),
	}

	result := entity.ProcessingResult{
		Invoice: invoice,
		Checks:  checks,
	}

	switch {
	case result.HasFailures():
		result.FinalStatus = entity.StatusRejected
		result.RiskScore = scoreRejected
		e.logger.Info("REJECTED: critical failure(s) detected",
			zap.String("invoice_id", invoice.InvoiceID))
	case result.HasWarnings():
		result.FinalStatus = entity.StatusDraft
		result.RiskScore = scoreDraft
		e.logger.Info("REVIEW NEEDED: warning(s) detected",
			zap.String("invoice_id", invoice.InvoiceID))
	default:
		result.FinalStatus = entity.StatusApproved
		result.RiskScore = scoreApproved
		if err := e.syncer.SyncApproved(ctx, invoice); err != nil {
			// The decision stands; the sync retry is an operational concern.
			e.logger.Error("ERP sync failed",
				zap.String("invoice_id", invoice.InvoiceID),
				zap.Error(err))
		} else {
			e.logger.Info("APPROVED: invoice validated and synced",
				zap.String("invoice_id", invoice.InvoiceID))
		}
	}

	return result
}

func newCheck(name string, status entity.CheckStatus, msg string) entity.CheckResult {
	return entity.CheckResult{
		CheckName: name,
		Status:    status,
		Message:   msg,
		Timestamp: time.Now(),
	}
}

// verifyFinancialRouting ensures the IBAN on the invoice matches an
// authorized vendor record.
func (e *Engine) verifyFinancialRouting(invoice entity.Invoice) entity.CheckResult {
	if invoice.IBAN == entity.UnknownIBAN {
		return newCheck(CheckFinancialRouting, entity.CheckFail, "Missing IBAN on document.")
	}
	if _, ok := e.refData.AuthorizedIBANs[entity.NormalizeIBAN(invoice.IBAN)]; !ok {
		return newCheck(CheckFinancialRouting, entity.CheckFail,
			fmt.Sprintf("Unauthorized IBAN detected: %s", invoice.IBAN))
	}
	return newCheck(CheckFinancialRouting, entity.CheckPass, "IBAN verified.")
}

// assessVendorRisk checks the vendor against the internal risk matrix.
func (e *Engine) assessVendorRisk(invoice entity.Invoice) entity.CheckResult {
	vendor, ok := e.refData.VendorsByName[entity.NormalizeName(invoice.VendorName)]
	if !ok {
		return newCheck(CheckVendorRisk, entity.CheckWarning, "Vendor unknown (First-time supplier).")
	}
	if vendor.RiskLevel == entity.RiskHigh {
		return newCheck(CheckVendorRisk, entity.CheckFail, "Vendor is flagged as HIGH RISK.")
	}
	return newCheck(CheckVendorRisk, entity.CheckPass, "Vendor cleared.")
}

// validateBudgetaryAlignment ensures the department has sufficient
// remaining budget for the invoice amount.
func (e *Engine) validateBudgetaryAlignment(invoice entity.Invoice) entity.CheckResult {
	if invoice.Department == entity.UnknownDepartment {
		return newCheck(CheckBudget, entity.CheckWarning, "Unclassified Department.")
	}

	allocation, ok := e.refData.BudgetsByDepartment[entity.NormalizeName(invoice.Department)]
	if !ok {
		return newCheck(CheckBudget, entity.CheckFail,
			fmt.Sprintf("No budget allocated for '%s'.", invoice.Department))
	}

	if invoice.Amount > allocation.RemainingBudget {
		return newCheck(CheckBudget, entity.CheckFail,
			fmt.Sprintf("Budget Exceeded. Req: €%v > Rem: €%v", invoice.Amount, allocation.RemainingBudget))
	}

	return newCheck(CheckBudget, entity.CheckPass,
		fmt.Sprintf("Approved. (Remaining: €%.2f)", allocation.RemainingBudget-invoice.Amount))
}

// verifyContractualStanding scans the vendor's agreements for one active
// contract whose coverage period includes the invoice date.
func (e *Engine) verifyContractualStanding(invoice entity.Invoice) entity.CheckResult {
	if invoice.Date == nil {
		return newCheck(CheckContract, entity.CheckFail, "Invoice missing date info.")
	}

	invDate := invoice.DateISO()
	for _, agreement := range e.refData.ContractsByVendor[entity.NormalizeName(invoice.VendorName)] {
		if !agreement.IsActive {
			continue
		}
		start := agreement.StartDate
		if start == "" {
			start = "1900-01-01"
		}
		end := agreement.EndDate
		if end == "" {
			end = "2099-12-31"
		}
		if start <= invDate && invDate <= end {
			return newCheck(CheckContract, entity.CheckPass, "Active Master Agreement found.")
		}
	}

	return newCheck(CheckContract, entity.CheckFail, "No active contract covers this date.")
}
