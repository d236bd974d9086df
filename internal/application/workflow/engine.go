// Package workflow orchestrates the invoice approval lifecycle: context
// retrieval, deterministic math verification, risk gating, and the
// human-in-the-loop escalation path.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	domainwf "github.com/axiomflow/invoice-sentinel/internal/domain/workflow"
	"github.com/axiomflow/invoice-sentinel/internal/finance"
	"github.com/axiomflow/invoice-sentinel/internal/memory"
)

// Defaults for the decision gates.
const (
	DefaultAssumedTaxRate    = 0.21
	DefaultLargeTxnThreshold = 10000.0
)

// Config carries the tunable gate parameters.
type Config struct {
	// AssumedTaxRate is used to derive the implied subtotal/tax split when
	// the document only carries a single total amount.
	AssumedTaxRate float64

	// LargeTxnThreshold is the amount above which a transaction always
	// requires human sign-off.
	LargeTxnThreshold float64
}

func (c Config) withDefaults() Config {
	if c.AssumedTaxRate <= 0 {
		c.AssumedTaxRate = DefaultAssumedTaxRate
	}
	if c.LargeTxnThreshold <= 0 {
		c.LargeTxnThreshold = DefaultLargeTxnThreshold
	}
	return c
}

// AuditSink mirrors workflow progress to durable storage. Sink failures
// are logged and never block the workflow.
type AuditSink interface {
	RecordEvent(ctx context.Context, workflowID string, state domainwf.State, entry string) error
}

// MathVerification stores the outcome of the deterministic math check.
type MathVerification struct {
	Valid   bool            `json:"valid"`
	Reason  string          `json:"reason"`
	Details finance.Details `json:"details"`
}

// instance is the mutable state of one running workflow. All access goes
// through the engine mutex.
type instance struct {
	workflowID        string
	machine           *domainwf.Machine
	invoice           entity.Invoice
	logs              []string
	mathVerification  *MathVerification
	memoryContext     *memory.VendorContext
	humanActionNeeded string
	updatedAt         time.Time
}

// Snapshot is a point-in-time copy of a workflow instance, safe to hand
// out across the API boundary.
type Snapshot struct {
	WorkflowID        string                `json:"workflow_id"`
	Status            domainwf.State        `json:"status"`
	Invoice           entity.Invoice        `json:"invoice"`
	Logs              []string              `json:"logs"`
	MathVerification  *MathVerification     `json:"math_verification,omitempty"`
	MemoryContext     *memory.VendorContext `json:"memory_context,omitempty"`
	HumanActionNeeded string                `json:"human_action_needed,omitempty"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// Engine runs approval workflows. Instances live in an in-process
// registry; the audit sink provides the durable mirror.
type Engine struct {
	mu        sync.RWMutex
	instances map[string]*instance

	memory    memory.ContextProvider
	validator *finance.Validator
	audit     AuditSink
	cfg       Config
	logger    *zap.Logger
}

// NewEngine creates a workflow engine. The audit sink may be nil when no
// durable mirror is configured.
func NewEngine(mem memory.ContextProvider, validator *finance.Validator, audit AuditSink, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{
		instances: make(map[string]*instance),
		memory:    mem,
		validator: validator,
		audit:     audit,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// Start initializes a new workflow for the invoice and runs it until it
// reaches a terminal state or pauses for human review. Returns the
// workflow id tracking the run. Invoices that fail their invariants
// never enter the registry.
func (e *Engine) Start(ctx context.Context, invoice entity.Invoice) (string, error) {
	if err := invoice.Validate(); err != nil {
		return "", fmt.Errorf("invalid invoice: %w", err)
	}

	// Short ids keep the audit trail and the review UI readable.
	wID := uuid.NewString()[:8]

	inst := &instance{
		workflowID: wID,
		machine:    domainwf.NewMachine(domainwf.StatePending),
		invoice:    invoice,
		updatedAt:  time.Now(),
	}

	e.mu.Lock()
	e.instances[wID] = inst
	e.log(ctx, inst, fmt.Sprintf("Workflow initialized for Invoice #%s", invoice.InvoiceID))
	e.executeStep(ctx, inst)
	e.mu.Unlock()

	return wID, nil
}

// executeStep runs the core decision loop for an instance. Caller holds
// the engine mutex.
func (e *Engine) executeStep(ctx context.Context, inst *instance) {
	if err := inst.machine.Fire(domainwf.TriggerExecute); err != nil {
		e.logger.Error("Workflow cannot start execution",
			zap.String("workflow_id", inst.workflowID), zap.Error(err))
		return
	}
	e.log(ctx, inst, "Agent execution started.")

	// Phase 1: context retrieval.
	vendorCtx := e.memory.RetrieveContext(inst.invoice.VendorName)
	inst.memoryContext = &vendorCtx
	e.log(ctx, inst, fmt.Sprintf("Memory Lookup: Identified as %s Risk.", vendorCtx.Risk))

	if vendorCtx.Risk == memory.RiskHigh {
		e.pauseForHuman(ctx, inst, "High Risk Vendor detected. CFO Approval Required.")
		return
	}

	// Phase 2: math integrity. The document carries only a total, so the
	// subtotal and tax are derived from the assumed rate.
	impliedSubtotal := inst.invoice.Amount / (1 + e.cfg.AssumedTaxRate)
	impliedTax := inst.invoice.Amount - impliedSubtotal

	valid, reason, details, err := e.validator.Validate(
		impliedSubtotal, impliedTax, inst.invoice.Amount, e.cfg.AssumedTaxRate)
	if err != nil {
		e.logger.Error("Math engine failure",
			zap.String("workflow_id", inst.workflowID), zap.Error(err))
		e.pauseForHuman(ctx, inst, "Deterministic Math Engine Error. Manual Review needed.")
		return
	}
	inst.mathVerification = &MathVerification{Valid: valid, Reason: reason, Details: details}

	if inst.invoice.Amount > e.cfg.LargeTxnThreshold {
		e.pauseForHuman(ctx, inst, fmt.Sprintf(
			"Large Transaction (> €%.0fk). Variance Protocol initiated.", e.cfg.LargeTxnThreshold/1000))
		return
	}

	// Phase 3: final decision.
	if err := inst.machine.Fire(domainwf.TriggerAutoApprove); err != nil {
		e.logger.Error("Auto-approval transition rejected",
			zap.String("workflow_id", inst.workflowID), zap.Error(err))
		return
	}
	e.log(ctx, inst, "Auto-Approval Logic satisfied. Transaction Released.")
}

// Signal resumes a paused workflow with the reviewer's decision. Signals
// for unknown workflows or workflows not awaiting review are ignored.
func (e *Engine) Signal(ctx context.Context, workflowID string, approved bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[workflowID]
	if !ok {
		e.logger.Warn("Signal received for unknown workflow",
			zap.String("workflow_id", workflowID))
		return nil
	}
	if inst.machine.State() != domainwf.StateAwaitingHuman {
		e.logger.Warn("Signal received for workflow not awaiting review",
			zap.String("workflow_id", workflowID),
			zap.String("state", inst.machine.State().String()))
		return nil
	}

	if approved {
		e.log(ctx, inst, "Signal Received: CFO APPROVED. Resuming...")
		if err := inst.machine.Fire(domainwf.TriggerApprove); err != nil {
			return err
		}
	} else {
		e.log(ctx, inst, "Signal Received: CFO REJECTED. Terminating.")
		if err := inst.machine.Fire(domainwf.TriggerReject); err != nil {
			return err
		}
	}
	inst.humanActionNeeded = ""
	inst.updatedAt = time.Now()
	return nil
}

// pauseForHuman escalates an instance to human review. Caller holds the
// engine mutex.
func (e *Engine) pauseForHuman(ctx context.Context, inst *instance, reason string) {
	if err := inst.machine.Fire(domainwf.TriggerEscalate); err != nil {
		e.logger.Error("Escalation transition rejected",
			zap.String("workflow_id", inst.workflowID), zap.Error(err))
		return
	}
	inst.humanActionNeeded = reason
	e.log(ctx, inst, fmt.Sprintf("Workflow Paused: %s", reason))
}

// Get returns a snapshot of one workflow.
func (e *Engine) Get(workflowID string) (Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	inst, ok := e.instances[workflowID]
	if !ok {
		return Snapshot{}, false
	}
	return inst.snapshot(), true
}

// List returns snapshots of all workflows, in no particular order.
func (e *Engine) List() []Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Snapshot, 0, len(e.instances))
	for _, inst := range e.instances {
		out = append(out, inst.snapshot())
	}
	return out
}

func (inst *instance) snapshot() Snapshot {
	logs := make([]string, len(inst.logs))
	copy(logs, inst.logs)
	return Snapshot{
		WorkflowID:        inst.workflowID,
		Status:            inst.machine.State(),
		Invoice:           inst.invoice,
		Logs:              logs,
		MathVerification:  inst.mathVerification,
		MemoryContext:     inst.memoryContext,
		HumanActionNeeded: inst.humanActionNeeded,
		UpdatedAt:         inst.updatedAt,
	}
}

// log appends a timestamped entry to the instance audit trail and
// mirrors it to the sink. Caller holds the engine mutex.
func (e *Engine) log(ctx context.Context, inst *instance, message string) {
	entry := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message)
	inst.logs = append(inst.logs, entry)
	inst.updatedAt = time.Now()

	e.logger.Info(message, zap.String("workflow_id", inst.workflowID))

	if e.audit != nil {
		if err := e.audit.RecordEvent(ctx, inst.workflowID, inst.machine.State(), entry); err != nil {
			e.logger.Warn("Audit sink write failed",
				zap.String("workflow_id", inst.workflowID), zap.Error(err))
		}
	}
}
