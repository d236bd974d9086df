package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainwf "github.com/axiomflow/invoice-sentinel/internal/domain/workflow"
	"github.com/axiomflow/invoice-sentinel/pkg/database"
)

// WorkflowEvent is one persisted audit trail entry.
type WorkflowEvent struct {
	ID         int64          `json:"id"`
	WorkflowID string         `json:"workflow_id"`
	State      domainwf.State `json:"state"`
	Entry      string         `json:"entry"`
	CreatedAt  time.Time      `json:"created_at"`
}

// WorkflowAuditRepository mirrors workflow progress to sqlite. It
// implements the engine's audit sink.
type WorkflowAuditRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewWorkflowAuditRepository creates the audit repository.
func NewWorkflowAuditRepository(db *database.DB, logger *zap.Logger) *WorkflowAuditRepository {
	return &WorkflowAuditRepository{db: db, logger: logger}
}

// RecordEvent appends one audit entry for a workflow.
func (r *WorkflowAuditRepository) RecordEvent(ctx context.Context, workflowID string, state domainwf.State, entry string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO workflow_events (workflow_id, state, entry) VALUES (?, ?, ?)",
		workflowID, state.String(), entry,
	)
	if err != nil {
		return fmt.Errorf("failed to record workflow event: %w", err)
	}
	return nil
}

// ListEvents returns the audit trail of one workflow in insertion order.
func (r *WorkflowAuditRepository) ListEvents(ctx context.Context, workflowID string) ([]WorkflowEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, workflow_id, state, entry, created_at
		FROM workflow_events
		WHERE workflow_id = ?
		ORDER BY id ASC
	`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow events: %w", err)
	}
	defer rows.Close()

	var events []WorkflowEvent
	for rows.Next() {
		var (
			evt   WorkflowEvent
			state string
		)
		if err := rows.Scan(&evt.ID, &evt.WorkflowID, &state, &evt.Entry, &evt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workflow event: %w", err)
		}
		evt.State = domainwf.State(state)
		events = append(events, evt)
	}
	return events, rows.Err()
}
