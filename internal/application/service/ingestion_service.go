// Package service contains the application services that tie document
// extraction, compliance checks, and approval workflows together.
package service

import (
	"context"

	"go.uber.org/zap"

	appworkflow "github.com/axiomflow/invoice-sentinel/internal/application/workflow"
	"github.com/axiomflow/invoice-sentinel/internal/compliance"
	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"github.com/axiomflow/invoice-sentinel/internal/extractor"
	"github.com/axiomflow/invoice-sentinel/internal/repository"
)

// ResultStore persists processing results. Implemented by the sqlite
// repository; nil-able for setups without durable storage.
type ResultStore interface {
	Save(ctx context.Context, result entity.ProcessingResult) (int64, error)
	GetLatestByInvoiceID(ctx context.Context, invoiceID string) (*repository.StoredResult, error)
	List(ctx context.Context) ([]repository.StoredResult, error)
	CountByStatus(ctx context.Context) (map[entity.FinalStatus]int, error)
}

// IngestionOutcome is the full product of ingesting one document.
type IngestionOutcome struct {
	Invoice    entity.Invoice          `json:"invoice"`
	Result     entity.ProcessingResult `json:"result"`
	WorkflowID string                  `json:"workflow_id"`
}

// IngestionService runs the document pipeline: extract fields, execute
// the compliance checklist, persist the outcome, and start an approval
// workflow.
type IngestionService struct {
	extractor *extractor.Extractor
	engine    *compliance.Engine
	workflows *appworkflow.Engine
	results   ResultStore
	logger    *zap.Logger
}

// NewIngestionService wires the pipeline. results may be nil.
func NewIngestionService(
	ext *extractor.Extractor,
	engine *compliance.Engine,
	workflows *appworkflow.Engine,
	results ResultStore,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		extractor: ext,
		engine:    engine,
		workflows: workflows,
		results:   results,
		logger:    logger,
	}
}

// Workflows exposes the approval workflow engine behind this service.
func (s *IngestionService) Workflows() *appworkflow.Engine {
	return s.workflows
}

// Results exposes the persisted result store, which may be nil.
func (s *IngestionService) Results() ResultStore {
	return s.results
}

// IngestFile processes a document from disk.
func (s *IngestionService) IngestFile(ctx context.Context, path string) (IngestionOutcome, error) {
	invoice, err := s.extractor.ParseFile(path)
	if err != nil {
		return IngestionOutcome{}, err
	}
	return s.ingest(ctx, invoice)
}

// IngestText processes raw document text, bypassing file loading. Used
// by the API upload path after the transport layer has read the body.
func (s *IngestionService) IngestText(ctx context.Context, rawText string) (IngestionOutcome, error) {
	invoice, err := s.extractor.Parse(rawText)
	if err != nil {
		return IngestionOutcome{}, err
	}
	return s.ingest(ctx, invoice)
}

func (s *IngestionService) ingest(ctx context.Context, invoice entity.Invoice) (IngestionOutcome, error) {
	result := s.engine.ProcessInvoice(ctx, invoice)

	if s.results != nil {
		if _, err := s.results.Save(ctx, result); err != nil {
			// Persistence is the audit mirror, not the decision path.
			s.logger.Error("Failed to persist processing result",
				zap.String("invoice_id", invoice.InvoiceID), zap.Error(err))
		}
	}

	workflowID, err := s.workflows.Start(ctx, invoice)
	if err != nil {
		// The compliance verdict is already recorded; an invoice that
		// cannot enter the approval lifecycle gets no workflow.
		s.logger.Warn("Workflow not started for invoice",
			zap.String("invoice_id", invoice.InvoiceID), zap.Error(err))
	}

	s.logger.Info("Document ingested",
		zap.String("invoice_id", invoice.InvoiceID),
		zap.String("workflow_id", workflowID),
		zap.String("final_status", string(result.FinalStatus)))

	return IngestionOutcome{
		Invoice:    invoice,
		Result:     result,
		WorkflowID: workflowID,
	}, nil
}
