package http

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/axiomflow/invoice-sentinel/internal/application/service"
	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"github.com/axiomflow/invoice-sentinel/internal/extractor"
	"github.com/axiomflow/invoice-sentinel/internal/report"
	"github.com/axiomflow/invoice-sentinel/internal/repository"
)

// AuditTrail reads the persisted workflow audit mirror. Implemented by
// the sqlite audit repository; nil-able like the result store.
type AuditTrail interface {
	ListEvents(ctx context.Context, workflowID string) ([]repository.WorkflowEvent, error)
}

// Handlers contains all HTTP request handlers.
type Handlers struct {
	ingestion *service.IngestionService
	exporter  *report.Exporter
	audit     AuditTrail
	logger    *zap.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(ingestion *service.IngestionService, exporter *report.Exporter, audit AuditTrail, logger *zap.Logger) *Handlers {
	return &Handlers{
		ingestion: ingestion,
		exporter:  exporter,
		audit:     audit,
		logger:    logger,
	}
}

// Response is the standard JSON envelope.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// IngestRequest is the JSON body for text-based document ingestion.
type IngestRequest struct {
	Text string `json:"text" binding:"required"`
}

// SignalRequest is the body for workflow review decisions.
type SignalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// IngestDocument handles POST /api/documents. Documents arrive either
// as a multipart "file" upload or as a JSON body with raw text.
func (h *Handlers) IngestDocument(c *gin.Context) {
	if file, err := c.FormFile("file"); err == nil {
		h.ingestUpload(c, file)
		return
	}

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "expected a file upload or a JSON body with a text field",
		})
		return
	}

	outcome, err := h.ingestion.IngestText(c.Request.Context(), req.Text)
	if err != nil {
		h.respondIngestError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: outcome})
}

func (h *Handlers) ingestUpload(c *gin.Context, file *multipart.FileHeader) {
	// Stage the upload so the PDF reader can open it from disk.
	dst := filepath.Join(os.TempDir(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.logger.Error("Failed to stage upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to stage upload"})
		return
	}
	defer os.Remove(dst)

	outcome, err := h.ingestion.IngestFile(c.Request.Context(), dst)
	if err != nil {
		h.respondIngestError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: outcome})
}

func (h *Handlers) respondIngestError(c *gin.Context, err error) {
	if errors.Is(err, extractor.ErrEmptyDocument) {
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
		return
	}
	h.logger.Error("Document ingestion failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "document ingestion failed"})
}

// ListResults handles GET /api/results.
func (h *Handlers) ListResults(c *gin.Context) {
	store := h.ingestion.Results()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: "result storage not configured"})
		return
	}

	results, err := store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve results"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: results})
}

// GetResult handles GET /api/results/:invoice_id.
func (h *Handlers) GetResult(c *gin.Context) {
	store := h.ingestion.Results()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: "result storage not configured"})
		return
	}

	invoiceID := c.Param("invoice_id")
	stored, err := store.GetLatestByInvoiceID(c.Request.Context(), invoiceID)
	if err != nil {
		h.logger.Error("Failed to load result", zap.String("invoice_id", invoiceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve result"})
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "result not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: stored})
}

// ListWorkflows handles GET /api/workflows.
func (h *Handlers) ListWorkflows(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: h.ingestion.Workflows().List()})
}

// GetWorkflow handles GET /api/workflows/:id.
func (h *Handlers) GetWorkflow(c *gin.Context) {
	snap, ok := h.ingestion.Workflows().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "workflow not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: snap})
}

// SignalWorkflow handles POST /api/workflows/:id/signal.
func (h *Handlers) SignalWorkflow(c *gin.Context) {
	var req SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "expected a JSON body with an approved field"})
		return
	}

	// The engine treats unknown ids as a no-op, so existence is checked
	// here where a 404 is the right answer.
	id := c.Param("id")
	workflows := h.ingestion.Workflows()
	if _, ok := workflows.Get(id); !ok {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "workflow not found"})
		return
	}

	if err := workflows.Signal(c.Request.Context(), id, *req.Approved); err != nil {
		h.logger.Error("Workflow signal failed", zap.String("workflow_id", id), zap.Error(err))
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
		return
	}

	snap, _ := workflows.Get(id)
	c.JSON(http.StatusOK, Response{Success: true, Data: snap})
}

// StatsResponse aggregates processed results per final status.
type StatsResponse struct {
	ResultCounts map[entity.FinalStatus]int `json:"result_counts"`
	Total        int                        `json:"total"`
}

// Stats handles GET /api/stats.
func (h *Handlers) Stats(c *gin.Context) {
	store := h.ingestion.Results()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: "result storage not configured"})
		return
	}

	counts, err := store.CountByStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to compute stats"})
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: StatsResponse{ResultCounts: counts, Total: total}})
}

// WorkflowHistory handles GET /api/workflows/:id/history. Unlike the
// in-memory snapshot logs, the persisted trail survives restarts.
func (h *Handlers) WorkflowHistory(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: "audit storage not configured"})
		return
	}

	id := c.Param("id")
	events, err := h.audit.ListEvents(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load workflow history", zap.String("workflow_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve history"})
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "workflow not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: events})
}

// ComplianceReport handles GET /api/reports/compliance. The report is
// streamed as an xlsx attachment.
func (h *Handlers) ComplianceReport(c *gin.Context) {
	store := h.ingestion.Results()
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: "result storage not configured"})
		return
	}

	results, err := store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load results for report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to build report"})
		return
	}

	f, err := h.exporter.BuildWorkbook(results)
	if err != nil {
		h.logger.Error("Failed to build report workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to build report"})
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="compliance_report.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := f.WriteTo(c.Writer); err != nil {
		h.logger.Error("Failed to stream report", zap.Error(err))
	}
}
