package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	domainwf "github.com/axiomflow/invoice-sentinel/internal/domain/workflow"
	"github.com/axiomflow/invoice-sentinel/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).Run("../../migrations"))
	return db
}

func sampleResult(invoiceID string, status entity.FinalStatus) entity.ProcessingResult {
	d := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	score := 0
	if status == entity.StatusRejected {
		score = 100
	}
	return entity.ProcessingResult{
		Invoice: entity.Invoice{
			InvoiceID:  invoiceID,
			VendorName: "Acme GmbH",
			IBAN:       "NL91ABNA0417164300",
			Date:       &d,
			Amount:     500.00,
			Currency:   "EUR",
			Department: "IT",
		},
		Checks: []entity.CheckResult{
			{CheckName: "Financial Routing", Status: entity.CheckPass, Message: "IBAN verified.", Timestamp: time.Now()},
		},
		FinalStatus: status,
		RiskScore:   score,
	}
}

func TestResultRepository_SaveAndLoad(t *testing.T) {
	repo := NewResultRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	id, err := repo.Save(ctx, sampleResult("INV-2024-001", entity.StatusApproved))
	require.NoError(t, err)
	assert.Positive(t, id)

	stored, err := repo.GetLatestByInvoiceID(ctx, "INV-2024-001")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, "INV-2024-001", stored.Result.Invoice.InvoiceID)
	assert.Equal(t, entity.StatusApproved, stored.Result.FinalStatus)
	assert.Equal(t, "2024-06-15", stored.Result.Invoice.DateISO())
	require.Len(t, stored.Result.Checks, 1)
	assert.Equal(t, "IBAN verified.", stored.Result.Checks[0].Message)
}

func TestResultRepository_LatestWins(t *testing.T) {
	repo := NewResultRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleResult("INV-2024-001", entity.StatusRejected))
	require.NoError(t, err)
	_, err = repo.Save(ctx, sampleResult("INV-2024-001", entity.StatusApproved))
	require.NoError(t, err)

	stored, err := repo.GetLatestByInvoiceID(ctx, "INV-2024-001")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, stored.Result.FinalStatus)
}

func TestResultRepository_MissingInvoiceReturnsNil(t *testing.T) {
	repo := NewResultRepository(newTestDB(t), zap.NewNop())

	stored, err := repo.GetLatestByInvoiceID(context.Background(), "INV-0000-000")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestResultRepository_ListNewestFirst(t *testing.T) {
	repo := NewResultRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleResult("INV-2024-001", entity.StatusApproved))
	require.NoError(t, err)
	_, err = repo.Save(ctx, sampleResult("INV-2024-002", entity.StatusRejected))
	require.NoError(t, err)

	results, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "INV-2024-002", results[0].Result.Invoice.InvoiceID)
}

func TestResultRepository_CountByStatus(t *testing.T) {
	repo := NewResultRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	for _, status := range []entity.FinalStatus{
		entity.StatusApproved, entity.StatusApproved, entity.StatusRejected,
	} {
		_, err := repo.Save(ctx, sampleResult("INV-2024-001", status))
		require.NoError(t, err)
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[entity.StatusApproved])
	assert.Equal(t, 1, counts[entity.StatusRejected])
}

func TestWorkflowAuditRepository_RoundTrip(t *testing.T) {
	repo := NewWorkflowAuditRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.RecordEvent(ctx, "abc12345", domainwf.StatePending, "[10:00:00] Workflow initialized for Invoice #INV-2024-001"))
	require.NoError(t, repo.RecordEvent(ctx, "abc12345", domainwf.StateApproved, "[10:00:01] Auto-Approval Logic satisfied. Transaction Released."))
	require.NoError(t, repo.RecordEvent(ctx, "other666", domainwf.StatePending, "[10:00:02] Workflow initialized for Invoice #INV-2024-002"))

	events, err := repo.ListEvents(ctx, "abc12345")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, domainwf.StatePending, events[0].State)
	assert.Contains(t, events[0].Entry, "Workflow initialized")
	assert.Equal(t, domainwf.StateApproved, events[1].State)
}

func TestWorkflowAuditRepository_EmptyTrail(t *testing.T) {
	repo := NewWorkflowAuditRepository(newTestDB(t), zap.NewNop())

	events, err := repo.ListEvents(context.Background(), "missing0")
	require.NoError(t, err)
	assert.Empty(t, events)
}
