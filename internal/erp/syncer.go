// Package erp posts approved invoices to the downstream system of
// record. The current syncer simulates the account.move transaction;
// a real connector implements the same interface.
package erp

import (
	"context"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"go.uber.org/zap"
)

// RecordSyncer posts an approved invoice to the system of record.
type RecordSyncer interface {
	SyncApproved(ctx context.Context, invoice entity.Invoice) error
}

// OdooSyncer simulates the Odoo ERP account.move posting.
type OdooSyncer struct {
	logger *zap.Logger
}

// NewOdooSyncer creates the simulated ERP connector.
func NewOdooSyncer(logger *zap.Logger) *OdooSyncer {
	return &OdooSyncer{logger: logger}
}

// SyncApproved posts the invoice. The simulation always succeeds.
func (s *OdooSyncer) SyncApproved(ctx context.Context, invoice entity.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("[ERP SYNC] Posting invoice to Odoo",
		zap.String("invoice_id", invoice.InvoiceID),
		zap.String("vendor", invoice.VendorName),
		zap.Float64("amount", invoice.Amount))
	return nil
}
