// Package repository persists compliance outcomes and the workflow
// audit trail in sqlite.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/axiomflow/invoice-sentinel/internal/domain/entity"
	"github.com/axiomflow/invoice-sentinel/pkg/database"
)

// StoredResult is a persisted processing result plus its storage
// metadata.
type StoredResult struct {
	ID        int64                   `json:"id"`
	Result    entity.ProcessingResult `json:"result"`
	CreatedAt time.Time               `json:"created_at"`
}

// ResultRepository stores compliance processing results.
type ResultRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewResultRepository creates a result repository.
func NewResultRepository(db *database.DB, logger *zap.Logger) *ResultRepository {
	return &ResultRepository{db: db, logger: logger}
}

// Save persists a processing result. The check evidence is stored as a
// JSON document alongside the flattened invoice columns.
func (r *ResultRepository) Save(ctx context.Context, result entity.ProcessingResult) (int64, error) {
	checks, err := json.Marshal(result.Checks)
	if err != nil {
		return 0, fmt.Errorf("failed to encode checks: %w", err)
	}

	var invoiceDate sql.NullString
	if result.Invoice.Date != nil {
		invoiceDate = sql.NullString{String: result.Invoice.DateISO(), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO processing_results (
			invoice_id, vendor_name, iban, invoice_date, amount, currency,
			department, file_path, final_status, risk_score, checks
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.Invoice.InvoiceID,
		result.Invoice.VendorName,
		result.Invoice.IBAN,
		invoiceDate,
		result.Invoice.Amount,
		result.Invoice.Currency,
		result.Invoice.Department,
		result.Invoice.FilePath,
		string(result.FinalStatus),
		result.RiskScore,
		string(checks),
	)
	if err != nil {
		r.logger.Error("Failed to save processing result",
			zap.String("invoice_id", result.Invoice.InvoiceID), zap.Error(err))
		return 0, fmt.Errorf("failed to save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// GetLatestByInvoiceID returns the most recent stored result for an
// invoice, or nil when none exists.
func (r *ResultRepository) GetLatestByInvoiceID(ctx context.Context, invoiceID string) (*StoredResult, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, invoice_id, vendor_name, iban, invoice_date, amount, currency,
			department, file_path, final_status, risk_score, checks, created_at
		FROM processing_results
		WHERE invoice_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, invoiceID)

	stored, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to load processing result",
			zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to load result: %w", err)
	}
	return stored, nil
}

// List returns all stored results, newest first.
func (r *ResultRepository) List(ctx context.Context) ([]StoredResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invoice_id, vendor_name, iban, invoice_date, amount, currency,
			department, file_path, final_status, risk_score, checks, created_at
		FROM processing_results
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		stored, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, *stored)
	}
	return results, rows.Err()
}

// CountByStatus returns result counts grouped by final status.
func (r *ResultRepository) CountByStatus(ctx context.Context) (map[entity.FinalStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT final_status, COUNT(*) FROM processing_results GROUP BY final_status")
	if err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.FinalStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[entity.FinalStatus(status)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*StoredResult, error) {
	var (
		stored      StoredResult
		invoiceDate sql.NullString
		status      string
		checksJSON  string
	)

	err := row.Scan(
		&stored.ID,
		&stored.Result.Invoice.InvoiceID,
		&stored.Result.Invoice.VendorName,
		&stored.Result.Invoice.IBAN,
		&invoiceDate,
		&stored.Result.Invoice.Amount,
		&stored.Result.Invoice.Currency,
		&stored.Result.Invoice.Department,
		&stored.Result.Invoice.FilePath,
		&status,
		&stored.Result.RiskScore,
		&checksJSON,
		&stored.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	stored.Result.FinalStatus = entity.FinalStatus(status)
	if invoiceDate.Valid {
		if d, err := time.Parse("2006-01-02", invoiceDate.String); err == nil {
			stored.Result.Invoice.Date = &d
		}
	}
	if err := json.Unmarshal([]byte(checksJSON), &stored.Result.Checks); err != nil {
		return nil, fmt.Errorf("failed to decode checks: %w", err)
	}
	return &stored, nil
}
