package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxFXRepository reads invoices, bills and ledger settings, and stores FX audit records.
type PgxFXRepository struct {
	db dbtx
}

var (
	_ portsrepo.DocumentReader = (*PgxFXRepository)(nil)
	_ portsrepo.SettingsReader = (*PgxFXRepository)(nil)
	_ portsrepo.FXRecordWriter = (*PgxFXRepository)(nil)
	_ portsrepo.FXRecordReader = (*PgxFXRepository)(nil)
)

const documentColumns = `document_id, organization_id, document_type, document_number, currency_code, exchange_rate,
	issue_date, total_amount, outstanding_amount, status`

const fxColumns = `fx_id, organization_id, fx_type, invoice_id, bill_id, payment_id, document_number, base_currency,
	foreign_currency, foreign_amount, transaction_date, transaction_rate, transaction_base_amount, settlement_date,
	settlement_rate, settlement_base_amount, gain_loss_amount, gl_account_id, transaction_id, created_at, created_by`

func scanDocument(row pgx.Row) (domain.ForeignDocument, error) {
	var m models.ForeignDocument
	err := row.Scan(
		&m.DocumentID,
		&m.OrganizationID,
		&m.DocumentType,
		&m.DocumentNumber,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.IssueDate,
		&m.TotalAmount,
		&m.OutstandingAmount,
		&m.Status,
	)
	if err != nil {
		return domain.ForeignDocument{}, err
	}
	return mapping.ToDomainForeignDocument(m), nil
}

// FindDocument retrieves one invoice or bill.
func (r *PgxFXRepository) FindDocument(ctx context.Context, organizationID string, docType domain.DocumentType, documentID string) (*domain.ForeignDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM foreign_documents WHERE organization_id = $1 AND document_type = $2 AND document_id = $3;`
	doc, err := scanDocument(r.db.QueryRow(ctx, query, organizationID, string(docType), documentID))
	if err != nil {
		return nil, wrapReadError(err, string(docType), documentID)
	}
	return &doc, nil
}

// ListOpenForeignDocuments returns unsettled documents in a currency other than baseCurrency
// issued on or before asOf, oldest first.
func (r *PgxFXRepository) ListOpenForeignDocuments(ctx context.Context, organizationID, baseCurrency string, asOf time.Time) ([]domain.ForeignDocument, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM foreign_documents
		WHERE organization_id = $1
		  AND currency_code <> $2
		  AND status IN ('OPEN', 'PARTIALLY_PAID')
		  AND outstanding_amount > 0
		  AND issue_date <= $3
		ORDER BY issue_date, document_id;
	`
	rows, err := r.db.Query(ctx, query, organizationID, baseCurrency, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query open foreign documents for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	var docs []domain.ForeignDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan foreign document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign document rows: %w", err)
	}
	return docs, nil
}

// FindLedgerSettings retrieves the organization's base currency and FX accounts.
func (r *PgxFXRepository) FindLedgerSettings(ctx context.Context, organizationID string) (*domain.LedgerSettings, error) {
	query := `
		SELECT organization_id, base_currency, realized_gain_account_id, realized_loss_account_id,
		       unrealized_gain_account_id, unrealized_loss_account_id, receivable_account_id, payable_account_id
		FROM ledger_settings
		WHERE organization_id = $1;
	`
	var m models.LedgerSettings
	err := r.db.QueryRow(ctx, query, organizationID).Scan(
		&m.OrganizationID,
		&m.BaseCurrency,
		&m.RealizedGainAccountID,
		&m.RealizedLossAccountID,
		&m.UnrealizedGainAccountID,
		&m.UnrealizedLossAccountID,
		&m.ReceivableAccountID,
		&m.PayableAccountID,
	)
	if err != nil {
		return nil, wrapReadError(err, "ledger settings", organizationID)
	}
	settings := mapping.ToDomainLedgerSettings(m)
	return &settings, nil
}

// SaveFXRecords inserts the audit records in one batch.
func (r *PgxFXRepository) SaveFXRecords(ctx context.Context, records []domain.FXRecord) error {
	if len(records) == 0 {
		return nil
	}
	query := `
		INSERT INTO fx_gain_loss (` + fxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		m := mapping.ToModelFXGainLoss(rec)
		batch.Queue(query,
			m.FXID,
			m.OrganizationID,
			m.FXType,
			m.InvoiceID,
			m.BillID,
			m.PaymentID,
			m.DocumentNumber,
			m.BaseCurrency,
			m.ForeignCurrency,
			m.ForeignAmount,
			m.TransactionDate,
			m.TransactionRate,
			m.TransactionBaseAmount,
			m.SettlementDate,
			m.SettlementRate,
			m.SettlementBaseAmount,
			m.GainLossAmount,
			m.GLAccountID,
			m.TransactionID,
			m.CreatedAt,
			m.CreatedBy,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	var batchErr error
	for _, rec := range records {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = wrapWriteError(err, "failed to insert fx record %s", rec.FXID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close fx record batch: %w", err)
	}
	return batchErr
}

// FindFXRecordsByTransactionID returns the audit records tied to a ledger transaction.
func (r *PgxFXRepository) FindFXRecordsByTransactionID(ctx context.Context, transactionID string) ([]domain.FXRecord, error) {
	query := `SELECT ` + fxColumns + ` FROM fx_gain_loss WHERE transaction_id = $1 ORDER BY document_number, fx_id;`
	rows, err := r.db.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fx records for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var records []domain.FXRecord
	for rows.Next() {
		var m models.FXGainLoss
		if err := rows.Scan(
			&m.FXID,
			&m.OrganizationID,
			&m.FXType,
			&m.InvoiceID,
			&m.BillID,
			&m.PaymentID,
			&m.DocumentNumber,
			&m.BaseCurrency,
			&m.ForeignCurrency,
			&m.ForeignAmount,
			&m.TransactionDate,
			&m.TransactionRate,
			&m.TransactionBaseAmount,
			&m.SettlementDate,
			&m.SettlementRate,
			&m.SettlementBaseAmount,
			&m.GainLossAmount,
			&m.GLAccountID,
			&m.TransactionID,
			&m.CreatedAt,
			&m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fx record row: %w", err)
		}
		records = append(records, mapping.ToDomainFXRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fx record rows: %w", err)
	}
	return records, nil
}
