package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxTransactionRepository struct {
	db dbtx
}

var (
	_ portsrepo.TransactionReader       = (*PgxTransactionRepository)(nil)
	_ portsrepo.TransactionTxRepository = (*PgxTransactionRepository)(nil)
	_ portsrepo.SequenceAllocator       = (*PgxTransactionRepository)(nil)
)

const transactionColumns = `transaction_id, organization_id, transaction_number, transaction_date, transaction_type, status,
	description, base_currency, approved_by_id, approved_at, reverses_transaction_id, reversed_by_transaction_id,
	void_reason, voided_at, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, transaction_id, account_id, entry_type, amount, currency_code, exchange_rate,
	amount_in_base, description, line_number`

const defaultPageSize = 20

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.OrganizationID,
		&m.TransactionNumber,
		&m.TransactionDate,
		&m.TransactionType,
		&m.Status,
		&m.Description,
		&m.BaseCurrency,
		&m.ApprovedByID,
		&m.ApprovedAt,
		&m.ReversesTransactionID,
		&m.ReversedByTransactionID,
		&m.VoidReason,
		&m.VoidedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction inserts the header then queues every entry in one batch.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	headerQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.db.Exec(ctx, headerQuery,
		m.TransactionID,
		m.OrganizationID,
		m.TransactionNumber,
		m.TransactionDate,
		m.TransactionType,
		m.Status,
		m.Description,
		m.BaseCurrency,
		m.ApprovedByID,
		m.ApprovedAt,
		m.ReversesTransactionID,
		m.ReversedByTransactionID,
		m.VoidReason,
		m.VoidedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "failed to insert transaction %s", m.TransactionID)
	}
	if len(txn.Entries) == 0 {
		return nil
	}

	entryQuery := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, e := range txn.Entries {
		em := mapping.ToModelLedgerEntry(e)
		batch.Queue(entryQuery,
			em.EntryID,
			em.TransactionID,
			em.AccountID,
			em.EntryType,
			em.Amount,
			em.CurrencyCode,
			em.ExchangeRate,
			em.AmountInBase,
			em.Description,
			em.LineNumber,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	var batchErr error
	for i := range txn.Entries {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = wrapWriteError(err, "failed to insert entry %d of transaction %s", i+1, m.TransactionID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close entry batch for transaction %s: %w", m.TransactionID, err)
	}
	return batchErr
}

// FindTransactionByID retrieves a transaction with its entries.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, transactionID, false)
}

// FindTransactionByIDForUpdate locks the header row until the enclosing transaction ends.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, transactionID, true)
}

func (r *PgxTransactionRepository) findTransaction(ctx context.Context, transactionID string, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	header, err := scanTransaction(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, wrapReadError(err, "transaction", transactionID)
	}

	entries, err := r.findEntries(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(header, entries)
	return &txn, nil
}

func (r *PgxTransactionRepository) findEntries(ctx context.Context, transactionID string) ([]models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE transaction_id = $1 ORDER BY line_number;`
	rows, err := r.db.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.TransactionID,
			&e.AccountID,
			&e.EntryType,
			&e.Amount,
			&e.CurrencyCode,
			&e.ExchangeRate,
			&e.AmountInBase,
			&e.Description,
			&e.LineNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry row for transaction %s: %w", transactionID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for transaction %s: %w", transactionID, err)
	}
	return entries, nil
}

// UpdateTransactionHeader writes the mutable header fields. Entries are immutable.
func (r *PgxTransactionRepository) UpdateTransactionHeader(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET status = $2, approved_by_id = $3, approved_at = $4, reversed_by_transaction_id = $5,
		    void_reason = $6, voided_at = $7, last_updated_at = $8, last_updated_by = $9
		WHERE transaction_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		m.TransactionID,
		m.Status,
		m.ApprovedByID,
		m.ApprovedAt,
		m.ReversedByTransactionID,
		m.VoidReason,
		m.VoidedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction", m.TransactionID)
	}
	return nil
}

// buildListTransactionsQuery renders the page query for ListTransactions. It fetches
// fetchLimit rows so the caller can tell whether another page exists.
func buildListTransactionsQuery(organizationID string, filter domain.TransactionFilter, cursor *pagination.Cursor, fetchLimit int) (string, []any) {
	var sb strings.Builder
	args := []any{organizationID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE organization_id = $1`)
	if filter.TransactionType != "" {
		sb.WriteString(" AND transaction_type = " + next(string(filter.TransactionType)))
	}
	if filter.Status != "" {
		sb.WriteString(" AND status = " + next(string(filter.Status)))
	}
	if filter.FromDate != nil {
		sb.WriteString(" AND transaction_date >= " + next(*filter.FromDate))
	}
	if filter.ToDate != nil {
		sb.WriteString(" AND transaction_date <= " + next(*filter.ToDate))
	}
	if cursor != nil {
		d, c, id := next(cursor.TransactionDate), next(cursor.CreatedAt), next(cursor.TransactionID)
		sb.WriteString(" AND (transaction_date, created_at, transaction_id) < (" + d + ", " + c + ", " + id + ")")
	}
	sb.WriteString(" ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC")
	sb.WriteString(" LIMIT " + next(fetchLimit) + ";")
	return sb.String(), args
}

// ListTransactions returns a page of headers newest first. Entries are not loaded.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, organizationID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: " + err.Error())
		}
		cursor = &c
	}

	query, args := buildListTransactionsQuery(organizationID, filter, cursor, limit+1)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0, limit+1)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	if len(txns) <= limit {
		return txns, nil, nil
	}
	txns = txns[:limit]
	last := txns[limit-1]
	token := pagination.EncodeToken(pagination.Cursor{
		TransactionDate: last.TransactionDate,
		CreatedAt:       last.CreatedAt,
		TransactionID:   last.TransactionID,
	})
	return txns, &token, nil
}

// NextTransactionNumber increments the per-type counter. The row lock is held until
// the enclosing transaction ends, so numbers stay gap-free across rollbacks.
func (r *PgxTransactionRepository) NextTransactionNumber(ctx context.Context, organizationID string, txnType domain.TransactionType) (int64, error) {
	query := `
		INSERT INTO transaction_sequences (organization_id, transaction_type, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (organization_id, transaction_type)
		DO UPDATE SET last_number = transaction_sequences.last_number + 1
		RETURNING last_number;
	`
	var n int64
	if err := r.db.QueryRow(ctx, query, organizationID, string(txnType)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to allocate %s number for organization %s: %w", txnType, organizationID, err)
	}
	return n, nil
}
