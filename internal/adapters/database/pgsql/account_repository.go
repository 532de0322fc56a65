package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	db dbtx
}

var (
	_ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)
	_ portsrepo.AccountTxRepository     = (*PgxAccountRepository)(nil)
)

const accountColumns = `account_id, organization_id, code, name, account_type, currency_code, description, is_active, balance,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.OrganizationID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.Description,
		&m.IsActive,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

// SaveAccount inserts a new account. A code already used in the organization yields ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.OrganizationID,
		m.Code,
		m.Name,
		m.AccountType,
		m.CurrencyCode,
		m.Description,
		m.IsActive,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "failed to save account %s", m.Code)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, wrapReadError(err, "account", accountID)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its organization-scoped code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND code = $2;`
	acc, err := scanAccount(r.db.QueryRow(ctx, query, organizationID, code))
	if err != nil {
		return nil, wrapReadError(err, "account", code)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	return r.queryAccountMap(ctx, query, accountIDs)
}

// FindAccountsByIDsForUpdate locks the requested rows in account_id order so concurrent
// postings touching overlapping accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	accounts, err := r.queryAccountMap(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(ids) {
		var missing []string
		for _, id := range ids {
			if _, ok := accounts[id]; !ok {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not lock accounts %v", apperrors.ErrNotFound, missing)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) queryAccountMap(ctx context.Context, query string, ids []string) (map[string]domain.Account, error) {
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(ids))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves a page of accounts for an organization ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 ORDER BY code LIMIT $2 OFFSET $3;`

	rows, err := r.db.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for organization %s: %w", organizationID, err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows for organization %s: %w", organizationID, err)
	}
	return accounts, nil
}

// DeactivateAccount marks an account as inactive. Deactivating an inactive account is a no-op.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account", accountID)
	}
	return nil
}

// UpdateAccountBalances adds each delta to the stored balance in one batch.
// Callers hold the row locks from FindAccountsByIDsForUpdate.
func (r *PgxAccountRepository) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	accountIDs := make([]string, 0, len(balanceChanges))
	for id, delta := range balanceChanges {
		if !delta.IsZero() {
			accountIDs = append(accountIDs, id)
		}
	}
	if len(accountIDs) == 0 {
		return nil
	}
	sort.Strings(accountIDs)

	batch := &pgx.Batch{}
	for _, id := range accountIDs {
		batch.Queue(query, id, balanceChanges[id], now, userID)
	}

	br := r.db.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range accountIDs {
		ct, err := br.Exec()
		switch {
		case err != nil && batchErr == nil:
			batchErr = fmt.Errorf("failed to update balance for account %s: %w", id, err)
		case err == nil && ct.RowsAffected() == 0 && batchErr == nil:
			batchErr = apperrors.NewNotFoundError("account", id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
