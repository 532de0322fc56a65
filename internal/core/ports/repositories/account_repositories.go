package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its organization-scoped code.
	FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a page of accounts for an organization ordered by code.
	ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A code already used in the organization yields ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountBalanceSupport is the only path that changes account balances.
// It is available only inside a unit of work.
type AccountBalanceSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them until the unit of work ends.
	// Locks are taken in ascending ID order.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances adds each signed delta to the account balance.
	UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines account reads and writes.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountTxRepository is the account view bound to a unit of work.
type AccountTxRepository interface {
	AccountReader
	AccountBalanceSupport
}
