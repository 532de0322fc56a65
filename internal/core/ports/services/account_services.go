package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its organization-scoped code.
	GetAccountByCode(ctx context.Context, organizationID string, code string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts for an organization.
	ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data.
// There is deliberately no way to set a balance here.
type AccountWriterSvc interface {
	// CreateAccount persists a new account with a zero balance.
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
