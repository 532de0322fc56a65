package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// TransactionReader defines read operations for journal headers and their entries.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its entries.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of headers (without entries) newest first.
	// The returned token is nil on the last page.
	ListTransactions(ctx context.Context, organizationID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionTxRepository is the transaction view bound to a unit of work.
type TransactionTxRepository interface {
	TransactionReader

	// FindTransactionByIDForUpdate retrieves a transaction with its entries and locks the header.
	FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// SaveTransaction inserts the header and all entries.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionHeader persists status, approval, reversal and void fields. Entries are never rewritten.
	UpdateTransactionHeader(ctx context.Context, txn domain.Transaction) error
}

// SequenceAllocator hands out transaction numbers.
type SequenceAllocator interface {
	// NextTransactionNumber returns the next number for (organization, type).
	// The increment is undone if the unit of work rolls back.
	NextTransactionNumber(ctx context.Context, organizationID string, txnType domain.TransactionType) (int64, error)
}
