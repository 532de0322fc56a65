package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// RateResolver resolves the rate converting one unit of from into to on a date.
type RateResolver interface {
	GetRate(ctx context.Context, organizationID, from, to string, effectiveDate time.Time) (decimal.Decimal, error)
}

// ExchangeRateSvcFacade combines rate resolution with manual rate maintenance.
type ExchangeRateSvcFacade interface {
	RateResolver

	// CreateExchangeRate stores a rate, replacing one for the same pair and date.
	CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error)

	// ListExchangeRates lists stored rates newest first.
	ListExchangeRates(ctx context.Context, organizationID string, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error)
}

// LedgerWriterSvc defines the state transitions of a transaction.
type LedgerWriterSvc interface {
	// CreateTransaction validates and stores a balanced DRAFT transaction.
	CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// Post moves a DRAFT transaction to POSTED and applies it to account balances.
	Post(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)

	// Reverse voids a POSTED transaction by creating and posting its mirror image.
	Reverse(ctx context.Context, transactionID string, reason string, userID string) (*domain.Transaction, error)
}

// LedgerReaderSvc defines read operations for transactions.
type LedgerReaderSvc interface {
	// GetTransaction retrieves a transaction with its entries.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transaction headers.
	ListTransactions(ctx context.Context, organizationID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}

// FXSvcFacade computes and records foreign exchange gain and loss.
type FXSvcFacade interface {
	// CalculateRealizedFX computes the gain or loss locked in by a payment.
	CalculateRealizedFX(ctx context.Context, organizationID string, req dto.RealizedFXRequest) (*domain.FXCalculation, error)

	// RealizedFXEntry returns the single-sided gain or loss line for the payment transaction, or nil when zero.
	RealizedFXEntry(ctx context.Context, calc domain.FXCalculation) (*dto.LedgerEntryRequest, error)

	// RecordRealizedFX stores the audit record of a payment's realized FX.
	RecordRealizedFX(ctx context.Context, organizationID string, req dto.RecordRealizedFXRequest, userID string) (*domain.FXRecord, error)

	// CalculateUnrealizedFX revalues every open foreign document as of asOfDate.
	CalculateUnrealizedFX(ctx context.Context, organizationID string, asOfDate time.Time) ([]domain.FXCalculation, error)

	// RecordUnrealizedFX posts one aggregate revaluation transaction and its per-document records.
	// Running it twice for the same date posts twice; callers guard against that.
	RecordUnrealizedFX(ctx context.Context, organizationID string, asOfDate time.Time, userID string) (*domain.RevaluationResult, error)

	// ListFXRecords returns the FX records linked to a transaction.
	ListFXRecords(ctx context.Context, transactionID string) ([]domain.FXRecord, error)
}
