package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ExchangeRateReader defines read operations for stored rates.
type ExchangeRateReader interface {
	// FindLatestExchangeRate returns the most recent rate for the pair effective on or before onOrBefore.
	// ErrNotFound when none exists.
	FindLatestExchangeRate(ctx context.Context, organizationID, fromCode, toCode string, onOrBefore time.Time) (*domain.ExchangeRate, error)

	// ListExchangeRates returns rates for an organization, newest first.
	ListExchangeRates(ctx context.Context, organizationID string, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for stored rates.
type ExchangeRateWriter interface {
	// SaveExchangeRate inserts a rate or replaces the one with the same organization, pair and date.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
