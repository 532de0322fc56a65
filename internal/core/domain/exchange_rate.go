package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource records where a stored rate came from.
type RateSource string

const (
	RateSourceManual   RateSource = "MANUAL"
	RateSourceProvider RateSource = "PROVIDER"
)

// ExchangeRate converts one unit of FromCurrencyCode into ToCurrencyCode from DateEffective on.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	OrganizationID   string          `json:"organizationID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	Source           RateSource      `json:"source"`
	AuditFields
}

// ExchangeRateFilter narrows rate listings. Zero values are ignored.
type ExchangeRateFilter struct {
	FromCurrencyCode string
	ToCurrencyCode   string
	AsOf             *time.Time
}

// DateOnly truncates t to midnight UTC. Rates and ledger dates are compared as calendar days.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
