package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the exchange_rates table. One row per organization, pair and day.
type ExchangeRate struct {
	ExchangeRateID   string          `db:"exchange_rate_id"`
	OrganizationID   string          `db:"organization_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	DateEffective    time.Time       `db:"date_effective"`
	Source           string          `db:"source"`
	AuditFields
}
