package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	OrganizationID string          `db:"organization_id"`
	Code           string          `db:"code"`
	Name           string          `db:"name"`
	AccountType    string          `db:"account_type"`
	CurrencyCode   *string         `db:"currency_code"` // NULL for multi-currency accounts
	Description    string          `db:"description"`
	IsActive       bool            `db:"is_active"`
	Balance        decimal.Decimal `db:"balance"`
	AuditFields
}
