package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table (the journal header).
type Transaction struct {
	TransactionID           string     `db:"transaction_id"`
	OrganizationID          string     `db:"organization_id"`
	TransactionNumber       int64      `db:"transaction_number"`
	TransactionDate         time.Time  `db:"transaction_date"`
	TransactionType         string     `db:"transaction_type"`
	Status                  string     `db:"status"`
	Description             string     `db:"description"`
	BaseCurrency            string     `db:"base_currency"`
	ApprovedByID            *string    `db:"approved_by_id"`
	ApprovedAt              *time.Time `db:"approved_at"`
	ReversesTransactionID   *string    `db:"reverses_transaction_id"`
	ReversedByTransactionID *string    `db:"reversed_by_transaction_id"`
	VoidReason              *string    `db:"void_reason"`
	VoidedAt                *time.Time `db:"voided_at"`
	AuditFields
}

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	EntryType     string          `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	CurrencyCode  string          `db:"currency_code"`
	ExchangeRate  decimal.Decimal `db:"exchange_rate"`
	AmountInBase  decimal.Decimal `db:"amount_in_base"`
	Description   string          `db:"description"`
	LineNumber    int             `db:"line_number"`
}
