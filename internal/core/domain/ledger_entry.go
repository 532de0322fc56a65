package domain

import (
	"github.com/SscSPs/ledger_engine/internal/core/money"
	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger line is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// IsValid reports whether e is DEBIT or CREDIT.
func (e EntryType) IsValid() bool {
	return e == Debit || e == Credit
}

// Opposite returns the other side.
func (e EntryType) Opposite() EntryType {
	if e == Debit {
		return Credit
	}
	return Debit
}

// LedgerEntry is a single line of a Transaction affecting one account.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	EntryType     EntryType       `json:"entryType"`
	Amount        decimal.Decimal `json:"amount"` // Entry currency, always positive
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"` // Entry currency -> base currency
	AmountInBase  decimal.Decimal `json:"amountInBase"`
	Description   string          `json:"description"`
	LineNumber    int             `json:"lineNumber"`
}

// NewLedgerEntry builds an entry with AmountInBase derived as amount × rate at two places.
func NewLedgerEntry(entryID, transactionID, accountID string, entryType EntryType, amount decimal.Decimal, currencyCode string, rate decimal.Decimal, description string, line int) LedgerEntry {
	return LedgerEntry{
		EntryID:       entryID,
		TransactionID: transactionID,
		AccountID:     accountID,
		EntryType:     entryType,
		Amount:        amount,
		CurrencyCode:  currencyCode,
		ExchangeRate:  rate,
		AmountInBase:  money.Convert(amount, rate),
		Description:   description,
		LineNumber:    line,
	}
}
