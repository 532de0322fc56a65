package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a journal header. Numbers are allocated per organization and type.
type TransactionType string

const (
	JournalEntry  TransactionType = "JOURNAL_ENTRY"
	Invoice       TransactionType = "INVOICE"
	Bill          TransactionType = "BILL"
	Payment       TransactionType = "PAYMENT"
	CreditNote    TransactionType = "CREDIT_NOTE"
	FXRevaluation TransactionType = "FX_REVALUATION"
)

var transactionPrefixes = map[TransactionType]string{
	JournalEntry:  "JE",
	Invoice:       "INV",
	Bill:          "BILL",
	Payment:       "PAY",
	CreditNote:    "CN",
	FXRevaluation: "FXR",
}

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	_, ok := transactionPrefixes[t]
	return ok
}

// Prefix returns the short code used in transaction references.
func (t TransactionType) Prefix() string {
	if p, ok := transactionPrefixes[t]; ok {
		return p
	}
	return "TX"
}

// TransactionStatus is the posting state of a transaction.
type TransactionStatus string

const (
	Draft  TransactionStatus = "DRAFT"
	Posted TransactionStatus = "POSTED"
	Voided TransactionStatus = "VOIDED"
)

// Transaction is a journal header owning a balanced set of ledger entries.
//
// DRAFT transactions have no effect on balances. Posting is one way. A posted
// transaction is voided only by a reversing transaction; its entries never change.
type Transaction struct {
	TransactionID     string            `json:"transactionID"`
	OrganizationID    string            `json:"organizationID"`
	TransactionNumber int64             `json:"transactionNumber"`
	TransactionDate   time.Time         `json:"transactionDate"`
	TransactionType   TransactionType   `json:"transactionType"`
	Status            TransactionStatus `json:"status"`
	Description       string            `json:"description"`
	BaseCurrency      string            `json:"baseCurrency"`

	ApprovedByID *string    `json:"approvedByID,omitempty"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`

	ReversesTransactionID   *string    `json:"reversesTransactionID,omitempty"`
	ReversedByTransactionID *string    `json:"reversedByTransactionID,omitempty"`
	VoidReason              *string    `json:"voidReason,omitempty"`
	VoidedAt                *time.Time `json:"voidedAt,omitempty"`

	Entries []LedgerEntry `json:"entries,omitempty"`
	AuditFields
}

// Reference renders the human-facing number, e.g. JE-000042.
func (t Transaction) Reference() string {
	return fmt.Sprintf("%s-%06d", t.TransactionType.Prefix(), t.TransactionNumber)
}

// IsReversal reports whether the transaction reverses another one.
func (t Transaction) IsReversal() bool {
	return t.ReversesTransactionID != nil
}

// IsReversed reports whether a reversing transaction already exists for t.
func (t Transaction) IsReversed() bool {
	return t.Status == Voided || t.ReversedByTransactionID != nil
}

// EntryTotals returns the base-currency debit and credit sums of entries.
func EntryTotals(entries []LedgerEntry) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.EntryType == Debit {
			debits = debits.Add(e.AmountInBase)
		} else {
			credits = credits.Add(e.AmountInBase)
		}
	}
	return debits, credits
}

// IsBalanced reports whether debits equal credits exactly.
func (t Transaction) IsBalanced() bool {
	debits, credits := EntryTotals(t.Entries)
	return debits.Equal(credits)
}

// TransactionFilter narrows transaction listings. Zero values are ignored.
type TransactionFilter struct {
	TransactionType TransactionType
	Status          TransactionStatus
	FromDate        *time.Time
	ToDate          *time.Time
}
