package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether the account type increases on debit.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account is a node in an organization's chart of accounts.
type Account struct {
	AccountID      string          `json:"accountID"`
	OrganizationID string          `json:"organizationID"`
	Code           string          `json:"code"` // Unique per organization
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode,omitempty"` // Empty means multi-currency
	Description    string          `json:"description"`
	IsActive       bool            `json:"isActive"`
	Balance        decimal.Decimal `json:"balance"` // Base-currency equivalent; changed only by posting
	AuditFields
}

// AcceptsCurrency reports whether an entry in currencyCode may be booked to the account.
func (a Account) AcceptsCurrency(currencyCode string) bool {
	return a.CurrencyCode == "" || a.CurrencyCode == currencyCode
}
