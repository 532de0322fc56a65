package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryRequest is one proposed debit or credit line.
type LedgerEntryRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	EntryType    domain.EntryType `json:"entryType" binding:"required,oneof=DEBIT CREDIT"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrencyCode string           `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"` // Resolved when omitted
	Description  string           `json:"description"`
}

// CreateTransactionRequest is a proposed journal: header fields and at least one line.
type CreateTransactionRequest struct {
	TransactionDate time.Time              `json:"transactionDate" binding:"required"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=JOURNAL_ENTRY INVOICE BILL PAYMENT CREDIT_NOTE FX_REVALUATION"`
	Description     string                 `json:"description" binding:"required"`
	Entries         []LedgerEntryRequest   `json:"entries" binding:"required,min=1,dive"`
}

// ReverseTransactionRequest carries the reason recorded on the voided original.
type ReverseTransactionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// LedgerEntryResponse mirrors domain.LedgerEntry.
type LedgerEntryResponse struct {
	EntryID      string           `json:"entryID"`
	AccountID    string           `json:"accountID"`
	EntryType    domain.EntryType `json:"entryType"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrencyCode string           `json:"currencyCode"`
	ExchangeRate decimal.Decimal  `json:"exchangeRate"`
	AmountInBase decimal.Decimal  `json:"amountInBase"`
	Description  string           `json:"description,omitempty"`
}

// TransactionResponse mirrors domain.Transaction with its reference and totals.
type TransactionResponse struct {
	TransactionID           string                   `json:"transactionID"`
	OrganizationID          string                   `json:"organizationID"`
	Reference               string                   `json:"reference"`
	TransactionNumber       int64                    `json:"transactionNumber"`
	TransactionDate         time.Time                `json:"transactionDate"`
	TransactionType         domain.TransactionType   `json:"transactionType"`
	Status                  domain.TransactionStatus `json:"status"`
	Description             string                   `json:"description"`
	BaseCurrency            string                   `json:"baseCurrency"`
	TotalDebits             decimal.Decimal          `json:"totalDebits"`
	TotalCredits            decimal.Decimal          `json:"totalCredits"`
	ApprovedByID            *string                  `json:"approvedByID,omitempty"`
	ApprovedAt              *time.Time               `json:"approvedAt,omitempty"`
	ReversesTransactionID   *string                  `json:"reversesTransactionID,omitempty"`
	ReversedByTransactionID *string                  `json:"reversedByTransactionID,omitempty"`
	VoidReason              *string                  `json:"voidReason,omitempty"`
	VoidedAt                *time.Time               `json:"voidedAt,omitempty"`
	Entries                 []LedgerEntryResponse    `json:"entries,omitempty"`
	CreatedAt               time.Time                `json:"createdAt"`
	CreatedBy               string                   `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	debits, credits := domain.EntryTotals(txn.Entries)
	resp := TransactionResponse{
		TransactionID:           txn.TransactionID,
		OrganizationID:          txn.OrganizationID,
		Reference:               txn.Reference(),
		TransactionNumber:       txn.TransactionNumber,
		TransactionDate:         txn.TransactionDate,
		TransactionType:         txn.TransactionType,
		Status:                  txn.Status,
		Description:             txn.Description,
		BaseCurrency:            txn.BaseCurrency,
		TotalDebits:             debits,
		TotalCredits:            credits,
		ApprovedByID:            txn.ApprovedByID,
		ApprovedAt:              txn.ApprovedAt,
		ReversesTransactionID:   txn.ReversesTransactionID,
		ReversedByTransactionID: txn.ReversedByTransactionID,
		VoidReason:              txn.VoidReason,
		VoidedAt:                txn.VoidedAt,
		CreatedAt:               txn.CreatedAt,
		CreatedBy:               txn.CreatedBy,
	}
	if len(txn.Entries) > 0 {
		resp.Entries = make([]LedgerEntryResponse, len(txn.Entries))
		for i, e := range txn.Entries {
			resp.Entries[i] = LedgerEntryResponse{
				EntryID:      e.EntryID,
				AccountID:    e.AccountID,
				EntryType:    e.EntryType,
				Amount:       e.Amount,
				CurrencyCode: e.CurrencyCode,
				ExchangeRate: e.ExchangeRate,
				AmountInBase: e.AmountInBase,
				Description:  e.Description,
			}
		}
	}
	return resp
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int                      `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string                  `form:"nextToken"`
	Type      domain.TransactionType   `form:"type" binding:"omitempty,oneof=JOURNAL_ENTRY INVOICE BILL PAYMENT CREDIT_NOTE FX_REVALUATION"`
	Status    domain.TransactionStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOIDED"`
	From      string                   `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string                   `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
