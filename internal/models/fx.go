package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForeignDocument is a row of the foreign_documents view kept by the invoicing side.
type ForeignDocument struct {
	DocumentID        string          `db:"document_id"`
	OrganizationID    string          `db:"organization_id"`
	DocumentType      string          `db:"document_type"`
	DocumentNumber    string          `db:"document_number"`
	CurrencyCode      string          `db:"currency_code"`
	ExchangeRate      decimal.Decimal `db:"exchange_rate"`
	IssueDate         time.Time       `db:"issue_date"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	OutstandingAmount decimal.Decimal `db:"outstanding_amount"`
	Status            string          `db:"status"`
}

// LedgerSettings is a row of the ledger_settings table.
type LedgerSettings struct {
	OrganizationID          string  `db:"organization_id"`
	BaseCurrency            string  `db:"base_currency"`
	RealizedGainAccountID   *string `db:"realized_gain_account_id"`
	RealizedLossAccountID   *string `db:"realized_loss_account_id"`
	UnrealizedGainAccountID *string `db:"unrealized_gain_account_id"`
	UnrealizedLossAccountID *string `db:"unrealized_loss_account_id"`
	ReceivableAccountID     *string `db:"receivable_account_id"`
	PayableAccountID        *string `db:"payable_account_id"`
}

// FXGainLoss is a row of the fx_gain_loss table.
type FXGainLoss struct {
	FXID                  string          `db:"fx_id"`
	OrganizationID        string          `db:"organization_id"`
	FXType                string          `db:"fx_type"`
	InvoiceID             *string         `db:"invoice_id"`
	BillID                *string         `db:"bill_id"`
	PaymentID             *string         `db:"payment_id"`
	DocumentNumber        string          `db:"document_number"`
	BaseCurrency          string          `db:"base_currency"`
	ForeignCurrency       string          `db:"foreign_currency"`
	ForeignAmount         decimal.Decimal `db:"foreign_amount"`
	TransactionDate       time.Time       `db:"transaction_date"`
	TransactionRate       decimal.Decimal `db:"transaction_rate"`
	TransactionBaseAmount decimal.Decimal `db:"transaction_base_amount"`
	SettlementDate        time.Time       `db:"settlement_date"`
	SettlementRate        decimal.Decimal `db:"settlement_rate"`
	SettlementBaseAmount  decimal.Decimal `db:"settlement_base_amount"`
	GainLossAmount        decimal.Decimal `db:"gain_loss_amount"`
	GLAccountID           *string         `db:"gl_account_id"`
	TransactionID         *string         `db:"transaction_id"`
	CreatedAt             time.Time       `db:"created_at"`
	CreatedBy             string          `db:"created_by"`
}
