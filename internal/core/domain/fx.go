package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FXType distinguishes settled from mark-to-market gain or loss.
type FXType string

const (
	Realized   FXType = "REALIZED"
	Unrealized FXType = "UNREALIZED"
)

// DocumentType is the kind of foreign-currency obligation.
type DocumentType string

const (
	InvoiceDocument DocumentType = "INVOICE"
	BillDocument    DocumentType = "BILL"
)

// IsValid reports whether d is INVOICE or BILL.
func (d DocumentType) IsValid() bool {
	return d == InvoiceDocument || d == BillDocument
}

// DocumentStatus is the settlement state of a ForeignDocument.
type DocumentStatus string

const (
	DocumentOpen          DocumentStatus = "OPEN"
	DocumentPartiallyPaid DocumentStatus = "PARTIALLY_PAID"
	DocumentPaid          DocumentStatus = "PAID"
	DocumentVoid          DocumentStatus = "VOID"
)

// ForeignDocument is the read-only view of an invoice or bill the FX engine needs.
type ForeignDocument struct {
	DocumentID        string          `json:"documentID"`
	OrganizationID    string          `json:"organizationID"`
	DocumentType      DocumentType    `json:"documentType"`
	DocumentNumber    string          `json:"documentNumber"`
	CurrencyCode      string          `json:"currencyCode"`
	ExchangeRate      decimal.Decimal `json:"exchangeRate"` // Rate at origination, document currency -> base
	IssueDate         time.Time       `json:"issueDate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"` // Document currency
	Status            DocumentStatus  `json:"status"`
}

// IsOpen reports whether part of the document is still unsettled.
func (d ForeignDocument) IsOpen() bool {
	return (d.Status == DocumentOpen || d.Status == DocumentPartiallyPaid) && d.OutstandingAmount.IsPositive()
}

// FXCalculation is the gain or loss on a foreign amount between two rates.
//
// GainLossAmount is positive for a gain and negative for a loss from the
// organization's point of view. For invoices it equals SettlementBaseAmount minus
// TransactionBaseAmount; for bills the sign is inverted.
type FXCalculation struct {
	OrganizationID        string          `json:"organizationID"`
	FXType                FXType          `json:"fxType"`
	DocumentType          DocumentType    `json:"documentType"`
	DocumentID            string          `json:"documentID"`
	DocumentNumber        string          `json:"documentNumber"`
	BaseCurrency          string          `json:"baseCurrency"`
	ForeignCurrency       string          `json:"foreignCurrency"`
	ForeignAmount         decimal.Decimal `json:"foreignAmount"`
	TransactionDate       time.Time       `json:"transactionDate"`
	TransactionRate       decimal.Decimal `json:"transactionRate"`
	TransactionBaseAmount decimal.Decimal `json:"transactionBaseAmount"`
	SettlementDate        time.Time       `json:"settlementDate"`
	SettlementRate        decimal.Decimal `json:"settlementRate"`
	SettlementBaseAmount  decimal.Decimal `json:"settlementBaseAmount"`
	GainLossAmount        decimal.Decimal `json:"gainLossAmount"`
}

// IsGain reports a positive result.
func (c FXCalculation) IsGain() bool { return c.GainLossAmount.IsPositive() }

// IsLoss reports a negative result.
func (c FXCalculation) IsLoss() bool { return c.GainLossAmount.IsNegative() }

// FXRecord is the immutable audit row for one realized or unrealized FX event.
//
// GainLossAmount is stored with the organization's sign: a bill record holds
// TransactionBaseAmount minus SettlementBaseAmount, so a positive value is a gain
// for both invoices and bills.
type FXRecord struct {
	FXID string `json:"fxID"`
	FXCalculation
	GLAccountID   string    `json:"glAccountID,omitempty"` // Empty when nothing was posted
	PaymentID     string    `json:"paymentID,omitempty"`
	TransactionID string    `json:"transactionID,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// InvoiceID returns the linked invoice, if any.
func (r FXRecord) InvoiceID() string {
	if r.DocumentType == InvoiceDocument {
		return r.DocumentID
	}
	return ""
}

// BillID returns the linked bill, if any.
func (r FXRecord) BillID() string {
	if r.DocumentType == BillDocument {
		return r.DocumentID
	}
	return ""
}

// RevaluationResult summarises one unrealized FX run.
type RevaluationResult struct {
	TransactionID string          `json:"transactionID,omitempty"` // Empty when every delta was zero
	AsOfDate      time.Time       `json:"asOfDate"`
	TotalGain     decimal.Decimal `json:"totalGain"`
	TotalLoss     decimal.Decimal `json:"totalLoss"`
	Records       []FXRecord      `json:"records"`
}
