package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RealizedFXRequest describes a payment applied to a foreign-currency invoice or bill.
type RealizedFXRequest struct {
	DocumentType  domain.DocumentType `json:"documentType" binding:"required,oneof=INVOICE BILL"`
	DocumentID    string              `json:"documentID" binding:"required"`
	PaymentAmount decimal.Decimal     `json:"paymentAmount"` // Document currency
	PaymentDate   time.Time           `json:"paymentDate" binding:"required"`
	PaymentRate   *decimal.Decimal    `json:"paymentRate,omitempty"` // Resolved at PaymentDate when omitted
}

// RecordRealizedFXRequest records the realized FX of a payment posted in TransactionID.
type RecordRealizedFXRequest struct {
	RealizedFXRequest
	PaymentID     string `json:"paymentID"`
	TransactionID string `json:"transactionID"`
}

// RealizedFXResponse pairs a calculation with the ledger line it calls for.
type RealizedFXResponse struct {
	Calculation domain.FXCalculation `json:"calculation"`
	Entry       *LedgerEntryRequest  `json:"entry,omitempty"` // Nil when there is no gain or loss
}

// UnrealizedFXParams defines query parameters for previewing a revaluation.
type UnrealizedFXParams struct {
	AsOf string `form:"asOf" binding:"required,datetime=2006-01-02"`
}

// RecordUnrealizedFXRequest runs a revaluation.
type RecordUnrealizedFXRequest struct {
	AsOfDate time.Time `json:"asOfDate" binding:"required"`
}
