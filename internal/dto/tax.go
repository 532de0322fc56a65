package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/tax"
	"github.com/shopspring/decimal"
)

// CalculateTaxRequest is the input to a single tax calculation.
type CalculateTaxRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Rate        decimal.Decimal `json:"rate"`
	IsInclusive bool            `json:"isInclusive"`
}

// LineItemRequest is the input to a line-item tax calculation.
type LineItemRequest struct {
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Rate        decimal.Decimal `json:"rate"`
	IsInclusive bool            `json:"isInclusive"`
	Discount    decimal.Decimal `json:"discount"`
}

// ToggleTaxRequest re-splits a total for a new mode.
type ToggleTaxRequest struct {
	Total      decimal.Decimal `json:"total"`
	Rate       decimal.Decimal `json:"rate"`
	TargetMode tax.Mode        `json:"targetMode" binding:"required,oneof=INCLUSIVE EXCLUSIVE"`
}
