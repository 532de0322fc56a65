// Package tax computes net, tax and total amounts for invoice and bill lines.
//
// Every result satisfies Net + Tax == Total at two decimal places. The three
// figures are rounded independently and any penny disagreement is absorbed by Tax.
package tax

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/money"
	"github.com/shopspring/decimal"
)

// Mode selects whether an amount already includes tax.
type Mode string

const (
	Inclusive Mode = "INCLUSIVE"
	Exclusive Mode = "EXCLUSIVE"
)

// ParseMode converts a request value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Inclusive, Exclusive:
		return Mode(s), nil
	default:
		return "", apperrors.NewFieldValidationError("mode", fmt.Sprintf("unknown tax mode %q", s))
	}
}

// Result is the outcome of a tax calculation.
type Result struct {
	Net           decimal.Decimal `json:"net"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
}

// LineBreakdown is a Result for a quantity/unit-price line with a discount.
type LineBreakdown struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Gross     decimal.Decimal `json:"gross"`
	Discount  decimal.Decimal `json:"discount"`
	Result
}

var one = decimal.NewFromInt(1)

// CalculateTax splits amount into net, tax and total at rate.
// With isInclusive the amount is the total; otherwise it is the net.
func CalculateTax(amount, rate decimal.Decimal, isInclusive bool) (Result, error) {
	if amount.IsNegative() {
		return Result{}, apperrors.NewFieldValidationError("amount", "must not be negative")
	}
	if rate.IsNegative() {
		return Result{}, apperrors.NewFieldValidationError("rate", "must not be negative")
	}

	if rate.IsZero() {
		v := money.Round(amount)
		return Result{Net: v, Tax: decimal.Zero, Total: v, EffectiveRate: decimal.Zero}, nil
	}

	var net, tax, total decimal.Decimal
	if isInclusive {
		total = amount
		net = money.Div(total, one.Add(rate))
		tax = total.Sub(net)
	} else {
		net = amount
		tax = net.Mul(rate)
		total = net.Add(tax)
	}

	return balance(money.Round(net), money.Round(tax), money.Round(total))
}

// balance applies the penny rule and verifies the identity.
func balance(net, tax, total decimal.Decimal) (Result, error) {
	if !net.Add(tax).Equal(total) {
		tax = total.Sub(net)
	}
	if !net.Add(tax).Equal(total) {
		return Result{}, &apperrors.RoundingInvariantError{Net: net, Tax: tax, Total: total}
	}
	return Result{Net: net, Tax: tax, Total: total, EffectiveRate: effectiveRate(net, tax)}, nil
}

func effectiveRate(net, tax decimal.Decimal) decimal.Decimal {
	if net.IsZero() {
		return decimal.Zero
	}
	return money.RoundTo(money.Div(tax, net), money.RatePlaces)
}

// CalculateLineItem computes a line of quantity × unitPrice less discount.
//
// The discount is in net units and is removed before tax. For inclusive prices the
// line's net is split out of the gross first and the discount comes off that net,
// so the discounted net is always exactly the undiscounted net less the discount.
// An undiscounted inclusive line keeps its gross as the total.
func CalculateLineItem(quantity, unitPrice, rate decimal.Decimal, isInclusive bool, discount decimal.Decimal) (LineBreakdown, error) {
	if quantity.IsNegative() {
		return LineBreakdown{}, apperrors.NewFieldValidationError("quantity", "must not be negative")
	}
	if unitPrice.IsNegative() {
		return LineBreakdown{}, apperrors.NewFieldValidationError("unitPrice", "must not be negative")
	}
	if discount.IsNegative() {
		return LineBreakdown{}, apperrors.NewFieldValidationError("discount", "must not be negative")
	}
	if rate.IsNegative() {
		return LineBreakdown{}, apperrors.NewFieldValidationError("rate", "must not be negative")
	}

	gross := money.Round(quantity.Mul(unitPrice))
	discount = money.Round(discount)

	var (
		res Result
		err error
	)
	if isInclusive {
		lineNet := money.Round(money.Div(gross, one.Add(rate)))
		if discount.GreaterThan(lineNet) {
			return LineBreakdown{}, apperrors.NewFieldValidationError("discount", "exceeds the line's net amount")
		}
		if discount.IsZero() {
			res, err = CalculateTax(gross, rate, true)
		} else {
			res, err = CalculateTax(lineNet.Sub(discount), rate, false)
		}
	} else {
		if discount.GreaterThan(gross) {
			return LineBreakdown{}, apperrors.NewFieldValidationError("discount", "exceeds the line's net amount")
		}
		res, err = CalculateTax(gross.Sub(discount), rate, false)
	}
	if err != nil {
		return LineBreakdown{}, err
	}

	return LineBreakdown{
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Gross:     gross,
		Discount:  discount,
		Result:    res,
	}, nil
}

// RecalculateOnToggle re-splits a fixed total when a line switches to target mode.
// The returned Total always equals the rounded input total.
func RecalculateOnToggle(total, rate decimal.Decimal, target Mode) (Result, error) {
	switch target {
	case Inclusive:
		return CalculateTax(total, rate, true)
	case Exclusive:
		if total.IsNegative() {
			return Result{}, apperrors.NewFieldValidationError("total", "must not be negative")
		}
		if rate.IsNegative() {
			return Result{}, apperrors.NewFieldValidationError("rate", "must not be negative")
		}
		held := money.Round(total)
		net := money.Round(money.Div(total, one.Add(rate)))
		exclusive, err := CalculateTax(net, rate, false)
		if err != nil {
			return Result{}, err
		}
		return balance(exclusive.Net, exclusive.Tax, held)
	default:
		return Result{}, apperrors.NewFieldValidationError("mode", fmt.Sprintf("unknown tax mode %q", target))
	}
}
