// Package money holds the decimal arithmetic and rounding policy shared by every
// component that touches an amount or a rate.
package money

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	// DefaultPlaces is the minor-unit precision amounts are persisted and presented at.
	DefaultPlaces int32 = 2

	// DivisionPrecision is the number of fractional digits kept by Div.
	// Intermediate quotients are never rounded to DefaultPlaces.
	DivisionPrecision int32 = 28

	// RatePlaces is the precision effective tax rates are reported at.
	RatePlaces int32 = 6
)

// Round rounds d to DefaultPlaces using round-half-up (half away from zero).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DefaultPlaces)
}

// RoundTo rounds d to the given number of places using round-half-up.
func RoundTo(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Div divides a by b keeping DivisionPrecision fractional digits.
// Callers must ensure b is not zero.
func Div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, DivisionPrecision)
}

// Convert returns amount expressed in another currency at rate, rounded to the minor unit.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate))
}

// Invert returns 1/rate at full precision.
func Invert(rate decimal.Decimal) decimal.Decimal {
	return Div(decimal.NewFromInt(1), rate)
}

// ParseAmount parses a decimal string. Empty or malformed input is a validation error.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, apperrors.NewValidationError("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError(fmt.Sprintf("invalid amount %q", s))
	}
	return d, nil
}

// NormalizeCurrency upper-cases and validates an ISO 4217 alphabetic code.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", apperrors.NewFieldValidationError("currencyCode", fmt.Sprintf("currency code %q must be 3 letters", code))
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", apperrors.NewFieldValidationError("currencyCode", fmt.Sprintf("currency code %q must be alphabetic", code))
		}
	}
	return code, nil
}
