package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for creating or replacing an exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string            `json:"fromCurrencyCode" binding:"required,len=3"`
	ToCurrencyCode   string            `json:"toCurrencyCode" binding:"required,len=3"`
	Rate             decimal.Decimal   `json:"rate"`
	DateEffective    time.Time         `json:"dateEffective" binding:"required"`
	Source           domain.RateSource `json:"source" binding:"omitempty,oneof=MANUAL PROVIDER"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string            `json:"exchangeRateID"`
	FromCurrencyCode string            `json:"fromCurrencyCode"`
	ToCurrencyCode   string            `json:"toCurrencyCode"`
	Rate             decimal.Decimal   `json:"rate"`
	DateEffective    time.Time         `json:"dateEffective"`
	Source           domain.RateSource `json:"source"`
	CreatedAt        time.Time         `json:"createdAt"`
	CreatedBy        string            `json:"createdBy"`
	LastUpdatedAt    time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy    string            `json:"lastUpdatedBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		DateEffective:    rate.DateEffective,
		Source:           rate.Source,
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
		LastUpdatedAt:    rate.LastUpdatedAt,
		LastUpdatedBy:    rate.LastUpdatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// ListExchangeRatesParams defines query parameters for listing rates.
type ListExchangeRatesParams struct {
	From string `form:"from" binding:"omitempty,len=3"`
	To   string `form:"to" binding:"omitempty,len=3"`
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// ResolveRateParams defines query parameters for resolving a single rate.
type ResolveRateParams struct {
	From string `form:"from" binding:"required,len=3"`
	To   string `form:"to" binding:"required,len=3"`
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// ResolveRateResponse is the rate in effect for a pair on a date.
type ResolveRateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Date string          `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}
