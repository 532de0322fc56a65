package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code         string             `json:"code" yaml:"code" binding:"required,max=32"`
	Name         string             `json:"name" yaml:"name" binding:"required"`
	AccountType  domain.AccountType `json:"accountType" yaml:"type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode string             `json:"currencyCode" yaml:"currency" binding:"omitempty,len=3"` // Empty for multi-currency
	Description  string             `json:"description" yaml:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	OrganizationID string             `json:"organizationID"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	CurrencyCode   string             `json:"currencyCode,omitempty"`
	Description    string             `json:"description"`
	IsActive       bool               `json:"isActive"`
	Balance        decimal.Decimal    `json:"balance"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		OrganizationID: acc.OrganizationID,
		Code:           acc.Code,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		CurrencyCode:   acc.CurrencyCode,
		Description:    acc.Description,
		IsActive:       acc.IsActive,
		Balance:        acc.Balance,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=50" binding:"min=1,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
