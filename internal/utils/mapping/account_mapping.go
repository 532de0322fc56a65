package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		OrganizationID: d.OrganizationID,
		Code:           d.Code,
		Name:           d.Name,
		AccountType:    string(d.AccountType),
		CurrencyCode:   nullable(d.CurrencyCode),
		Description:    d.Description,
		IsActive:       d.IsActive,
		Balance:        d.Balance,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		OrganizationID: m.OrganizationID,
		Code:           m.Code,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		CurrencyCode:   deref(m.CurrencyCode),
		Description:    m.Description,
		IsActive:       m.IsActive,
		Balance:        m.Balance,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
