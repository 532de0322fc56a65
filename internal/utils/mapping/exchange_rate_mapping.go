package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:   d.ExchangeRateID,
		OrganizationID:   d.OrganizationID,
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		Rate:             d.Rate,
		DateEffective:    d.DateEffective,
		Source:           string(d.Source),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:   m.ExchangeRateID,
		OrganizationID:   m.OrganizationID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		Rate:             m.Rate,
		DateEffective:    m.DateEffective,
		Source:           domain.RateSource(m.Source),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
