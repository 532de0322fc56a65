package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction. Entries are mapped separately.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:           d.TransactionID,
		OrganizationID:          d.OrganizationID,
		TransactionNumber:       d.TransactionNumber,
		TransactionDate:         d.TransactionDate,
		TransactionType:         string(d.TransactionType),
		Status:                  string(d.Status),
		Description:             d.Description,
		BaseCurrency:            d.BaseCurrency,
		ApprovedByID:            d.ApprovedByID,
		ApprovedAt:              d.ApprovedAt,
		ReversesTransactionID:   d.ReversesTransactionID,
		ReversedByTransactionID: d.ReversedByTransactionID,
		VoidReason:              d.VoidReason,
		VoidedAt:                d.VoidedAt,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction and its entry rows to a domain Transaction.
func ToDomainTransaction(m models.Transaction, entries []models.LedgerEntry) domain.Transaction {
	d := domain.Transaction{
		TransactionID:           m.TransactionID,
		OrganizationID:          m.OrganizationID,
		TransactionNumber:       m.TransactionNumber,
		TransactionDate:         m.TransactionDate,
		TransactionType:         domain.TransactionType(m.TransactionType),
		Status:                  domain.TransactionStatus(m.Status),
		Description:             m.Description,
		BaseCurrency:            m.BaseCurrency,
		ApprovedByID:            m.ApprovedByID,
		ApprovedAt:              m.ApprovedAt,
		ReversesTransactionID:   m.ReversesTransactionID,
		ReversedByTransactionID: m.ReversedByTransactionID,
		VoidReason:              m.VoidReason,
		VoidedAt:                m.VoidedAt,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
	if len(entries) > 0 {
		d.Entries = make([]domain.LedgerEntry, len(entries))
		for i, e := range entries {
			d.Entries[i] = ToDomainLedgerEntry(e)
		}
	}
	return d
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		EntryType:     string(d.EntryType),
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		ExchangeRate:  d.ExchangeRate,
		AmountInBase:  d.AmountInBase,
		Description:   d.Description,
		LineNumber:    d.LineNumber,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		EntryType:     domain.EntryType(m.EntryType),
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		ExchangeRate:  m.ExchangeRate,
		AmountInBase:  m.AmountInBase,
		Description:   m.Description,
		LineNumber:    m.LineNumber,
	}
}
