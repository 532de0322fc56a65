package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToDomainForeignDocument converts a model ForeignDocument to a domain ForeignDocument
func ToDomainForeignDocument(m models.ForeignDocument) domain.ForeignDocument {
	return domain.ForeignDocument{
		DocumentID:        m.DocumentID,
		OrganizationID:    m.OrganizationID,
		DocumentType:      domain.DocumentType(m.DocumentType),
		DocumentNumber:    m.DocumentNumber,
		CurrencyCode:      m.CurrencyCode,
		ExchangeRate:      m.ExchangeRate,
		IssueDate:         m.IssueDate,
		TotalAmount:       m.TotalAmount,
		OutstandingAmount: m.OutstandingAmount,
		Status:            domain.DocumentStatus(m.Status),
	}
}

// ToDomainLedgerSettings converts a model LedgerSettings to a domain LedgerSettings
func ToDomainLedgerSettings(m models.LedgerSettings) domain.LedgerSettings {
	return domain.LedgerSettings{
		OrganizationID:          m.OrganizationID,
		BaseCurrency:            m.BaseCurrency,
		RealizedGainAccountID:   deref(m.RealizedGainAccountID),
		RealizedLossAccountID:   deref(m.RealizedLossAccountID),
		UnrealizedGainAccountID: deref(m.UnrealizedGainAccountID),
		UnrealizedLossAccountID: deref(m.UnrealizedLossAccountID),
		ReceivableAccountID:     deref(m.ReceivableAccountID),
		PayableAccountID:        deref(m.PayableAccountID),
	}
}

// ToModelFXGainLoss converts a domain FXRecord to a model FXGainLoss. The document
// lands in invoice_id or bill_id according to its type.
func ToModelFXGainLoss(d domain.FXRecord) models.FXGainLoss {
	return models.FXGainLoss{
		FXID:                  d.FXID,
		OrganizationID:        d.OrganizationID,
		FXType:                string(d.FXType),
		InvoiceID:             nullable(d.InvoiceID()),
		BillID:                nullable(d.BillID()),
		PaymentID:             nullable(d.PaymentID),
		DocumentNumber:        d.DocumentNumber,
		BaseCurrency:          d.BaseCurrency,
		ForeignCurrency:       d.ForeignCurrency,
		ForeignAmount:         d.ForeignAmount,
		TransactionDate:       d.TransactionDate,
		TransactionRate:       d.TransactionRate,
		TransactionBaseAmount: d.TransactionBaseAmount,
		SettlementDate:        d.SettlementDate,
		SettlementRate:        d.SettlementRate,
		SettlementBaseAmount:  d.SettlementBaseAmount,
		GainLossAmount:        d.GainLossAmount,
		GLAccountID:           nullable(d.GLAccountID),
		TransactionID:         nullable(d.TransactionID),
		CreatedAt:             d.CreatedAt,
		CreatedBy:             d.CreatedBy,
	}
}

// ToDomainFXRecord converts a model FXGainLoss to a domain FXRecord
func ToDomainFXRecord(m models.FXGainLoss) domain.FXRecord {
	docType, docID := domain.InvoiceDocument, deref(m.InvoiceID)
	if m.BillID != nil {
		docType, docID = domain.BillDocument, *m.BillID
	}
	return domain.FXRecord{
		FXID: m.FXID,
		FXCalculation: domain.FXCalculation{
			OrganizationID:        m.OrganizationID,
			FXType:                domain.FXType(m.FXType),
			DocumentType:          docType,
			DocumentID:            docID,
			DocumentNumber:        m.DocumentNumber,
			BaseCurrency:          m.BaseCurrency,
			ForeignCurrency:       m.ForeignCurrency,
			ForeignAmount:         m.ForeignAmount,
			TransactionDate:       m.TransactionDate,
			TransactionRate:       m.TransactionRate,
			TransactionBaseAmount: m.TransactionBaseAmount,
			SettlementDate:        m.SettlementDate,
			SettlementRate:        m.SettlementRate,
			SettlementBaseAmount:  m.SettlementBaseAmount,
			GainLossAmount:        m.GainLossAmount,
		},
		GLAccountID:   deref(m.GLAccountID),
		PaymentID:     deref(m.PaymentID),
		TransactionID: deref(m.TransactionID),
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}
