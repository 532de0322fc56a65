package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// DocumentReader gives read-only access to invoices and bills held by the document store.
type DocumentReader interface {
	// FindDocument retrieves one invoice or bill.
	FindDocument(ctx context.Context, organizationID string, docType domain.DocumentType, documentID string) (*domain.ForeignDocument, error)

	// ListOpenForeignDocuments returns open invoices and bills not in baseCurrency issued on or before asOf.
	ListOpenForeignDocuments(ctx context.Context, organizationID, baseCurrency string, asOf time.Time) ([]domain.ForeignDocument, error)
}

// SettingsReader gives read-only access to per-organization ledger settings.
type SettingsReader interface {
	FindLedgerSettings(ctx context.Context, organizationID string) (*domain.LedgerSettings, error)
}

// FXRecordWriter persists FX audit records.
type FXRecordWriter interface {
	SaveFXRecords(ctx context.Context, records []domain.FXRecord) error
}

// FXRecordReader reads FX audit records.
type FXRecordReader interface {
	FindFXRecordsByTransactionID(ctx context.Context, transactionID string) ([]domain.FXRecord, error)
}
