package ports

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// FiscalNotifier is told about posted invoices. It is strictly downstream of the
// ledger: a failed notification never affects a posting.
type FiscalNotifier interface {
	NotifyInvoicePosted(ctx context.Context, notice domain.FiscalNotice) error
}

// NoopNotifier discards notices.
type NoopNotifier struct{}

// NotifyInvoicePosted implements FiscalNotifier.
func (NoopNotifier) NotifyInvoicePosted(context.Context, domain.FiscalNotice) error { return nil }
