package services

import (
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// NewContainer wires every service over one set of repositories.
// A nil notifier disables fiscal notifications.
func NewContainer(repos *portsrepo.RepositoryProvider, notifier ports.FiscalNotifier, opts ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, opts...)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, opts...)

	ledger := newLedgerService(repos.UnitOfWork, repos.TransactionRepo, repos.SettingsRepo, container.ExchangeRate, notifier, opts...)
	container.Ledger = ledger

	fx := &fxService{
		ledger:  ledger,
		docRepo: repos.DocumentRepo,
		txnRepo: repos.TransactionRepo,
		fxRepo:  repos.FXRecordRepo,
		rates:   container.ExchangeRate,
	}
	fx.apply(opts)
	container.FX = fx

	return container
}
