package services

// ServiceContainer holds instances of all the application services.
// It is the entry point handlers and the CLI use to reach the ledger core.
type ServiceContainer struct {
	Account      AccountSvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Ledger       LedgerSvcFacade
	FX           FXSvcFacade
}
