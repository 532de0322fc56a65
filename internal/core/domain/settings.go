package domain

// LedgerSettings are the per-organization accounts and currency the engine posts with.
// They are maintained outside the ledger.
type LedgerSettings struct {
	OrganizationID          string `json:"organizationID"`
	BaseCurrency            string `json:"baseCurrency"`
	RealizedGainAccountID   string `json:"realizedGainAccountID"`
	RealizedLossAccountID   string `json:"realizedLossAccountID"`
	UnrealizedGainAccountID string `json:"unrealizedGainAccountID"`
	UnrealizedLossAccountID string `json:"unrealizedLossAccountID"`
	ReceivableAccountID     string `json:"receivableAccountID"`
	PayableAccountID        string `json:"payableAccountID"`
}

// FiscalNotice is what a fiscal authority is told about a posted invoice.
type FiscalNotice struct {
	OrganizationID    string `json:"organizationID"`
	TransactionID     string `json:"transactionID"`
	Reference         string `json:"reference"`
	TransactionDate   string `json:"transactionDate"`
	Currency          string `json:"currency"`
	Total             string `json:"total"`
	Description       string `json:"description"`
	TransactionNumber int64  `json:"transactionNumber"`
}
