package memory

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Outside a unit of work reads see committed state and writes are serialized with units of work.

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (acc *domain.Account, err error) {
	s.read(func(v *view) { acc, err = v.FindAccountByID(ctx, accountID) })
	return
}

func (s *Store) FindAccountByCode(ctx context.Context, organizationID, code string) (acc *domain.Account, err error) {
	s.read(func(v *view) { acc, err = v.FindAccountByCode(ctx, organizationID, code) })
	return
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (accs map[string]domain.Account, err error) {
	s.read(func(v *view) { accs, err = v.FindAccountsByIDs(ctx, accountIDs) })
	return
}

func (s *Store) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) (accs []domain.Account, err error) {
	s.read(func(v *view) { accs, err = v.ListAccounts(ctx, organizationID, limit, offset) })
	return
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.write(func(v *view) error { return v.SaveAccount(ctx, account) })
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return s.write(func(v *view) error { return v.DeactivateAccount(ctx, accountID, userID, now) })
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (txn *domain.Transaction, err error) {
	s.read(func(v *view) { txn, err = v.FindTransactionByID(ctx, transactionID) })
	return
}

func (s *Store) ListTransactions(ctx context.Context, organizationID string, filter domain.TransactionFilter, limit int, nextToken *string) (txns []domain.Transaction, token *string, err error) {
	s.read(func(v *view) { txns, token, err = v.ListTransactions(ctx, organizationID, filter, limit, nextToken) })
	return
}

func (s *Store) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	return s.write(func(v *view) error { return v.SaveExchangeRate(ctx, rate) })
}

func (s *Store) FindLatestExchangeRate(ctx context.Context, organizationID, fromCode, toCode string, onOrBefore time.Time) (rate *domain.ExchangeRate, err error) {
	s.read(func(v *view) { rate, err = v.FindLatestExchangeRate(ctx, organizationID, fromCode, toCode, onOrBefore) })
	return
}

func (s *Store) ListExchangeRates(ctx context.Context, organizationID string, filter domain.ExchangeRateFilter) (rates []domain.ExchangeRate, err error) {
	s.read(func(v *view) { rates, err = v.ListExchangeRates(ctx, organizationID, filter) })
	return
}

func (s *Store) FindDocument(ctx context.Context, organizationID string, docType domain.DocumentType, documentID string) (doc *domain.ForeignDocument, err error) {
	s.read(func(v *view) { doc, err = v.FindDocument(ctx, organizationID, docType, documentID) })
	return
}

func (s *Store) ListOpenForeignDocuments(ctx context.Context, organizationID, baseCurrency string, asOf time.Time) (docs []domain.ForeignDocument, err error) {
	s.read(func(v *view) { docs, err = v.ListOpenForeignDocuments(ctx, organizationID, baseCurrency, asOf) })
	return
}

func (s *Store) FindLedgerSettings(ctx context.Context, organizationID string) (settings *domain.LedgerSettings, err error) {
	s.read(func(v *view) { settings, err = v.FindLedgerSettings(ctx, organizationID) })
	return
}

func (s *Store) FindFXRecordsByTransactionID(ctx context.Context, transactionID string) (records []domain.FXRecord, err error) {
	s.read(func(v *view) { records, err = v.FindFXRecordsByTransactionID(ctx, transactionID) })
	return
}

// RecomputedBalance derives an account balance from its posted entries.
// It should always equal the stored balance.
func (s *Store) RecomputedBalance(accountID string) (bal decimal.Decimal, err error) {
	s.read(func(v *view) { bal, err = v.balanceOf(accountID) })
	return
}
