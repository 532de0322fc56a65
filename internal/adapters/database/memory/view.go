package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// view implements the repository ports over one state. Callers hold the locks.
type view struct {
	st *state
}

func codeKey(organizationID, code string) string { return organizationID + "|" + code }

func seqKey(organizationID string, t domain.TransactionType) string {
	return organizationID + "|" + string(t)
}

func rateKey(r domain.ExchangeRate) string {
	return fmt.Sprintf("%s|%s|%s|%s", r.OrganizationID, r.FromCurrencyCode, r.ToCurrencyCode, r.DateEffective.Format("2006-01-02"))
}

func docKey(organizationID string, t domain.DocumentType, id string) string {
	return organizationID + "|" + string(t) + "|" + id
}

func copyTxn(t domain.Transaction) *domain.Transaction {
	t.Entries = append([]domain.LedgerEntry(nil), t.Entries...)
	return &t
}

// --- accounts ---

func (v *view) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	acc, ok := v.st.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account", accountID)
	}
	return &acc, nil
}

func (v *view) FindAccountByCode(_ context.Context, organizationID, code string) (*domain.Account, error) {
	id, ok := v.st.accountCodes[codeKey(organizationID, code)]
	if !ok {
		return nil, apperrors.NewNotFoundError("account", code)
	}
	acc := v.st.accounts[id]
	return &acc, nil
}

func (v *view) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := v.st.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (v *view) ListAccounts(_ context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	var all []domain.Account
	for _, acc := range v.st.accounts {
		if acc.OrganizationID == organizationID {
			all = append(all, acc)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	if offset >= len(all) {
		return []domain.Account{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (v *view) SaveAccount(_ context.Context, account domain.Account) error {
	if _, exists := v.st.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	key := codeKey(account.OrganizationID, account.Code)
	if _, exists := v.st.accountCodes[key]; exists {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	v.st.accounts[account.AccountID] = account
	v.st.accountCodes[key] = account.AccountID
	return nil
}

func (v *view) DeactivateAccount(_ context.Context, accountID string, userID string, now time.Time) error {
	acc, ok := v.st.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account", accountID)
	}
	acc.IsActive = false
	acc.Touch(userID, now)
	v.st.accounts[accountID] = acc
	return nil
}

func (v *view) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out, _ := v.FindAccountsByIDs(ctx, accountIDs)
	for _, id := range accountIDs {
		if _, ok := out[id]; !ok {
			return nil, apperrors.NewNotFoundError("account", id)
		}
	}
	return out, nil
}

func (v *view) UpdateAccountBalances(_ context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	for id, delta := range balanceChanges {
		acc, ok := v.st.accounts[id]
		if !ok {
			return apperrors.NewNotFoundError("account", id)
		}
		acc.Balance = acc.Balance.Add(delta)
		acc.Touch(userID, now)
		v.st.accounts[id] = acc
	}
	return nil
}

// --- transactions ---

func (v *view) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	txn, ok := v.st.transactions[transactionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction", transactionID)
	}
	return copyTxn(txn), nil
}

func (v *view) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return v.FindTransactionByID(ctx, transactionID)
}

func (v *view) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	if _, exists := v.st.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	for _, e := range txn.Entries {
		if _, ok := v.st.accounts[e.AccountID]; !ok {
			return apperrors.NewNotFoundError("account", e.AccountID)
		}
	}
	v.st.transactions[txn.TransactionID] = *copyTxn(txn)
	return nil
}

func (v *view) UpdateTransactionHeader(_ context.Context, txn domain.Transaction) error {
	stored, ok := v.st.transactions[txn.TransactionID]
	if !ok {
		return apperrors.NewNotFoundError("transaction", txn.TransactionID)
	}
	txn.Entries = stored.Entries
	v.st.transactions[txn.TransactionID] = txn
	return nil
}

func (v *view) ListTransactions(_ context.Context, organizationID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	var rows []domain.Transaction
	for _, txn := range v.st.transactions {
		if txn.OrganizationID != organizationID || !matches(txn, filter) {
			continue
		}
		if cursor != nil && !cursor.After(txn.TransactionDate, txn.CreatedAt, txn.TransactionID) {
			continue
		}
		txn.Entries = nil
		rows = append(rows, txn)
	}
	sort.Slice(rows, func(i, j int) bool {
		c := pagination.Cursor{TransactionDate: rows[i].TransactionDate, CreatedAt: rows[i].CreatedAt, TransactionID: rows[i].TransactionID}
		return c.After(rows[j].TransactionDate, rows[j].CreatedAt, rows[j].TransactionID)
	})

	if limit <= 0 || len(rows) <= limit {
		return rows, nil, nil
	}
	page := rows[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{TransactionDate: last.TransactionDate, CreatedAt: last.CreatedAt, TransactionID: last.TransactionID})
	return page, &token, nil
}

func matches(txn domain.Transaction, f domain.TransactionFilter) bool {
	if f.TransactionType != "" && txn.TransactionType != f.TransactionType {
		return false
	}
	if f.Status != "" && txn.Status != f.Status {
		return false
	}
	if f.FromDate != nil && txn.TransactionDate.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && txn.TransactionDate.After(*f.ToDate) {
		return false
	}
	return true
}

func (v *view) NextTransactionNumber(_ context.Context, organizationID string, txnType domain.TransactionType) (int64, error) {
	key := seqKey(organizationID, txnType)
	v.st.sequences[key]++
	return v.st.sequences[key], nil
}

// --- exchange rates ---

func (v *view) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	key := rateKey(rate)
	if existing, ok := v.st.rates[key]; ok {
		rate.ExchangeRateID = existing.ExchangeRateID
		rate.CreatedAt = existing.CreatedAt
		rate.CreatedBy = existing.CreatedBy
	}
	v.st.rates[key] = rate
	return nil
}

func (v *view) FindLatestExchangeRate(_ context.Context, organizationID, fromCode, toCode string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	var best *domain.ExchangeRate
	for _, r := range v.st.rates {
		if r.OrganizationID != organizationID || r.FromCurrencyCode != fromCode || r.ToCurrencyCode != toCode {
			continue
		}
		if r.DateEffective.After(onOrBefore) {
			continue
		}
		if best == nil || r.DateEffective.After(best.DateEffective) {
			r := r
			best = &r
		}
	}
	if best == nil {
		return nil, apperrors.NewNotFoundError("exchange rate", fromCode+"/"+toCode)
	}
	return best, nil
}

func (v *view) ListExchangeRates(_ context.Context, organizationID string, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	out := []domain.ExchangeRate{}
	for _, r := range v.st.rates {
		if r.OrganizationID != organizationID {
			continue
		}
		if filter.FromCurrencyCode != "" && r.FromCurrencyCode != filter.FromCurrencyCode {
			continue
		}
		if filter.ToCurrencyCode != "" && r.ToCurrencyCode != filter.ToCurrencyCode {
			continue
		}
		if filter.AsOf != nil && r.DateEffective.After(*filter.AsOf) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateEffective.Equal(out[j].DateEffective) {
			return out[i].DateEffective.After(out[j].DateEffective)
		}
		return rateKey(out[i]) < rateKey(out[j])
	})
	return out, nil
}

// --- documents, settings, fx records ---

func (v *view) FindDocument(_ context.Context, organizationID string, docType domain.DocumentType, documentID string) (*domain.ForeignDocument, error) {
	doc, ok := v.st.documents[docKey(organizationID, docType, documentID)]
	if !ok {
		return nil, apperrors.NewNotFoundError(string(docType), documentID)
	}
	return &doc, nil
}

func (v *view) ListOpenForeignDocuments(_ context.Context, organizationID, baseCurrency string, asOf time.Time) ([]domain.ForeignDocument, error) {
	var out []domain.ForeignDocument
	for _, doc := range v.st.documents {
		if doc.OrganizationID != organizationID || doc.CurrencyCode == baseCurrency || !doc.IsOpen() {
			continue
		}
		if doc.IssueDate.After(asOf) {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.Before(out[j].IssueDate)
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	return out, nil
}

func (v *view) FindLedgerSettings(_ context.Context, organizationID string) (*domain.LedgerSettings, error) {
	s, ok := v.st.settings[organizationID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger settings", organizationID)
	}
	return &s, nil
}

func (v *view) SaveFXRecords(_ context.Context, records []domain.FXRecord) error {
	v.st.fxRecords = append(v.st.fxRecords, records...)
	return nil
}

func (v *view) FindFXRecordsByTransactionID(_ context.Context, transactionID string) ([]domain.FXRecord, error) {
	var out []domain.FXRecord
	for _, r := range v.st.fxRecords {
		if r.TransactionID == transactionID {
			out = append(out, r)
		}
	}
	return out, nil
}

// balanceOf sums posted entries for an account. Used by tests to cross-check balances.
func (v *view) balanceOf(accountID string) (decimal.Decimal, error) {
	acc, ok := v.st.accounts[accountID]
	if !ok {
		return decimal.Zero, apperrors.NewNotFoundError("account", accountID)
	}
	total := decimal.Zero
	for _, txn := range v.st.transactions {
		if txn.Status == domain.Draft {
			continue
		}
		for _, e := range txn.Entries {
			if e.AccountID != accountID {
				continue
			}
			signed, err := accounting.CalculateSignedAmount(e, acc.AccountType)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(signed)
		}
	}
	return total, nil
}
