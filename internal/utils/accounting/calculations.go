package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount returns the effect of an entry on an account balance, in base currency.
// This is used in both services and repositories to ensure consistent accounting logic.
func CalculateSignedAmount(entry domain.LedgerEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := entry.AmountInBase
	isDebit := entry.EntryType == domain.Debit

	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
	return signedAmount, nil
}

// BalanceChanges nets the signed effect of entries per account.
// Every entry's account must be present in accounts.
func BalanceChanges(entries []domain.LedgerEntry, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, e := range entries {
		acc, ok := accounts[e.AccountID]
		if !ok {
			return nil, fmt.Errorf("account %s not loaded for entry %s", e.AccountID, e.EntryID)
		}
		signed, err := CalculateSignedAmount(e, acc.AccountType)
		if err != nil {
			return nil, err
		}
		changes[e.AccountID] = changes[e.AccountID].Add(signed)
	}
	return changes, nil
}
