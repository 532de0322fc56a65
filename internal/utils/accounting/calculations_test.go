package accounting_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(account string, side domain.EntryType, amount string) domain.LedgerEntry {
	return domain.NewLedgerEntry("e-"+account, "t", account, side, decimal.RequireFromString(amount), "UGX", decimal.NewFromInt(1), "", 0)
}

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		side        domain.EntryType
		want        string
	}{
		{domain.Asset, domain.Debit, "100"},
		{domain.Asset, domain.Credit, "-100"},
		{domain.Expense, domain.Debit, "100"},
		{domain.Liability, domain.Credit, "100"},
		{domain.Liability, domain.Debit, "-100"},
		{domain.Equity, domain.Credit, "100"},
		{domain.Revenue, domain.Credit, "100"},
		{domain.Revenue, domain.Debit, "-100"},
	}
	for _, tt := range tests {
		got, err := accounting.CalculateSignedAmount(entry("a", tt.side, "100"), tt.accountType)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s %s: got %s", tt.accountType, tt.side, got)
	}

	_, err := accounting.CalculateSignedAmount(entry("a", domain.Debit, "1"), domain.AccountType("INCOME"))
	assert.Error(t, err)
}

func TestBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash":    {AccountID: "cash", AccountType: domain.Asset},
		"revenue": {AccountID: "revenue", AccountType: domain.Revenue},
	}
	entries := []domain.LedgerEntry{
		entry("cash", domain.Debit, "500.00"),
		entry("revenue", domain.Credit, "300.00"),
		entry("revenue", domain.Credit, "200.00"),
	}

	changes, err := accounting.BalanceChanges(entries, accounts)
	require.NoError(t, err)
	assert.Equal(t, "500.00", changes["cash"].StringFixed(2))
	assert.Equal(t, "500.00", changes["revenue"].StringFixed(2))

	_, err = accounting.BalanceChanges([]domain.LedgerEntry{entry("missing", domain.Debit, "1")}, accounts)
	assert.Error(t, err)
}
