package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Reference(t *testing.T) {
	tests := []struct {
		name string
		txn  domain.Transaction
		want string
	}{
		{"journal entry", domain.Transaction{TransactionType: domain.JournalEntry, TransactionNumber: 42}, "JE-000042"},
		{"invoice", domain.Transaction{TransactionType: domain.Invoice, TransactionNumber: 7}, "INV-000007"},
		{"revaluation", domain.Transaction{TransactionType: domain.FXRevaluation, TransactionNumber: 1234567}, "FXR-1234567"},
		{"unknown type", domain.Transaction{TransactionType: "OTHER", TransactionNumber: 1}, "TX-000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txn.Reference())
		})
	}
}

func TestNewLedgerEntry_DerivesAmountInBase(t *testing.T) {
	e := domain.NewLedgerEntry("e1", "t1", "a1", domain.Debit,
		decimal.RequireFromString("1000"), "USD", decimal.RequireFromString("3700.125"), "", 1)

	assert.Equal(t, "3700125.00", e.AmountInBase.StringFixed(2))

	e = domain.NewLedgerEntry("e2", "t1", "a1", domain.Credit,
		decimal.RequireFromString("10.005"), "UGX", decimal.NewFromInt(1), "", 2)
	assert.Equal(t, "10.01", e.AmountInBase.StringFixed(2))
}

func TestEntryType_Opposite(t *testing.T) {
	assert.Equal(t, domain.Credit, domain.Debit.Opposite())
	assert.Equal(t, domain.Debit, domain.Credit.Opposite())
}

func TestTransaction_IsBalanced(t *testing.T) {
	rate := decimal.NewFromInt(1)
	txn := domain.Transaction{Entries: []domain.LedgerEntry{
		domain.NewLedgerEntry("e1", "t", "cash", domain.Debit, decimal.RequireFromString("500.00"), "UGX", rate, "", 1),
		domain.NewLedgerEntry("e2", "t", "rev", domain.Credit, decimal.RequireFromString("500.00"), "UGX", rate, "", 2),
	}}
	assert.True(t, txn.IsBalanced())

	txn.Entries[1] = domain.NewLedgerEntry("e2", "t", "rev", domain.Credit, decimal.RequireFromString("499.99"), "UGX", rate, "", 2)
	assert.False(t, txn.IsBalanced())

	debits, credits := domain.EntryTotals(txn.Entries)
	assert.Equal(t, "500.00", debits.StringFixed(2))
	assert.Equal(t, "499.99", credits.StringFixed(2))
}

func TestTransaction_ReversalState(t *testing.T) {
	id := "orig"
	txn := domain.Transaction{Status: domain.Posted}
	assert.False(t, txn.IsReversed())
	assert.False(t, txn.IsReversal())

	txn.ReversedByTransactionID = &id
	assert.True(t, txn.IsReversed())

	rev := domain.Transaction{Status: domain.Posted, ReversesTransactionID: &id}
	assert.True(t, rev.IsReversal())
}

func TestAccount_AcceptsCurrency(t *testing.T) {
	multi := domain.Account{}
	assert.True(t, multi.AcceptsCurrency("USD"))

	usd := domain.Account{CurrencyCode: "USD"}
	assert.True(t, usd.AcceptsCurrency("USD"))
	assert.False(t, usd.AcceptsCurrency("UGX"))
}

func TestForeignDocument_IsOpen(t *testing.T) {
	doc := domain.ForeignDocument{Status: domain.DocumentOpen, OutstandingAmount: decimal.NewFromInt(10)}
	assert.True(t, doc.IsOpen())

	doc.Status = domain.DocumentPaid
	assert.False(t, doc.IsOpen())

	doc.Status = domain.DocumentPartiallyPaid
	doc.OutstandingAmount = decimal.Zero
	assert.False(t, doc.IsOpen())
}
