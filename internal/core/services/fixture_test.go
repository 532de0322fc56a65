package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testOrg  = "org-1"
	testUser = "user-1"
)

var fixedNow = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

// recordingNotifier remembers fiscal notices and fails when err is set.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.FiscalNotice
	err     error
}

func (n *recordingNotifier) NotifyInvoicePosted(_ context.Context, notice domain.FiscalNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

// ledgerFixture is a chart of accounts and settings for one organization over the memory store.
type ledgerFixture struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	svc      *portssvc.ServiceContainer
	notifier *recordingNotifier

	cash, bank, revenue, receivable, payable     string
	realizedGain, realizedLoss                   string
	unrealizedGain, unrealizedLoss, usdOnlyAsset string
}

func (f *ledgerFixture) SetupTest() {
	f.ctx = context.Background()
	f.store = memory.NewStore()
	f.notifier = &recordingNotifier{}
	f.svc = services.NewContainer(f.store.Repositories(), f.notifier, services.WithClock(func() time.Time { return fixedNow }))

	f.cash = f.account("1000", domain.Asset, "UGX")
	f.bank = f.account("1010", domain.Asset, "")
	f.receivable = f.account("1200", domain.Asset, "")
	f.usdOnlyAsset = f.account("1300", domain.Asset, "USD")
	f.payable = f.account("2000", domain.Liability, "")
	f.revenue = f.account("4000", domain.Revenue, "")
	f.realizedGain = f.account("7100", domain.Revenue, "")
	f.unrealizedGain = f.account("7200", domain.Revenue, "")
	f.realizedLoss = f.account("8100", domain.Expense, "")
	f.unrealizedLoss = f.account("8200", domain.Expense, "")

	f.store.PutSettings(domain.LedgerSettings{
		OrganizationID:          testOrg,
		BaseCurrency:            "UGX",
		RealizedGainAccountID:   f.realizedGain,
		RealizedLossAccountID:   f.realizedLoss,
		UnrealizedGainAccountID: f.unrealizedGain,
		UnrealizedLossAccountID: f.unrealizedLoss,
		ReceivableAccountID:     f.receivable,
		PayableAccountID:        f.payable,
	})
}

func (f *ledgerFixture) account(code string, t domain.AccountType, currency string) string {
	acc, err := f.svc.Account.CreateAccount(f.ctx, testOrg, dto.CreateAccountRequest{
		Code: code, Name: "Account " + code, AccountType: t, CurrencyCode: currency,
	}, testUser)
	f.Require().NoError(err)
	return acc.AccountID
}

func (f *ledgerFixture) balance(accountID string) decimal.Decimal {
	acc, err := f.svc.Account.GetAccountByID(f.ctx, accountID)
	f.Require().NoError(err)
	recomputed, err := f.store.RecomputedBalance(accountID)
	f.Require().NoError(err)
	f.True(acc.Balance.Equal(recomputed), "stored balance %s differs from entries %s", acc.Balance, recomputed)
	return acc.Balance
}

func (f *ledgerFixture) assertBalance(accountID, want string) {
	got := f.balance(accountID)
	f.True(got.Equal(decimal.RequireFromString(want)), "balance: want %s got %s", want, got)
}

func line(accountID string, side domain.EntryType, amount, currency string) dto.LedgerEntryRequest {
	return dto.LedgerEntryRequest{
		AccountID:    accountID,
		EntryType:    side,
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: currency,
	}
}

func journal(t domain.TransactionType, lines ...dto.LedgerEntryRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		TransactionDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		TransactionType: t,
		Description:     "test journal",
		Entries:         lines,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
