package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	org  = "org-1"
	user = "ops"
)

const chartYAML = `accounts:
  - code: "1200"
    name: Receivables
    type: ASSET
  - code: "2000"
    name: Payables
    type: LIABILITY
  - code: "7200"
    name: Unrealized FX gain
    type: REVENUE
  - code: "8200"
    name: Unrealized FX loss
    type: EXPENSE
    description: Period-end revaluation losses
`

func memoryFactory(svc *portssvc.ServiceContainer) serviceFactory {
	return func(context.Context) (*portssvc.ServiceContainer, func(), error) {
		return svc, nil, nil
	}
}

func run(t *testing.T, open serviceFactory, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeChart(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(chartYAML), 0o600))
	return path
}

func accountID(t *testing.T, svc *portssvc.ServiceContainer, code string) string {
	t.Helper()
	acc, err := svc.Account.GetAccountByCode(context.Background(), org, code)
	require.NoError(t, err)
	return acc.AccountID
}

func TestAccountsSeed_IsRepeatable(t *testing.T) {
	store := memory.NewStore()
	svc := services.NewContainer(store.Repositories(), nil)
	open := memoryFactory(svc)
	chart := writeChart(t)

	out, err := run(t, open, "accounts", "seed", "--org", org, "--file", chart, "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "4 created, 0 already present")

	out, err = run(t, open, "accounts", "seed", "--org", org, "--file", chart, "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "0 created, 4 already present")

	acc, err := svc.Account.GetAccountByCode(context.Background(), org, "8200")
	require.NoError(t, err)
	assert.Equal(t, domain.Expense, acc.AccountType)
	assert.Equal(t, "Period-end revaluation losses", acc.Description)
}

func TestParseChart_RejectsUnknownFieldsAndEmpty(t *testing.T) {
	_, err := parseChart(strings.NewReader("accounts:\n  - code: \"1\"\n    colour: red\n"))
	assert.Error(t, err)

	_, err = parseChart(strings.NewReader("accounts: []\n"))
	assert.Error(t, err)
}

func TestRevalue_RefusesSecondRunWithoutForce(t *testing.T) {
	store := memory.NewStore()
	svc := services.NewContainer(store.Repositories(), nil)
	open := memoryFactory(svc)
	ctx := context.Background()

	_, err := run(t, open, "accounts", "seed", "--org", org, "--file", writeChart(t), "--user", user)
	require.NoError(t, err)

	store.PutSettings(domain.LedgerSettings{
		OrganizationID:          org,
		BaseCurrency:            "UGX",
		RealizedGainAccountID:   accountID(t, svc, "7200"),
		RealizedLossAccountID:   accountID(t, svc, "8200"),
		UnrealizedGainAccountID: accountID(t, svc, "7200"),
		UnrealizedLossAccountID: accountID(t, svc, "8200"),
		ReceivableAccountID:     accountID(t, svc, "1200"),
		PayableAccountID:        accountID(t, svc, "2000"),
	})
	issued := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	store.PutDocument(domain.ForeignDocument{
		DocumentID:        "inv-1",
		OrganizationID:    org,
		DocumentType:      domain.InvoiceDocument,
		DocumentNumber:    "INV-1",
		CurrencyCode:      "USD",
		ExchangeRate:      decimal.NewFromInt(3700),
		IssueDate:         issued,
		TotalAmount:       decimal.NewFromInt(1000),
		OutstandingAmount: decimal.NewFromInt(1000),
		Status:            domain.DocumentOpen,
	})
	_, err = svc.ExchangeRate.CreateExchangeRate(ctx, org, dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD", ToCurrencyCode: "UGX", Rate: decimal.NewFromInt(3800),
		DateEffective: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}, user)
	require.NoError(t, err)

	out, err := run(t, open, "fx", "revalue", "--org", org, "--as-of", "2026-06-30", "--user", user)
	require.NoError(t, err)
	assert.Contains(t, out, "Posted FXR-000001 as of 2026-06-30")
	assert.Contains(t, out, "Total gain: 100000.00")

	_, err = run(t, open, "fx", "revalue", "--org", org, "--as-of", "2026-06-30", "--user", user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already posted")

	out, err = run(t, open, "fx", "revalue", "--org", org, "--as-of", "2026-06-30", "--user", user, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "FXR-000002")

	txns, _, err := svc.Ledger.ListTransactions(ctx, org, domain.TransactionFilter{TransactionType: domain.FXRevaluation}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestRevalue_BadDate(t *testing.T) {
	store := memory.NewStore()
	open := memoryFactory(services.NewContainer(store.Repositories(), nil))

	_, err := run(t, open, "fx", "revalue", "--org", org, "--as-of", "30/06/2026", "--user", user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestTaxCommand(t *testing.T) {
	out, err := run(t, nil, "tax", "--amount", "118", "--rate", "0.18", "--inclusive")
	require.NoError(t, err)
	assert.Contains(t, out, "Net:            100.00")
	assert.Contains(t, out, "Tax:            18.00")
	assert.Contains(t, out, "Total:          118.00")

	_, err = run(t, nil, "tax", "--amount", "abc", "--rate", "0.18")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = run(t, nil, "tax", "--amount", " ", "--rate", "0.18")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = run(t, nil, "tax", "--rate", "0.18")
	assert.Error(t, err)
}
