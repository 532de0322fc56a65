package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, organizationID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetRate(ctx context.Context, organizationID, from, to string, effectiveDate time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, from, to, effectiveDate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, organizationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) ListExchangeRates(ctx context.Context, organizationID string, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, organizationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Post(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Reverse(ctx context.Context, transactionID string, reason string, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, organizationID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, organizationID, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

// --- Mock FXService ---
type MockFXService struct {
	mock.Mock
}

func (m *MockFXService) CalculateRealizedFX(ctx context.Context, organizationID string, req dto.RealizedFXRequest) (*domain.FXCalculation, error) {
	args := m.Called(ctx, organizationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FXCalculation), args.Error(1)
}

func (m *MockFXService) RealizedFXEntry(ctx context.Context, calc domain.FXCalculation) (*dto.LedgerEntryRequest, error) {
	args := m.Called(ctx, calc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LedgerEntryRequest), args.Error(1)
}

func (m *MockFXService) RecordRealizedFX(ctx context.Context, organizationID string, req dto.RecordRealizedFXRequest, userID string) (*domain.FXRecord, error) {
	args := m.Called(ctx, organizationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FXRecord), args.Error(1)
}

func (m *MockFXService) CalculateUnrealizedFX(ctx context.Context, organizationID string, asOfDate time.Time) ([]domain.FXCalculation, error) {
	args := m.Called(ctx, organizationID, asOfDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXCalculation), args.Error(1)
}

func (m *MockFXService) RecordUnrealizedFX(ctx context.Context, organizationID string, asOfDate time.Time, userID string) (*domain.RevaluationResult, error) {
	args := m.Called(ctx, organizationID, asOfDate, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevaluationResult), args.Error(1)
}

func (m *MockFXService) ListFXRecords(ctx context.Context, transactionID string) ([]domain.FXRecord, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXRecord), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.AccountSvcFacade      = (*MockAccountService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)
	_ portssvc.LedgerSvcFacade       = (*MockLedgerService)(nil)
	_ portssvc.FXSvcFacade           = (*MockFXService)(nil)
)
