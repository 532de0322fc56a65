package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/tax"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "ledger-test"
	testUserID = "user-1"
	testOrgID  = "org-1"
)

// HandlerTestSuite drives the full router with mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	accounts     *MockAccountService
	rates        *MockExchangeRateService
	ledger       *MockLedgerService
	fx           *MockFXService
	recorder     *metrics.Recorder
	bearerHeader string
}

func signToken(t *testing.T, secret, issuer, subject string, expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.accounts = new(MockAccountService)
	s.rates = new(MockExchangeRateService)
	s.ledger = new(MockLedgerService)
	s.fx = new(MockFXService)
	s.recorder = metrics.NewRecorder()

	s.router = gin.New()
	handlers.RegisterRoutes(s.router,
		&config.Config{JWTSecret: testSecret, JWTIssuer: testIssuer},
		&portssvc.ServiceContainer{Account: s.accounts, ExchangeRate: s.rates, Ledger: s.ledger, FX: s.fx},
		s.recorder,
		nil,
	)
	s.bearerHeader = "Bearer " + signToken(s.T(), testSecret, testIssuer, testUserID, time.Hour)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.accounts.AssertExpectations(s.T())
	s.rates.AssertExpectations(s.T())
	s.ledger.AssertExpectations(s.T())
	s.fx.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.bearerHeader)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func sampleTransaction(status domain.TransactionStatus) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:     "txn-1",
		OrganizationID:    testOrgID,
		TransactionNumber: 7,
		TransactionDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		TransactionType:   domain.JournalEntry,
		Status:            status,
		Description:       "Opening balance",
		BaseCurrency:      "UGX",
		Entries: []domain.LedgerEntry{
			{EntryID: "e-1", AccountID: "cash", EntryType: domain.Debit, Amount: decimal.NewFromInt(500), CurrencyCode: "UGX", ExchangeRate: decimal.NewFromInt(1), AmountInBase: decimal.NewFromInt(500), LineNumber: 1},
			{EntryID: "e-2", AccountID: "equity", EntryType: domain.Credit, Amount: decimal.NewFromInt(500), CurrencyCode: "UGX", ExchangeRate: decimal.NewFromInt(1), AmountInBase: decimal.NewFromInt(500), LineNumber: 2},
		},
	}
}

// --- Public routes and auth ---

func (s *HandlerTestSuite) TestHealthAndMetricsArePublic() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "go_goroutines")
}

func (s *HandlerTestSuite) TestMissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations/org-1/accounts", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Authorization header required", s.errorBody(w))
}

func (s *HandlerTestSuite) TestExpiredToken() {
	s.bearerHeader = "Bearer " + signToken(s.T(), testSecret, testIssuer, testUserID, -time.Minute)
	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/accounts", nil)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Token has expired", s.errorBody(w))
}

func (s *HandlerTestSuite) TestWrongIssuerAndSecret() {
	s.bearerHeader = "Bearer " + signToken(s.T(), testSecret, "someone-else", testUserID, time.Hour)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/accounts/a-1", nil).Code)

	s.bearerHeader = "Bearer " + signToken(s.T(), "another-secret", testIssuer, testUserID, time.Hour)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/accounts/a-1", nil).Code)
}

// --- Accounts ---

func (s *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "UGX"}
	s.accounts.On("CreateAccount", mock.Anything, testOrgID, req, testUserID).
		Return(&domain.Account{AccountID: "a-1", OrganizationID: testOrgID, Code: "1000", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "UGX", IsActive: true}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/accounts", req)

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("a-1", resp.AccountID)
	s.Equal("1000", resp.Code)
}

func (s *HandlerTestSuite) TestCreateAccount_Duplicate() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}
	s.accounts.On("CreateAccount", mock.Anything, testOrgID, req, testUserID).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "account code 1000 already exists", apperrors.ErrDuplicate)).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/accounts", req)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestCreateAccount_InvalidBody() {
	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/accounts", map[string]string{"code": "1000", "accountType": "STUFF"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorBody(w), "Invalid request format")
	s.accounts.AssertNotCalled(s.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestGetAccount_NotFound() {
	s.accounts.On("GetAccountByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("account", "missing")).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestGetAccountByCode() {
	s.accounts.On("GetAccountByCode", mock.Anything, testOrgID, "4000").
		Return(&domain.Account{AccountID: "a-4", Code: "4000", AccountType: domain.Revenue}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/accounts/by-code/4000", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestListAccounts_DefaultPaging() {
	s.accounts.On("ListAccounts", mock.Anything, testOrgID, 50, 0).
		Return([]domain.Account{{AccountID: "a-1"}, {AccountID: "a-2"}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/accounts", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Accounts, 2)
}

func (s *HandlerTestSuite) TestDeactivateAccount() {
	s.accounts.On("DeactivateAccount", mock.Anything, "a-1", testUserID).Return(nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/accounts/a-1", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

// --- Transactions ---

func (s *HandlerTestSuite) TestCreateTransaction_Success() {
	draft := sampleTransaction(domain.Draft)
	s.ledger.On("CreateTransaction", mock.Anything, testOrgID, mock.MatchedBy(func(r dto.CreateTransactionRequest) bool {
		return r.TransactionType == domain.JournalEntry && len(r.Entries) == 2 && r.Entries[0].Amount.Equal(decimal.NewFromInt(500))
	}), testUserID).Return(draft, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/transactions", map[string]any{
		"transactionDate": "2026-06-30T00:00:00Z",
		"transactionType": "JOURNAL_ENTRY",
		"description":     "Opening balance",
		"entries": []map[string]any{
			{"accountID": "cash", "entryType": "DEBIT", "amount": "500", "currencyCode": "UGX"},
			{"accountID": "equity", "entryType": "CREDIT", "amount": "500", "currencyCode": "UGX"},
		},
	})

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("JE-000007", resp.Reference)
	s.Equal(domain.Draft, resp.Status)
	s.True(resp.TotalDebits.Equal(resp.TotalCredits))
	s.Len(resp.Entries, 2)
}

func (s *HandlerTestSuite) TestCreateTransaction_Unbalanced() {
	s.ledger.On("CreateTransaction", mock.Anything, testOrgID, mock.Anything, testUserID).
		Return(nil, &apperrors.UnbalancedTransactionError{Debits: decimal.NewFromInt(500), Credits: decimal.NewFromInt(400)}).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/transactions", map[string]any{
		"transactionDate": "2026-06-30T00:00:00Z",
		"transactionType": "JOURNAL_ENTRY",
		"description":     "Lopsided",
		"entries": []map[string]any{
			{"accountID": "cash", "entryType": "DEBIT", "amount": "500", "currencyCode": "UGX"},
			{"accountID": "equity", "entryType": "CREDIT", "amount": "400", "currencyCode": "UGX"},
		},
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorBody(w), "unbalanced")
}

func (s *HandlerTestSuite) TestCreateTransaction_RejectsNoEntries() {
	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/transactions", map[string]any{
		"transactionDate": "2026-06-30T00:00:00Z",
		"transactionType": "JOURNAL_ENTRY",
		"description":     "Empty",
		"entries":         []map[string]any{},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestPostTransaction() {
	s.ledger.On("Post", mock.Anything, "txn-1", testUserID).Return(sampleTransaction(domain.Posted), nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions/txn-1/post", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.TransactionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(domain.Posted, resp.Status)
}

func (s *HandlerTestSuite) TestPostTransaction_AlreadyPosted() {
	s.ledger.On("Post", mock.Anything, "txn-1", testUserID).
		Return(nil, &apperrors.AlreadyPostedError{TransactionID: "txn-1", Status: "POSTED"}).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions/txn-1/post", nil)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestReverseTransaction() {
	reversal := sampleTransaction(domain.Posted)
	reversal.TransactionID = "txn-2"
	original := "txn-1"
	reversal.ReversesTransactionID = &original
	s.ledger.On("Reverse", mock.Anything, "txn-1", "Duplicate entry", testUserID).Return(reversal, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions/txn-1/reverse", dto.ReverseTransactionRequest{Reason: "Duplicate entry"})

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("txn-2", resp.TransactionID)
	s.Require().NotNil(resp.ReversesTransactionID)
	s.Equal("txn-1", *resp.ReversesTransactionID)
}

func (s *HandlerTestSuite) TestReverseTransaction_RequiresReason() {
	w := s.do(http.MethodPost, "/api/v1/transactions/txn-1/reverse", map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestListTransactions_Filters() {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	next := "next-page"
	s.ledger.On("ListTransactions", mock.Anything, testOrgID, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.TransactionType == domain.Invoice && f.Status == domain.Posted &&
			f.FromDate != nil && f.FromDate.Equal(from) && f.ToDate == nil
	}), 5, (*string)(nil)).Return([]domain.Transaction{*sampleTransaction(domain.Posted)}, &next, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/transactions?limit=5&type=INVOICE&status=POSTED&from=2026-06-01", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Transactions, 1)
	s.Require().NotNil(resp.NextToken)
	s.Equal(next, *resp.NextToken)
}

func (s *HandlerTestSuite) TestListTransactions_BadDate() {
	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/transactions?from=June", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetTransaction_InternalErrorIsMasked() {
	s.ledger.On("GetTransaction", mock.Anything, "txn-1").Return(nil, errors.New("pq: connection refused")).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions/txn-1", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to retrieve transaction", s.errorBody(w))
}

func (s *HandlerTestSuite) TestListFXRecords_EmptyIsArray() {
	s.fx.On("ListFXRecords", mock.Anything, "txn-1").Return(nil, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions/txn-1/fx-records", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq("[]", w.Body.String())
}

// --- Exchange rates ---

func (s *HandlerTestSuite) TestResolveRate() {
	date := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	s.rates.On("GetRate", mock.Anything, testOrgID, "USD", "UGX", date).Return(decimal.RequireFromString("3700.5"), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/exchange-rates/resolve?from=USD&to=UGX&date=2026-06-30", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ResolveRateResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.True(resp.Rate.Equal(decimal.RequireFromString("3700.5")))
}

func (s *HandlerTestSuite) TestResolveRate_Missing() {
	date := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	s.rates.On("GetRate", mock.Anything, testOrgID, "EUR", "UGX", date).
		Return(decimal.Zero, &apperrors.MissingRateError{From: "EUR", To: "UGX", Date: date}).Once()

	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/exchange-rates/resolve?from=EUR&to=UGX&date=2026-06-30", nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestCreateExchangeRate() {
	s.rates.On("CreateExchangeRate", mock.Anything, testOrgID, mock.MatchedBy(func(r dto.CreateExchangeRateRequest) bool {
		return r.FromCurrencyCode == "USD" && r.Rate.Equal(decimal.NewFromInt(3700))
	}), testUserID).Return(&domain.ExchangeRate{ExchangeRateID: "r-1", FromCurrencyCode: "USD", ToCurrencyCode: "UGX", Rate: decimal.NewFromInt(3700)}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/exchange-rates", map[string]any{
		"fromCurrencyCode": "USD",
		"toCurrencyCode":   "UGX",
		"rate":             "3700",
		"dateEffective":    "2026-06-30T00:00:00Z",
	})
	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlerTestSuite) TestListExchangeRates_AsOf() {
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	s.rates.On("ListExchangeRates", mock.Anything, testOrgID, mock.MatchedBy(func(f domain.ExchangeRateFilter) bool {
		return f.FromCurrencyCode == "USD" && f.AsOf != nil && f.AsOf.Equal(asOf)
	})).Return([]domain.ExchangeRate{}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/exchange-rates?from=USD&asOf=2026-06-30", nil)
	s.Equal(http.StatusOK, w.Code)
}

// --- FX ---

func (s *HandlerTestSuite) TestCalculateRealizedFX() {
	calc := &domain.FXCalculation{
		FXType:         domain.Realized,
		DocumentType:   domain.InvoiceDocument,
		DocumentID:     "inv-1",
		GainLossAmount: decimal.NewFromInt(10000),
	}
	entry := &dto.LedgerEntryRequest{AccountID: "fx-gain", EntryType: domain.Credit, Amount: decimal.NewFromInt(10000), CurrencyCode: "UGX"}
	s.fx.On("CalculateRealizedFX", mock.Anything, testOrgID, mock.MatchedBy(func(r dto.RealizedFXRequest) bool {
		return r.DocumentID == "inv-1" && r.PaymentRate == nil
	})).Return(calc, nil).Once()
	s.fx.On("RealizedFXEntry", mock.Anything, *calc).Return(entry, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/fx/realized/calculate", map[string]any{
		"documentType":  "INVOICE",
		"documentID":    "inv-1",
		"paymentAmount": "100",
		"paymentDate":   "2026-07-15T00:00:00Z",
	})

	s.Equal(http.StatusOK, w.Code)
	var resp dto.RealizedFXResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().NotNil(resp.Entry)
	s.Equal("fx-gain", resp.Entry.AccountID)
	s.True(resp.Calculation.IsGain())
}

func (s *HandlerTestSuite) TestRecordRealizedFX() {
	s.fx.On("RecordRealizedFX", mock.Anything, testOrgID, mock.MatchedBy(func(r dto.RecordRealizedFXRequest) bool {
		return r.PaymentID == "pay-1" && r.TransactionID == "txn-9" && r.DocumentType == domain.BillDocument
	}), testUserID).Return(&domain.FXRecord{FXID: "fx-1"}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/fx/realized/record", map[string]any{
		"documentType":  "BILL",
		"documentID":    "bill-1",
		"paymentAmount": "100",
		"paymentDate":   "2026-07-15T00:00:00Z",
		"paymentID":     "pay-1",
		"transactionID": "txn-9",
	})
	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlerTestSuite) TestPreviewUnrealizedFX() {
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	s.fx.On("CalculateUnrealizedFX", mock.Anything, testOrgID, asOf).Return(nil, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/organizations/org-1/fx/unrealized?asOf=2026-06-30", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq("[]", w.Body.String())
}

func (s *HandlerTestSuite) TestRecordUnrealizedFX() {
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	s.fx.On("RecordUnrealizedFX", mock.Anything, testOrgID, mock.MatchedBy(func(d time.Time) bool { return d.Equal(asOf) }), testUserID).
		Return(&domain.RevaluationResult{TransactionID: "txn-fxr", AsOfDate: asOf, TotalGain: decimal.NewFromInt(5), TotalLoss: decimal.Zero}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/fx/unrealized/record", map[string]any{"asOfDate": "2026-06-30T00:00:00Z"})
	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlerTestSuite) TestRecordUnrealizedFX_NothingToPost() {
	s.fx.On("RecordUnrealizedFX", mock.Anything, testOrgID, mock.Anything, testUserID).
		Return(&domain.RevaluationResult{TotalGain: decimal.Zero, TotalLoss: decimal.Zero}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/organizations/org-1/fx/unrealized/record", map[string]any{"asOfDate": "2026-06-30T00:00:00Z"})
	s.Equal(http.StatusOK, w.Code)
}

// --- Tax ---

func (s *HandlerTestSuite) TestCalculateTax() {
	w := s.do(http.MethodPost, "/api/v1/tax/calculate", map[string]any{"amount": "118", "rate": "0.18", "isInclusive": true})

	s.Equal(http.StatusOK, w.Code)
	var result tax.Result
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	s.True(result.Net.Equal(decimal.NewFromInt(100)), result.Net.String())
	s.True(result.Tax.Equal(decimal.NewFromInt(18)), result.Tax.String())
	s.True(result.Total.Equal(decimal.NewFromInt(118)), result.Total.String())
}

func (s *HandlerTestSuite) TestCalculateTax_NegativeAmount() {
	w := s.do(http.MethodPost, "/api/v1/tax/calculate", map[string]any{"amount": "-1", "rate": "0.18"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestToggleTax() {
	w := s.do(http.MethodPost, "/api/v1/tax/toggle", map[string]any{"total": "118", "rate": "0.18", "targetMode": "EXCLUSIVE"})

	s.Equal(http.StatusOK, w.Code)
	var result tax.Result
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	s.True(result.Total.Equal(decimal.NewFromInt(118)))
	s.True(result.Net.Add(result.Tax).Equal(result.Total))
}

func (s *HandlerTestSuite) TestLineItem() {
	w := s.do(http.MethodPost, "/api/v1/tax/line-item", map[string]any{
		"quantity": "2", "unitPrice": "50", "rate": "0.18", "isInclusive": false, "discount": "0",
	})

	s.Equal(http.StatusOK, w.Code)
	var line tax.LineBreakdown
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &line))
	s.True(line.Total.Equal(decimal.NewFromInt(118)), line.Total.String())
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func TestRateLimitedGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim, err := middleware.NewRateLimiter("1-M")
	require.NoError(t, err)

	r := gin.New()
	handlers.RegisterRoutes(r, &config.Config{JWTSecret: testSecret, JWTIssuer: testIssuer}, &portssvc.ServiceContainer{}, nil, lim)
	token := signToken(t, testSecret, testIssuer, testUserID, time.Hour)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tax/calculate", bytes.NewBufferString(`{"amount":"100","rate":"0"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, send())
	require.Equal(t, http.StatusTooManyRequests, send())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
