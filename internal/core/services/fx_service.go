package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/money"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fxService computes realized and unrealized foreign exchange gain and loss.
type fxService struct {
	BaseService
	ledger  *ledgerService
	docRepo portsrepo.DocumentReader
	txnRepo portsrepo.TransactionReader
	fxRepo  portsrepo.FXRecordReader
	rates   portssvc.RateResolver
}

// NewFXService creates a new FXService. Revaluations are posted through ledger.
func NewFXService(ledger portssvc.LedgerSvcFacade, docRepo portsrepo.DocumentReader, fxRepo portsrepo.FXRecordReader, rates portssvc.RateResolver, opts ...Option) (portssvc.FXSvcFacade, error) {
	ls, ok := ledger.(*ledgerService)
	if !ok {
		return nil, fmt.Errorf("fx service needs the ledger service from this package, got %T", ledger)
	}
	s := &fxService{
		ledger:  ls,
		docRepo: docRepo,
		txnRepo: ls.txnRepo,
		fxRepo:  fxRepo,
		rates:   rates,
	}
	s.apply(opts)
	return s, nil
}

var _ portssvc.FXSvcFacade = (*fxService)(nil)

// gainLoss is the organization's gain (positive) or loss (negative) when a
// foreign amount booked at transactionBase is worth settlementBase.
// Receivables gain when base value rises, payables lose.
func gainLoss(docType domain.DocumentType, transactionBase, settlementBase decimal.Decimal) decimal.Decimal {
	diff := settlementBase.Sub(transactionBase)
	if docType == domain.BillDocument {
		return diff.Neg()
	}
	return diff
}

func newCalculation(fxType domain.FXType, doc domain.ForeignDocument, baseCurrency string, foreignAmount decimal.Decimal, settlementDate time.Time, settlementRate decimal.Decimal) domain.FXCalculation {
	transactionBase := money.Convert(foreignAmount, doc.ExchangeRate)
	settlementBase := money.Convert(foreignAmount, settlementRate)
	return domain.FXCalculation{
		OrganizationID:        doc.OrganizationID,
		FXType:                fxType,
		DocumentType:          doc.DocumentType,
		DocumentID:            doc.DocumentID,
		DocumentNumber:        doc.DocumentNumber,
		BaseCurrency:          baseCurrency,
		ForeignCurrency:       doc.CurrencyCode,
		ForeignAmount:         foreignAmount,
		TransactionDate:       doc.IssueDate,
		TransactionRate:       doc.ExchangeRate,
		TransactionBaseAmount: transactionBase,
		SettlementDate:        settlementDate,
		SettlementRate:        settlementRate,
		SettlementBaseAmount:  settlementBase,
		GainLossAmount:        gainLoss(doc.DocumentType, transactionBase, settlementBase),
	}
}

// CalculateRealizedFX computes the gain or loss locked in by a payment against an invoice or bill.
func (s *fxService) CalculateRealizedFX(ctx context.Context, organizationID string, req dto.RealizedFXRequest) (*domain.FXCalculation, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.PaymentAmount.IsPositive() {
		return nil, apperrors.NewFieldValidationError("paymentAmount", "payment amount must be positive")
	}
	if req.PaymentRate != nil && !req.PaymentRate.IsPositive() {
		return nil, apperrors.NewFieldValidationError("paymentRate", "payment rate must be positive")
	}

	settings, err := s.ledger.loadSettings(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.FindDocument(ctx, organizationID, req.DocumentType, req.DocumentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load document", slog.String("document_id", req.DocumentID))
		}
		return nil, err
	}
	if doc.CurrencyCode == settings.BaseCurrency {
		return nil, apperrors.NewFieldValidationError("documentID", fmt.Sprintf("%s %s is in the base currency %s", doc.DocumentType, doc.DocumentNumber, settings.BaseCurrency))
	}
	if req.PaymentAmount.GreaterThan(doc.OutstandingAmount) {
		return nil, apperrors.NewFieldValidationError("paymentAmount", fmt.Sprintf("payment %s exceeds outstanding %s %s", req.PaymentAmount, doc.OutstandingAmount, doc.CurrencyCode))
	}

	paymentDate := domain.DateOnly(req.PaymentDate)
	var rate decimal.Decimal
	if req.PaymentRate != nil {
		rate = *req.PaymentRate
	} else {
		rate, err = s.rates.GetRate(ctx, organizationID, doc.CurrencyCode, settings.BaseCurrency, paymentDate)
		if err != nil {
			s.logFailure(ctx, err, "No settlement rate for payment", slog.String("document_id", doc.DocumentID))
			return nil, err
		}
	}

	calc := newCalculation(domain.Realized, *doc, settings.BaseCurrency, req.PaymentAmount, paymentDate, rate)
	s.GetLogger(ctx).Debug("Realized FX calculated",
		slog.String("document_id", doc.DocumentID),
		slog.String("gain_loss", calc.GainLossAmount.String()))
	return &calc, nil
}

// RealizedFXEntry returns the line the caller adds to its payment transaction, or nil when there is nothing to post.
func (s *fxService) RealizedFXEntry(ctx context.Context, calc domain.FXCalculation) (*dto.LedgerEntryRequest, error) {
	if calc.GainLossAmount.IsZero() {
		return nil, nil
	}
	settings, err := s.ledger.loadSettings(ctx, calc.OrganizationID)
	if err != nil {
		return nil, err
	}
	accountID, entryType, err := realizedAccount(settings, calc)
	if err != nil {
		return nil, err
	}
	one := decimal.NewFromInt(1)
	return &dto.LedgerEntryRequest{
		AccountID:    accountID,
		EntryType:    entryType,
		Amount:       calc.GainLossAmount.Abs(),
		CurrencyCode: settings.BaseCurrency,
		ExchangeRate: &one,
		Description:  fmt.Sprintf("Realized FX %s on %s %s", gainOrLoss(calc), calc.DocumentType, calc.DocumentNumber),
	}, nil
}

func realizedAccount(settings *domain.LedgerSettings, calc domain.FXCalculation) (string, domain.EntryType, error) {
	if calc.IsGain() {
		if settings.RealizedGainAccountID == "" {
			return "", "", apperrors.NewValidationError("no realized FX gain account configured")
		}
		return settings.RealizedGainAccountID, domain.Credit, nil
	}
	if settings.RealizedLossAccountID == "" {
		return "", "", apperrors.NewValidationError("no realized FX loss account configured")
	}
	return settings.RealizedLossAccountID, domain.Debit, nil
}

func gainOrLoss(calc domain.FXCalculation) string {
	if calc.IsGain() {
		return "gain"
	}
	return "loss"
}

// RecordRealizedFX recomputes the payment's realized FX and stores its audit record.
func (s *fxService) RecordRealizedFX(ctx context.Context, organizationID string, req dto.RecordRealizedFXRequest, userID string) (*domain.FXRecord, error) {
	calc, err := s.CalculateRealizedFX(ctx, organizationID, req.RealizedFXRequest)
	if err != nil {
		return nil, err
	}
	if req.TransactionID != "" {
		txn, err := s.txnRepo.FindTransactionByID(ctx, req.TransactionID)
		if err != nil {
			return nil, err
		}
		if txn.OrganizationID != organizationID {
			return nil, apperrors.NewNotFoundError("transaction", req.TransactionID)
		}
	}

	record := domain.FXRecord{
		FXID:          uuid.NewString(),
		FXCalculation: *calc,
		PaymentID:     req.PaymentID,
		TransactionID: req.TransactionID,
		CreatedAt:     s.now(),
		CreatedBy:     userID,
	}
	if !calc.GainLossAmount.IsZero() {
		settings, err := s.ledger.loadSettings(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		if record.GLAccountID, _, err = realizedAccount(settings, *calc); err != nil {
			return nil, err
		}
	}

	err = s.ledger.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.FXRecords.SaveFXRecords(ctx, []domain.FXRecord{record})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save realized FX record", slog.String("document_id", calc.DocumentID))
		return nil, fmt.Errorf("failed to save realized FX record: %w", err)
	}

	s.metrics.FXRecorded(string(domain.Realized), 1)
	s.GetLogger(ctx).Info("Realized FX recorded",
		slog.String("organization_id", organizationID),
		slog.String("fx_id", record.FXID),
		slog.String("document_id", calc.DocumentID),
		slog.String("gain_loss", calc.GainLossAmount.StringFixed(money.DefaultPlaces)))
	return &record, nil
}

// CalculateUnrealizedFX revalues the open balance of every foreign invoice and bill at the asOf rate.
func (s *fxService) CalculateUnrealizedFX(ctx context.Context, organizationID string, asOfDate time.Time) ([]domain.FXCalculation, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	settings, err := s.ledger.loadSettings(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return s.revalue(ctx, settings, domain.DateOnly(asOfDate))
}

func (s *fxService) revalue(ctx context.Context, settings *domain.LedgerSettings, asOf time.Time) ([]domain.FXCalculation, error) {
	docs, err := s.docRepo.ListOpenForeignDocuments(ctx, settings.OrganizationID, settings.BaseCurrency, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open foreign documents", slog.String("organization_id", settings.OrganizationID))
		return nil, fmt.Errorf("failed to list open foreign documents: %w", err)
	}

	// One lookup per currency; every document in it is revalued at the same rate.
	rates := make(map[string]decimal.Decimal)
	calcs := make([]domain.FXCalculation, 0, len(docs))
	for _, doc := range docs {
		rate, ok := rates[doc.CurrencyCode]
		if !ok {
			rate, err = s.rates.GetRate(ctx, settings.OrganizationID, doc.CurrencyCode, settings.BaseCurrency, asOf)
			if err != nil {
				s.logFailure(ctx, err, "Revaluation aborted", slog.String("currency", doc.CurrencyCode))
				return nil, err
			}
			rates[doc.CurrencyCode] = rate
		}
		calcs = append(calcs, newCalculation(domain.Unrealized, doc, settings.BaseCurrency, doc.OutstandingAmount, asOf, rate))
	}
	return calcs, nil
}

// RecordUnrealizedFX posts one FX_REVALUATION transaction for every non-zero delta as of asOfDate.
func (s *fxService) RecordUnrealizedFX(ctx context.Context, organizationID string, asOfDate time.Time, userID string) (*domain.RevaluationResult, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	settings, err := s.ledger.loadSettings(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	asOf := domain.DateOnly(asOfDate)
	calcs, err := s.revalue(ctx, settings, asOf)
	if err != nil {
		return nil, err
	}

	result := &domain.RevaluationResult{
		AsOfDate:  asOf,
		TotalGain: decimal.Zero,
		TotalLoss: decimal.Zero,
		Records:   []domain.FXRecord{},
	}
	receivable, payable := decimal.Zero, decimal.Zero
	var moved []domain.FXCalculation
	for _, c := range calcs {
		if c.GainLossAmount.IsZero() {
			continue
		}
		moved = append(moved, c)
		if c.IsGain() {
			result.TotalGain = result.TotalGain.Add(c.GainLossAmount)
		} else {
			result.TotalLoss = result.TotalLoss.Add(c.GainLossAmount.Abs())
		}
		// A gain raises a receivable's base value and lowers a payable's.
		if c.DocumentType == domain.InvoiceDocument {
			receivable = receivable.Add(c.GainLossAmount)
		} else {
			payable = payable.Add(c.GainLossAmount)
		}
	}
	if len(moved) == 0 {
		s.GetLogger(ctx).Info("Revaluation found nothing to post",
			slog.String("organization_id", organizationID),
			slog.String("as_of", asOf.Format("2006-01-02")))
		s.metrics.RevaluationRun()
		return result, nil
	}

	req, err := revaluationRequest(settings, asOf, result.TotalGain, result.TotalLoss, receivable, payable)
	if err != nil {
		return nil, err
	}
	txn, err := s.ledger.buildTransaction(ctx, organizationID, req, userID, settings)
	if err != nil {
		return nil, err
	}

	now := s.now()
	records := make([]domain.FXRecord, len(moved))
	for i, c := range moved {
		glAccount := settings.UnrealizedLossAccountID
		if c.IsGain() {
			glAccount = settings.UnrealizedGainAccountID
		}
		records[i] = domain.FXRecord{
			FXID:          uuid.NewString(),
			FXCalculation: c,
			GLAccountID:   glAccount,
			TransactionID: txn.TransactionID,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
	}

	var posted *domain.Transaction
	err = s.ledger.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := s.ledger.insertDraft(ctx, repos, txn); err != nil {
			return err
		}
		p, err := s.ledger.postInTx(ctx, repos, txn.TransactionID, userID)
		if err != nil {
			return err
		}
		posted = p
		return repos.FXRecords.SaveFXRecords(ctx, records)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to record revaluation", slog.String("organization_id", organizationID))
		return nil, err
	}

	result.TransactionID = posted.TransactionID
	result.Records = records
	s.metrics.TransactionCreated(string(domain.FXRevaluation))
	s.metrics.TransactionPosted(string(domain.FXRevaluation))
	s.metrics.FXRecorded(string(domain.Unrealized), len(records))
	s.metrics.RevaluationRun()
	s.GetLogger(ctx).Info("Revaluation posted",
		slog.String("organization_id", organizationID),
		slog.String("transaction_id", posted.TransactionID),
		slog.Int64("transaction_number", posted.TransactionNumber),
		slog.String("total_gain", result.TotalGain.StringFixed(money.DefaultPlaces)),
		slog.String("total_loss", result.TotalLoss.StringFixed(money.DefaultPlaces)),
		slog.Int("records", len(records)))
	return result, nil
}

// revaluationRequest lays out the aggregate revaluation journal, all in base currency.
func revaluationRequest(settings *domain.LedgerSettings, asOf time.Time, gain, loss, receivable, payable decimal.Decimal) (dto.CreateTransactionRequest, error) {
	one := decimal.NewFromInt(1)
	req := dto.CreateTransactionRequest{
		TransactionDate: asOf,
		TransactionType: domain.FXRevaluation,
		Description:     fmt.Sprintf("Unrealized FX revaluation as of %s", asOf.Format("2006-01-02")),
	}
	add := func(accountID string, side domain.EntryType, amount decimal.Decimal, what string) error {
		if amount.IsZero() {
			return nil
		}
		if accountID == "" {
			return apperrors.NewValidationError(fmt.Sprintf("no %s account configured", what))
		}
		req.Entries = append(req.Entries, dto.LedgerEntryRequest{
			AccountID:    accountID,
			EntryType:    side,
			Amount:       amount,
			CurrencyCode: settings.BaseCurrency,
			ExchangeRate: &one,
			Description:  what,
		})
		return nil
	}

	arSide, apSide := domain.Debit, domain.Debit
	if receivable.IsNegative() {
		arSide = domain.Credit
	}
	if payable.IsNegative() {
		apSide = domain.Credit
	}
	for _, err := range []error{
		add(settings.UnrealizedGainAccountID, domain.Credit, gain, "unrealized FX gain"),
		add(settings.UnrealizedLossAccountID, domain.Debit, loss, "unrealized FX loss"),
		add(settings.ReceivableAccountID, arSide, receivable.Abs(), "accounts receivable revaluation"),
		add(settings.PayableAccountID, apSide, payable.Abs(), "accounts payable revaluation"),
	} {
		if err != nil {
			return req, err
		}
	}
	return req, nil
}

// ListFXRecords returns the FX records linked to a transaction.
func (s *fxService) ListFXRecords(ctx context.Context, transactionID string) ([]domain.FXRecord, error) {
	records, err := s.fxRepo.FindFXRecordsByTransactionID(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list FX records", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to list FX records: %w", err)
	}
	if records == nil {
		return []domain.FXRecord{}, nil
	}
	return records, nil
}
