package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/money"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService creates, posts and reverses balanced transactions.
type ledgerService struct {
	BaseService
	uow          portsrepo.UnitOfWork
	txnRepo      portsrepo.TransactionReader
	settingsRepo portsrepo.SettingsReader
	rates        portssvc.RateResolver
	notifier     ports.FiscalNotifier
}

// NewLedgerService creates a new LedgerService. A nil notifier disables fiscal notifications.
func NewLedgerService(
	uow portsrepo.UnitOfWork,
	txnRepo portsrepo.TransactionReader,
	settingsRepo portsrepo.SettingsReader,
	rates portssvc.RateResolver,
	notifier ports.FiscalNotifier,
	opts ...Option,
) portssvc.LedgerSvcFacade {
	return newLedgerService(uow, txnRepo, settingsRepo, rates, notifier, opts...)
}

func newLedgerService(
	uow portsrepo.UnitOfWork,
	txnRepo portsrepo.TransactionReader,
	settingsRepo portsrepo.SettingsReader,
	rates portssvc.RateResolver,
	notifier ports.FiscalNotifier,
	opts ...Option,
) *ledgerService {
	if notifier == nil {
		notifier = ports.NoopNotifier{}
	}
	s := &ledgerService{
		uow:          uow,
		txnRepo:      txnRepo,
		settingsRepo: settingsRepo,
		rates:        rates,
		notifier:     notifier,
	}
	s.apply(opts)
	return s
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// loadSettings returns the organization's ledger settings. Missing settings are a client error.
func (s *ledgerService) loadSettings(ctx context.Context, organizationID string) (*domain.LedgerSettings, error) {
	settings, err := s.settingsRepo.FindLedgerSettings(ctx, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewFieldValidationError("organizationID", fmt.Sprintf("organization %s has no ledger settings", organizationID))
		}
		return nil, fmt.Errorf("failed to load ledger settings: %w", err)
	}
	if settings.BaseCurrency == "" {
		return nil, apperrors.NewFieldValidationError("organizationID", fmt.Sprintf("organization %s has no base currency", organizationID))
	}
	return settings, nil
}

// buildTransaction turns a request into a balanced DRAFT with rates resolved and base amounts derived.
// Nothing is persisted.
func (s *ledgerService) buildTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string, settings *domain.LedgerSettings) (*domain.Transaction, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.NewFieldValidationError("description", "description is required")
	}
	if !req.TransactionType.IsValid() {
		return nil, apperrors.NewFieldValidationError("transactionType", fmt.Sprintf("unknown transaction type %q", req.TransactionType))
	}

	now := s.now()
	txnDate := domain.DateOnly(req.TransactionDate)
	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		OrganizationID:  organizationID,
		TransactionDate: txnDate,
		TransactionType: req.TransactionType,
		Status:          domain.Draft,
		Description:     req.Description,
		BaseCurrency:    settings.BaseCurrency,
		Entries:         make([]domain.LedgerEntry, 0, len(req.Entries)),
		AuditFields:     domain.NewAuditFields(userID, now),
	}

	for i, line := range req.Entries {
		field := fmt.Sprintf("entries[%d]", i)
		if !line.Amount.IsPositive() {
			return nil, apperrors.NewFieldValidationError(field+".amount", "amount must be positive")
		}
		if !line.EntryType.IsValid() {
			return nil, apperrors.NewFieldValidationError(field+".entryType", fmt.Sprintf("unknown entry type %q", line.EntryType))
		}
		currency, err := money.NormalizeCurrency(line.CurrencyCode)
		if err != nil {
			return nil, apperrors.NewFieldValidationError(field+".currencyCode", err.Error())
		}

		var rate decimal.Decimal
		switch {
		case line.ExchangeRate != nil:
			if !line.ExchangeRate.IsPositive() {
				return nil, apperrors.NewFieldValidationError(field+".exchangeRate", "exchange rate must be positive")
			}
			rate = *line.ExchangeRate
		case currency == settings.BaseCurrency:
			rate = decimal.NewFromInt(1)
		default:
			rate, err = s.rates.GetRate(ctx, organizationID, currency, settings.BaseCurrency, txnDate)
			if err != nil {
				return nil, err
			}
		}

		txn.Entries = append(txn.Entries, domain.NewLedgerEntry(
			uuid.NewString(), txn.TransactionID, line.AccountID, line.EntryType,
			line.Amount, currency, rate, line.Description, i+1,
		))
	}

	debits, credits := domain.EntryTotals(txn.Entries)
	if !debits.Equal(credits) {
		return nil, &apperrors.UnbalancedTransactionError{Debits: debits, Credits: credits}
	}
	return txn, nil
}

// insertDraft checks the referenced accounts, numbers the transaction and stores it.
func (s *ledgerService) insertDraft(ctx context.Context, repos portsrepo.TxRepositories, txn *domain.Transaction) error {
	ids := entryAccountIDs(txn.Entries)
	accounts, err := repos.Accounts.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for i, e := range txn.Entries {
		field := fmt.Sprintf("entries[%d].accountID", i)
		acc, ok := accounts[e.AccountID]
		if !ok || acc.OrganizationID != txn.OrganizationID {
			return apperrors.NewFieldValidationError(field, fmt.Sprintf("account %s not found", e.AccountID))
		}
		if !acc.IsActive {
			return apperrors.NewFieldValidationError(field, fmt.Sprintf("account %s is inactive", e.AccountID))
		}
		if !acc.AcceptsCurrency(e.CurrencyCode) {
			return apperrors.NewFieldValidationError(field, fmt.Sprintf("account %s only accepts %s, entry is in %s", acc.Code, acc.CurrencyCode, e.CurrencyCode))
		}
	}

	number, err := repos.Sequences.NextTransactionNumber(ctx, txn.OrganizationID, txn.TransactionType)
	if err != nil {
		return fmt.Errorf("failed to allocate transaction number: %w", err)
	}
	txn.TransactionNumber = number

	if err := repos.Transactions.SaveTransaction(ctx, *txn); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// postInTx moves a locked DRAFT to POSTED and applies it to balances.
func (s *ledgerService) postInTx(ctx context.Context, repos portsrepo.TxRepositories, transactionID string, userID string) (*domain.Transaction, error) {
	txn, err := repos.Transactions.FindTransactionByIDForUpdate(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.Draft {
		return nil, &apperrors.AlreadyPostedError{TransactionID: transactionID, Status: string(txn.Status)}
	}
	if !txn.IsBalanced() {
		debits, credits := domain.EntryTotals(txn.Entries)
		return nil, &apperrors.UnbalancedTransactionError{Debits: debits, Credits: credits}
	}

	now := s.now()
	if err := s.applyBalances(ctx, repos, txn.Entries, userID); err != nil {
		return nil, err
	}

	txn.Status = domain.Posted
	txn.ApprovedByID = &userID
	txn.ApprovedAt = &now
	txn.Touch(userID, now)
	if err := repos.Transactions.UpdateTransactionHeader(ctx, *txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction header: %w", err)
	}
	return txn, nil
}

// applyBalances locks the accounts touched by entries in id order and adds their signed deltas.
func (s *ledgerService) applyBalances(ctx context.Context, repos portsrepo.TxRepositories, entries []domain.LedgerEntry, userID string) error {
	ids := entryAccountIDs(entries)
	accounts, err := repos.Accounts.FindAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	changes, err := accounting.BalanceChanges(entries, accounts)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	if err := repos.Accounts.UpdateAccountBalances(ctx, changes, userID, s.now()); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

// CreateTransaction validates and stores a balanced DRAFT transaction.
func (s *ledgerService) CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx).With(slog.String("organization_id", organizationID))

	txn, err := s.prepare(ctx, organizationID, req, userID)
	if err != nil {
		s.metrics.Rejected(rejectionReason(err))
		s.logFailure(ctx, err, "Transaction rejected", slog.String("organization_id", organizationID))
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return s.insertDraft(ctx, repos, txn)
	})
	if err != nil {
		if isClientError(err) {
			s.metrics.Rejected(rejectionReason(err))
		}
		s.logFailure(ctx, err, "Failed to create transaction", slog.String("organization_id", organizationID))
		return nil, err
	}

	s.metrics.TransactionCreated(string(txn.TransactionType))
	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int64("transaction_number", txn.TransactionNumber),
		slog.String("reference", txn.Reference()))
	return txn, nil
}

func (s *ledgerService) prepare(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	settings, err := s.loadSettings(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return s.buildTransaction(ctx, organizationID, req, userID, settings)
}

// Post moves a DRAFT transaction to POSTED and applies it to account balances.
func (s *ledgerService) Post(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	var posted *domain.Transaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		txn, err := s.postInTx(ctx, repos, transactionID, userID)
		posted = txn
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to post transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.metrics.TransactionPosted(string(posted.TransactionType))
	s.GetLogger(ctx).Info("Transaction posted",
		slog.String("transaction_id", posted.TransactionID),
		slog.String("organization_id", posted.OrganizationID),
		slog.Int64("transaction_number", posted.TransactionNumber))

	if posted.TransactionType == domain.Invoice {
		s.notifyFiscal(ctx, posted)
	}
	return posted, nil
}

// notifyFiscal reports a posted invoice. The posting stands whatever happens here.
func (s *ledgerService) notifyFiscal(ctx context.Context, txn *domain.Transaction) {
	debits, _ := domain.EntryTotals(txn.Entries)
	notice := domain.FiscalNotice{
		OrganizationID:    txn.OrganizationID,
		TransactionID:     txn.TransactionID,
		Reference:         txn.Reference(),
		TransactionNumber: txn.TransactionNumber,
		TransactionDate:   txn.TransactionDate.Format("2006-01-02"),
		Currency:          txn.BaseCurrency,
		Total:             debits.StringFixed(money.DefaultPlaces),
		Description:       txn.Description,
	}
	if err := s.notifier.NotifyInvoicePosted(ctx, notice); err != nil {
		s.GetLogger(ctx).Warn("Fiscal notification failed",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("reference", notice.Reference),
			slog.String("error", err.Error()))
	}
}

// Reverse voids a POSTED transaction by creating and posting its mirror image.
func (s *ledgerService) Reverse(ctx context.Context, transactionID string, reason string, userID string) (*domain.Transaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewFieldValidationError("reason", "reason is required")
	}

	var reversal *domain.Transaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		original, err := repos.Transactions.FindTransactionByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		switch {
		case original.IsReversed():
			reversedBy := ""
			if original.ReversedByTransactionID != nil {
				reversedBy = *original.ReversedByTransactionID
			}
			return &apperrors.AlreadyReversedError{TransactionID: transactionID, ReversedByTransaction: reversedBy}
		case original.Status != domain.Posted:
			return apperrors.NewValidationError(fmt.Sprintf("transaction %s is %s; only POSTED transactions can be reversed", transactionID, original.Status))
		case original.IsReversal():
			return apperrors.NewValidationError(fmt.Sprintf("transaction %s is itself a reversal", transactionID))
		}

		now := s.now()
		mirror := &domain.Transaction{
			TransactionID:         uuid.NewString(),
			OrganizationID:        original.OrganizationID,
			TransactionDate:       original.TransactionDate,
			TransactionType:       original.TransactionType,
			Status:                domain.Draft,
			Description:           fmt.Sprintf("Reversal of %s: %s", original.Reference(), reason),
			BaseCurrency:          original.BaseCurrency,
			ReversesTransactionID: &original.TransactionID,
			Entries:               make([]domain.LedgerEntry, len(original.Entries)),
			AuditFields:           domain.NewAuditFields(userID, now),
		}
		for i, e := range original.Entries {
			mirror.Entries[i] = domain.LedgerEntry{
				EntryID:       uuid.NewString(),
				TransactionID: mirror.TransactionID,
				AccountID:     e.AccountID,
				EntryType:     e.EntryType.Opposite(),
				Amount:        e.Amount,
				CurrencyCode:  e.CurrencyCode,
				ExchangeRate:  e.ExchangeRate,
				AmountInBase:  e.AmountInBase,
				Description:   e.Description,
				LineNumber:    e.LineNumber,
			}
		}

		// Inactive accounts still take reversals, so this skips insertDraft's account checks.
		number, err := repos.Sequences.NextTransactionNumber(ctx, mirror.OrganizationID, mirror.TransactionType)
		if err != nil {
			return fmt.Errorf("failed to allocate transaction number: %w", err)
		}
		mirror.TransactionNumber = number
		if err := repos.Transactions.SaveTransaction(ctx, *mirror); err != nil {
			return fmt.Errorf("failed to save reversing transaction: %w", err)
		}
		posted, err := s.postInTx(ctx, repos, mirror.TransactionID, userID)
		if err != nil {
			return err
		}

		original.Status = domain.Voided
		original.VoidReason = &reason
		original.VoidedAt = &now
		original.ReversedByTransactionID = &posted.TransactionID
		original.Touch(userID, now)
		if err := repos.Transactions.UpdateTransactionHeader(ctx, *original); err != nil {
			return fmt.Errorf("failed to void original transaction: %w", err)
		}
		reversal = posted
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reverse transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.metrics.TransactionReversed(string(reversal.TransactionType))
	s.GetLogger(ctx).Info("Transaction reversed",
		slog.String("transaction_id", transactionID),
		slog.String("reversing_transaction_id", reversal.TransactionID),
		slog.String("organization_id", reversal.OrganizationID),
		slog.Int64("transaction_number", reversal.TransactionNumber))
	return reversal, nil
}

// GetTransaction retrieves a transaction with its entries.
func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions retrieves a page of transaction headers, newest first.
func (s *ledgerService) ListTransactions(ctx context.Context, organizationID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	txns, token, err := s.txnRepo.ListTransactions(ctx, organizationID, filter, limit, nextToken)
	if err != nil {
		s.logFailure(ctx, err, "Failed to list transactions", slog.String("organization_id", organizationID))
		return nil, nil, err
	}
	return txns, token, nil
}

// entryAccountIDs returns the distinct accounts of entries in ascending order,
// which is also the order rows are locked in.
func entryAccountIDs(entries []domain.LedgerEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	sort.Strings(ids)
	return ids
}
