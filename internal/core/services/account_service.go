package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/money"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, opts ...Option) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	svc.apply(opts)
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewFieldValidationError("accountType", fmt.Sprintf("unknown account type %q", req.AccountType))
	}
	currency := ""
	if req.CurrencyCode != "" {
		c, err := money.NormalizeCurrency(req.CurrencyCode)
		if err != nil {
			return nil, err
		}
		currency = c
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    req.AccountType,
		CurrencyCode:   currency,
		Description:    req.Description,
		IsActive:       true,
		Balance:        decimal.Zero,
		AuditFields:    domain.NewAuditFields(userID, s.now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.logFailure(ctx, err, "Failed to save account",
			slog.String("account_code", account.Code),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.GetLogger(ctx).Info("Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("account_code", account.Code),
		slog.String("organization_id", organizationID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err // Propagate error (including NotFound)
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, organizationID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, organizationID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code",
				slog.String("account_code", code),
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("organization_id", organizationID),
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts for organization %s: %w", organizationID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil // Return empty slice if repo returns nil
	}
	return accounts, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.now()); err != nil {
		s.logFailure(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}
	s.GetLogger(ctx).Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
