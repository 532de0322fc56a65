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

// exchangeRateService resolves and maintains exchange rates.
type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, opts ...Option) portssvc.ExchangeRateSvcFacade {
	s := &exchangeRateService{rateRepo: rateRepo}
	s.apply(opts)
	return s
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// GetRate returns the rate converting one unit of from into to, effective on date.
// The most recent stored quote in either direction wins; an inverse quote is inverted
// and a direct quote wins a tie on the same day. Same-currency pairs never touch the store.
func (s *exchangeRateService) GetRate(ctx context.Context, organizationID, from, to string, effectiveDate time.Time) (decimal.Decimal, error) {
	from, err := money.NormalizeCurrency(from)
	if err != nil {
		return decimal.Zero, err
	}
	to, err = money.NormalizeCurrency(to)
	if err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	day := domain.DateOnly(effectiveDate)
	direct, err := s.findLatest(ctx, organizationID, from, to, day)
	if err != nil {
		return decimal.Zero, err
	}
	inverse, err := s.findLatest(ctx, organizationID, to, from, day)
	if err != nil {
		return decimal.Zero, err
	}

	switch {
	case direct != nil && (inverse == nil || !inverse.DateEffective.After(direct.DateEffective)):
		return direct.Rate, nil
	case inverse != nil:
		s.GetLogger(ctx).Debug("Using inverted exchange rate", slog.String("from", from), slog.String("to", to), slog.String("inverse_rate", inverse.Rate.String()))
		return money.Invert(inverse.Rate), nil
	default:
		return decimal.Zero, &apperrors.MissingRateError{From: from, To: to, Date: day}
	}
}

// findLatest returns nil without error when no quote exists for the pair.
func (s *exchangeRateService) findLatest(ctx context.Context, organizationID, from, to string, day time.Time) (*domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindLatestExchangeRate(ctx, organizationID, from, to, day)
	if err == nil {
		return rate, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	s.LogError(ctx, err, "Failed to look up exchange rate", slog.String("from", from), slog.String("to", to))
	return nil, fmt.Errorf("failed to look up rate %s/%s: %w", from, to, err)
}

// CreateExchangeRate stores a manual or provider rate, replacing any rate for the same pair and day.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Rate.IsPositive() {
		return nil, apperrors.NewFieldValidationError("rate", "exchange rate must be positive")
	}
	from, err := money.NormalizeCurrency(req.FromCurrencyCode)
	if err != nil {
		return nil, err
	}
	to, err := money.NormalizeCurrency(req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, apperrors.NewFieldValidationError("toCurrencyCode", "from and to currency codes cannot be the same")
	}
	source := req.Source
	if source == "" {
		source = domain.RateSourceManual
	}

	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		OrganizationID:   organizationID,
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		DateEffective:    domain.DateOnly(req.DateEffective),
		Source:           source,
		AuditFields:      domain.NewAuditFields(userID, s.now()),
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	s.GetLogger(ctx).Info("Exchange rate saved",
		slog.String("organization_id", organizationID),
		slog.String("pair", from+"/"+to),
		slog.String("rate", rate.Rate.String()),
		slog.String("date_effective", rate.DateEffective.Format("2006-01-02")))
	return &rate, nil
}

// ListExchangeRates lists stored rates newest first.
func (s *exchangeRateService) ListExchangeRates(ctx context.Context, organizationID string, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	for _, code := range []*string{&filter.FromCurrencyCode, &filter.ToCurrencyCode} {
		if *code == "" {
			continue
		}
		normalized, err := money.NormalizeCurrency(*code)
		if err != nil {
			return nil, err
		}
		*code = normalized
	}
	rates, err := s.rateRepo.ListExchangeRates(ctx, organizationID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return rates, nil
}
