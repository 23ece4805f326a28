package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService maintains rates and resolves them for postings.
type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	// strict turns a missing rate into ExchangeRateNotFound instead of the 1.0 fallback.
	strict bool
}

// NewExchangeRateService creates the currency resolver.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, strict bool, opts ...ServiceOption) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		BaseService: newBase(opts),
		rateRepo:    rateRepo,
		strict:      strict,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// Resolve returns the rate converting one unit of fromCurrency into toCurrency as of asOf.
// Lookup order: identity, direct pair, inverse of the opposite pair, then the configured fallback.
func (s *exchangeRateService) Resolve(ctx context.Context, organizationID, fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error) {
	from := strings.ToUpper(strings.TrimSpace(fromCurrency))
	to := strings.ToUpper(strings.TrimSpace(toCurrency))
	if from == to {
		return domain.OneRate, nil
	}
	asOf = domain.DateOnly(asOf)

	direct, err := s.rateRepo.FindLatestRate(ctx, organizationID, from, to, asOf)
	if err == nil {
		return direct.Rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up exchange rate", slog.String("from", from), slog.String("to", to))
		return decimal.Zero, fmt.Errorf("failed to look up exchange rate %s/%s: %w", from, to, err)
	}

	inverse, err := s.rateRepo.FindLatestRate(ctx, organizationID, to, from, asOf)
	if err == nil && inverse.Rate.IsPositive() {
		return domain.OneRate.DivRound(inverse.Rate, domain.RatePlaces), nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up inverse exchange rate", slog.String("from", to), slog.String("to", from))
		return decimal.Zero, fmt.Errorf("failed to look up exchange rate %s/%s: %w", to, from, err)
	}

	if s.strict {
		return decimal.Zero, apperrors.NewLedgerError(apperrors.KindExchangeRateNotFound,
			"no active rate for %s/%s on or before %s", from, to, asOf.Format(time.DateOnly))
	}
	s.GetLogger(ctx).Warn("No exchange rate configured, falling back to 1.0",
		slog.String("organization_id", organizationID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("as_of", asOf.Format(time.DateOnly)))
	return domain.OneRate, nil
}

// CreateExchangeRate stores a rate, replacing the rate already held for the same pair and day.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, actor domain.Actor, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	if err := s.Authorize(ctx, actor, domain.PermRateManage); err != nil {
		return nil, err
	}

	rate.FromCurrencyCode = strings.ToUpper(rate.FromCurrencyCode)
	rate.ToCurrencyCode = strings.ToUpper(rate.ToCurrencyCode)
	if !rate.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if rate.FromCurrencyCode == rate.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if !rate.Rate.Equal(rate.Rate.Round(domain.RatePlaces)) {
		return nil, fmt.Errorf("%w: exchange rate supports at most %d decimal places", apperrors.ErrValidation, domain.RatePlaces)
	}

	now := s.Now()
	rate.ExchangeRateID = uuid.NewString()
	rate.OrganizationID = actor.OrganizationID
	rate.RateDate = domain.DateOnly(rate.RateDate)
	rate.IsActive = true
	rate.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actor.UserID,
	}

	stored, err := s.rateRepo.SaveExchangeRate(ctx, rate)
	if err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", rate.FromCurrencyCode), slog.String("to", rate.ToCurrencyCode))
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}
	s.LogInfo(ctx, "Exchange rate saved",
		slog.String("exchange_rate_id", stored.ExchangeRateID),
		slog.String("from", stored.FromCurrencyCode),
		slog.String("to", stored.ToCurrencyCode),
		slog.String("rate", stored.Rate.String()))
	return stored, nil
}

// ListExchangeRates lists the organization's rates.
func (s *exchangeRateService) ListExchangeRates(ctx context.Context, actor domain.Actor) ([]domain.ExchangeRate, error) {
	if err := s.Authorize(ctx, actor, domain.PermJournalRead); err != nil {
		return nil, err
	}
	rates, err := s.rateRepo.ListExchangeRates(ctx, actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return rates, nil
}
