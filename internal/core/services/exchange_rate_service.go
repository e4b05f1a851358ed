package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/metrics"
	"github.com/SscSPs/pricing_engine/internal/utils/pagination"
	"github.com/google/uuid"
)

// exchangeRateService provides business logic for exchange rates.
type exchangeRateService struct {
	BaseService
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	currencyService portssvc.CurrencyReaderSvc
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyService portssvc.CurrencyReaderSvc) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:        rateRepo,
		currencyService: currencyService,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate. Existing rates are
// never overwritten: a second rate for the same pair and date is a duplicate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	from, to, err := normalizePair(req.FromCurrencyCode, req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}
	if !req.Rate.IsPositive() {
		return nil, apperrors.NewValidationError("exchange rate must be positive")
	}
	if req.DateEffective.IsZero() {
		return nil, apperrors.NewValidationError("dateEffective is required")
	}

	for _, code := range []string{from, to} {
		if _, err := s.currencyService.GetCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("currency code '%s' not found", code))
			}
			return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
		}
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		DateEffective:    domain.TruncateToDate(req.DateEffective),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a rate from %s to %s effective on %s already exists",
				apperrors.ErrDuplicate, from, to, rate.DateEffective.Format(domain.EffectiveDateLayout))
		}
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", from), slog.String("to", to))
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	s.LogInfo(ctx, "Exchange rate created",
		slog.String("exchange_rate_id", rate.ExchangeRateID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("date_effective", rate.DateEffective.Format(domain.EffectiveDateLayout)),
		slog.String("rate", rate.Rate.String()))
	return &rate, nil
}

// GetRateEffectiveOn retrieves the rate with the latest effective date on or before date.
func (s *exchangeRateService) GetRateEffectiveOn(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error) {
	from, to, err := normalizePair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	day := domain.TruncateToDate(date)

	rate, err := s.rateRepo.FindExchangeRateEffectiveOn(ctx, from, to, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			metrics.RateLookupsTotal.WithLabelValues("not_found").Inc()
			return nil, apperrors.NewRateNotFoundError(from, to, day.Format(domain.EffectiveDateLayout))
		}
		s.LogError(ctx, err, "Failed to look up exchange rate", slog.String("from", from), slog.String("to", to))
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	metrics.RateLookupsTotal.WithLabelValues("found").Inc()
	return rate, nil
}

func (s *exchangeRateService) ListExchangeRates(ctx context.Context, params dto.ListExchangeRatesParams) ([]domain.ExchangeRate, int, error) {
	page, size := pagination.Normalize(params.Page, params.Size)
	filter := domain.ExchangeRateFilter{Page: page, Size: size}
	if params.FromCurrencyCode != "" {
		from := strings.ToUpper(params.FromCurrencyCode)
		filter.FromCurrencyCode = &from
	}
	if params.ToCurrencyCode != "" {
		to := strings.ToUpper(params.ToCurrencyCode)
		filter.ToCurrencyCode = &to
	}

	rates, total, err := s.rateRepo.ListExchangeRates(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, 0, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	if rates == nil {
		rates = []domain.ExchangeRate{}
	}
	return rates, total, nil
}

// normalizePair upper-cases both codes and rejects malformed or identical ones.
func normalizePair(fromCode, toCode string) (string, string, error) {
	from := strings.ToUpper(strings.TrimSpace(fromCode))
	to := strings.ToUpper(strings.TrimSpace(toCode))
	if len(from) != 3 || len(to) != 3 {
		return "", "", apperrors.NewValidationError("currency codes must be 3 letters")
	}
	if from == to {
		return "", "", apperrors.NewValidationError("from and to currency codes cannot be the same")
	}
	return from, to, nil
}
