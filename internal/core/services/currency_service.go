package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates the currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	// Format checks are handled by DTO binding (required, len=3, uppercase).
	if req.IsLocal {
		local, err := s.currencyRepo.FindLocalCurrency(ctx)
		switch {
		case err == nil && local != nil:
			return nil, apperrors.NewValidationError(fmt.Sprintf("currency %s is already the local currency", local.CurrencyCode))
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to look up local currency")
			return nil, fmt.Errorf("failed to look up local currency: %w", err)
		}
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		IsLocal:      req.IsLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", req.CurrencyCode))
		}
		return nil, fmt.Errorf("failed to create currency %s: %w", req.CurrencyCode, err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", currency.CurrencyCode), slog.Bool("is_local", currency.IsLocal))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", currencyCode, err)
	}
	return currency, nil
}

func (s *currencyService) GetLocalCurrency(ctx context.Context) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindLocalCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get local currency: %w", err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
