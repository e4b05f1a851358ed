package services

import (
	"context"
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/dto"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// GetLocalCurrency retrieves the currency ledger prices are expressed in.
	GetLocalCurrency(ctx context.Context) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetRateEffectiveOn retrieves the rate in effect for the pair on date. It never
	// defaults: a missing rate is reported as apperrors.ErrRateNotFound.
	GetRateEffectiveOn(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves a page of stored rates and the total count.
	ListExchangeRates(ctx context.Context, params dto.ListExchangeRatesParams) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a new exchange rate.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
