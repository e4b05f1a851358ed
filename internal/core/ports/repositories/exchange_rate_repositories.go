package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindExchangeRateEffectiveOn retrieves the rate with the latest effective date on or
	// before date. Returns apperrors.ErrRateNotFound when the pair has no such rate.
	FindExchangeRateEffectiveOn(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves a page of rates, newest effective date first, and the total count.
	ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate inserts a new exchange rate. Returns apperrors.ErrDuplicate if a rate
	// already exists for the same pair and effective date; existing rates are never overwritten.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
