// Package cache provides Redis read-through decorators over repository ports.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	"github.com/SscSPs/pricing_engine/internal/metrics"
	"github.com/SscSPs/pricing_engine/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// ExchangeRateCache wraps the primary exchange rate repository with a Redis
// read-through cache of effective-rate lookups. A new rate for a pair can change
// the answer for any later date, so saving bumps a per-pair version that is part of
// every lookup key instead of deleting keys one by one.
type ExchangeRateCache struct {
	primary portsrepo.ExchangeRateRepositoryFacade
	rdb     redis.UniversalClient
	ttl     time.Duration
}

// NewExchangeRateCache creates a cached wrapper around a primary repository.
func NewExchangeRateCache(primary portsrepo.ExchangeRateRepositoryFacade, rdb redis.UniversalClient, ttl time.Duration) *ExchangeRateCache {
	return &ExchangeRateCache{primary: primary, rdb: rdb, ttl: ttl}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*ExchangeRateCache)(nil)

// --- Write-through (write to primary, invalidate cache) ---

func (c *ExchangeRateCache) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	if err := c.primary.SaveExchangeRate(ctx, rate); err != nil {
		return err
	}
	if err := c.rdb.Incr(ctx, versionKey(rate.FromCurrencyCode, rate.ToCurrencyCode)).Err(); err != nil {
		// Entries cached under the old version expire with the TTL.
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to bump exchange rate cache version",
			slog.String("from", rate.FromCurrencyCode),
			slog.String("to", rate.ToCurrencyCode),
			slog.String("error", err.Error()))
	}
	return nil
}

// --- Read-through (check cache first) ---

func (c *ExchangeRateCache) FindExchangeRateEffectiveOn(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	version, err := c.rdb.Get(ctx, versionKey(fromCurrencyCode, toCurrencyCode)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.RateLookupsTotal.WithLabelValues("cache_error").Inc()
		return c.primary.FindExchangeRateEffectiveOn(ctx, fromCurrencyCode, toCurrencyCode, date)
	}

	key := rateKey(fromCurrencyCode, toCurrencyCode, version, date)
	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var rate domain.ExchangeRate
		if json.Unmarshal(data, &rate) == nil {
			metrics.RateLookupsTotal.WithLabelValues("cache_hit").Inc()
			return &rate, nil
		}
	}
	metrics.RateLookupsTotal.WithLabelValues("cache_miss").Inc()

	rate, err := c.primary.FindExchangeRateEffectiveOn(ctx, fromCurrencyCode, toCurrencyCode, date)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rate); err == nil {
		c.rdb.Set(ctx, key, data, c.ttl)
	}
	return rate, nil
}

// --- Passthrough (not cached) ---

func (c *ExchangeRateCache) ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, int, error) {
	return c.primary.ListExchangeRates(ctx, filter)
}

// --- Cache helpers ---

func versionKey(from, to string) string {
	return fmt.Sprintf("fx:ver:%s:%s", from, to)
}

func rateKey(from, to string, version int64, date time.Time) string {
	return fmt.Sprintf("fx:rate:%s:%s:v%d:%s", from, to, version, domain.TruncateToDate(date).Format(domain.EffectiveDateLayout))
}
