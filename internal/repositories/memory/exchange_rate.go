package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/utils/pagination"
)

func (s *Store) FindExchangeRateEffectiveOn(_ context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := domain.TruncateToDate(date)
	rates := s.rates[pairKey{fromCurrencyCode, toCurrencyCode}]
	// First rate effective after day; the one before it is in effect.
	i := sort.Search(len(rates), func(i int) bool { return rates[i].DateEffective.After(day) })
	if i == 0 {
		return nil, apperrors.NewRateNotFoundError(fromCurrencyCode, toCurrencyCode, day.Format(domain.EffectiveDateLayout))
	}
	r := rates[i-1]
	return &r, nil
}

func (s *Store) ListExchangeRates(_ context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.ExchangeRate
	for key, rates := range s.rates {
		if filter.FromCurrencyCode != nil && key.from != *filter.FromCurrencyCode {
			continue
		}
		if filter.ToCurrencyCode != nil && key.to != *filter.ToCurrencyCode {
			continue
		}
		matched = append(matched, rates...)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.DateEffective.Equal(b.DateEffective) {
			return a.DateEffective.After(b.DateEffective)
		}
		if a.FromCurrencyCode != b.FromCurrencyCode {
			return a.FromCurrencyCode < b.FromCurrencyCode
		}
		return a.ToCurrencyCode < b.ToCurrencyCode
	})

	page, size := pagination.Normalize(filter.Page, filter.Size)
	start, end := pagination.Window(page, size, len(matched))
	return append([]domain.ExchangeRate(nil), matched[start:end]...), len(matched), nil
}

func (s *Store) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate.DateEffective = domain.TruncateToDate(rate.DateEffective)
	key := pairKey{rate.FromCurrencyCode, rate.ToCurrencyCode}
	rates := s.rates[key]

	i := sort.Search(len(rates), func(i int) bool { return !rates[i].DateEffective.Before(rate.DateEffective) })
	if i < len(rates) && rates[i].DateEffective.Equal(rate.DateEffective) {
		return apperrors.ErrDuplicate
	}
	rates = append(rates, domain.ExchangeRate{})
	copy(rates[i+1:], rates[i:])
	rates[i] = rate
	s.rates[key] = rates
	return nil
}
