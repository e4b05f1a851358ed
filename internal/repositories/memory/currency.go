package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
)

func (s *Store) FindCurrencyByCode(_ context.Context, currencyCode string) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.currencies[currencyCode]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *Store) FindLocalCurrency(_ context.Context) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.currencies {
		if c.IsLocal {
			local := c
			return &local, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (s *Store) SaveCurrency(_ context.Context, currency domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.currencies[currency.CurrencyCode]; exists {
		return fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, currency.CurrencyCode)
	}
	if currency.IsLocal {
		for _, c := range s.currencies {
			if c.IsLocal {
				return fmt.Errorf("%w: local currency is already %s", apperrors.ErrDuplicate, c.CurrencyCode)
			}
		}
	}
	s.currencies[currency.CurrencyCode] = currency
	return nil
}
