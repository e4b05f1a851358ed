package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
)

func (s *Store) FindItemByID(_ context.Context, itemID string) (*domain.PriceableItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (s *Store) ListPricedItemsByCurrency(_ context.Context, currencyCode string, afterID string, limit int) ([]domain.PricedItem, error) {
	s.mu.RLock()
	var items []domain.PriceableItem
	ledgers := make(map[string]*itemLedger)
	for id, item := range s.items {
		if item.CurrencyCode == currencyCode && id > afterID {
			items = append(items, item)
			ledgers[id] = s.ledgers[id]
		}
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].PriceableItemID < items[j].PriceableItemID })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]domain.PricedItem, len(items))
	for i, item := range items {
		out[i] = domain.PricedItem{Item: item}
		if l := ledgers[item.PriceableItemID]; l != nil {
			if current := l.current(); current != nil {
				price := current.Price
				out[i].CurrentPrice = &price
			}
		}
	}
	return out, nil
}

func (s *Store) SaveItem(_ context.Context, item domain.PriceableItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.PriceableItemID] = item
	return nil
}
