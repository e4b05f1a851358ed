// Package memory implements every repository port with in-memory maps. It backs
// STORAGE_DRIVER=memory and the service tests. Nothing is persisted.
package memory

import (
	"sync"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
)

// Store holds all engine data. The store-wide lock guards the maps; each item's
// ledger has its own lock so appends for different items never wait on each other.
type Store struct {
	mu         sync.RWMutex
	currencies map[string]domain.Currency
	rates      map[pairKey][]domain.ExchangeRate // ascending by DateEffective
	items      map[string]domain.PriceableItem
	ledgers    map[string]*itemLedger
	entryItem  map[string]string // entry ID -> item ID
	rounding   *domain.RoundingConfig
	seq        int64
}

type pairKey struct {
	from, to string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		currencies: make(map[string]domain.Currency),
		rates:      make(map[pairKey][]domain.ExchangeRate),
		items:      make(map[string]domain.PriceableItem),
		ledgers:    make(map[string]*itemLedger),
		entryItem:  make(map[string]string),
	}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:       s,
		ExchangeRateRepo:   s,
		PriceableItemRepo:  s,
		PriceLedgerRepo:    s,
		RoundingConfigRepo: s,
	}
}

var (
	_ portsrepo.CurrencyRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ExchangeRateRepositoryFacade  = (*Store)(nil)
	_ portsrepo.PriceableItemRepositoryFacade = (*Store)(nil)
	_ portsrepo.PriceLedgerRepositoryFacade   = (*Store)(nil)
	_ portsrepo.RoundingConfigRepository      = (*Store)(nil)
)
