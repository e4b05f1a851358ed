package repositories

import (
	"context"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
)

// PriceableItemReader defines read operations for the priceable item projection
type PriceableItemReader interface {
	// FindItemByID retrieves an item. Returns apperrors.ErrNotFound if unknown.
	FindItemByID(ctx context.Context, itemID string) (*domain.PriceableItem, error)

	// ListPricedItemsByCurrency returns up to limit items denominated in currencyCode with
	// an ID greater than afterID, ordered by ID, each with its current ledger price.
	ListPricedItemsByCurrency(ctx context.Context, currencyCode string, afterID string, limit int) ([]domain.PricedItem, error)
}

// PriceableItemWriter defines write operations for the priceable item projection
type PriceableItemWriter interface {
	// SaveItem inserts or refreshes an item.
	SaveItem(ctx context.Context, item domain.PriceableItem) error
}

// PriceableItemRepositoryFacade combines all priceable item repository interfaces
type PriceableItemRepositoryFacade interface {
	PriceableItemReader
	PriceableItemWriter
}
