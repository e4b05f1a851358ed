package repositories

import (
	"context"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
)

// PriceLedgerReader defines read operations for the price ledger
type PriceLedgerReader interface {
	// FindCurrentEntry retrieves the current entry of an item, or nil if it was never priced.
	FindCurrentEntry(ctx context.Context, itemID string) (*domain.PriceLedgerEntry, error)

	// FindEntryByID retrieves any entry. Returns apperrors.ErrNotFound if unknown.
	FindEntryByID(ctx context.Context, entryID string) (*domain.PriceLedgerEntry, error)

	// QueryEntries pages through the ledger, newest start date first.
	QueryEntries(ctx context.Context, filter domain.LedgerFilter) (domain.LedgerPage, error)
}

// PriceLedgerWriter defines the single mutation of the price ledger
type PriceLedgerWriter interface {
	// AppendEntry closes the item's current entry, if any, and inserts entry as the new
	// current one in a single atomic step serialized per item. The start date of the stored
	// entry is adjusted with domain.SupersedeAt and the stored entry is returned.
	AppendEntry(ctx context.Context, entry domain.PriceLedgerEntry) (*domain.PriceLedgerEntry, error)
}

// PriceLedgerRepositoryFacade combines all price ledger repository interfaces
type PriceLedgerRepositoryFacade interface {
	PriceLedgerReader
	PriceLedgerWriter
}
