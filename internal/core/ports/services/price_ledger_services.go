package services

import (
	"context"
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// PriceLedgerReaderSvc defines read operations on the price ledger
type PriceLedgerReaderSvc interface {
	// GetCurrent retrieves the current entry of an item, or nil if it was never priced.
	GetCurrent(ctx context.Context, itemID string) (*domain.PriceLedgerEntry, error)

	// GetEntry retrieves any ledger entry by ID.
	GetEntry(ctx context.Context, entryID string) (*domain.PriceLedgerEntry, error)

	// QueryHistory pages through ledger entries matching the params.
	QueryHistory(ctx context.Context, params dto.ListPriceHistoryParams) (domain.LedgerPage, error)
}

// PriceLedgerWriterSvc defines the mutations of the price ledger
type PriceLedgerWriterSvc interface {
	// Append supersedes the item's current price with price as of now.
	Append(ctx context.Context, itemID string, price decimal.Decimal, reasonCode *string, now time.Time, userID string) (*domain.PriceLedgerEntry, error)

	// SetManualPrice appends a manual edit, defaulting the reason to MANUAL.
	SetManualPrice(ctx context.Context, itemID string, req dto.SetPriceRequest, now time.Time, userID string) (*domain.PriceLedgerEntry, error)

	// RegisterItem inserts or refreshes the projection of a catalog item.
	RegisterItem(ctx context.Context, itemID string, req dto.RegisterItemRequest, userID string) (*domain.PriceableItem, error)
}

// PriceLedgerSvcFacade combines all price ledger service interfaces
type PriceLedgerSvcFacade interface {
	PriceLedgerReaderSvc
	PriceLedgerWriterSvc
}

// RevertSvc restores the price of a historical ledger entry.
type RevertSvc interface {
	// Revert appends a new current entry carrying the price of entryID.
	Revert(ctx context.Context, entryID string, note string, now time.Time, userID string) (*domain.PriceLedgerEntry, error)
}
