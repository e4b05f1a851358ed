package dto

import (
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListPriceHistoryParams defines the query parameters for browsing the price ledger.
// From and To accept RFC3339 timestamps or plain dates.
type ListPriceHistoryParams struct {
	ItemID     string `form:"itemId"`
	SKU        string `form:"sku"`
	From       string `form:"from"`
	To         string `form:"to"`
	ReasonCode string `form:"reason"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Size       int    `form:"size" binding:"omitempty,min=1,max=200"`
}

// PriceLedgerEntryResponse defines the data returned for a ledger entry.
type PriceLedgerEntryResponse struct {
	EntryID         string          `json:"entryID"`
	PriceableItemID string          `json:"priceableItemID"`
	Price           decimal.Decimal `json:"price"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         *time.Time      `json:"endDate"`
	ReasonCode      *string         `json:"reasonCode"`
	Vigente         bool            `json:"vigente"`
	CreatedBy       string          `json:"createdBy"`
}

// PriceHistoryResponse is a page of ledger entries.
type PriceHistoryResponse struct {
	Entries []PriceLedgerEntryResponse `json:"entries"`
	Page    int                        `json:"page"`
	Size    int                        `json:"size"`
	Total   int                        `json:"total"`
}

// RevertPriceRequest carries the note recorded on the entry a revert creates.
type RevertPriceRequest struct {
	Note string `json:"note" binding:"max=255"`
}

// SetPriceRequest is a manual price edit for one item.
type SetPriceRequest struct {
	Price      decimal.Decimal `json:"price" binding:"decimalgt0"`
	ReasonCode string          `json:"reasonCode" binding:"max=255"`
}

// RegisterItemRequest refreshes the engine's projection of a catalog item.
type RegisterItemRequest struct {
	SKU            string          `json:"sku" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	ReferencePrice decimal.Decimal `json:"referencePrice" binding:"decimalgt0"`
}

// PriceableItemResponse defines the data returned for a priceable item.
type PriceableItemResponse struct {
	PriceableItemID string          `json:"priceableItemID"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	CurrencyCode    string          `json:"currencyCode"`
	ReferencePrice  decimal.Decimal `json:"referencePrice"`
}

// ToPriceLedgerEntryResponse converts a domain.PriceLedgerEntry to its response DTO.
func ToPriceLedgerEntryResponse(e *domain.PriceLedgerEntry) PriceLedgerEntryResponse {
	return PriceLedgerEntryResponse{
		EntryID:         e.EntryID,
		PriceableItemID: e.PriceableItemID,
		Price:           e.Price,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		ReasonCode:      e.ReasonCode,
		Vigente:         e.IsCurrent,
		CreatedBy:       e.CreatedBy,
	}
}

// ToPriceHistoryResponse converts a ledger page to its response DTO.
func ToPriceHistoryResponse(p domain.LedgerPage) PriceHistoryResponse {
	entries := make([]PriceLedgerEntryResponse, len(p.Entries))
	for i := range p.Entries {
		entries[i] = ToPriceLedgerEntryResponse(&p.Entries[i])
	}
	return PriceHistoryResponse{Entries: entries, Page: p.Page, Size: p.Size, Total: p.Total}
}

// ToPriceableItemResponse converts a domain.PriceableItem to its response DTO.
func ToPriceableItemResponse(item *domain.PriceableItem) PriceableItemResponse {
	return PriceableItemResponse{
		PriceableItemID: item.PriceableItemID,
		SKU:             item.SKU,
		Name:            item.Name,
		CurrencyCode:    item.CurrencyCode,
		ReferencePrice:  item.ReferencePrice,
	}
}
