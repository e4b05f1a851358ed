package domain

import "github.com/shopspring/decimal"

// PriceableItem is the engine's projection of a sellable presentation/SKU.
// ReferencePrice is expressed in CurrencyCode and is what recalculations convert
// into the local currency.
type PriceableItem struct {
	PriceableItemID string          `json:"priceableItemID"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	CurrencyCode    string          `json:"currencyCode"`
	ReferencePrice  decimal.Decimal `json:"referencePrice"`
	AuditFields
}

// PricedItem pairs an item with its current ledger price, if it has one.
type PricedItem struct {
	Item         PriceableItem
	CurrentPrice *decimal.Decimal
}
