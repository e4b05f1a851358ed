package models

import "github.com/shopspring/decimal"

// PriceableItem is a row of the priceable_items projection.
type PriceableItem struct {
	PriceableItemID string          `db:"priceable_item_id"`
	SKU             string          `db:"sku"`
	Name            string          `db:"name"`
	CurrencyCode    string          `db:"currency_code"`
	ReferencePrice  decimal.Decimal `db:"reference_price"`
	AuditFields
}

// PricedItem is an item joined with the price of its current ledger entry.
type PricedItem struct {
	PriceableItem
	CurrentPrice decimal.NullDecimal `db:"current_price"`
}
