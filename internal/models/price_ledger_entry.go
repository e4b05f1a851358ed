package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceLedgerEntry is a row of the append-only price_ledger table.
type PriceLedgerEntry struct {
	EntryID         string          `db:"entry_id"`
	PriceableItemID string          `db:"priceable_item_id"`
	Price           decimal.Decimal `db:"price"`
	StartDate       time.Time       `db:"start_date"`
	EndDate         *time.Time      `db:"end_date"`
	ReasonCode      *string         `db:"reason_code"`
	IsCurrent       bool            `db:"is_current"`
	CreatedBy       string          `db:"created_by"`
}
