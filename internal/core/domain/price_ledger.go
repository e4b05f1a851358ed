package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reason codes written by the engine itself.
const (
	ReasonManual        = "MANUAL"
	ReasonRecalculation = "RECALCULO"
	ReasonRevert        = "REVERSION"
)

// PriceLedgerEntry is one append-only row of an item's price history.
// Only EndDate and IsCurrent ever change, once, when a newer entry supersedes it.
type PriceLedgerEntry struct {
	EntryID         string          `json:"entryID"`
	PriceableItemID string          `json:"priceableItemID"`
	Price           decimal.Decimal `json:"price"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         *time.Time      `json:"endDate"`
	ReasonCode      *string         `json:"reasonCode"`
	IsCurrent       bool            `json:"isCurrent"`
	CreatedBy       string          `json:"createdBy"`
}

// Overlaps reports whether the entry's [StartDate, EndDate) interval intersects
// the [from, to] range. Nil bounds are open. An entry without EndDate extends
// indefinitely.
func (e PriceLedgerEntry) Overlaps(from, to *time.Time) bool {
	if to != nil && e.StartDate.After(*to) {
		return false
	}
	if from != nil && e.EndDate != nil && !e.EndDate.After(*from) {
		return false
	}
	return true
}

// SupersedeAt returns the instant at which a replacement for current takes
// effect when requested at now. It never precedes current's start, so the
// closed entry keeps EndDate >= StartDate.
func SupersedeAt(current *PriceLedgerEntry, now time.Time) time.Time {
	if current != nil && now.Before(current.StartDate) {
		return current.StartDate
	}
	return now
}

// LedgerFilter selects ledger entries for historical browsing.
type LedgerFilter struct {
	PriceableItemID *string
	SKU             *string
	From            *time.Time
	To              *time.Time
	ReasonCode      *string
	Page            int
	Size            int
}

// LedgerPage is one page of ledger entries, newest first.
type LedgerPage struct {
	Entries []PriceLedgerEntry
	Page    int
	Size    int
	Total   int
}
