package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImpactStatus is the per-item outcome of a recalculation.
type ImpactStatus string

const (
	ImpactPending ImpactStatus = "PENDING" // computed by a simulation, nothing written
	ImpactApplied ImpactStatus = "APPLIED" // a new ledger entry was appended
	ImpactSkipped ImpactStatus = "SKIPPED" // new price equals the current one
	ImpactFailed  ImpactStatus = "FAILED"  // see Error
)

var hundred = decimal.NewFromInt(100)

// RecalculationImpactItem is the in-memory result of recomputing one item's price.
type RecalculationImpactItem struct {
	PriceableItemID  string           `json:"priceableItemID"`
	SKU              string           `json:"sku"`
	PreviousPrice    *decimal.Decimal `json:"previousPrice"`
	NewPrice         decimal.Decimal  `json:"newPrice"`
	VariationPercent *decimal.Decimal `json:"variationPercent"`
	Status           ImpactStatus     `json:"status"`
	Error            string           `json:"error,omitempty"`
	EntryID          string           `json:"entryID,omitempty"`
}

// NewImpactItem records previous and new prices together with the variation
// percentage, which is only defined when the previous price is positive.
func NewImpactItem(item PriceableItem, previous *decimal.Decimal, newPrice decimal.Decimal) RecalculationImpactItem {
	impact := RecalculationImpactItem{
		PriceableItemID: item.PriceableItemID,
		SKU:             item.SKU,
		PreviousPrice:   previous,
		NewPrice:        newPrice,
		Status:          ImpactPending,
	}
	if previous != nil && previous.IsPositive() {
		v := newPrice.Sub(*previous).Div(*previous).Mul(hundred)
		impact.VariationPercent = &v
	}
	return impact
}

// Changed reports whether applying the item would alter the ledger.
func (i RecalculationImpactItem) Changed() bool {
	return i.PreviousPrice == nil || !i.PreviousPrice.Equal(i.NewPrice)
}

// RecalculationSummary is the result of a simulate or commit run.
type RecalculationSummary struct {
	OriginCurrency      string                    `json:"originCurrency"`
	DestinationCurrency string                    `json:"destinationCurrency"`
	Rate                ExchangeRate              `json:"rate"`
	RoundingConfig      RoundingConfig            `json:"roundingConfig"`
	Note                string                    `json:"note"`
	DryRun              bool                      `json:"dryRun"`
	Items               []RecalculationImpactItem `json:"items"`
	Impact              ImpactView                `json:"impact"`
	CalculatedAt        time.Time                 `json:"calculatedAt"`
	// Interrupted marks a run that stopped before reaching every item. Items
	// lists only what was processed; APPLIED entries among them are committed.
	Interrupted bool `json:"interrupted"`
}

// ImpactView is derived from the summary items and never stored.
type ImpactView struct {
	Increased               int              `json:"increased"`
	Decreased               int              `json:"decreased"`
	Unchanged               int              `json:"unchanged"`
	NewlyPriced             int              `json:"newlyPriced"`
	AverageVariationPercent *decimal.Decimal `json:"averageVariationPercent"`
	Applied                 int              `json:"applied"`
	Failed                  int              `json:"failed"`
}

// Summarize derives the impact view from items. The average variation covers
// only items with a positive previous price and is rounded to one decimal place.
func Summarize(items []RecalculationImpactItem) ImpactView {
	var view ImpactView
	sum := decimal.Zero
	counted := 0

	for _, it := range items {
		switch {
		case it.PreviousPrice == nil:
			view.NewlyPriced++
		case it.NewPrice.GreaterThan(*it.PreviousPrice):
			view.Increased++
		case it.NewPrice.LessThan(*it.PreviousPrice):
			view.Decreased++
		default:
			view.Unchanged++
		}

		if it.VariationPercent != nil {
			sum = sum.Add(*it.VariationPercent)
			counted++
		}

		switch it.Status {
		case ImpactApplied:
			view.Applied++
		case ImpactFailed:
			view.Failed++
		}
	}

	if counted > 0 {
		avg := sum.Div(decimal.NewFromInt(int64(counted))).Round(1)
		view.AverageVariationPercent = &avg
	}
	return view
}
