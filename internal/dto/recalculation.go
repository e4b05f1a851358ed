package dto

import (
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecalculationRequest names the currency pair to recalculate and the note recorded
// as reason code on every entry a commit appends.
type RecalculationRequest struct {
	OriginCurrencyCode      string `json:"originCurrencyCode" binding:"required,len=3,uppercase"`
	DestinationCurrencyCode string `json:"destinationCurrencyCode" binding:"required,len=3,uppercase"`
	Note                    string `json:"note" binding:"max=255"`
}

// ImpactItemResponse is one item of a recalculation summary.
type ImpactItemResponse struct {
	PriceableItemID  string           `json:"priceableItemID"`
	SKU              string           `json:"sku"`
	PreviousPrice    *decimal.Decimal `json:"previousPrice"`
	NewPrice         decimal.Decimal  `json:"newPrice"`
	VariationPercent *decimal.Decimal `json:"variationPercent"`
	Status           string           `json:"status"`
	Error            string           `json:"error,omitempty"`
	EntryID          string           `json:"entryID,omitempty"`
}

// ImpactResponse holds the counts shown before a commit is confirmed.
type ImpactResponse struct {
	Increased               int              `json:"increased"`
	Decreased               int              `json:"decreased"`
	Unchanged               int              `json:"unchanged"`
	NewlyPriced             int              `json:"newlyPriced"`
	AverageVariationPercent *decimal.Decimal `json:"averageVariationPercent"`
	Applied                 int              `json:"applied"`
	Failed                  int              `json:"failed"`
}

// RecalculationSummaryResponse defines the data returned by simulate and commit.
type RecalculationSummaryResponse struct {
	OriginCurrencyCode      string                 `json:"originCurrencyCode"`
	DestinationCurrencyCode string                 `json:"destinationCurrencyCode"`
	Rate                    ExchangeRateResponse   `json:"rate"`
	RoundingConfig          RoundingConfigResponse `json:"roundingConfig"`
	Note                    string                 `json:"note"`
	DryRun                  bool                   `json:"dryRun"`
	Impact                  ImpactResponse         `json:"impact"`
	Items                   []ImpactItemResponse   `json:"items"`
	CalculatedAt            time.Time              `json:"calculatedAt"`
	Interrupted             bool                   `json:"interrupted"`
	Error                   string                 `json:"error,omitempty"`
}

// ToRecalculationSummaryResponse converts a domain summary to its response DTO.
func ToRecalculationSummaryResponse(s *domain.RecalculationSummary) RecalculationSummaryResponse {
	items := make([]ImpactItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = ImpactItemResponse{
			PriceableItemID:  it.PriceableItemID,
			SKU:              it.SKU,
			PreviousPrice:    it.PreviousPrice,
			NewPrice:         it.NewPrice,
			VariationPercent: it.VariationPercent,
			Status:           string(it.Status),
			Error:            it.Error,
			EntryID:          it.EntryID,
		}
	}

	return RecalculationSummaryResponse{
		OriginCurrencyCode:      s.OriginCurrency,
		DestinationCurrencyCode: s.DestinationCurrency,
		Rate:                    ToExchangeRateResponse(&s.Rate),
		RoundingConfig:          ToRoundingConfigResponse(s.RoundingConfig),
		Note:                    s.Note,
		DryRun:                  s.DryRun,
		Impact: ImpactResponse{
			Increased:               s.Impact.Increased,
			Decreased:               s.Impact.Decreased,
			Unchanged:               s.Impact.Unchanged,
			NewlyPriced:             s.Impact.NewlyPriced,
			AverageVariationPercent: s.Impact.AverageVariationPercent,
			Applied:                 s.Impact.Applied,
			Failed:                  s.Impact.Failed,
		},
		Items:        items,
		CalculatedAt: s.CalculatedAt,
		Interrupted:  s.Interrupted,
	}
}
