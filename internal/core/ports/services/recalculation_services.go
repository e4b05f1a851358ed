package services

import (
	"context"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/dto"
)

// RecalculationSvcFacade recomputes prices of items denominated in a currency.
type RecalculationSvcFacade interface {
	// Simulate computes the new prices without writing anything.
	Simulate(ctx context.Context, req dto.RecalculationRequest) (*domain.RecalculationSummary, error)

	// Commit computes the new prices and appends an entry for every changed item,
	// reporting the outcome per item. When the run stops partway (cancelled context,
	// failed item read) it returns the error together with an Interrupted summary of
	// the items processed so far.
	Commit(ctx context.Context, req dto.RecalculationRequest, userID string) (*domain.RecalculationSummary, error)
}
