package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
)

type revertService struct {
	BaseService
	ledgerReader portsrepo.PriceLedgerReader
	ledger       portssvc.PriceLedgerWriterSvc
}

// NewRevertService creates the revert operation on top of the ledger's append.
func NewRevertService(ledgerReader portsrepo.PriceLedgerReader, ledger portssvc.PriceLedgerWriterSvc) portssvc.RevertSvc {
	return &revertService{ledgerReader: ledgerReader, ledger: ledger}
}

var _ portssvc.RevertSvc = (*revertService)(nil)

// Revert never resurrects the target: it appends a new current entry carrying the
// target's price and leaves the target itself untouched.
func (s *revertService) Revert(ctx context.Context, entryID string, note string, now time.Time, userID string) (*domain.PriceLedgerEntry, error) {
	target, err := s.ledgerReader.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("price ledger entry %s", entryID))
		}
		s.LogError(ctx, err, "Failed to look up revert target", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to look up price ledger entry %s: %w", entryID, err)
	}

	// A superseded entry can never become current again, so this check cannot go stale.
	if target.IsCurrent {
		return nil, fmt.Errorf("%w: entry %s is already the current price of item %s",
			apperrors.ErrInvalidState, entryID, target.PriceableItemID)
	}

	reason := strings.TrimSpace(note)
	if reason == "" {
		reason = domain.ReasonRevert
	}

	entry, err := s.ledger.Append(ctx, target.PriceableItemID, target.Price, &reason, now, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to revert to entry %s: %w", entryID, err)
	}

	s.LogInfo(ctx, "Price reverted",
		slog.String("item_id", target.PriceableItemID),
		slog.String("reverted_entry_id", entryID),
		slog.String("new_entry_id", entry.EntryID),
		slog.String("price", entry.Price.String()))
	return entry, nil
}
