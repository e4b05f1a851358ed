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
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/metrics"
	"github.com/SscSPs/pricing_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type priceLedgerService struct {
	BaseService
	ledgerRepo   portsrepo.PriceLedgerRepositoryFacade
	itemRepo     portsrepo.PriceableItemRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// NewPriceLedgerService creates the service owning every write to the price ledger.
func NewPriceLedgerService(ledgerRepo portsrepo.PriceLedgerRepositoryFacade, itemRepo portsrepo.PriceableItemRepositoryFacade, currencyRepo portsrepo.CurrencyReader) portssvc.PriceLedgerSvcFacade {
	return &priceLedgerService{
		ledgerRepo:   ledgerRepo,
		itemRepo:     itemRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.PriceLedgerSvcFacade = (*priceLedgerService)(nil)

func (s *priceLedgerService) GetCurrent(ctx context.Context, itemID string) (*domain.PriceLedgerEntry, error) {
	entry, err := s.ledgerRepo.FindCurrentEntry(ctx, itemID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get current price", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to get current price of item %s: %w", itemID, err)
	}
	return entry, nil
}

func (s *priceLedgerService) GetEntry(ctx context.Context, entryID string) (*domain.PriceLedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("price ledger entry %s", entryID))
		}
		return nil, fmt.Errorf("failed to get price ledger entry %s: %w", entryID, err)
	}
	return entry, nil
}

func (s *priceLedgerService) QueryHistory(ctx context.Context, params dto.ListPriceHistoryParams) (domain.LedgerPage, error) {
	page, size := pagination.Normalize(params.Page, params.Size)
	filter := domain.LedgerFilter{Page: page, Size: size}

	if params.ItemID != "" {
		filter.PriceableItemID = &params.ItemID
	}
	if params.SKU != "" {
		filter.SKU = &params.SKU
	}
	if params.ReasonCode != "" {
		filter.ReasonCode = &params.ReasonCode
	}

	var err error
	if filter.From, err = parseRangeBound(params.From, false); err != nil {
		return domain.LedgerPage{}, err
	}
	if filter.To, err = parseRangeBound(params.To, true); err != nil {
		return domain.LedgerPage{}, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return domain.LedgerPage{}, apperrors.NewValidationError("'to' must not be before 'from'")
	}

	result, err := s.ledgerRepo.QueryEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to query price history")
		return domain.LedgerPage{}, fmt.Errorf("failed to query price history: %w", err)
	}
	if result.Entries == nil {
		result.Entries = []domain.PriceLedgerEntry{}
	}
	return result, nil
}

// Append is the only path through which ledger entries are created.
func (s *priceLedgerService) Append(ctx context.Context, itemID string, price decimal.Decimal, reasonCode *string, now time.Time, userID string) (*domain.PriceLedgerEntry, error) {
	price = domain.QuantizePrice(price)
	if !price.IsPositive() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("price must be positive at %d decimal places, got %s", domain.LedgerPriceScale, price.String()))
	}
	if _, err := s.itemRepo.FindItemByID(ctx, itemID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("priceable item %s", itemID))
		}
		return nil, fmt.Errorf("failed to look up priceable item %s: %w", itemID, err)
	}

	stored, err := s.ledgerRepo.AppendEntry(ctx, domain.PriceLedgerEntry{
		EntryID:         uuid.NewString(),
		PriceableItemID: itemID,
		Price:           price,
		StartDate:       now.UTC(),
		ReasonCode:      reasonCode,
		IsCurrent:       true,
		CreatedBy:       userID,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to append price ledger entry", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to append price for item %s: %w", itemID, err)
	}

	metrics.LedgerAppendsTotal.WithLabelValues(reasonLabel(reasonCode)).Inc()
	s.LogDebug(ctx, "Price ledger entry appended",
		slog.String("item_id", itemID),
		slog.String("entry_id", stored.EntryID),
		slog.String("price", stored.Price.String()))
	return stored, nil
}

func (s *priceLedgerService) SetManualPrice(ctx context.Context, itemID string, req dto.SetPriceRequest, now time.Time, userID string) (*domain.PriceLedgerEntry, error) {
	reason := strings.TrimSpace(req.ReasonCode)
	if reason == "" {
		reason = domain.ReasonManual
	}
	entry, err := s.Append(ctx, itemID, req.Price, &reason, now, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Manual price set", slog.String("item_id", itemID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

func (s *priceLedgerService) RegisterItem(ctx context.Context, itemID string, req dto.RegisterItemRequest, userID string) (*domain.PriceableItem, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, apperrors.NewValidationError("item ID is required")
	}
	if !req.ReferencePrice.IsPositive() {
		return nil, apperrors.NewValidationError("reference price must be positive")
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("currency code '%s' not found", req.CurrencyCode))
		}
		return nil, fmt.Errorf("failed to validate currency '%s': %w", req.CurrencyCode, err)
	}

	now := time.Now().UTC()
	item := domain.PriceableItem{
		PriceableItemID: itemID,
		SKU:             req.SKU,
		Name:            req.Name,
		CurrencyCode:    req.CurrencyCode,
		ReferencePrice:  req.ReferencePrice,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	existing, err := s.itemRepo.FindItemByID(ctx, itemID)
	switch {
	case err == nil:
		item.CreatedAt = existing.CreatedAt
		item.CreatedBy = existing.CreatedBy
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to look up priceable item %s: %w", itemID, err)
	}

	if err := s.itemRepo.SaveItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save priceable item", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to save priceable item %s: %w", itemID, err)
	}
	s.LogInfo(ctx, "Priceable item registered", slog.String("item_id", itemID), slog.String("sku", item.SKU))
	return &item, nil
}

// parseRangeBound accepts RFC3339 timestamps or plain dates. A plain date used as
// an upper bound covers the whole day.
func parseRangeBound(raw string, upper bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	day, err := time.Parse(domain.EffectiveDateLayout, raw)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid date '%s', expected YYYY-MM-DD or RFC3339", raw))
	}
	if upper {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}

func reasonLabel(reasonCode *string) string {
	if reasonCode == nil {
		return "none"
	}
	switch *reasonCode {
	case domain.ReasonManual, domain.ReasonRecalculation, domain.ReasonRevert:
		return *reasonCode
	}
	return "custom"
}
