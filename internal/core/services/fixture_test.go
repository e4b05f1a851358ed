package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/core/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// clockNow is the fixed "today" of the memory-backed tests.
var clockNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

// pricingFixture wires the real services over an in-memory store seeded with
// BOB (local), USD and EUR and a USD->BOB rate of 6.96.
type pricingFixture struct {
	ctx      context.Context
	store    *memory.Store
	currency portssvc.CurrencySvcFacade
	rates    portssvc.ExchangeRateSvcFacade
	rounding portssvc.RoundingSvcFacade
	ledger   portssvc.PriceLedgerSvcFacade
	revert   portssvc.RevertSvc
}

func newPricingFixture(t *testing.T) *pricingFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Provider()

	f := &pricingFixture{ctx: ctx, store: store}
	f.currency = services.NewCurrencyService(repos.CurrencyRepo)
	f.rates = services.NewExchangeRateService(repos.ExchangeRateRepo, f.currency)
	f.rounding = services.NewRoundingService(repos.RoundingConfigRepo)
	f.ledger = services.NewPriceLedgerService(repos.PriceLedgerRepo, repos.PriceableItemRepo, repos.CurrencyRepo)
	f.revert = services.NewRevertService(repos.PriceLedgerRepo, f.ledger)

	for _, c := range []dto.CreateCurrencyRequest{
		{CurrencyCode: "BOB", Symbol: "Bs", Name: "Boliviano", Precision: 2, IsLocal: true},
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2},
		{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2},
	} {
		_, err := f.currency.CreateCurrency(ctx, c, "seed")
		require.NoError(t, err)
	}
	f.addRate(t, "USD", "BOB", "6.96", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return f
}

func (f *pricingFixture) recalculation(opts ...services.RecalculationOption) portssvc.RecalculationSvcFacade {
	return f.recalculationWithLedger(f.ledger, opts...)
}

func (f *pricingFixture) recalculationWithLedger(ledger portssvc.PriceLedgerWriterSvc, opts ...services.RecalculationOption) portssvc.RecalculationSvcFacade {
	repos := f.store.Provider()
	opts = append([]services.RecalculationOption{services.WithClock(func() time.Time { return clockNow })}, opts...)
	return services.NewRecalculationService(f.rates, f.currency, f.rounding, repos.PriceableItemRepo, ledger, opts...)
}

func (f *pricingFixture) addRate(t *testing.T, from, to, rate string, effective time.Time) {
	t.Helper()
	_, err := f.rates.CreateExchangeRate(f.ctx, dto.CreateExchangeRateRequest{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             decimal.RequireFromString(rate),
		DateEffective:    effective,
	}, "seed")
	require.NoError(t, err)
}

// addItem registers an item and, when current is not empty, gives it that price.
func (f *pricingFixture) addItem(t *testing.T, id, currency, reference, current string) {
	t.Helper()
	_, err := f.ledger.RegisterItem(f.ctx, id, dto.RegisterItemRequest{
		SKU:            "SKU-" + id,
		Name:           "Item " + id,
		CurrencyCode:   currency,
		ReferencePrice: decimal.RequireFromString(reference),
	}, "seed")
	require.NoError(t, err)

	if current != "" {
		_, err = f.ledger.SetManualPrice(f.ctx, id, dto.SetPriceRequest{Price: decimal.RequireFromString(current)}, clockNow.Add(-24*time.Hour), "seed")
		require.NoError(t, err)
	}
}

func (f *pricingFixture) history(t *testing.T, itemID string) []domain.PriceLedgerEntry {
	t.Helper()
	page, err := f.ledger.QueryHistory(f.ctx, dto.ListPriceHistoryParams{ItemID: itemID, Size: 200})
	require.NoError(t, err)
	return page.Entries
}

func (f *pricingFixture) currentPrice(t *testing.T, itemID string) string {
	t.Helper()
	entry, err := f.ledger.GetCurrent(f.ctx, itemID)
	require.NoError(t, err)
	if entry == nil {
		return ""
	}
	return entry.Price.String()
}

func countCurrent(entries []domain.PriceLedgerEntry) int {
	n := 0
	for _, e := range entries {
		if e.IsCurrent {
			n++
		}
	}
	return n
}
