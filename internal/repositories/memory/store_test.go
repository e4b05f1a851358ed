package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newEntry(itemID, price string, at time.Time) domain.PriceLedgerEntry {
	return domain.PriceLedgerEntry{
		EntryID:         uuid.NewString(),
		PriceableItemID: itemID,
		Price:           decimal.RequireFromString(price),
		StartDate:       at,
		IsCurrent:       true,
		CreatedBy:       "tester",
	}
}

func seedItem(t *testing.T, s *Store, id, currency, reference string) {
	t.Helper()
	require.NoError(t, s.SaveItem(context.Background(), domain.PriceableItem{
		PriceableItemID: id,
		SKU:             "SKU-" + id,
		CurrencyCode:    currency,
		ReferencePrice:  decimal.RequireFromString(reference),
	}))
}

func countCurrent(t *testing.T, s *Store, itemID string) int {
	t.Helper()
	page, err := s.QueryEntries(context.Background(), domain.LedgerFilter{PriceableItemID: &itemID, Size: 200})
	require.NoError(t, err)
	n := 0
	for _, e := range page.Entries {
		if e.IsCurrent {
			n++
			assert.Nil(t, e.EndDate)
		}
	}
	return n
}

func TestAppendEntry_ClosesCurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedItem(t, s, "item-1", "USD", "10")

	first, err := s.AppendEntry(ctx, newEntry("item-1", "10", t0))
	require.NoError(t, err)
	second, err := s.AppendEntry(ctx, newEntry("item-1", "12", t0.Add(time.Hour)))
	require.NoError(t, err)

	closed, err := s.FindEntryByID(ctx, first.EntryID)
	require.NoError(t, err)
	assert.False(t, closed.IsCurrent)
	require.NotNil(t, closed.EndDate)
	assert.Equal(t, second.StartDate, *closed.EndDate)
	assert.True(t, closed.Price.Equal(first.Price), "price never changes")
	assert.Equal(t, first.StartDate, closed.StartDate, "start date never changes")

	current, err := s.FindCurrentEntry(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.EntryID, current.EntryID)
}

func TestAppendEntry_ClockSkewKeepsIntervalsOrdered(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedItem(t, s, "item-1", "USD", "10")

	first, err := s.AppendEntry(ctx, newEntry("item-1", "10", t0))
	require.NoError(t, err)
	second, err := s.AppendEntry(ctx, newEntry("item-1", "11", t0.Add(-time.Minute)))
	require.NoError(t, err)

	assert.Equal(t, first.StartDate, second.StartDate)
	closed, err := s.FindEntryByID(ctx, first.EntryID)
	require.NoError(t, err)
	assert.False(t, closed.EndDate.Before(closed.StartDate))
}

func TestAppendEntry_UnknownItem(t *testing.T) {
	_, err := NewStore().AppendEntry(context.Background(), newEntry("ghost", "1", t0))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAppendEntry_ConcurrentSameItem(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedItem(t, s, "item-1", "USD", "10")
	seedItem(t, s, "item-2", "USD", "10")

	const writers = 64
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item := "item-1"
			if i%2 == 1 {
				item = "item-2"
			}
			_, err := s.AppendEntry(ctx, newEntry(item, fmt.Sprintf("%d", i+1), t0))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, item := range []string{"item-1", "item-2"} {
		assert.Equal(t, 1, countCurrent(t, s, item), item)
		page, err := s.QueryEntries(ctx, domain.LedgerFilter{PriceableItemID: &item, Size: 200})
		require.NoError(t, err)
		assert.Equal(t, writers/2, page.Total)
	}
}

func TestAppendEntry_IndexedEntriesAreFindable(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	items := []string{"item-1", "item-2", "item-3"}
	for _, id := range items {
		seedItem(t, s, id, "USD", "10")
	}

	// Every id in the index must already have its row.
	var unbacked atomic.Int64
	stop := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		for {
			select {
			case <-stop:
				return
			default:
			}
			s.mu.RLock()
			for entryID, itemID := range s.entryItem {
				found := false
				for _, row := range s.ledgers[itemID].entries {
					if row.entry.EntryID == entryID {
						found = true
						break
					}
				}
				if !found {
					unbacked.Add(1)
				}
			}
			s.mu.RUnlock()
		}
	}()

	ids := make(chan string, 90)
	var wg sync.WaitGroup
	for i := 0; i < 90; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored, err := s.AppendEntry(ctx, newEntry(items[i%len(items)], fmt.Sprintf("%d", i+1), t0))
			if assert.NoError(t, err) {
				ids <- stored.EntryID
			}
		}()
	}
	wg.Wait()
	close(stop)
	<-watched
	close(ids)

	assert.Zero(t, unbacked.Load())
	for id := range ids {
		got, err := s.FindEntryByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.EntryID)
	}
}

func TestFindCurrentEntry_NeverPriced(t *testing.T) {
	entry, err := NewStore().FindCurrentEntry(context.Background(), "nothing")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestQueryEntries_Filters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedItem(t, s, "a", "USD", "1")
	seedItem(t, s, "b", "USD", "1")

	manual := domain.ReasonManual
	e := newEntry("a", "1", t0)
	e.ReasonCode = &manual
	_, err := s.AppendEntry(ctx, e)
	require.NoError(t, err)
	_, err = s.AppendEntry(ctx, newEntry("a", "2", t0.Add(48*time.Hour)))
	require.NoError(t, err)
	_, err = s.AppendEntry(ctx, newEntry("b", "3", t0.Add(24*time.Hour)))
	require.NoError(t, err)

	all, err := s.QueryEntries(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.True(t, all.Entries[0].StartDate.After(all.Entries[1].StartDate), "newest first")

	sku := "SKU-b"
	bySKU, err := s.QueryEntries(ctx, domain.LedgerFilter{SKU: &sku})
	require.NoError(t, err)
	assert.Equal(t, 1, bySKU.Total)

	byReason, err := s.QueryEntries(ctx, domain.LedgerFilter{ReasonCode: &manual})
	require.NoError(t, err)
	assert.Equal(t, 1, byReason.Total)

	// Only the first entry of "a" was in effect on day 0.
	from, to := t0.Add(time.Hour), t0.Add(2*time.Hour)
	a := "a"
	inRange, err := s.QueryEntries(ctx, domain.LedgerFilter{PriceableItemID: &a, From: &from, To: &to})
	require.NoError(t, err)
	require.Equal(t, 1, inRange.Total)
	assert.Equal(t, "1", inRange.Entries[0].Price.String())

	// Open-ended current entries match ranges in the future.
	future := t0.Add(365 * 24 * time.Hour)
	open, err := s.QueryEntries(ctx, domain.LedgerFilter{From: &future})
	require.NoError(t, err)
	assert.Equal(t, 2, open.Total)

	paged, err := s.QueryEntries(ctx, domain.LedgerFilter{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, paged.Entries, 1)
	assert.Equal(t, 3, paged.Total)
}

func TestListPricedItemsByCurrency_Keyset(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, id := range []string{"c", "a", "d", "b"} {
		seedItem(t, s, id, "USD", "5")
	}
	seedItem(t, s, "z", "EUR", "5")
	_, err := s.AppendEntry(ctx, newEntry("b", "7", t0))
	require.NoError(t, err)

	first, err := s.ListPricedItemsByCurrency(ctx, "USD", "", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].Item.PriceableItemID)
	assert.Nil(t, first[0].CurrentPrice)
	require.NotNil(t, first[1].CurrentPrice)
	assert.Equal(t, "7", first[1].CurrentPrice.String())

	rest, err := s.ListPricedItemsByCurrency(ctx, "USD", "b", 2)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "c", rest[0].Item.PriceableItemID)
	assert.Equal(t, "d", rest[1].Item.PriceableItemID)
}

func TestExchangeRates_EffectiveOnAndDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	rate := func(d int, r string) domain.ExchangeRate {
		return domain.ExchangeRate{ExchangeRateID: uuid.NewString(), FromCurrencyCode: "USD", ToCurrencyCode: "BOB", Rate: decimal.RequireFromString(r), DateEffective: day(d)}
	}

	require.NoError(t, s.SaveExchangeRate(ctx, rate(10, "6.96")))
	require.NoError(t, s.SaveExchangeRate(ctx, rate(5, "6.90")))
	assert.ErrorIs(t, s.SaveExchangeRate(ctx, rate(10, "7.00")), apperrors.ErrDuplicate)

	got, err := s.FindExchangeRateEffectiveOn(ctx, "USD", "BOB", day(12).Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "6.96", got.Rate.String(), "the duplicate did not overwrite the original")

	got, err = s.FindExchangeRateEffectiveOn(ctx, "USD", "BOB", day(7))
	require.NoError(t, err)
	assert.Equal(t, "6.9", got.Rate.String())

	_, err = s.FindExchangeRateEffectiveOn(ctx, "USD", "BOB", day(4))
	assert.ErrorIs(t, err, apperrors.ErrRateNotFound)

	_, err = s.FindExchangeRateEffectiveOn(ctx, "BOB", "USD", day(20))
	assert.ErrorIs(t, err, apperrors.ErrRateNotFound, "no inverse fallback")

	list, total, err := s.ListExchangeRates(ctx, domain.ExchangeRateFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.True(t, list[0].DateEffective.Equal(day(10)))
}

func TestRoundingConfig_Versioned(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.FindRoundingConfig(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.SaveRoundingConfig(ctx, domain.RoundingConfig{Mode: domain.RoundingEntero, Version: 1}))
	assert.ErrorIs(t, s.SaveRoundingConfig(ctx, domain.RoundingConfig{Mode: domain.RoundingNinguno, Version: 1}), apperrors.ErrConflict)
	require.NoError(t, s.SaveRoundingConfig(ctx, domain.RoundingConfig{Mode: domain.RoundingNinguno, Version: 2}))

	cfg, err := s.FindRoundingConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoundingNinguno, cfg.Mode)
	assert.EqualValues(t, 2, cfg.Version)
}

func TestCurrencies_SingleLocal(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.SaveCurrency(ctx, domain.Currency{CurrencyCode: "BOB", IsLocal: true}))
	assert.ErrorIs(t, s.SaveCurrency(ctx, domain.Currency{CurrencyCode: "USD", IsLocal: true}), apperrors.ErrDuplicate)
	assert.ErrorIs(t, s.SaveCurrency(ctx, domain.Currency{CurrencyCode: "BOB"}), apperrors.ErrDuplicate)

	local, err := s.FindLocalCurrency(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BOB", local.CurrencyCode)
}
