package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PriceLedgerServiceTestSuite struct {
	suite.Suite
	f *pricingFixture
}

func (suite *PriceLedgerServiceTestSuite) SetupTest() {
	suite.f = newPricingFixture(suite.T())
	suite.f.addItem(suite.T(), "item-1", "USD", "10", "")
}

func (suite *PriceLedgerServiceTestSuite) setPrice(price string, at time.Time) *domain.PriceLedgerEntry {
	entry, err := suite.f.ledger.SetManualPrice(suite.f.ctx, "item-1", dto.SetPriceRequest{Price: decimal.RequireFromString(price)}, at, "clerk")
	suite.Require().NoError(err)
	return entry
}

func (suite *PriceLedgerServiceTestSuite) TestGetCurrent_NeverPriced() {
	entry, err := suite.f.ledger.GetCurrent(suite.f.ctx, "item-1")

	suite.Require().NoError(err)
	suite.Nil(entry)
}

func (suite *PriceLedgerServiceTestSuite) TestSetManualPrice_ClosesPreviousEntry() {
	first := suite.setPrice("70", clockNow)
	second := suite.setPrice("72.5", clockNow.Add(time.Hour))

	suite.Equal(domain.ReasonManual, *second.ReasonCode)
	suite.True(second.IsCurrent)

	closed, err := suite.f.ledger.GetEntry(suite.f.ctx, first.EntryID)
	suite.Require().NoError(err)
	suite.False(closed.IsCurrent)
	suite.Require().NotNil(closed.EndDate)
	suite.Equal(second.StartDate, *closed.EndDate)
	suite.True(decimal.RequireFromString("70").Equal(closed.Price), "closing never changes the price")
	suite.Equal(first.StartDate, closed.StartDate)

	current, err := suite.f.ledger.GetCurrent(suite.f.ctx, "item-1")
	suite.Require().NoError(err)
	suite.Equal(second.EntryID, current.EntryID)
}

func (suite *PriceLedgerServiceTestSuite) TestSetManualPrice_CustomReason() {
	entry, err := suite.f.ledger.SetManualPrice(suite.f.ctx, "item-1",
		dto.SetPriceRequest{Price: decimal.NewFromInt(5), ReasonCode: "PROMO"}, clockNow, "clerk")

	suite.Require().NoError(err)
	suite.Equal("PROMO", *entry.ReasonCode)
}

func (suite *PriceLedgerServiceTestSuite) TestAppend_ClockSkewNeverInvertsInterval() {
	first := suite.setPrice("70", clockNow)
	second := suite.setPrice("71", clockNow.Add(-time.Minute))

	closed, err := suite.f.ledger.GetEntry(suite.f.ctx, first.EntryID)
	suite.Require().NoError(err)
	suite.False(closed.EndDate.Before(closed.StartDate))
	suite.Equal(first.StartDate, second.StartDate)
}

func (suite *PriceLedgerServiceTestSuite) TestAppend_RejectsNonPositivePrice() {
	for _, price := range []string{"0", "-3"} {
		entry, err := suite.f.ledger.Append(suite.f.ctx, "item-1", decimal.RequireFromString(price), nil, clockNow, "clerk")

		suite.Require().Error(err, price)
		suite.Nil(entry)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.Empty(suite.f.history(suite.T(), "item-1"))
}

func (suite *PriceLedgerServiceTestSuite) TestAppend_StoresAtLedgerScale() {
	entry, err := suite.f.ledger.Append(suite.f.ctx, "item-1", decimal.RequireFromString("12.34567890123456"), nil, clockNow, "clerk")

	suite.Require().NoError(err)
	suite.Equal("12.345678901235", entry.Price.String())
	current, err := suite.f.ledger.GetCurrent(suite.f.ctx, "item-1")
	suite.Require().NoError(err)
	suite.True(entry.Price.Equal(current.Price))

	// positive only below the ledger scale
	_, err = suite.f.ledger.Append(suite.f.ctx, "item-1", decimal.RequireFromString("0.0000000000001"), nil, clockNow, "clerk")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PriceLedgerServiceTestSuite) TestAppend_UnknownItem() {
	entry, err := suite.f.ledger.Append(suite.f.ctx, "ghost", decimal.NewFromInt(1), nil, clockNow, "clerk")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PriceLedgerServiceTestSuite) TestAppend_ConcurrentCallersKeepOneCurrent() {
	const writers = 40
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := suite.f.ledger.Append(suite.f.ctx, "item-1", decimal.NewFromInt(int64(100+i)), nil,
				clockNow.Add(time.Duration(i)*time.Millisecond), "clerk")
			suite.NoError(err)
		}(i)
	}
	wg.Wait()

	history := suite.f.history(suite.T(), "item-1")
	suite.Len(history, writers)
	suite.Equal(1, countCurrent(history))
	for _, e := range history {
		if !e.IsCurrent {
			suite.Require().NotNil(e.EndDate)
			suite.False(e.EndDate.Before(e.StartDate))
		}
	}
}

func (suite *PriceLedgerServiceTestSuite) TestQueryHistory_DateRange() {
	day := func(d int) time.Time { return time.Date(2026, 6, d, 10, 0, 0, 0, time.UTC) }
	jun1 := suite.setPrice("10", day(1))
	jun5 := suite.setPrice("11", day(5))
	jun9 := suite.setPrice("12", day(9))

	page, err := suite.f.ledger.QueryHistory(suite.f.ctx, dto.ListPriceHistoryParams{ItemID: "item-1", From: "2026-06-06", To: "2026-06-07"})
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 1)
	suite.Equal(jun5.EntryID, page.Entries[0].EntryID)

	// A plain-date upper bound covers the whole day.
	page, err = suite.f.ledger.QueryHistory(suite.f.ctx, dto.ListPriceHistoryParams{ItemID: "item-1", From: "2026-06-09T11:00:00Z", To: "2026-06-09"})
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 1)
	suite.Equal(jun9.EntryID, page.Entries[0].EntryID)
	suite.True(page.Entries[0].IsCurrent)

	page, err = suite.f.ledger.QueryHistory(suite.f.ctx, dto.ListPriceHistoryParams{ItemID: "item-1"})
	suite.Require().NoError(err)
	suite.Equal(3, page.Total)
	suite.Equal([]string{jun9.EntryID, jun5.EntryID, jun1.EntryID},
		[]string{page.Entries[0].EntryID, page.Entries[1].EntryID, page.Entries[2].EntryID})
}

func (suite *PriceLedgerServiceTestSuite) TestQueryHistory_FiltersBySKUAndReason() {
	suite.f.addItem(suite.T(), "item-2", "USD", "3", "21")
	suite.setPrice("10", clockNow)
	_, err := suite.f.ledger.SetManualPrice(suite.f.ctx, "item-1", dto.SetPriceRequest{Price: decimal.NewFromInt(9), ReasonCode: "PROMO"}, clockNow.Add(time.Hour), "clerk")
	suite.Require().NoError(err)

	page, err := suite.f.ledger.QueryHistory(suite.f.ctx, dto.ListPriceHistoryParams{SKU: "SKU-item-1"})
	suite.Require().NoError(err)
	suite.Equal(2, page.Total)

	page, err = suite.f.ledger.QueryHistory(suite.f.ctx, dto.ListPriceHistoryParams{ReasonCode: "PROMO"})
	suite.Require().NoError(err)
	suite.Require().Equal(1, page.Total)
	suite.Equal("item-1", page.Entries[0].PriceableItemID)
}

func (suite *PriceLedgerServiceTestSuite) TestQueryHistory_Pagination() {
	for i := 0; i < 5; i++ {
		suite.setPrice(decimal.NewFromInt(int64(10+i)).String(), clockNow.Add(time.Duration(i)*time.Hour))
	}

	page, err := suite.f.ledger.QueryHistory(suite.f.ctx, dto.ListPriceHistoryParams{ItemID: "item-1", Page: 2, Size: 2})

	suite.Require().NoError(err)
	suite.Equal(5, page.Total)
	suite.Equal(2, page.Page)
	suite.Require().Len(page.Entries, 2)
	suite.Equal("12", page.Entries[0].Price.String())
	suite.Equal("11", page.Entries[1].Price.String())
}

func (suite *PriceLedgerServiceTestSuite) TestQueryHistory_InvalidRange() {
	_, err := suite.f.ledger.QueryHistory(suite.f.ctx, dto.ListPriceHistoryParams{From: "yesterday"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.ledger.QueryHistory(suite.f.ctx, dto.ListPriceHistoryParams{From: "2026-06-10", To: "2026-06-01"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PriceLedgerServiceTestSuite) TestRegisterItem_KeepsCreationAudit() {
	first, err := suite.f.ledger.RegisterItem(suite.f.ctx, "item-9", dto.RegisterItemRequest{
		SKU: "A-1", Name: "First", CurrencyCode: "USD", ReferencePrice: decimal.NewFromInt(4),
	}, "catalog-sync")
	suite.Require().NoError(err)

	second, err := suite.f.ledger.RegisterItem(suite.f.ctx, "item-9", dto.RegisterItemRequest{
		SKU: "A-1", Name: "Renamed", CurrencyCode: "USD", ReferencePrice: decimal.NewFromInt(5),
	}, "another-sync")
	suite.Require().NoError(err)

	suite.Equal("catalog-sync", second.CreatedBy)
	suite.Equal(first.CreatedAt, second.CreatedAt)
	suite.Equal("another-sync", second.LastUpdatedBy)
	suite.Equal("Renamed", second.Name)
}

func (suite *PriceLedgerServiceTestSuite) TestRegisterItem_UnknownCurrency() {
	_, err := suite.f.ledger.RegisterItem(suite.f.ctx, "item-9", dto.RegisterItemRequest{
		SKU: "A-1", Name: "First", CurrencyCode: "JPY", ReferencePrice: decimal.NewFromInt(4),
	}, "catalog-sync")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPriceLedgerService(t *testing.T) {
	suite.Run(t, new(PriceLedgerServiceTestSuite))
}
