package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RevertServiceTestSuite struct {
	suite.Suite
	f       *pricingFixture
	entries []*domain.PriceLedgerEntry
}

func (suite *RevertServiceTestSuite) SetupTest() {
	suite.f = newPricingFixture(suite.T())
	suite.f.addItem(suite.T(), "item-1", "USD", "10", "")

	suite.entries = nil
	for i, price := range []string{"60", "65", "70"} {
		entry, err := suite.f.ledger.SetManualPrice(suite.f.ctx, "item-1",
			dto.SetPriceRequest{Price: decimal.RequireFromString(price)}, clockNow.Add(time.Duration(i)*time.Hour), "clerk")
		suite.Require().NoError(err)
		suite.entries = append(suite.entries, entry)
	}
}

func (suite *RevertServiceTestSuite) TestRevert_AppendsTargetPrice() {
	target := suite.entries[0]
	before, err := suite.f.ledger.GetEntry(suite.f.ctx, target.EntryID)
	suite.Require().NoError(err)
	at := clockNow.Add(5 * time.Hour)

	reverted, err := suite.f.revert.Revert(suite.f.ctx, target.EntryID, "", at, "supervisor")

	suite.Require().NoError(err)
	suite.NotEqual(target.EntryID, reverted.EntryID)
	suite.True(reverted.IsCurrent)
	suite.Equal("60", reverted.Price.String())
	suite.Equal(domain.ReasonRevert, *reverted.ReasonCode)
	suite.Equal(at, reverted.StartDate)
	suite.Equal("supervisor", reverted.CreatedBy)

	previous, err := suite.f.ledger.GetEntry(suite.f.ctx, suite.entries[2].EntryID)
	suite.Require().NoError(err)
	suite.False(previous.IsCurrent)
	suite.Require().NotNil(previous.EndDate)
	suite.Equal(at, *previous.EndDate)

	after, err := suite.f.ledger.GetEntry(suite.f.ctx, target.EntryID)
	suite.Require().NoError(err)
	suite.Equal(before, after, "the reverted entry itself is untouched")

	history := suite.f.history(suite.T(), "item-1")
	suite.Len(history, 4)
	suite.Equal(1, countCurrent(history))
}

func (suite *RevertServiceTestSuite) TestRevert_NoteBecomesReasonCode() {
	reverted, err := suite.f.revert.Revert(suite.f.ctx, suite.entries[1].EntryID, "Precio erróneo", clockNow.Add(5*time.Hour), "supervisor")

	suite.Require().NoError(err)
	suite.Equal("Precio erróneo", *reverted.ReasonCode)
	suite.Equal("65", reverted.Price.String())
}

func (suite *RevertServiceTestSuite) TestRevert_CurrentEntryIsInvalidState() {
	current := suite.entries[2]

	reverted, err := suite.f.revert.Revert(suite.f.ctx, current.EntryID, "", clockNow.Add(5*time.Hour), "supervisor")

	suite.Require().Error(err)
	suite.Nil(reverted)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Contains(err.Error(), current.EntryID)
	suite.Len(suite.f.history(suite.T(), "item-1"), 3)
}

func (suite *RevertServiceTestSuite) TestRevert_UnknownEntry() {
	reverted, err := suite.f.revert.Revert(suite.f.ctx, "missing-entry", "", clockNow, "supervisor")

	suite.Require().Error(err)
	suite.Nil(reverted)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "missing-entry")
}

func (suite *RevertServiceTestSuite) TestRevert_TwiceToSameEntry() {
	first, err := suite.f.revert.Revert(suite.f.ctx, suite.entries[0].EntryID, "", clockNow.Add(5*time.Hour), "supervisor")
	suite.Require().NoError(err)

	// entries[0] stays historical, so it can be reverted to again once something else is current.
	_, err = suite.f.ledger.SetManualPrice(suite.f.ctx, "item-1", dto.SetPriceRequest{Price: decimal.NewFromInt(99)}, clockNow.Add(6*time.Hour), "clerk")
	suite.Require().NoError(err)

	second, err := suite.f.revert.Revert(suite.f.ctx, suite.entries[0].EntryID, "", clockNow.Add(7*time.Hour), "supervisor")
	suite.Require().NoError(err)
	suite.NotEqual(first.EntryID, second.EntryID)
	suite.Equal("60", second.Price.String())
}

func TestRevertService(t *testing.T) {
	suite.Run(t, new(RevertServiceTestSuite))
}
