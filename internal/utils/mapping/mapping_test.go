package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundingConfigMapping_OptionalFields(t *testing.T) {
	half := decimal.RequireFromString("0.5")
	m := ToModelRoundingConfig(domain.RoundingConfig{Mode: domain.RoundingMultiplo, Multiplo: &half, Version: 3})
	assert.True(t, m.Multiplo.Valid)
	assert.Nil(t, m.Decimales)

	d := ToDomainRoundingConfig(m)
	require.NotNil(t, d.Multiplo)
	assert.True(t, half.Equal(*d.Multiplo))
	assert.Nil(t, d.Decimales)
	assert.NoError(t, d.Validate())

	two := int32(2)
	d = ToDomainRoundingConfig(models.RoundingConfig{Mode: "DECIMALES", Decimales: &two})
	require.NotNil(t, d.Decimales)
	assert.Equal(t, 2, *d.Decimales)
	assert.Nil(t, d.Multiplo)
}

func TestToDomainPricedItem_NeverPriced(t *testing.T) {
	item := ToDomainPricedItem(models.PricedItem{PriceableItem: models.PriceableItem{PriceableItemID: "x"}})
	assert.Nil(t, item.CurrentPrice)

	priced := ToDomainPricedItem(models.PricedItem{CurrentPrice: decimal.NewNullDecimal(decimal.NewFromInt(4))})
	require.NotNil(t, priced.CurrentPrice)
	assert.Equal(t, "4", priced.CurrentPrice.String())
}

func TestToDomainPriceLedgerEntry_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("BOT", -4*3600)
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, loc)
	end := start.Add(time.Hour)

	e := ToDomainPriceLedgerEntry(models.PriceLedgerEntry{StartDate: start, EndDate: &end})
	assert.Equal(t, time.UTC, e.StartDate.Location())
	assert.Equal(t, time.UTC, e.EndDate.Location())
	assert.True(t, e.StartDate.Equal(start))
}
