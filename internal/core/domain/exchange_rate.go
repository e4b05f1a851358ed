package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EffectiveDateLayout is the wire and key format of an exchange rate effective date.
const EffectiveDateLayout = "2006-01-02"

// ExchangeRate is the directed conversion rate from one currency to another,
// in effect from DateEffective until a later rate for the same pair supersedes it.
// Rates are never updated once created.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}

// TruncateToDate drops the clock part of t, keeping its calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Convert applies the rate to an amount denominated in the origin currency.
func (r ExchangeRate) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Rate)
}

// ExchangeRateFilter selects exchange rates for history browsing.
type ExchangeRateFilter struct {
	FromCurrencyCode *string
	ToCurrencyCode   *string
	Page             int
	Size             int
}
