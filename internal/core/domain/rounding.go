package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how recalculated prices are rounded.
type RoundingMode string

const (
	RoundingEntero    RoundingMode = "ENTERO"    // nearest integer
	RoundingMultiplo  RoundingMode = "MULTIPLO"  // nearest multiple of Multiplo
	RoundingDecimales RoundingMode = "DECIMALES" // Decimales fractional digits
	RoundingNinguno   RoundingMode = "NINGUNO"   // no rounding
)

// MaxRoundingDecimales bounds the DECIMALES mode.
const MaxRoundingDecimales = 10

// LedgerPriceScale is the number of decimal places a ledger price keeps once stored.
const LedgerPriceScale = 12

// QuantizePrice rounds value to the ledger scale, so that a price compares
// equal to the one read back after it is stored.
func QuantizePrice(value decimal.Decimal) decimal.Decimal {
	return value.Round(LedgerPriceScale)
}

// IsValid reports whether m is one of the known modes.
func (m RoundingMode) IsValid() bool {
	switch m {
	case RoundingEntero, RoundingMultiplo, RoundingDecimales, RoundingNinguno:
		return true
	}
	return false
}

// RoundingConfig is the process-wide rounding policy. It is always replaced as a
// whole; Version increases by one on every replacement.
type RoundingConfig struct {
	Mode      RoundingMode     `json:"mode"`
	Multiplo  *decimal.Decimal `json:"multiplo,omitempty"`
	Decimales *int             `json:"decimales,omitempty"`
	Version   int64            `json:"version"`
	UpdatedAt time.Time        `json:"updatedAt"`
	UpdatedBy string           `json:"updatedBy"`
}

// DefaultRoundingConfig is used until a config has been stored.
func DefaultRoundingConfig() RoundingConfig {
	return RoundingConfig{Mode: RoundingNinguno}
}

// Clone returns a copy that shares no pointers with c.
func (c RoundingConfig) Clone() RoundingConfig {
	out := c
	if c.Multiplo != nil {
		m := *c.Multiplo
		out.Multiplo = &m
	}
	if c.Decimales != nil {
		d := *c.Decimales
		out.Decimales = &d
	}
	return out
}

// Validate checks that the optional fields match the mode exactly.
func (c RoundingConfig) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("unknown rounding mode %q", c.Mode)
	}

	switch c.Mode {
	case RoundingMultiplo:
		if c.Multiplo == nil {
			return fmt.Errorf("multiplo is required for mode %s", c.Mode)
		}
		if !c.Multiplo.IsPositive() {
			return fmt.Errorf("multiplo must be positive, got %s", c.Multiplo.String())
		}
	case RoundingDecimales:
		if c.Decimales == nil {
			return fmt.Errorf("decimales is required for mode %s", c.Mode)
		}
		if *c.Decimales < 0 || *c.Decimales > MaxRoundingDecimales {
			return fmt.Errorf("decimales must be between 0 and %d, got %d", MaxRoundingDecimales, *c.Decimales)
		}
	}

	if c.Mode != RoundingMultiplo && c.Multiplo != nil {
		return fmt.Errorf("multiplo is only allowed for mode %s", RoundingMultiplo)
	}
	if c.Mode != RoundingDecimales && c.Decimales != nil {
		return fmt.Errorf("decimales is only allowed for mode %s", RoundingDecimales)
	}
	return nil
}

// Round applies cfg to value. Ties round away from zero. NINGUNO leaves the
// value untouched except that negative values are clamped to zero. Every mode
// ends at LedgerPriceScale. cfg is assumed to have passed Validate.
func Round(value decimal.Decimal, cfg RoundingConfig) decimal.Decimal {
	return QuantizePrice(round(value, cfg))
}

func round(value decimal.Decimal, cfg RoundingConfig) decimal.Decimal {
	switch cfg.Mode {
	case RoundingEntero:
		return value.Round(0)
	case RoundingMultiplo:
		m := *cfg.Multiplo
		return value.Div(m).Round(0).Mul(m)
	case RoundingDecimales:
		return value.Round(int32(*cfg.Decimales))
	default:
		if value.IsNegative() {
			return decimal.Zero
		}
		return value
	}
}
