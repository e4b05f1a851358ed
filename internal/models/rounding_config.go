package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundingConfig is the single row of the rounding_config table.
type RoundingConfig struct {
	Mode      string              `db:"mode"`
	Multiplo  decimal.NullDecimal `db:"multiplo"`
	Decimales *int32              `db:"decimales"`
	Version   int64               `db:"version"`
	UpdatedAt time.Time           `db:"updated_at"`
	UpdatedBy string              `db:"updated_by"`
}
