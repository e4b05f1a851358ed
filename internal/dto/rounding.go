package dto

import (
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RoundingConfigRequest is the full replacement body for the rounding configuration.
// Fields that do not belong to Mode must be omitted.
type RoundingConfigRequest struct {
	Mode      string           `json:"mode" binding:"required,roundingmode"`
	Multiplo  *decimal.Decimal `json:"multiplo,omitempty"`
	Decimales *int             `json:"decimales,omitempty"`
}

// ToDomain converts the request into a domain config without a version.
func (r RoundingConfigRequest) ToDomain() domain.RoundingConfig {
	return domain.RoundingConfig{
		Mode:      domain.RoundingMode(r.Mode),
		Multiplo:  r.Multiplo,
		Decimales: r.Decimales,
	}
}

// RoundingConfigResponse defines the data returned for the rounding configuration.
type RoundingConfigResponse struct {
	Mode      string           `json:"mode"`
	Multiplo  *decimal.Decimal `json:"multiplo,omitempty"`
	Decimales *int             `json:"decimales,omitempty"`
	Version   int64            `json:"version"`
	UpdatedAt *time.Time       `json:"updatedAt,omitempty"`
	UpdatedBy string           `json:"updatedBy,omitempty"`
}

// ToRoundingConfigResponse converts a domain.RoundingConfig to its response DTO.
func ToRoundingConfigResponse(cfg domain.RoundingConfig) RoundingConfigResponse {
	resp := RoundingConfigResponse{
		Mode:      string(cfg.Mode),
		Multiplo:  cfg.Multiplo,
		Decimales: cfg.Decimales,
		Version:   cfg.Version,
		UpdatedBy: cfg.UpdatedBy,
	}
	if !cfg.UpdatedAt.IsZero() {
		updatedAt := cfg.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
