package repositories

import (
	"context"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
)

// RoundingConfigRepository persists the singleton rounding configuration.
type RoundingConfigRepository interface {
	// FindRoundingConfig returns the stored config. Returns apperrors.ErrNotFound if none was stored yet.
	FindRoundingConfig(ctx context.Context) (*domain.RoundingConfig, error)

	// SaveRoundingConfig replaces the stored config provided the stored version still equals
	// cfg.Version-1. Returns apperrors.ErrConflict otherwise.
	SaveRoundingConfig(ctx context.Context, cfg domain.RoundingConfig) error
}
