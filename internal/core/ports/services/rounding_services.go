package services

import (
	"context"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
)

// RoundingConfigProvider hands out the rounding configuration currently in effect.
type RoundingConfigProvider interface {
	Current() domain.RoundingConfig
}

// RoundingSvcFacade manages the process-wide rounding configuration.
type RoundingSvcFacade interface {
	RoundingConfigProvider

	// GetRoundingConfig returns the configuration in effect.
	GetRoundingConfig(ctx context.Context) (domain.RoundingConfig, error)

	// ReplaceRoundingConfig validates and stores cfg as a whole, bumping the version.
	ReplaceRoundingConfig(ctx context.Context, cfg domain.RoundingConfig, userID string) (*domain.RoundingConfig, error)

	// Load reads the stored configuration at startup, falling back to the default.
	Load(ctx context.Context) error

	// Refresh reloads the stored configuration when its version is newer than the one held.
	Refresh(ctx context.Context) error
}
