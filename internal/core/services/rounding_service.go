package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/metrics"
)

// roundingService holds the rounding configuration in effect and persists replacements.
type roundingService struct {
	BaseService
	repo portsrepo.RoundingConfigRepository

	mu      sync.RWMutex
	current domain.RoundingConfig
}

// NewRoundingService creates a rounding service holding the default config until Load runs.
func NewRoundingService(repo portsrepo.RoundingConfigRepository) portssvc.RoundingSvcFacade {
	return &roundingService{repo: repo, current: domain.DefaultRoundingConfig()}
}

var _ portssvc.RoundingSvcFacade = (*roundingService)(nil)

// Current returns a copy of the config in effect.
func (s *roundingService) Current() domain.RoundingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *roundingService) GetRoundingConfig(ctx context.Context) (domain.RoundingConfig, error) {
	return s.Current(), nil
}

// ReplaceRoundingConfig stores cfg as the next version. A concurrent replacement
// surfaces as apperrors.ErrConflict.
func (s *roundingService) ReplaceRoundingConfig(ctx context.Context, cfg domain.RoundingConfig, userID string) (*domain.RoundingConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	stored, err := s.repo.FindRoundingConfig(ctx)
	var version int64
	switch {
	case err == nil:
		version = stored.Version
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		s.LogError(ctx, err, "Failed to read rounding config")
		return nil, fmt.Errorf("failed to read rounding config: %w", err)
	}

	next := cfg.Clone()
	next.Version = version + 1
	next.UpdatedAt = time.Now().UTC()
	next.UpdatedBy = userID

	if err := s.repo.SaveRoundingConfig(ctx, next); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: rounding config was replaced concurrently, retry", apperrors.ErrConflict)
		}
		s.LogError(ctx, err, "Failed to save rounding config")
		return nil, fmt.Errorf("failed to save rounding config: %w", err)
	}

	s.swap(next)
	s.LogInfo(ctx, "Rounding config replaced",
		slog.String("mode", string(next.Mode)),
		slog.Int64("version", next.Version))
	return &next, nil
}

// Load reads the stored config. A missing config keeps the default.
func (s *roundingService) Load(ctx context.Context) error {
	stored, err := s.repo.FindRoundingConfig(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "No stored rounding config, using default", slog.String("mode", string(domain.RoundingNinguno)))
			return nil
		}
		return fmt.Errorf("failed to load rounding config: %w", err)
	}
	if err := stored.Validate(); err != nil {
		return fmt.Errorf("stored rounding config version %d is invalid: %w", stored.Version, err)
	}

	s.mu.Lock()
	s.current = stored.Clone()
	s.mu.Unlock()
	metrics.RoundingConfigVersion.Set(float64(stored.Version))

	s.LogInfo(ctx, "Rounding config loaded", slog.String("mode", string(stored.Mode)), slog.Int64("version", stored.Version))
	return nil
}

// Refresh picks up replacements made by other instances.
func (s *roundingService) Refresh(ctx context.Context) error {
	stored, err := s.repo.FindRoundingConfig(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to refresh rounding config: %w", err)
	}
	if err := stored.Validate(); err != nil {
		s.LogError(ctx, err, "Ignoring invalid stored rounding config", slog.Int64("version", stored.Version))
		return nil
	}
	if s.swap(*stored) {
		s.LogInfo(ctx, "Rounding config refreshed", slog.String("mode", string(stored.Mode)), slog.Int64("version", stored.Version))
	}
	return nil
}

// swap installs cfg if it is newer than the config held and reports whether it did.
func (s *roundingService) swap(cfg domain.RoundingConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.Version <= s.current.Version {
		return false
	}
	s.current = cfg.Clone()
	metrics.RoundingConfigVersion.Set(float64(cfg.Version))
	return true
}
