package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
)

func (s *Store) FindRoundingConfig(_ context.Context) (*domain.RoundingConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.rounding == nil {
		return nil, apperrors.ErrNotFound
	}
	cfg := s.rounding.Clone()
	return &cfg, nil
}

func (s *Store) SaveRoundingConfig(_ context.Context, cfg domain.RoundingConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored int64
	if s.rounding != nil {
		stored = s.rounding.Version
	}
	if cfg.Version != stored+1 {
		return fmt.Errorf("%w: stored rounding config is version %d, cannot save version %d", apperrors.ErrConflict, stored, cfg.Version)
	}
	next := cfg.Clone()
	s.rounding = &next
	return nil
}
