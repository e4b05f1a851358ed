package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	"github.com/SscSPs/pricing_engine/internal/models"
	"github.com/SscSPs/pricing_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRoundingConfigRepository keeps the single rounding_config row.
type PgxRoundingConfigRepository struct {
	BaseRepository
}

func newPgxRoundingConfigRepository(pool *pgxpool.Pool) *PgxRoundingConfigRepository {
	return &PgxRoundingConfigRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RoundingConfigRepository = (*PgxRoundingConfigRepository)(nil)

func (r *PgxRoundingConfigRepository) FindRoundingConfig(ctx context.Context) (*domain.RoundingConfig, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT mode, multiplo, decimales, version, updated_at, updated_by
		FROM rounding_config WHERE id = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounding config: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.RoundingConfig])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan rounding config: %w", err)
	}
	cfg := mapping.ToDomainRoundingConfig(m)
	return &cfg, nil
}

// SaveRoundingConfig writes cfg only if the stored version is cfg.Version-1.
// Version 1 creates the row.
func (r *PgxRoundingConfigRepository) SaveRoundingConfig(ctx context.Context, cfg domain.RoundingConfig) error {
	m := mapping.ToModelRoundingConfig(cfg)
	tag, err := r.Pool.Exec(ctx, `
		INSERT INTO rounding_config (id, mode, multiplo, decimales, version, updated_at, updated_by)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			mode = EXCLUDED.mode,
			multiplo = EXCLUDED.multiplo,
			decimales = EXCLUDED.decimales,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
		WHERE rounding_config.version = EXCLUDED.version - 1`,
		m.Mode, m.Multiplo, m.Decimales, m.Version, m.UpdatedAt, m.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save rounding config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
