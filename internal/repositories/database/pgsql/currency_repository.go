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

const currencyColumns = `currency_code, symbol, name, precision, is_local, created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)

// SaveCurrency inserts a currency. Existing codes are never overwritten.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CurrencyCode, m.Symbol, m.Name, m.Precision, m.IsLocal,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_currencies_single_local") {
			return fmt.Errorf("%w: a local currency already exists", apperrors.ErrDuplicate)
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, m.CurrencyCode)
		}
		return fmt.Errorf("failed to save currency %s: %w", m.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return r.findOne(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE currency_code = $1`, currencyCode)
}

// FindLocalCurrency retrieves the currency flagged as local.
func (r *PgxCurrencyRepository) FindLocalCurrency(ctx context.Context) (*domain.Currency, error) {
	return r.findOne(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE is_local`)
}

// ListCurrencies retrieves all currencies ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+currencyColumns+` FROM currencies ORDER BY currency_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	modelCurrs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Currency])
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}
	return mapping.ToDomainCurrencySlice(modelCurrs), nil
}

func (r *PgxCurrencyRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency: %w", err)
	}
	modelCurr, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Currency])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan currency: %w", err)
	}
	c := mapping.ToDomainCurrency(modelCurr)
	return &c, nil
}
