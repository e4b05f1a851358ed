package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	"github.com/SscSPs/pricing_engine/internal/models"
	"github.com/SscSPs/pricing_engine/internal/utils/mapping"
	"github.com/SscSPs/pricing_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exchangeRateColumns = `exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxExchangeRateRepository implements the exchange rate repository ports using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate inserts a new exchange rate. The unique (pair, date) constraint turns
// a second insert for the same triple into apperrors.ErrDuplicate.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (`+exchangeRateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ExchangeRateID, m.FromCurrencyCode, m.ToCurrencyCode, m.Rate, m.DateEffective,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_exchange_rates_pair_date") {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}
	return nil
}

// FindExchangeRateEffectiveOn retrieves the rate with the latest effective date on or before date.
// There is no inverse or same-currency fallback.
func (r *PgxExchangeRateRepository) FindExchangeRateEffectiveOn(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	day := domain.TruncateToDate(date)
	rows, err := r.Pool.Query(ctx, `
		SELECT `+exchangeRateColumns+`
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= $3
		ORDER BY date_effective DESC
		LIMIT 1`,
		fromCurrencyCode, toCurrencyCode, day,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}

	modelRate, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.ExchangeRate])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewRateNotFoundError(fromCurrencyCode, toCurrencyCode, day.Format(domain.EffectiveDateLayout))
		}
		return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// ListExchangeRates retrieves exchange rates with optional filtering, newest first.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, int, error) {
	baseQuery := `FROM exchange_rates WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.FromCurrencyCode != nil {
		baseQuery += fmt.Sprintf(" AND from_currency_code = $%d", argNum)
		args = append(args, *filter.FromCurrencyCode)
		argNum++
	}
	if filter.ToCurrencyCode != nil {
		baseQuery += fmt.Sprintf(" AND to_currency_code = $%d", argNum)
		args = append(args, *filter.ToCurrencyCode)
		argNum++
	}

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count exchange rates", err)
	}
	if total == 0 {
		return []domain.ExchangeRate{}, 0, nil
	}

	page, size := pagination.Normalize(filter.Page, filter.Size)
	baseQuery += " ORDER BY date_effective DESC, from_currency_code, to_currency_code"
	baseQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, size, pagination.Offset(page, size))

	rows, err := r.Pool.Query(ctx, "SELECT "+exchangeRateColumns+" "+baseQuery, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	modelRates, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ExchangeRate])
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to scan exchange rates", err)
	}

	rates := make([]domain.ExchangeRate, len(modelRates))
	for i, m := range modelRates {
		rates[i] = mapping.ToDomainExchangeRate(m)
	}
	return rates, total, nil
}
