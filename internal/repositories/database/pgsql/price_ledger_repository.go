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
	"github.com/SscSPs/pricing_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const priceLedgerColumns = `l.entry_id, l.priceable_item_id, l.price, l.start_date, l.end_date,
	l.reason_code, l.is_current, l.created_by`

// PgxPriceLedgerRepository implements the append-only price ledger on PostgreSQL.
// Appends for one item are serialized by a row lock on the item and guarded by
// the uq_price_ledger_current partial unique index.
type PgxPriceLedgerRepository struct {
	BaseRepository
}

func newPgxPriceLedgerRepository(pool *pgxpool.Pool) *PgxPriceLedgerRepository {
	return &PgxPriceLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PriceLedgerRepositoryFacade = (*PgxPriceLedgerRepository)(nil)

func (r *PgxPriceLedgerRepository) FindCurrentEntry(ctx context.Context, itemID string) (*domain.PriceLedgerEntry, error) {
	return findCurrentEntry(ctx, r.Pool, itemID)
}

func findCurrentEntry(ctx context.Context, q querier, itemID string) (*domain.PriceLedgerEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT `+priceLedgerColumns+`
		FROM price_ledger l
		WHERE l.priceable_item_id = $1 AND l.is_current`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query current entry of %s: %w", itemID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PriceLedgerEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan current entry of %s: %w", itemID, err)
	}
	entry := mapping.ToDomainPriceLedgerEntry(m)
	return &entry, nil
}

func (r *PgxPriceLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.PriceLedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+priceLedgerColumns+` FROM price_ledger l WHERE l.entry_id = $1`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entry %s: %w", entryID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PriceLedgerEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainPriceLedgerEntry(m)
	return &entry, nil
}

// QueryEntries returns entries whose validity interval overlaps the filter range,
// newest start first with insertion order breaking ties.
func (r *PgxPriceLedgerRepository) QueryEntries(ctx context.Context, filter domain.LedgerFilter) (domain.LedgerPage, error) {
	baseQuery := `FROM price_ledger l JOIN priceable_items i ON i.priceable_item_id = l.priceable_item_id WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.PriceableItemID != nil {
		baseQuery += fmt.Sprintf(" AND l.priceable_item_id = $%d", argNum)
		args = append(args, *filter.PriceableItemID)
		argNum++
	}
	if filter.SKU != nil {
		baseQuery += fmt.Sprintf(" AND i.sku = $%d", argNum)
		args = append(args, *filter.SKU)
		argNum++
	}
	if filter.ReasonCode != nil {
		baseQuery += fmt.Sprintf(" AND l.reason_code = $%d", argNum)
		args = append(args, *filter.ReasonCode)
		argNum++
	}
	if filter.To != nil {
		baseQuery += fmt.Sprintf(" AND l.start_date <= $%d", argNum)
		args = append(args, *filter.To)
		argNum++
	}
	if filter.From != nil {
		baseQuery += fmt.Sprintf(" AND (l.end_date IS NULL OR l.end_date > $%d)", argNum)
		args = append(args, *filter.From)
		argNum++
	}

	page, size := pagination.Normalize(filter.Page, filter.Size)
	result := domain.LedgerPage{Entries: []domain.PriceLedgerEntry{}, Page: page, Size: size}

	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	if result.Total == 0 {
		return result, nil
	}

	query := "SELECT " + priceLedgerColumns + " " + baseQuery +
		fmt.Sprintf(" ORDER BY l.start_date DESC, l.seq DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, size, pagination.Offset(page, size))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return result, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	modelEntries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PriceLedgerEntry])
	if err != nil {
		return result, fmt.Errorf("failed to scan ledger entries: %w", err)
	}
	for _, m := range modelEntries {
		result.Entries = append(result.Entries, mapping.ToDomainPriceLedgerEntry(m))
	}
	return result, nil
}

// AppendEntry locks the item row, closes the current entry and inserts the new one
// in a single transaction.
func (r *PgxPriceLedgerRepository) AppendEntry(ctx context.Context, entry domain.PriceLedgerEntry) (*domain.PriceLedgerEntry, error) {
	var stored domain.PriceLedgerEntry

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx,
			`SELECT priceable_item_id FROM priceable_items WHERE priceable_item_id = $1 FOR UPDATE`,
			entry.PriceableItemID,
		).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to lock item %s: %w", entry.PriceableItemID, err)
		}

		current, err := findCurrentEntry(ctx, tx, entry.PriceableItemID)
		if err != nil {
			return err
		}

		at := domain.SupersedeAt(current, entry.StartDate)
		if current != nil {
			if _, err := tx.Exec(ctx,
				`UPDATE price_ledger SET end_date = $1, is_current = FALSE WHERE entry_id = $2`,
				at, current.EntryID,
			); err != nil {
				return fmt.Errorf("failed to close entry %s: %w", current.EntryID, err)
			}
		}

		entry.StartDate = at
		entry.EndDate = nil
		entry.IsCurrent = true
		m := mapping.ToModelPriceLedgerEntry(entry)

		// The row comes back as stored, with the price at the column's scale.
		rows, err := tx.Query(ctx, `
			INSERT INTO price_ledger AS l (entry_id, priceable_item_id, price, start_date, end_date, reason_code, is_current, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+priceLedgerColumns,
			m.EntryID, m.PriceableItemID, m.Price, m.StartDate, m.EndDate, m.ReasonCode, m.IsCurrent, m.CreatedBy,
		)
		if err == nil {
			m, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PriceLedgerEntry])
		}
		if err != nil {
			if isUniqueViolation(err, "uq_price_ledger_current") {
				return apperrors.ErrConflict
			}
			return fmt.Errorf("failed to insert ledger entry for %s: %w", entry.PriceableItemID, err)
		}

		stored = mapping.ToDomainPriceLedgerEntry(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
