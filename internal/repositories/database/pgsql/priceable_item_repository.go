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

const priceableItemColumns = `i.priceable_item_id, i.sku, i.name, i.currency_code, i.reference_price,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by`

// PgxPriceableItemRepository stores the engine's projection of catalog items.
type PgxPriceableItemRepository struct {
	BaseRepository
}

func newPgxPriceableItemRepository(pool *pgxpool.Pool) *PgxPriceableItemRepository {
	return &PgxPriceableItemRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PriceableItemRepositoryFacade = (*PgxPriceableItemRepository)(nil)

func (r *PgxPriceableItemRepository) FindItemByID(ctx context.Context, itemID string) (*domain.PriceableItem, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+priceableItemColumns+` FROM priceable_items i WHERE i.priceable_item_id = $1`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query priceable item %s: %w", itemID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PriceableItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan priceable item %s: %w", itemID, err)
	}
	item := mapping.ToDomainPriceableItem(m)
	return &item, nil
}

// ListPricedItemsByCurrency reads one keyset page of items with their current price.
// It takes no locks; the recalculation it feeds tolerates slightly stale prices.
func (r *PgxPriceableItemRepository) ListPricedItemsByCurrency(ctx context.Context, currencyCode string, afterID string, limit int) ([]domain.PricedItem, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+priceableItemColumns+`, l.price AS current_price
		FROM priceable_items i
		LEFT JOIN price_ledger l ON l.priceable_item_id = i.priceable_item_id AND l.is_current
		WHERE i.currency_code = $1 AND i.priceable_item_id > $2
		ORDER BY i.priceable_item_id
		LIMIT $3`,
		currencyCode, afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items in %s: %w", currencyCode, err)
	}
	modelItems, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PricedItem])
	if err != nil {
		return nil, fmt.Errorf("failed to scan items in %s: %w", currencyCode, err)
	}

	items := make([]domain.PricedItem, len(modelItems))
	for i, m := range modelItems {
		items[i] = mapping.ToDomainPricedItem(m)
	}
	return items, nil
}

// SaveItem inserts an item or refreshes its catalog fields.
func (r *PgxPriceableItemRepository) SaveItem(ctx context.Context, item domain.PriceableItem) error {
	m := mapping.ToModelPriceableItem(item)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO priceable_items (
			priceable_item_id, sku, name, currency_code, reference_price,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (priceable_item_id) DO UPDATE SET
			sku = EXCLUDED.sku,
			name = EXCLUDED.name,
			currency_code = EXCLUDED.currency_code,
			reference_price = EXCLUDED.reference_price,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`,
		m.PriceableItemID, m.SKU, m.Name, m.CurrencyCode, m.ReferencePrice,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save priceable item %s: %w", m.PriceableItemID, err)
	}
	return nil
}
