package mapping

import (
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/models"
)

// ToModelPriceableItem converts a domain PriceableItem to a model PriceableItem
func ToModelPriceableItem(d domain.PriceableItem) models.PriceableItem {
	return models.PriceableItem{
		PriceableItemID: d.PriceableItemID,
		SKU:             d.SKU,
		Name:            d.Name,
		CurrencyCode:    d.CurrencyCode,
		ReferencePrice:  d.ReferencePrice,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPriceableItem converts a model PriceableItem to a domain PriceableItem
func ToDomainPriceableItem(m models.PriceableItem) domain.PriceableItem {
	return domain.PriceableItem{
		PriceableItemID: m.PriceableItemID,
		SKU:             m.SKU,
		Name:            m.Name,
		CurrencyCode:    m.CurrencyCode,
		ReferencePrice:  m.ReferencePrice,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPricedItem converts a joined item row, leaving CurrentPrice nil for never-priced items.
func ToDomainPricedItem(m models.PricedItem) domain.PricedItem {
	out := domain.PricedItem{Item: ToDomainPriceableItem(m.PriceableItem)}
	if m.CurrentPrice.Valid {
		price := m.CurrentPrice.Decimal
		out.CurrentPrice = &price
	}
	return out
}

// ToModelPriceLedgerEntry converts a domain PriceLedgerEntry to a model PriceLedgerEntry
func ToModelPriceLedgerEntry(d domain.PriceLedgerEntry) models.PriceLedgerEntry {
	return models.PriceLedgerEntry{
		EntryID:         d.EntryID,
		PriceableItemID: d.PriceableItemID,
		Price:           d.Price,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		ReasonCode:      d.ReasonCode,
		IsCurrent:       d.IsCurrent,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainPriceLedgerEntry converts a model PriceLedgerEntry to a domain PriceLedgerEntry
func ToDomainPriceLedgerEntry(m models.PriceLedgerEntry) domain.PriceLedgerEntry {
	out := domain.PriceLedgerEntry{
		EntryID:         m.EntryID,
		PriceableItemID: m.PriceableItemID,
		Price:           m.Price,
		StartDate:       m.StartDate.UTC(),
		ReasonCode:      m.ReasonCode,
		IsCurrent:       m.IsCurrent,
		CreatedBy:       m.CreatedBy,
	}
	if m.EndDate != nil {
		end := m.EndDate.UTC()
		out.EndDate = &end
	}
	return out
}

// ToModelRoundingConfig converts a domain RoundingConfig to a model RoundingConfig
func ToModelRoundingConfig(d domain.RoundingConfig) models.RoundingConfig {
	m := models.RoundingConfig{
		Mode:      string(d.Mode),
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
		UpdatedBy: d.UpdatedBy,
	}
	if d.Multiplo != nil {
		m.Multiplo.Decimal = *d.Multiplo
		m.Multiplo.Valid = true
	}
	if d.Decimales != nil {
		n := int32(*d.Decimales)
		m.Decimales = &n
	}
	return m
}

// ToDomainRoundingConfig converts a model RoundingConfig to a domain RoundingConfig
func ToDomainRoundingConfig(m models.RoundingConfig) domain.RoundingConfig {
	d := domain.RoundingConfig{
		Mode:      domain.RoundingMode(m.Mode),
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
		UpdatedBy: m.UpdatedBy,
	}
	if m.Multiplo.Valid {
		multiplo := m.Multiplo.Decimal
		d.Multiplo = &multiplo
	}
	if m.Decimales != nil {
		n := int(*m.Decimales)
		d.Decimales = &n
	}
	return d
}
