package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	"github.com/SscSPs/pricing_engine/internal/utils/pagination"
)

// itemLedger is the history of one item, oldest first. Its lock serializes appends.
type itemLedger struct {
	mu      sync.Mutex
	entries []ledgerRow
}

type ledgerRow struct {
	entry domain.PriceLedgerEntry
	seq   int64
}

func (l *itemLedger) current() *domain.PriceLedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentLocked()
}

func (l *itemLedger) currentLocked() *domain.PriceLedgerEntry {
	if n := len(l.entries); n > 0 && l.entries[n-1].entry.IsCurrent {
		e := l.entries[n-1].entry
		return &e
	}
	return nil
}

func (l *itemLedger) snapshot() []ledgerRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ledgerRow(nil), l.entries...)
}

func (s *Store) ledgerFor(itemID string, create bool) *itemLedger {
	s.mu.RLock()
	l := s.ledgers[itemID]
	s.mu.RUnlock()
	if l != nil || !create {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l = s.ledgers[itemID]; l == nil {
		l = &itemLedger{}
		s.ledgers[itemID] = l
	}
	return l
}

func (s *Store) FindCurrentEntry(_ context.Context, itemID string) (*domain.PriceLedgerEntry, error) {
	l := s.ledgerFor(itemID, false)
	if l == nil {
		return nil, nil
	}
	return l.current(), nil
}

func (s *Store) FindEntryByID(_ context.Context, entryID string) (*domain.PriceLedgerEntry, error) {
	s.mu.RLock()
	itemID, ok := s.entryItem[entryID]
	l := s.ledgers[itemID]
	s.mu.RUnlock()
	if !ok || l == nil {
		return nil, apperrors.ErrNotFound
	}

	for _, row := range l.snapshot() {
		if row.entry.EntryID == entryID {
			e := row.entry
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) QueryEntries(_ context.Context, filter domain.LedgerFilter) (domain.LedgerPage, error) {
	s.mu.RLock()
	candidates := make(map[string]*itemLedger)
	for itemID, l := range s.ledgers {
		if filter.PriceableItemID != nil && itemID != *filter.PriceableItemID {
			continue
		}
		if filter.SKU != nil && s.items[itemID].SKU != *filter.SKU {
			continue
		}
		candidates[itemID] = l
	}
	s.mu.RUnlock()

	var rows []ledgerRow
	for _, l := range candidates {
		for _, row := range l.snapshot() {
			if filter.ReasonCode != nil && (row.entry.ReasonCode == nil || *row.entry.ReasonCode != *filter.ReasonCode) {
				continue
			}
			if !row.entry.Overlaps(filter.From, filter.To) {
				continue
			}
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.entry.StartDate.Equal(b.entry.StartDate) {
			return a.entry.StartDate.After(b.entry.StartDate)
		}
		return a.seq > b.seq
	})

	page, size := pagination.Normalize(filter.Page, filter.Size)
	start, end := pagination.Window(page, size, len(rows))
	entries := make([]domain.PriceLedgerEntry, 0, end-start)
	for _, row := range rows[start:end] {
		entries = append(entries, row.entry)
	}
	return domain.LedgerPage{Entries: entries, Page: page, Size: size, Total: len(rows)}, nil
}

// AppendEntry closes the current entry and stores entry as current while holding
// the item's lock, so concurrent appends for one item are applied one at a time.
func (s *Store) AppendEntry(_ context.Context, entry domain.PriceLedgerEntry) (*domain.PriceLedgerEntry, error) {
	s.mu.RLock()
	_, known := s.items[entry.PriceableItemID]
	s.mu.RUnlock()
	if !known {
		return nil, apperrors.ErrNotFound
	}

	l := s.ledgerFor(entry.PriceableItemID, true)
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.currentLocked()
	at := domain.SupersedeAt(current, entry.StartDate)
	if current != nil {
		last := &l.entries[len(l.entries)-1].entry
		end := at
		last.EndDate = &end
		last.IsCurrent = false
	}

	entry.StartDate = at
	entry.EndDate = nil
	entry.IsCurrent = true

	// The row exists before its id is published to FindEntryByID.
	s.mu.Lock()
	s.seq++
	l.entries = append(l.entries, ledgerRow{entry: entry, seq: s.seq})
	s.entryItem[entry.EntryID] = entry.PriceableItemID
	s.mu.Unlock()

	stored := entry
	return &stored, nil
}
