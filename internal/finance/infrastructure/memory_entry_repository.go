package infrastructure

import (
	"context"
	"maps"
	"sync"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// MemoryEntryRepository keeps entries in a map. It backs the service and
// handler tests; transactions are emulated by snapshotting the map.
type MemoryEntryRepository struct {
	mu      sync.Mutex
	entries map[int64]domain.Entry
	nextID  int64
}

func NewMemoryEntryRepository(entries ...domain.Entry) *MemoryEntryRepository {
	r := &MemoryEntryRepository{entries: make(map[int64]domain.Entry)}
	for _, e := range entries {
		if e.ID == 0 {
			r.nextID++
			e.ID = r.nextID
		} else if e.ID > r.nextID {
			r.nextID = e.ID
		}
		r.entries[e.ID] = e
	}
	return r
}

func (r *MemoryEntryRepository) Save(_ context.Context, entry domain.Entry) (domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == 0 {
		r.nextID++
		entry.ID = r.nextID
		r.entries[entry.ID] = entry
		return entry, nil
	}

	current, ok := r.entries[entry.ID]
	if !ok {
		return domain.Entry{}, domain.ErrEntryNotFound
	}
	entry.OwnerID = current.OwnerID
	entry.RegisteredOn = current.RegisteredOn
	if entry.Status == "" {
		entry.Status = current.Status
	}
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *MemoryEntryRepository) FindByID(_ context.Context, id int64) (*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return &entry, nil
}

func (r *MemoryEntryRepository) Delete(_ context.Context, entry domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.entries, entry.ID)
	return nil
}

func (r *MemoryEntryRepository) FindAllMatching(_ context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]domain.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	return filter.Apply(all), nil
}

func (r *MemoryEntryRepository) SumAmountByTypeAndOwner(_ context.Context, entryType domain.EntryType, ownerID int64) (decimal.NullDecimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum decimal.NullDecimal
	for _, e := range r.entries {
		if e.Type != entryType || e.OwnerID != ownerID {
			continue
		}
		if !sum.Valid {
			sum = decimal.NewNullDecimal(e.Amount)
			continue
		}
		sum.Decimal = sum.Decimal.Add(e.Amount)
	}
	return sum, nil
}

func (r *MemoryEntryRepository) WithinTransaction(_ context.Context, fn func(repo domain.EntryRepository) error) error {
	r.mu.Lock()
	snapshot := maps.Clone(r.entries)
	nextID := r.nextID
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.entries = snapshot
		r.nextID = nextID
		r.mu.Unlock()
		return err
	}
	return nil
}

// Len reports how many entries are stored.
func (r *MemoryEntryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
