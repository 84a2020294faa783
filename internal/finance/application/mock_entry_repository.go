package application

import (
	"context"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// MockEntryRepository records calls and answers from canned values.
type MockEntryRepository struct {
	Entries map[int64]domain.Entry
	Sums    map[domain.EntryType]decimal.NullDecimal
	Err     error

	SaveCalls   int
	DeleteCalls int
	TxCalls     int
	LastFilter  *domain.EntryFilter
}

func NewMockEntryRepository(entries ...domain.Entry) *MockEntryRepository {
	m := &MockEntryRepository{
		Entries: make(map[int64]domain.Entry),
		Sums:    make(map[domain.EntryType]decimal.NullDecimal),
	}
	for _, e := range entries {
		m.Entries[e.ID] = e
	}
	return m
}

func (m *MockEntryRepository) Save(_ context.Context, entry domain.Entry) (domain.Entry, error) {
	m.SaveCalls++
	if m.Err != nil {
		return domain.Entry{}, m.Err
	}
	if entry.ID == 0 {
		for id := range m.Entries {
			entry.ID = max(entry.ID, id)
		}
		entry.ID++
	} else if _, ok := m.Entries[entry.ID]; !ok {
		return domain.Entry{}, domain.ErrEntryNotFound
	}
	m.Entries[entry.ID] = entry
	return entry, nil
}

func (m *MockEntryRepository) FindByID(_ context.Context, id int64) (*domain.Entry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	entry, ok := m.Entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return &entry, nil
}

func (m *MockEntryRepository) Delete(_ context.Context, entry domain.Entry) error {
	m.DeleteCalls++
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.Entries, entry.ID)
	return nil
}

func (m *MockEntryRepository) FindAllMatching(_ context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	m.LastFilter = &filter
	if m.Err != nil {
		return nil, m.Err
	}
	all := make([]domain.Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		all = append(all, e)
	}
	return filter.Apply(all), nil
}

func (m *MockEntryRepository) SumAmountByTypeAndOwner(_ context.Context, entryType domain.EntryType, _ int64) (decimal.NullDecimal, error) {
	if m.Err != nil {
		return decimal.NullDecimal{}, m.Err
	}
	return m.Sums[entryType], nil
}

func (m *MockEntryRepository) WithinTransaction(_ context.Context, fn func(repo domain.EntryRepository) error) error {
	m.TxCalls++
	return fn(m)
}

func (m *MockEntryRepository) StorageCalls() int {
	return m.SaveCalls + m.DeleteCalls + m.TxCalls
}
