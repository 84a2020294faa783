package interfaces

import (
	"context"
	"errors"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/sebuszqo/FinanceLedger/internal/user"
	"github.com/shopspring/decimal"
)

type MockEntryService struct {
	entries    map[int64]domain.Entry
	shouldFail bool
	lastFilter *domain.EntryFilter
	lastSaved  *domain.Entry
}

func (m *MockEntryService) Create(_ context.Context, entry domain.Entry) (*domain.Entry, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	if entry.Description == "" {
		return nil, financeErrors.ErrInvalidDescription
	}
	entry.ID = 100
	entry.Status = domain.StatusPending
	m.lastSaved = &entry
	return &entry, nil
}

func (m *MockEntryService) Update(_ context.Context, entry domain.Entry) (*domain.Entry, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	m.lastSaved = &entry
	return &entry, nil
}

func (m *MockEntryService) Delete(_ context.Context, entry domain.Entry) error {
	if m.shouldFail {
		return errors.New("service error")
	}
	delete(m.entries, entry.ID)
	return nil
}

func (m *MockEntryService) ChangeStatus(_ context.Context, id int64, statusName string) (*domain.Entry, error) {
	status, ok := domain.ParseEntryStatus(statusName)
	if !ok {
		return nil, financeErrors.NewInvalidArgumentError("invalid status: " + statusName)
	}
	entry := m.entries[id]
	entry.Status = status
	return &entry, nil
}

func (m *MockEntryService) Search(_ context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	m.lastFilter = &filter
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	all := make([]domain.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		all = append(all, e)
	}
	return filter.Apply(all), nil
}

func (m *MockEntryService) GetByID(_ context.Context, id int64) (*domain.Entry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, financeErrors.NewNotFoundError("entry", id)
	}
	return &entry, nil
}

type MockBalanceService struct {
	balance    decimal.Decimal
	shouldFail bool
}

func (m *MockBalanceService) Balance(_ context.Context, _ int64) (decimal.Decimal, error) {
	if m.shouldFail {
		return decimal.Zero, errors.New("service error")
	}
	return m.balance, nil
}

type MockUserLookup struct {
	users map[int64]user.User
}

func (m *MockUserLookup) GetUserByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, financeErrors.NewNotFoundError("user", id)
	}
	return &u, nil
}
