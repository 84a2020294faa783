package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrEntryNotFound is returned by repositories when no row matches an id.
var ErrEntryNotFound = errors.New("entry not found")

type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// ParseEntryType accepts the canonical names case-insensitively.
func ParseEntryType(name string) (EntryType, bool) {
	t := EntryType(strings.ToUpper(strings.TrimSpace(name)))
	return t, t.IsValid()
}

type EntryStatus string

const (
	StatusPending   EntryStatus = "PENDING"
	StatusSettled   EntryStatus = "SETTLED"
	StatusCancelled EntryStatus = "CANCELLED"
)

func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusSettled, StatusCancelled:
		return true
	}
	return false
}

// ParseEntryStatus maps an exact status name onto EntryStatus. Unknown
// names, other spellings and the empty string report false.
func ParseEntryStatus(name string) (EntryStatus, bool) {
	s := EntryStatus(name)
	return s, s.IsValid()
}

type Entry struct {
	ID           int64           `json:"id"`
	Description  string          `json:"description"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Amount       decimal.Decimal `json:"amount"`
	Type         EntryType       `json:"type"`
	Status       EntryStatus     `json:"status"`
	OwnerID      int64           `json:"owner_id"`
	RegisteredOn time.Time       `json:"registered_on"`
}

func (e Entry) IsPersisted() bool {
	return e.ID != 0
}

type EntryRepository interface {
	// Save inserts the entry when it has no id and updates it otherwise.
	// Updates never touch the owner or the registration date.
	Save(ctx context.Context, entry Entry) (Entry, error)
	FindByID(ctx context.Context, id int64) (*Entry, error)
	Delete(ctx context.Context, entry Entry) error
	FindAllMatching(ctx context.Context, filter EntryFilter) ([]Entry, error)
	// SumAmountByTypeAndOwner is NULL (Valid == false) when the owner has no
	// entry of that type.
	SumAmountByTypeAndOwner(ctx context.Context, entryType EntryType, ownerID int64) (decimal.NullDecimal, error)
	// WithinTransaction runs fn against a repository bound to a single unit of
	// work; any error returned by fn discards every write made through it.
	WithinTransaction(ctx context.Context, fn func(repo EntryRepository) error) error
}
