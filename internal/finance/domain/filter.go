package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// EntryFilter is a partial entry: every non-nil field constrains the
// result, nil fields match anything. Description is matched as a
// case-insensitive substring, the rest by equality.
type EntryFilter struct {
	ID          *int64
	Description *string
	Month       *int
	Year        *int
	Amount      *decimal.Decimal
	Type        *EntryType
	Status      *EntryStatus
	OwnerID     *int64
}

func (f EntryFilter) Matches(e Entry) bool {
	if f.ID != nil && *f.ID != e.ID {
		return false
	}
	if f.Description != nil && !containsFold(e.Description, *f.Description) {
		return false
	}
	if f.Month != nil && *f.Month != e.Month {
		return false
	}
	if f.Year != nil && *f.Year != e.Year {
		return false
	}
	if f.Amount != nil && !f.Amount.Equal(e.Amount) {
		return false
	}
	if f.Type != nil && *f.Type != e.Type {
		return false
	}
	if f.Status != nil && *f.Status != e.Status {
		return false
	}
	if f.OwnerID != nil && *f.OwnerID != e.OwnerID {
		return false
	}
	return true
}

// Apply returns the matching entries ordered by id. The result is never nil.
func (f EntryFilter) Apply(entries []Entry) []Entry {
	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
