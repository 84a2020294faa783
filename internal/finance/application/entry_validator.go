package application

import (
	"strings"
	"unicode/utf8"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

// EntryValidator checks the fields of a candidate entry. Rules run in a fixed
// order and only the first violation is reported.
type EntryValidator struct{}

// maxDescriptionLength matches the entries.description column.
const maxDescriptionLength = 100

func NewEntryValidator() EntryValidator {
	return EntryValidator{}
}

func (EntryValidator) Validate(entry domain.Entry) error {
	if strings.TrimSpace(entry.Description) == "" || utf8.RuneCountInString(entry.Description) > maxDescriptionLength {
		return financeErrors.ErrInvalidDescription
	}
	if entry.Month < 1 || entry.Month > 12 {
		return financeErrors.ErrInvalidMonth
	}
	if entry.Year < 1000 || entry.Year > 9999 {
		return financeErrors.ErrInvalidYear
	}
	if entry.OwnerID == 0 {
		return financeErrors.ErrMissingUser
	}
	if !entry.Amount.IsPositive() {
		return financeErrors.ErrInvalidAmount
	}
	if !entry.Type.IsValid() {
		return financeErrors.ErrMissingEntryType
	}
	return nil
}
