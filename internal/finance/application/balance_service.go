package application

import (
	"context"
	"fmt"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type BalanceService struct {
	repo domain.EntryRepository
}

func NewBalanceService(repo domain.EntryRepository) *BalanceService {
	return &BalanceService{repo: repo}
}

// Balance is the owner's income total minus the expense total. A type with
// no entries counts as zero, so the result may be negative.
func (s *BalanceService) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	income, err := s.repo.SumAmountByTypeAndOwner(ctx, domain.EntryTypeIncome, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum income for user %d: %w", userID, err)
	}
	expense, err := s.repo.SumAmountByTypeAndOwner(ctx, domain.EntryTypeExpense, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expense for user %d: %w", userID, err)
	}

	return orZero(income).Sub(orZero(expense)), nil
}

func orZero(sum decimal.NullDecimal) decimal.Decimal {
	if !sum.Valid {
		return decimal.Zero
	}
	return sum.Decimal
}
