package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/sebuszqo/FinanceLedger/internal/testsupport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRepository_Postgres(t *testing.T) {
	db := testsupport.StartPostgres(t)
	repo := NewEntryRepository(db)
	ctx := context.Background()

	alice := testsupport.InsertUser(t, db, "Alice", "alice@example.com")
	bob := testsupport.InsertUser(t, db, "Bob", "bob@example.com")

	t.Run("save and find", func(t *testing.T) {
		saved, err := repo.Save(ctx, sampleEntry(alice, domain.EntryTypeIncome, "1250.75"))
		require.NoError(t, err)
		require.NotZero(t, saved.ID)

		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "Some description", found.Description)
		assert.Equal(t, domain.EntryTypeIncome, found.Type)
		assert.Equal(t, domain.StatusPending, found.Status)
		assert.True(t, decimal.RequireFromString("1250.75").Equal(found.Amount))
		assert.Equal(t, alice, found.OwnerID)
	})

	t.Run("update keeps owner and empty status", func(t *testing.T) {
		saved, err := repo.Save(ctx, sampleEntry(alice, domain.EntryTypeExpense, "10"))
		require.NoError(t, err)

		changed := saved
		changed.Description = "Rent"
		changed.OwnerID = bob
		changed.Status = ""
		updated, err := repo.Save(ctx, changed)
		require.NoError(t, err)

		assert.Equal(t, "Rent", updated.Description)
		assert.Equal(t, alice, updated.OwnerID)
		assert.Equal(t, domain.StatusPending, updated.Status)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999999)
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)

		missing := sampleEntry(alice, domain.EntryTypeIncome, "1")
		missing.ID = 999999
		_, err = repo.Save(ctx, missing)
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, missing), domain.ErrEntryNotFound)
	})

	t.Run("sum by type and owner", func(t *testing.T) {
		none, err := repo.SumAmountByTypeAndOwner(ctx, domain.EntryTypeIncome, bob)
		require.NoError(t, err)
		assert.False(t, none.Valid)

		_, err = repo.Save(ctx, sampleEntry(bob, domain.EntryTypeIncome, "0.10"))
		require.NoError(t, err)
		_, err = repo.Save(ctx, sampleEntry(bob, domain.EntryTypeIncome, "0.20"))
		require.NoError(t, err)

		sum, err := repo.SumAmountByTypeAndOwner(ctx, domain.EntryTypeIncome, bob)
		require.NoError(t, err)
		assert.True(t, sum.Valid)
		assert.True(t, decimal.RequireFromString("0.30").Equal(sum.Decimal))
	})

	t.Run("find all matching", func(t *testing.T) {
		groceries := sampleEntry(bob, domain.EntryTypeExpense, "42")
		groceries.Description = "Weekly GROCERIES"
		_, err := repo.Save(ctx, groceries)
		require.NoError(t, err)

		desc := "groceries"
		found, err := repo.FindAllMatching(ctx, domain.EntryFilter{OwnerID: &bob, Description: &desc})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Weekly GROCERIES", found[0].Description)

		income := domain.EntryTypeIncome
		found, err = repo.FindAllMatching(ctx, domain.EntryFilter{OwnerID: &bob, Type: &income})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Less(t, found[0].ID, found[1].ID)
	})

	t.Run("transaction rollback", func(t *testing.T) {
		before, err := repo.FindAllMatching(ctx, domain.EntryFilter{OwnerID: &alice})
		require.NoError(t, err)

		boom := errors.New("boom")
		err = repo.WithinTransaction(ctx, func(tx domain.EntryRepository) error {
			if _, err := tx.Save(ctx, sampleEntry(alice, domain.EntryTypeIncome, "5")); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		after, err := repo.FindAllMatching(ctx, domain.EntryFilter{OwnerID: &alice})
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("delete", func(t *testing.T) {
		saved, err := repo.Save(ctx, sampleEntry(alice, domain.EntryTypeIncome, "3"))
		require.NoError(t, err)

		err = repo.WithinTransaction(ctx, func(tx domain.EntryRepository) error {
			return tx.Delete(ctx, saved)
		})
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})
}
