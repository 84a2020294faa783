package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis points at a port nothing listens on, so every command
// fails fast and the cache has to fall back to the wrapped repository.
func unreachableRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedEntryRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	inner := NewMemoryEntryRepository(sampleEntry(1, domain.EntryTypeIncome, "10"))
	repo := NewCachedEntryRepository(inner, unreachableRedis(t), time.Minute)
	ctx := context.Background()

	entry, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)

	_, err = repo.FindByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	saved, err := repo.Save(ctx, sampleEntry(1, domain.EntryTypeExpense, "4"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.ID)

	require.NoError(t, repo.Delete(ctx, saved))
	assert.Equal(t, 1, inner.Len())
}

func TestCachedEntryRepository_TransactionDelegates(t *testing.T) {
	inner := NewMemoryEntryRepository(sampleEntry(1, domain.EntryTypeIncome, "10"))
	repo := NewCachedEntryRepository(inner, unreachableRedis(t), time.Minute)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithinTransaction(ctx, func(tx domain.EntryRepository) error {
		_, isCached := tx.(*CachedEntryRepository)
		assert.True(t, isCached)

		entry, err := tx.FindByID(ctx, 1)
		require.NoError(t, err)
		entry.Status = domain.StatusSettled
		if _, err := tx.Save(ctx, *entry); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entry, err := inner.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, entry.Status)

	sum, err := repo.SumAmountByTypeAndOwner(ctx, domain.EntryTypeIncome, 1)
	require.NoError(t, err)
	assert.Equal(t, "10", sum.Decimal.String())
}

func TestEntryViewKey(t *testing.T) {
	assert.Equal(t, "entry:view:15", entryViewKey(15))
}
