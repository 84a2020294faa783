package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

const entryViewKeyPrefix = "entry:view:"

// CachedEntryRepository keeps FindByID results in Redis in front of another
// repository. Writes invalidate the key; Redis failures fall back to the
// wrapped repository.
type CachedEntryRepository struct {
	inner  domain.EntryRepository
	client *redis.Client
	ttl    time.Duration

	// touched collects ids written inside a transaction; they are evicted
	// once the transaction is over.
	touched *[]int64
}

func NewCachedEntryRepository(inner domain.EntryRepository, client *redis.Client, ttl time.Duration) *CachedEntryRepository {
	return &CachedEntryRepository{inner: inner, client: client, ttl: ttl}
}

func entryViewKey(id int64) string {
	return fmt.Sprintf("%s%d", entryViewKeyPrefix, id)
}

func (r *CachedEntryRepository) Save(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	saved, err := r.inner.Save(ctx, entry)
	if err != nil {
		return saved, err
	}
	r.invalidate(ctx, saved.ID)
	return saved, nil
}

func (r *CachedEntryRepository) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	if r.touched == nil {
		if entry, ok := r.get(ctx, id); ok {
			return entry, nil
		}
	}

	entry, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.touched == nil {
		r.set(ctx, entry)
	}
	return entry, nil
}

func (r *CachedEntryRepository) Delete(ctx context.Context, entry domain.Entry) error {
	if err := r.inner.Delete(ctx, entry); err != nil {
		return err
	}
	r.invalidate(ctx, entry.ID)
	return nil
}

func (r *CachedEntryRepository) FindAllMatching(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	return r.inner.FindAllMatching(ctx, filter)
}

func (r *CachedEntryRepository) SumAmountByTypeAndOwner(ctx context.Context, entryType domain.EntryType, ownerID int64) (decimal.NullDecimal, error) {
	return r.inner.SumAmountByTypeAndOwner(ctx, entryType, ownerID)
}

func (r *CachedEntryRepository) WithinTransaction(ctx context.Context, fn func(repo domain.EntryRepository) error) error {
	if r.touched != nil {
		return fn(r)
	}

	var touched []int64
	err := r.inner.WithinTransaction(ctx, func(tx domain.EntryRepository) error {
		return fn(&CachedEntryRepository{inner: tx, client: r.client, ttl: r.ttl, touched: &touched})
	})
	for _, id := range touched {
		r.evict(ctx, id)
	}
	return err
}

func (r *CachedEntryRepository) invalidate(ctx context.Context, id int64) {
	if r.touched != nil {
		*r.touched = append(*r.touched, id)
		return
	}
	r.evict(ctx, id)
}

func (r *CachedEntryRepository) get(ctx context.Context, id int64) (*domain.Entry, bool) {
	data, err := r.client.Get(ctx, entryViewKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "Entry cache read failed", "id", id, "error", err)
		}
		return nil, false
	}
	var entry domain.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.WarnContext(ctx, "Entry cache holds an unreadable value", "id", id, "error", err)
		return nil, false
	}
	return &entry, true
}

// set stores the view with the configured TTL. A write that commits and
// evicts between the inner read and this call leaves the older view in place
// until the TTL expires, so the TTL bounds how stale a read can be.
func (r *CachedEntryRepository) set(ctx context.Context, entry *domain.Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, entryViewKey(entry.ID), data, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Entry cache write failed", "id", entry.ID, "error", err)
	}
}

func (r *CachedEntryRepository) evict(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, entryViewKey(id)).Err(); err != nil {
		slog.WarnContext(ctx, "Entry cache eviction failed", "id", id, "error", err)
	}
}
