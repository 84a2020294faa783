package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type EntryRepository struct {
	db *sql.DB
	q  dbtx
	tx *sql.Tx
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db, q: db}
}

const entryColumns = `id, description, month, year, amount, type, status, owner_id, registered_on`

func (r *EntryRepository) Save(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	if entry.ID == 0 {
		return r.insert(ctx, entry)
	}
	return r.update(ctx, entry)
}

func (r *EntryRepository) insert(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	query := `
		INSERT INTO entries (description, month, year, amount, type, status, owner_id, registered_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRowContext(ctx, query,
		entry.Description, entry.Month, entry.Year, entry.Amount,
		string(entry.Type), string(entry.Status), entry.OwnerID, entry.RegisteredOn,
	).Scan(&entry.ID)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	return entry, nil
}

func (r *EntryRepository) update(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	query := `
		UPDATE entries
		SET description = $1, month = $2, year = $3, amount = $4, type = $5,
		    status = COALESCE(NULLIF($6, ''), status)
		WHERE id = $7
		RETURNING status, owner_id, registered_on`
	err := r.q.QueryRowContext(ctx, query,
		entry.Description, entry.Month, entry.Year, entry.Amount,
		string(entry.Type), string(entry.Status), entry.ID,
	).Scan(&entry.Status, &entry.OwnerID, &entry.RegisteredOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entry{}, domain.ErrEntryNotFound
		}
		return domain.Entry{}, fmt.Errorf("update entry %d: %w", entry.ID, err)
	}
	return entry, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	entry, err := scanEntry(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry %d: %w", id, err)
	}
	return &entry, nil
}

func (r *EntryRepository) Delete(ctx context.Context, entry domain.Entry) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, entry.ID)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", entry.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// FindAllMatching narrows the rows in SQL on the exact-match columns and
// leaves the final decision, including the description match, to the filter.
func (r *EntryRepository) FindAllMatching(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	var conditions []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.ID != nil {
		add("id", *filter.ID)
	}
	if filter.OwnerID != nil {
		add("owner_id", *filter.OwnerID)
	}
	if filter.Month != nil {
		add("month", *filter.Month)
	}
	if filter.Year != nil {
		add("year", *filter.Year)
	}
	if filter.Type != nil {
		add("type", string(*filter.Type))
	}
	if filter.Status != nil {
		add("status", string(*filter.Status))
	}

	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return filter.Apply(entries), nil
}

func (r *EntryRepository) SumAmountByTypeAndOwner(ctx context.Context, entryType domain.EntryType, ownerID int64) (decimal.NullDecimal, error) {
	var sum decimal.NullDecimal
	query := `SELECT SUM(amount) FROM entries WHERE type = $1 AND owner_id = $2`
	if err := r.q.QueryRowContext(ctx, query, string(entryType), ownerID).Scan(&sum); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sum %s amounts: %w", entryType, err)
	}
	return sum, nil
}

func (r *EntryRepository) WithinTransaction(ctx context.Context, fn func(repo domain.EntryRepository) error) (err error) {
	if r.tx != nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			safeRollback(ctx, tx)
			panic(p)
		} else if err != nil {
			safeRollback(ctx, tx)
		} else {
			err = tx.Commit()
		}
	}()

	return fn(&EntryRepository{db: r.db, q: tx, tx: tx})
}

func safeRollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.ErrorContext(ctx, "Error during transaction rollback", "error", err)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(&e.ID, &e.Description, &e.Month, &e.Year, &e.Amount,
		&e.Type, &e.Status, &e.OwnerID, &e.RegisteredOn)
	return e, err
}
