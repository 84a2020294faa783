package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

type Validator interface {
	Validate(entry domain.Entry) error
}

type EntryService struct {
	repo      domain.EntryRepository
	validator Validator
	now       func() time.Time
}

func NewEntryService(repo domain.EntryRepository, validator Validator) *EntryService {
	return &EntryService{
		repo:      repo,
		validator: validator,
		now:       time.Now,
	}
}

// Create validates the entry and stores it as PENDING, whatever status the
// caller supplied.
func (s *EntryService) Create(ctx context.Context, entry domain.Entry) (*domain.Entry, error) {
	if err := s.validator.Validate(entry); err != nil {
		return nil, err
	}

	entry.ID = 0
	entry.Status = domain.StatusPending
	entry.RegisteredOn = truncateToDay(s.now())

	var saved domain.Entry
	err := s.repo.WithinTransaction(ctx, func(repo domain.EntryRepository) error {
		var err error
		saved, err = repo.Save(ctx, entry)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create entry", "owner_id", entry.OwnerID, "error", err)
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return &saved, nil
}

func (s *EntryService) Update(ctx context.Context, entry domain.Entry) (*domain.Entry, error) {
	if !entry.IsPersisted() {
		return nil, financeErrors.ErrEntryNotPersisted
	}
	if err := s.validator.Validate(entry); err != nil {
		return nil, err
	}

	var updated domain.Entry
	err := s.repo.WithinTransaction(ctx, func(repo domain.EntryRepository) error {
		var err error
		updated, err = s.save(ctx, repo, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *EntryService) update(ctx context.Context, repo domain.EntryRepository, entry domain.Entry) (domain.Entry, error) {
	if err := s.validator.Validate(entry); err != nil {
		return domain.Entry{}, err
	}
	return s.save(ctx, repo, entry)
}

func (s *EntryService) save(ctx context.Context, repo domain.EntryRepository, entry domain.Entry) (domain.Entry, error) {
	updated, err := repo.Save(ctx, entry)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return domain.Entry{}, financeErrors.NewNotFoundError("entry", entry.ID)
		}
		return domain.Entry{}, fmt.Errorf("update entry %d: %w", entry.ID, err)
	}
	return updated, nil
}

func (s *EntryService) Delete(ctx context.Context, entry domain.Entry) error {
	if !entry.IsPersisted() {
		return financeErrors.ErrEntryNotPersisted
	}

	err := s.repo.WithinTransaction(ctx, func(repo domain.EntryRepository) error {
		return repo.Delete(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return financeErrors.NewNotFoundError("entry", entry.ID)
		}
		return fmt.Errorf("delete entry %d: %w", entry.ID, err)
	}
	return nil
}

// ChangeStatus loads the entry by id, switches its status and stores it
// through the regular update path. Any status may follow any other.
func (s *EntryService) ChangeStatus(ctx context.Context, id int64, statusName string) (*domain.Entry, error) {
	var updated domain.Entry
	err := s.repo.WithinTransaction(ctx, func(repo domain.EntryRepository) error {
		entry, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrEntryNotFound) {
				return financeErrors.NewNotFoundError("entry", id)
			}
			return fmt.Errorf("find entry %d: %w", id, err)
		}

		status, ok := domain.ParseEntryStatus(statusName)
		if !ok {
			return financeErrors.NewInvalidArgumentError(fmt.Sprintf("invalid status: %q", statusName))
		}
		entry.Status = status

		updated, err = s.update(ctx, repo, *entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Search returns the entries matching the filter. The filter must name an
// owner so one user can never list another user's entries.
func (s *EntryService) Search(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	if filter.OwnerID == nil || *filter.OwnerID == 0 {
		return nil, financeErrors.ErrSearchWithoutUser
	}

	entries, err := s.repo.FindAllMatching(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	if entries == nil {
		return []domain.Entry{}, nil
	}
	return entries, nil
}

func (s *EntryService) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil, financeErrors.NewNotFoundError("entry", id)
		}
		return nil, fmt.Errorf("find entry %d: %w", id, err)
	}
	return entry, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
