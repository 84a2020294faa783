package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Service interface {
	ValidateEmailUnique(ctx context.Context, email string) error
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Save(ctx context.Context, name, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
}

type service struct {
	repo       Repository
	bcryptCost int
}

func NewUserService(repo Repository, bcryptCost int) Service {
	return &service{
		repo:       repo,
		bcryptCost: bcryptCost,
	}
}

func (s *service) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	return string(hashed), err
}

func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return financeErrors.ErrInvalidEmail
	}
	return nil
}

func (s *service) ValidateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return financeErrors.ErrEmailAlreadyRegistered
	}
	return nil
}

// Authenticate tells apart an unknown email from a wrong password; both are
// authentication errors.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, financeErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, financeErrors.ErrInvalidPassword
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}

func (s *service) Save(ctx context.Context, name, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if err := s.ValidateEmailUnique(ctx, email); err != nil {
		return nil, err
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		slog.ErrorContext(ctx, "Error during hashing the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, financeErrors.ErrEmailAlreadyRegistered
		}
		slog.ErrorContext(ctx, "Error during creating the user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, financeErrors.NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return user, nil
}

func (s *service) GetAllUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		return []User{}, nil
	}
	return users, nil
}
