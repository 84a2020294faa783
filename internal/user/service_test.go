package user

import (
	"context"
	"errors"
	"testing"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(repo Repository) Service {
	return NewUserService(repo, bcrypt.MinCost)
}

func TestSave_HashesPassword(t *testing.T) {
	repo := NewMockRepository()
	service := newTestService(repo)

	user, err := service.Save(context.Background(), "Ana", " ana@example.com ", "secret")

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestSave_RejectsInvalidEmail(t *testing.T) {
	repo := NewMockRepository()
	service := newTestService(repo)

	_, err := service.Save(context.Background(), "Ana", "not-an-email", "secret")

	assert.Equal(t, financeErrors.ErrInvalidEmail, err)
	assert.Equal(t, 0, repo.CreateCalls)
}

func TestSave_RejectsRegisteredEmail(t *testing.T) {
	repo := NewMockRepository(User{ID: 1, Name: "Ana", Email: "ana@example.com"})
	service := newTestService(repo)

	_, err := service.Save(context.Background(), "Other Ana", "ana@example.com", "secret")

	assert.Equal(t, financeErrors.ErrEmailAlreadyRegistered, err)
	assert.True(t, financeErrors.IsValidationError(err))
	assert.Equal(t, 0, repo.CreateCalls)
}

func TestSave_UniqueIndexRace(t *testing.T) {
	repo := NewMockRepository()
	repo.DuplicateOnCreate = true
	service := newTestService(repo)

	_, err := service.Save(context.Background(), "Ana", "ana@example.com", "secret")

	assert.Equal(t, financeErrors.ErrEmailAlreadyRegistered, err)
}

func TestValidateEmailUnique(t *testing.T) {
	repo := NewMockRepository(User{ID: 1, Email: "ana@example.com"})
	service := newTestService(repo)

	assert.NoError(t, service.ValidateEmailUnique(context.Background(), "bob@example.com"))
	assert.Equal(t, financeErrors.ErrEmailAlreadyRegistered, service.ValidateEmailUnique(context.Background(), "ana@example.com"))

	repo.Err = errors.New("db down")
	err := service.ValidateEmailUnique(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, repo.Err)
	assert.False(t, financeErrors.IsValidationError(err))
}

func TestAuthenticate(t *testing.T) {
	repo := NewMockRepository()
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.Save(ctx, "Ana", "ana@example.com", "secret")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := service.Authenticate(ctx, "ana@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "Ana", user.Name)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "bob@example.com", "secret")
		assert.Equal(t, financeErrors.ErrUserNotFound, err)
		assert.True(t, financeErrors.IsAuthenticationError(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "ana@example.com", "Secret")
		assert.Equal(t, financeErrors.ErrInvalidPassword, err)
		assert.True(t, financeErrors.IsAuthenticationError(err))
	})
}

func TestGetUserByID(t *testing.T) {
	repo := NewMockRepository(User{ID: 3, Name: "Ana"})
	service := newTestService(repo)

	user, err := service.GetUserByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	_, err = service.GetUserByID(context.Background(), 4)
	assert.True(t, financeErrors.IsNotFoundError(err))
}

func TestGetAllUsers(t *testing.T) {
	service := newTestService(NewMockRepository())

	users, err := service.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}
