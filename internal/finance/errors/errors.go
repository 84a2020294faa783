package errors

import (
	"errors"
	"fmt"
)

// ValidationError is a broken business rule: a field check or a uniqueness
// constraint. Its message is meant to be shown to the client as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

// PreconditionError means the caller asked for an operation on an entity
// that was never persisted.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return e.Msg
}

func NewPreconditionError(msg string) error {
	return &PreconditionError{Msg: msg}
}

func IsPreconditionError(err error) bool {
	var preconditionError *PreconditionError
	return errors.As(err, &preconditionError)
}

type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	return errors.As(err, &notFoundError)
}

type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return e.Msg
}

func NewInvalidArgumentError(msg string) error {
	return &InvalidArgumentError{Msg: msg}
}

func IsInvalidArgumentError(err error) bool {
	var invalidArgumentError *InvalidArgumentError
	return errors.As(err, &invalidArgumentError)
}

// AuthenticationError is returned when credentials cannot be matched to a user.
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string {
	return e.Msg
}

func NewAuthenticationError(msg string) error {
	return &AuthenticationError{Msg: msg}
}

func IsAuthenticationError(err error) bool {
	var authenticationError *AuthenticationError
	return errors.As(err, &authenticationError)
}

var (
	ErrInvalidDescription = NewValidationError("invalid description")
	ErrInvalidMonth       = NewValidationError("invalid month")
	ErrInvalidYear        = NewValidationError("invalid year")
	ErrMissingUser        = NewValidationError("missing user")
	ErrInvalidAmount      = NewValidationError("invalid amount")
	ErrMissingEntryType   = NewValidationError("missing entry type")

	ErrEmailAlreadyRegistered = NewValidationError("email already registered")
	ErrInvalidEmail           = NewValidationError("invalid email address")

	ErrEntryNotPersisted = NewPreconditionError("entry has no id, save it first")
	ErrSearchWithoutUser = NewPreconditionError("search requires an owner")

	ErrUserNotFound    = NewAuthenticationError("user not found")
	ErrInvalidPassword = NewAuthenticationError("invalid password")
)
