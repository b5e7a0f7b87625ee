package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation means the request was missing or had malformed fields (400)
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated means no identity was supplied (401)
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials covers both unknown email and wrong password (401)
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict means the email is already registered (409)
	ErrConflict = errors.New("email already exists")
	// ErrNotFound covers both a missing resource and one the caller does not own (404)
	ErrNotFound = errors.New("not found")
	// ErrStore wraps any persistence failure (500)
	ErrStore = errors.New("store failure")
	// ErrInternal wraps failures unrelated to storage, such as an exhausted random source (500)
	ErrInternal = errors.New("internal error")
)

// ValidationError carries the message shown to the client
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) hold
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

func storeErr(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, operation, err)
}

func internalErr(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, operation, err)
}
