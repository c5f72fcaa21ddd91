package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
	ErrAlreadyExists   = errors.New("already exists")
	ErrTransport       = errors.New("message transport failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUser        = fmt.Errorf("%w: unknown username", ErrInvalidCredentials)
	ErrWrongPassword      = fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
)

// AlreadyExistsError reports which unique field of which entity collided.
type AlreadyExistsError struct {
	Entity string
	Field  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ConflictField returns the colliding field when err is an AlreadyExistsError.
func ConflictField(err error) (string, bool) {
	var ae *AlreadyExistsError
	if errors.As(err, &ae) {
		return ae.Field, true
	}
	return "", false
}
