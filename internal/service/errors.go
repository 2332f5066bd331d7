package service

import (
	"errors"
	"fmt"
)

// Booking core.
var (
	ErrDateUnavailable       = errors.New("date is not available for booking")
	ErrUnknownResource       = errors.New("unknown table or terrain box")
	ErrResourceAlreadyBooked = errors.New("resource already booked on this date")
)

// Shared.
var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrRemoteServiceFailure = errors.New("remote service failure")
)

// Directory.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrCannotDeleteSelf   = errors.New("cannot delete own account")
)

// remote marks err as a failure of a collaborator (storage, directory).
// Both ErrRemoteServiceFailure and the cause stay visible to errors.Is.
func remote(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemoteServiceFailure, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
