package errors

import "errors"

var (
	// ErrNotFound indicates the booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidID indicates a malformed booking id.
	ErrInvalidID = errors.New("invalid booking id")
)
