package errors

import "errors"

// ErrNotFound indicates the unit has no stored reservation settings.
var ErrNotFound = errors.New("reservation settings not found")
