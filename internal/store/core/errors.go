package core

import "errors"

// Normalized storage errors. Adapters translate every engine-specific
// failure into one of these (or wrap it); nothing engine-shaped crosses
// the service boundary.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)
