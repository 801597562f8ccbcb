package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional write loses to a
	// concurrent update (e.g. two captains accepting the same ride).
	ErrConflict = errors.New("conflicting update")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate entity")
)
