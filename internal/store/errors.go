package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested record was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidSort indicates a sort field outside types.SortField.
	ErrInvalidSort = errors.New("invalid sort field")
)
