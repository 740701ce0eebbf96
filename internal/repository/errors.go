package repository

import "errors"

var (
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("record already exists")
	// ErrNotFound is returned by writes that matched no row
	ErrNotFound = errors.New("record not found")
)
