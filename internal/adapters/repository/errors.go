package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateID      = errors.New("duplicate record id")
	ErrInvalidThreshold = errors.New("deviation threshold must not be negative")
)
