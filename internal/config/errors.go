package config

import "errors"

var (
	// ErrInvalidConfig marks a configuration that fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLoadConfig marks a failure to read or parse a config source.
	ErrLoadConfig = errors.New("failed to load configuration")
)
