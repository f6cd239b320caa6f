// Package config loads service configuration from defaults, an optional
// YAML file, and environment variables, in that order of precedence.
package config

import (
	"fmt"

	"github.com/tyresmoke/burnboard/internal/domain/scoring"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `koanf:"addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// QueueSize bounds the submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount is the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the idempotency cache; 0 means unbounded.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps the limit query parameter.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DeviationThreshold is the starting panel-deviation threshold in
	// points. Admins can change it at runtime.
	DeviationThreshold float64 `koanf:"deviation_threshold"`

	// CoercionPolicy controls malformed category values at intake:
	// "strict" rejects, "coerce-to-zero" treats them as zero.
	CoercionPolicy string `koanf:"coercion_policy"`

	// NegativeFloor clamps non-disqualified final scores at zero.
	NegativeFloor bool `koanf:"negative_floor"`
}

func defaults() Config {
	return Config{
		Addr:                ":8080",
		LogLevel:            "info",
		QueueSize:           10000,
		WorkerCount:         4,
		DedupeSize:          50000,
		MaxLeaderboardLimit: 1000,
		DeviationThreshold:  5.0,
		CoercionPolicy:      string(scoring.CoerceToZero),
		NegativeFloor:       false,
	}
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be positive, got %d: %w", c.QueueSize, ErrInvalidConfig)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("worker_count must be positive, got %d: %w", c.WorkerCount, ErrInvalidConfig)
	}
	if c.DedupeSize < 0 {
		return fmt.Errorf("dedupe_size must not be negative, got %d: %w", c.DedupeSize, ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return fmt.Errorf("max_leaderboard_limit must be positive, got %d: %w", c.MaxLeaderboardLimit, ErrInvalidConfig)
	}
	if c.DeviationThreshold < 0 {
		return fmt.Errorf("deviation_threshold must not be negative, got %v: %w", c.DeviationThreshold, ErrInvalidConfig)
	}
	if _, err := scoring.ParsePolicy(c.CoercionPolicy); err != nil {
		return fmt.Errorf("coercion_policy %q: %w", c.CoercionPolicy, ErrInvalidConfig)
	}
	return nil
}
