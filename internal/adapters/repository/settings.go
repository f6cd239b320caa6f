package repository

import (
	"context"
	"fmt"
	"sync"
)

// MemSettingsStore implements SettingsStore.
type MemSettingsStore struct {
	mu                 sync.RWMutex
	deviationThreshold float64
}

// NewMemSettingsStore creates a settings store with configuration options.
func NewMemSettingsStore(opts ...SettingsOption) *MemSettingsStore {
	s := &MemSettingsStore{deviationThreshold: defaultDeviationThreshold}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemSettingsStore) DeviationThreshold(_ context.Context) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviationThreshold
}

func (s *MemSettingsStore) SetDeviationThreshold(_ context.Context, threshold float64) error {
	if threshold < 0 {
		return fmt.Errorf("set threshold %v: %w", threshold, ErrInvalidThreshold)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviationThreshold = threshold
	return nil
}
