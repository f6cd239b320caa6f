package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/pkg/metrics"
)

// MemRoundStore implements RoundStore on a mutex-guarded map.
type MemRoundStore struct {
	mu     sync.RWMutex
	rounds map[string]model.Round
}

// NewMemRoundStore creates an empty round store.
func NewMemRoundStore() *MemRoundStore {
	return &MemRoundStore{rounds: make(map[string]model.Round)}
}

func (s *MemRoundStore) Create(_ context.Context, r model.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rounds[r.ID]; ok {
		return fmt.Errorf("create round %s: %w", r.ID, ErrDuplicateID)
	}
	s.rounds[r.ID] = r
	metrics.UpdateStoreRecords("rounds", len(s.rounds))
	return nil
}

func (s *MemRoundStore) Update(_ context.Context, r model.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rounds[r.ID]
	if !ok {
		return fmt.Errorf("update round %s: %w", r.ID, ErrNotFound)
	}
	r.CreatedAt = existing.CreatedAt
	s.rounds[r.ID] = r
	return nil
}

func (s *MemRoundStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rounds[id]; !ok {
		return fmt.Errorf("delete round %s: %w", id, ErrNotFound)
	}
	delete(s.rounds, id)
	metrics.UpdateStoreRecords("rounds", len(s.rounds))
	return nil
}

func (s *MemRoundStore) Get(_ context.Context, id string) (model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rounds[id]
	if !ok {
		return model.Round{}, fmt.Errorf("get round %s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (s *MemRoundStore) List(_ context.Context) ([]model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(model.Round) bool { return true }), nil
}

func (s *MemRoundStore) ListMinor(_ context.Context) ([]model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(r model.Round) bool { return r.IsMinor }), nil
}

func (s *MemRoundStore) snapshot(keep func(model.Round) bool) []model.Round {
	out := make([]model.Round, 0, len(s.rounds))
	for _, r := range s.rounds {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Name < out[j].Name
	})
	return out
}
