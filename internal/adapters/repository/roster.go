package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/pkg/metrics"
)

// MemRosterStore implements RosterStore on mutex-guarded maps.
type MemRosterStore struct {
	mu          sync.RWMutex
	classes     map[string]model.CompetitionClass
	competitors map[string]model.Competitor
}

// NewMemRosterStore creates an empty roster store.
func NewMemRosterStore() *MemRosterStore {
	return &MemRosterStore{
		classes:     make(map[string]model.CompetitionClass),
		competitors: make(map[string]model.Competitor),
	}
}

func (s *MemRosterStore) CreateClass(_ context.Context, c model.CompetitionClass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[c.ID]; ok {
		return fmt.Errorf("create class %s: %w", c.ID, ErrDuplicateID)
	}
	s.classes[c.ID] = c
	metrics.UpdateStoreRecords("classes", len(s.classes))
	return nil
}

func (s *MemRosterStore) UpdateClass(_ context.Context, c model.CompetitionClass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.classes[c.ID]
	if !ok {
		return fmt.Errorf("update class %s: %w", c.ID, ErrNotFound)
	}
	c.CreatedAt = existing.CreatedAt
	s.classes[c.ID] = c
	return nil
}

func (s *MemRosterStore) DeleteClass(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[id]; !ok {
		return fmt.Errorf("delete class %s: %w", id, ErrNotFound)
	}
	delete(s.classes, id)
	metrics.UpdateStoreRecords("classes", len(s.classes))
	return nil
}

func (s *MemRosterStore) GetClass(_ context.Context, id string) (model.CompetitionClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.classes[id]
	if !ok {
		return model.CompetitionClass{}, fmt.Errorf("get class %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *MemRosterStore) ListClasses(_ context.Context) ([]model.CompetitionClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CompetitionClass, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemRosterStore) CreateCompetitor(_ context.Context, c model.Competitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.competitors[c.ID]; ok {
		return fmt.Errorf("create competitor %s: %w", c.ID, ErrDuplicateID)
	}
	s.competitors[c.ID] = c
	metrics.UpdateStoreRecords("competitors", len(s.competitors))
	return nil
}

func (s *MemRosterStore) UpdateCompetitor(_ context.Context, c model.Competitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.competitors[c.ID]
	if !ok {
		return fmt.Errorf("update competitor %s: %w", c.ID, ErrNotFound)
	}
	c.CreatedAt = existing.CreatedAt
	s.competitors[c.ID] = c
	return nil
}

func (s *MemRosterStore) DeleteCompetitor(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.competitors[id]; !ok {
		return fmt.Errorf("delete competitor %s: %w", id, ErrNotFound)
	}
	delete(s.competitors, id)
	metrics.UpdateStoreRecords("competitors", len(s.competitors))
	return nil
}

func (s *MemRosterStore) GetCompetitor(_ context.Context, id string) (model.Competitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.competitors[id]
	if !ok {
		return model.Competitor{}, fmt.Errorf("get competitor %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *MemRosterStore) ListCompetitors(_ context.Context) ([]model.Competitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Competitor, 0, len(s.competitors))
	for _, c := range s.competitors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CarNumber < out[j].CarNumber })
	return out, nil
}
