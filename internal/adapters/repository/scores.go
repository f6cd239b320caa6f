package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/pkg/metrics"
)

// MemScoreStore implements ScoreStore on a mutex-guarded map.
type MemScoreStore struct {
	mu      sync.RWMutex
	records map[string]model.ScoreRecord
}

// NewMemScoreStore creates an empty score store.
func NewMemScoreStore() *MemScoreStore {
	return &MemScoreStore{records: make(map[string]model.ScoreRecord)}
}

func (s *MemScoreStore) Insert(_ context.Context, rec model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("insert score %s: %w", rec.ID, ErrDuplicateID)
	}
	s.records[rec.ID] = rec
	metrics.UpdateStoreRecords("scores", len(s.records))
	return nil
}

func (s *MemScoreStore) Get(_ context.Context, id string) (model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return model.ScoreRecord{}, fmt.Errorf("get score %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

func (s *MemScoreStore) Update(_ context.Context, rec model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		return fmt.Errorf("update score %s: %w", rec.ID, ErrNotFound)
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *MemScoreStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("delete score %s: %w", id, ErrNotFound)
	}
	delete(s.records, id)
	metrics.UpdateStoreRecords("scores", len(s.records))
	return nil
}

func (s *MemScoreStore) SetDeviationAck(_ context.Context, id string, acknowledged bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("acknowledge score %s: %w", id, ErrNotFound)
	}
	rec.DeviationAcknowledged = acknowledged
	s.records[id] = rec
	return nil
}

func (s *MemScoreStore) SetEmailSent(_ context.Context, id string, sent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("mark score %s emailed: %w", id, ErrNotFound)
	}
	rec.EmailSent = sent
	s.records[id] = rec
	return nil
}

func (s *MemScoreStore) List(_ context.Context) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(model.ScoreRecord) bool { return true }), nil
}

func (s *MemScoreStore) ListByRound(_ context.Context, roundID string) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(r model.ScoreRecord) bool { return r.RoundID == roundID }), nil
}

func (s *MemScoreStore) ListByRounds(_ context.Context, roundIDs []string) ([]model.ScoreRecord, error) {
	wanted := make(map[string]struct{}, len(roundIDs))
	for _, id := range roundIDs {
		wanted[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(r model.ScoreRecord) bool {
		_, ok := wanted[r.RoundID]
		return ok
	}), nil
}

func (s *MemScoreStore) ListByJudge(_ context.Context, judgeID string) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(r model.ScoreRecord) bool { return r.JudgeID == judgeID }), nil
}

func (s *MemScoreStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// snapshot copies matching records ordered by submission time so list
// output is stable. Caller must hold at least a read lock.
func (s *MemScoreStore) snapshot(keep func(model.ScoreRecord) bool) []model.ScoreRecord {
	out := make([]model.ScoreRecord, 0, len(s.records))
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
