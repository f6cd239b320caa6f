// Package repository defines the persistence contracts and their
// in-memory implementations. Reads hand out snapshots; callers never
// share memory with a store.
package repository

import (
	"context"

	"github.com/tyresmoke/burnboard/internal/domain/model"
)

// ScoreStore holds submitted score records. Uniqueness of
// (competitor, round, judge) is a workflow expectation, not a store
// constraint; the review domain surfaces violations.
type ScoreStore interface {
	Insert(ctx context.Context, rec model.ScoreRecord) error
	Get(ctx context.Context, id string) (model.ScoreRecord, error)
	Update(ctx context.Context, rec model.ScoreRecord) error
	Delete(ctx context.Context, id string) error

	// SetDeviationAck flips the review acknowledgment flag.
	SetDeviationAck(ctx context.Context, id string, acknowledged bool) error
	// SetEmailSent flips the result-email bookkeeping flag.
	SetEmailSent(ctx context.Context, id string, sent bool) error

	List(ctx context.Context) ([]model.ScoreRecord, error)
	ListByRound(ctx context.Context, roundID string) ([]model.ScoreRecord, error)
	ListByRounds(ctx context.Context, roundIDs []string) ([]model.ScoreRecord, error)
	ListByJudge(ctx context.Context, judgeID string) ([]model.ScoreRecord, error)
	Count(ctx context.Context) int
}

// RosterStore holds competition classes and competitors.
type RosterStore interface {
	CreateClass(ctx context.Context, c model.CompetitionClass) error
	UpdateClass(ctx context.Context, c model.CompetitionClass) error
	DeleteClass(ctx context.Context, id string) error
	GetClass(ctx context.Context, id string) (model.CompetitionClass, error)
	ListClasses(ctx context.Context) ([]model.CompetitionClass, error)

	CreateCompetitor(ctx context.Context, c model.Competitor) error
	UpdateCompetitor(ctx context.Context, c model.Competitor) error
	DeleteCompetitor(ctx context.Context, id string) error
	GetCompetitor(ctx context.Context, id string) (model.Competitor, error)
	ListCompetitors(ctx context.Context) ([]model.Competitor, error)
}

// RoundStore holds competition rounds.
type RoundStore interface {
	Create(ctx context.Context, r model.Round) error
	Update(ctx context.Context, r model.Round) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (model.Round, error)
	List(ctx context.Context) ([]model.Round, error)
	// ListMinor returns rounds feeding the cumulative standing.
	ListMinor(ctx context.Context) ([]model.Round, error)
}

// SettingsStore holds event-level tunables. It is injected wherever the
// settings are read so nothing depends on ambient process state.
type SettingsStore interface {
	DeviationThreshold(ctx context.Context) float64
	SetDeviationThreshold(ctx context.Context, threshold float64) error
}
