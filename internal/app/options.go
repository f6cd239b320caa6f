package app

import (
	"github.com/tyresmoke/burnboard/internal/adapters/mq/queue"
	"github.com/tyresmoke/burnboard/internal/adapters/repository"
	"github.com/tyresmoke/burnboard/internal/domain/dedupe"
	"github.com/tyresmoke/burnboard/internal/domain/scoring"
	"github.com/tyresmoke/burnboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithScoreStore replaces the score store.
func WithScoreStore(st repository.ScoreStore) Option {
	return func(s *Service) { s.scores = st }
}

// WithRosterStore replaces the roster store.
func WithRosterStore(st repository.RosterStore) Option {
	return func(s *Service) { s.roster = st }
}

// WithRoundStore replaces the round store.
func WithRoundStore(st repository.RoundStore) Option {
	return func(s *Service) { s.rounds = st }
}

// WithSettingsStore replaces the settings store.
func WithSettingsStore(st repository.SettingsStore) Option {
	return func(s *Service) { s.settings = st }
}

// WithDeduper replaces the idempotency cache.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) { s.deduper = d }
}

// WithQueue replaces the submission queue.
func WithQueue(q queue.Queue) Option {
	return func(s *Service) { s.queue = q }
}

// WithCalculator replaces the score calculator.
func WithCalculator(c *scoring.Calculator) Option {
	return func(s *Service) { s.calc = c }
}

// WithLogger overrides the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithQueueSize sets the default queue's capacity.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithWorkerCount sets the scoring worker count.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithDedupeSize bounds the default idempotency cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.dedupeSize = n
		}
	}
}
