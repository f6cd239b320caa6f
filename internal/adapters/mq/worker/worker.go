// Package worker drains the submission queue, derives score breakdowns,
// and persists the resulting records.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/tyresmoke/burnboard/internal/adapters/mq/queue"
	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/internal/domain/scoring"
	"github.com/tyresmoke/burnboard/pkg/logger"
	"github.com/tyresmoke/burnboard/pkg/metrics"
)

// Scorer derives the breakdown for a raw card.
type Scorer interface {
	Compute(in scoring.Input) scoring.Breakdown
}

// Recorder persists finished score records.
type Recorder interface {
	Insert(ctx context.Context, rec model.ScoreRecord) error
}

// Releaser lets a failed submission be retried by forgetting its
// idempotency key.
type Releaser interface {
	Unrecord(ctx context.Context, key string)
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	queue    queue.Queue
	scorer   Scorer
	recorder Recorder
	releaser Releaser
	log      logger.Logger
	count    int

	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewPool creates a worker pool with configuration options.
func NewPool(q queue.Queue, scorer Scorer, recorder Recorder, opts ...Option) *Pool {
	p := &Pool{
		queue:    q,
		scorer:   scorer,
		recorder: recorder,
		log:      logger.Get(),
		count:    defaultWorkerCount,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers. Calling Start twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	metrics.UpdateWorkerActiveCount(p.count)
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Stop cancels the workers and waits for in-flight work to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
	metrics.UpdateWorkerActiveCount(0)
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.Named("worker")
	items := p.queue.Dequeue(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case sub, ok := <-items:
			if !ok {
				return
			}
			if err := p.process(ctx, sub); err != nil {
				metrics.RecordWorkerError()
				log.Error(ctx, "persist score failed",
					logger.Int("worker", id),
					logger.String("submission_id", sub.SubmissionID),
					logger.Error(err))
			}
		}
	}
}

func (p *Pool) process(ctx context.Context, sub model.Submission) error {
	start := time.Now()

	computeStart := time.Now()
	breakdown := p.scorer.Compute(InputFromCard(sub.Card))
	metrics.RecordScoreComputeLatency(float64(time.Since(computeStart).Microseconds()) / 1000)

	rec := model.ScoreRecord{
		ID:            sub.SubmissionID,
		JudgeID:       sub.JudgeID,
		JudgeName:     sub.JudgeName,
		CompetitorID:  sub.CompetitorID,
		RoundID:       sub.RoundID,
		Card:          sub.Card,
		ScoreSubtotal: breakdown.Subtotal,
		PenaltyTotal:  breakdown.PenaltyTotal,
		FinalScore:    breakdown.FinalScore,
		SubmittedAt:   sub.SubmittedAt,
	}

	if err := p.recorder.Insert(ctx, rec); err != nil {
		if p.releaser != nil {
			p.releaser.Unrecord(ctx, sub.SubmissionID)
		}
		return err
	}

	metrics.RecordScoreRecorded()
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	return nil
}

// InputFromCard maps a stored card onto the calculator's input.
func InputFromCard(card model.ScoreCard) scoring.Input {
	return scoring.Input{
		TipIn:                 card.TipIn,
		InstantSmoke:          card.InstantSmoke,
		ConstantSmoke:         card.ConstantSmoke,
		VolumeOfSmoke:         card.VolumeOfSmoke,
		DrivingSkill:          card.DrivingSkill,
		TyresPopped:           card.TyresPopped,
		PenaltyReversing:      card.PenaltyReversing,
		PenaltyStopping:       card.PenaltyStopping,
		PenaltyContactBarrier: card.PenaltyContactBarrier,
		PenaltySmallFire:      card.PenaltySmallFire,
		PenaltyFailedDriveOff: card.PenaltyFailedDriveOff,
		PenaltyLargeFire:      card.PenaltyLargeFire,
		Disqualified:          card.PenaltyDisqualified,
	}
}
