package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/tyresmoke/burnboard/internal/adapters/mq/queue"
	"github.com/tyresmoke/burnboard/internal/adapters/mq/worker"
	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/internal/domain/scoring"
)

type recorderStub struct {
	mu      sync.Mutex
	records []model.ScoreRecord
	fail    bool
}

func (r *recorderStub) Insert(_ context.Context, rec model.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store unavailable")
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *recorderStub) all() []model.ScoreRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ScoreRecord, len(r.records))
	copy(out, r.records)
	return out
}

type releaserStub struct {
	mu       sync.Mutex
	released []string
}

func (r *releaserStub) Unrecord(_ context.Context, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, key)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestPool(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a running pool", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		rec := &recorderStub{}
		pool := worker.NewPool(q, scoring.NewCalculator(), rec, worker.WithWorkerCount(2))
		pool.Start(ctx)

		convey.Convey("When a submission is enqueued", func() {
			q.Enqueue(ctx, model.Submission{
				SubmissionID: "s1",
				JudgeID:      "j1",
				JudgeName:    "Sam",
				CompetitorID: "c1",
				RoundID:      "r1",
				Card: model.ScoreCard{
					InstantSmoke:    8,
					ConstantSmoke:   15,
					VolumeOfSmoke:   18,
					DrivingSkill:    35,
					TyresPopped:     1,
					PenaltyStopping: 1,
				},
				SubmittedAt: time.Now(),
			})

			convey.Convey("Then a scored record lands in the store", func() {
				convey.So(waitFor(func() bool { return len(rec.all()) == 1 }), convey.ShouldBeTrue)

				got := rec.all()[0]
				convey.So(got.ID, convey.ShouldEqual, "s1")
				convey.So(got.ScoreSubtotal, convey.ShouldEqual, 81)
				convey.So(got.PenaltyTotal, convey.ShouldEqual, 5)
				convey.So(got.FinalScore, convey.ShouldEqual, 76)
				convey.So(got.JudgeName, convey.ShouldEqual, "Sam")
			})
		})

		convey.Convey("When many submissions arrive", func() {
			for i := 0; i < 10; i++ {
				q.Enqueue(ctx, model.Submission{
					SubmissionID: string(rune('a' + i)),
					Card:         model.ScoreCard{DrivingSkill: float64(i)},
				})
			}

			convey.Convey("Then every one is persisted", func() {
				convey.So(waitFor(func() bool { return len(rec.all()) == 10 }), convey.ShouldBeTrue)
			})
		})

		convey.Reset(func() {
			_ = q.Close()
			pool.Stop()
		})
	})

	convey.Convey("Given a store that rejects inserts", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		rec := &recorderStub{fail: true}
		rel := &releaserStub{}
		pool := worker.NewPool(q, scoring.NewCalculator(), rec,
			worker.WithWorkerCount(1),
			worker.WithReleaser(rel))
		pool.Start(ctx)

		convey.Convey("When a submission fails to persist", func() {
			q.Enqueue(ctx, model.Submission{SubmissionID: "s1"})

			convey.Convey("Then its idempotency key is released for retry", func() {
				convey.So(waitFor(func() bool {
					rel.mu.Lock()
					defer rel.mu.Unlock()
					return len(rel.released) == 1 && rel.released[0] == "s1"
				}), convey.ShouldBeTrue)
			})
		})

		convey.Reset(func() {
			_ = q.Close()
			pool.Stop()
		})
	})

	convey.Convey("Given pool lifecycle", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		rec := &recorderStub{}
		pool := worker.NewPool(q, scoring.NewCalculator(), rec)

		convey.Convey("When started twice and stopped twice", func() {
			pool.Start(ctx)
			pool.Start(ctx)
			pool.Stop()

			convey.Convey("Then neither panics", func() {
				convey.So(func() { pool.Stop() }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestInputFromCard(t *testing.T) {
	convey.Convey("Given a fully populated card", t, func() {
		card := model.ScoreCard{
			TipIn:                 1,
			InstantSmoke:          2,
			ConstantSmoke:         3,
			VolumeOfSmoke:         4,
			DrivingSkill:          5,
			TyresPopped:           2,
			PenaltyReversing:      1,
			PenaltyStopping:       2,
			PenaltyContactBarrier: 3,
			PenaltySmallFire:      4,
			PenaltyFailedDriveOff: 1,
			PenaltyLargeFire:      1,
			PenaltyDisqualified:   true,
		}

		convey.Convey("When mapped onto calculator input", func() {
			in := worker.InputFromCard(card)

			convey.Convey("Then every field carries over", func() {
				convey.So(in, convey.ShouldResemble, scoring.Input{
					TipIn:                 1,
					InstantSmoke:          2,
					ConstantSmoke:         3,
					VolumeOfSmoke:         4,
					DrivingSkill:          5,
					TyresPopped:           2,
					PenaltyReversing:      1,
					PenaltyStopping:       2,
					PenaltyContactBarrier: 3,
					PenaltySmallFire:      4,
					PenaltyFailedDriveOff: 1,
					PenaltyLargeFire:      1,
					Disqualified:          true,
				})
			})
		})
	})
}
