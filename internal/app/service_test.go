package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/tyresmoke/burnboard/internal/adapters/mq/queue"
	"github.com/tyresmoke/burnboard/internal/adapters/repository"
	"github.com/tyresmoke/burnboard/internal/app"
	"github.com/tyresmoke/burnboard/internal/domain/leaderboard"
	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/internal/domain/review"
)

func card(instant, constant, volume, skill float64) model.ScoreCard {
	return model.ScoreCard{
		InstantSmoke:  instant,
		ConstantSmoke: constant,
		VolumeOfSmoke: volume,
		DrivingSkill:  skill,
	}
}

func waitForCount(ctx context.Context, svc *app.Service, want int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.GetStats(ctx).ScoreCount == want {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return svc.GetStats(ctx).ScoreCount == want
}

// newEventService builds a started service with one class, two
// competitors, and two minor rounds plus a final.
func newEventService(ctx context.Context, opts ...app.Option) (*app.Service, map[string]string) {
	svc := app.New(append([]app.Option{app.WithWorkerCount(2), app.WithQueueSize(64)}, opts...)...)
	svc.Start(ctx)

	ids := map[string]string{}
	pro, _ := svc.CreateClass(ctx, model.CompetitionClass{Name: "Pro"})
	ids["class"] = pro.ID

	a, _ := svc.CreateCompetitor(ctx, model.Competitor{Name: "Alex", CarNumber: "7", ClassID: pro.ID})
	b, _ := svc.CreateCompetitor(ctx, model.Competitor{Name: "Billie", CarNumber: "13", ClassID: pro.ID})
	ids["a"] = a.ID
	ids["b"] = b.ID

	q1, _ := svc.CreateRound(ctx, model.Round{Name: "Qualifier 1", Date: "2026-03-14", IsMinor: true})
	q2, _ := svc.CreateRound(ctx, model.Round{Name: "Qualifier 2", Date: "2026-03-15", IsMinor: true})
	final, _ := svc.CreateRound(ctx, model.Round{Name: "Final", Date: "2026-03-16"})
	ids["q1"] = q1.ID
	ids["q2"] = q2.ID
	ids["final"] = final.ID
	return svc, ids
}

func submit(ctx context.Context, svc *app.Service, id, judge, competitor, round string, c model.ScoreCard) (app.SubmitStatus, error) {
	return svc.SubmitScore(ctx, model.Submission{
		SubmissionID: id,
		JudgeID:      judge,
		JudgeName:    "Judge " + judge,
		CompetitorID: competitor,
		RoundID:      round,
		Card:         c,
	})
}

func TestServiceSubmitPipeline(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a started service with an event roster", t, func() {
		svc, ids := newEventService(ctx)
		defer svc.Stop(ctx)

		convey.Convey("When a judge submits a score", func() {
			status, err := submit(ctx, svc, "s1", "j1", ids["a"], ids["q1"], card(8, 15, 18, 35))
			convey.So(err, convey.ShouldBeNil)
			convey.So(status, convey.ShouldEqual, app.SubmitAccepted)

			convey.Convey("Then a worker persists the scored record", func() {
				convey.So(waitForCount(ctx, svc, 1), convey.ShouldBeTrue)

				rec, err := svc.GetScore(ctx, "s1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.FinalScore, convey.ShouldEqual, 76)
				convey.So(rec.ScoreSubtotal, convey.ShouldEqual, 76)
				convey.So(rec.PenaltyTotal, convey.ShouldEqual, 0)
				convey.So(rec.EmailSent, convey.ShouldBeFalse)
			})

			convey.Convey("And resubmitting the same id is a duplicate", func() {
				status, err := submit(ctx, svc, "s1", "j1", ids["a"], ids["q1"], card(8, 15, 18, 35))
				convey.So(err, convey.ShouldBeNil)
				convey.So(status, convey.ShouldEqual, app.SubmitDuplicate)
			})
		})

		convey.Convey("When the competitor is unknown", func() {
			_, err := submit(ctx, svc, "s9", "j1", "ghost", ids["q1"], card(1, 2, 3, 4))
			convey.So(errors.Is(err, app.ErrUnknownCompetitor), convey.ShouldBeTrue)
		})

		convey.Convey("When the round is unknown", func() {
			_, err := submit(ctx, svc, "s9", "j1", ids["a"], "ghost", card(1, 2, 3, 4))
			convey.So(errors.Is(err, app.ErrUnknownRound), convey.ShouldBeTrue)
		})

		convey.Convey("When previewing a card", func() {
			b := svc.PreviewScore(ctx, model.ScoreCard{DrivingSkill: 30, TyresPopped: 1, PenaltyReversing: 1})

			convey.Convey("Then nothing is persisted", func() {
				convey.So(b.Subtotal, convey.ShouldEqual, 35)
				convey.So(b.PenaltyTotal, convey.ShouldEqual, 5)
				convey.So(b.FinalScore, convey.ShouldEqual, 30)
				convey.So(svc.GetStats(ctx).ScoreCount, convey.ShouldEqual, 0)
			})
		})
	})

	convey.Convey("Given a never-started service with a tiny queue", t, func() {
		svc := app.New(app.WithQueue(queue.NewInMemoryQueue(queue.WithCapacity(1))))
		pro, _ := svc.CreateClass(ctx, model.CompetitionClass{Name: "Pro"})
		a, _ := svc.CreateCompetitor(ctx, model.Competitor{Name: "Alex", CarNumber: "7", ClassID: pro.ID})
		b, _ := svc.CreateCompetitor(ctx, model.Competitor{Name: "Billie", CarNumber: "13", ClassID: pro.ID})
		q1, _ := svc.CreateRound(ctx, model.Round{Name: "Qualifier 1", Date: "2026-03-14", IsMinor: true})

		convey.Convey("When submissions exceed capacity with no consumer", func() {
			status, err := submit(ctx, svc, "s1", "j1", a.ID, q1.ID, card(1, 1, 1, 1))
			convey.So(err, convey.ShouldBeNil)
			convey.So(status, convey.ShouldEqual, app.SubmitAccepted)

			_, err = submit(ctx, svc, "s2", "j1", b.ID, q1.ID, card(1, 1, 1, 1))

			convey.Convey("Then backpressure surfaces as queue-full", func() {
				convey.So(errors.Is(err, app.ErrQueueFull), convey.ShouldBeTrue)
			})

			convey.Convey("And the rejected id is not poisoned as a duplicate", func() {
				_, err := submit(ctx, svc, "s2", "j1", b.ID, q1.ID, card(1, 1, 1, 1))
				convey.So(errors.Is(err, app.ErrQueueFull), convey.ShouldBeTrue)
			})
		})
	})
}

func TestServiceScoreAdministration(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given persisted scores", t, func() {
		svc, ids := newEventService(ctx)
		defer svc.Stop(ctx)

		_, _ = submit(ctx, svc, "s1", "j1", ids["a"], ids["q1"], card(8, 15, 18, 35))
		_, _ = submit(ctx, svc, "s2", "j2", ids["a"], ids["q1"], card(7, 14, 17, 34))
		convey.So(waitForCount(ctx, svc, 2), convey.ShouldBeTrue)

		convey.Convey("When an admin edits a raw field", func() {
			skill := 40.0
			rec, err := svc.EditScore(ctx, "s1", model.ScorePatch{DrivingSkill: &skill})

			convey.Convey("Then totals are recomputed and edited_at stamped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.Card.DrivingSkill, convey.ShouldEqual, 40)
				convey.So(rec.ScoreSubtotal, convey.ShouldEqual, 81)
				convey.So(rec.FinalScore, convey.ShouldEqual, 81)
				convey.So(rec.EditedAt, convey.ShouldNotBeNil)
			})

			convey.Convey("And the stored breakdown is re-derivable from the card", func() {
				again := svc.PreviewScore(ctx, rec.Card)
				convey.So(again.Subtotal, convey.ShouldEqual, rec.ScoreSubtotal)
				convey.So(again.PenaltyTotal, convey.ShouldEqual, rec.PenaltyTotal)
				convey.So(again.FinalScore, convey.ShouldEqual, rec.FinalScore)
			})

			convey.Convey("And the result email flag resets", func() {
				convey.So(rec.EmailSent, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When editing a missing score", func() {
			_, err := svc.EditScore(ctx, "ghost", model.ScorePatch{})
			convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("When deleting a score", func() {
			convey.So(svc.DeleteScore(ctx, "s1"), convey.ShouldBeNil)

			convey.Convey("Then it is gone and the id is reusable", func() {
				_, err := svc.GetScore(ctx, "s1")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)

				status, err := submit(ctx, svc, "s1", "j1", ids["a"], ids["q1"], card(1, 1, 1, 1))
				convey.So(err, convey.ShouldBeNil)
				convey.So(status, convey.ShouldEqual, app.SubmitAccepted)
			})
		})

		convey.Convey("When listing by judge", func() {
			records, err := svc.ListScoresByJudge(ctx, "j1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(records, convey.ShouldHaveLength, 1)
			convey.So(records[0].ID, convey.ShouldEqual, "s1")
		})

		convey.Convey("When tracking result emails", func() {
			pending, err := svc.PendingEmails(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(pending, convey.ShouldHaveLength, 2)

			convey.So(svc.MarkEmailSent(ctx, "s1"), convey.ShouldBeNil)
			pending, _ = svc.PendingEmails(ctx)
			convey.So(pending, convey.ShouldHaveLength, 1)
			convey.So(pending[0].ID, convey.ShouldEqual, "s2")
		})
	})
}

func TestServiceLeaderboards(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given scores across minor rounds", t, func() {
		svc, ids := newEventService(ctx)
		defer svc.Stop(ctx)

		_, _ = submit(ctx, svc, "s1", "j1", ids["a"], ids["q1"], card(8, 15, 18, 35))
		_, _ = submit(ctx, svc, "s2", "j2", ids["a"], ids["q1"], card(8, 15, 18, 39))
		_, _ = submit(ctx, svc, "s3", "j1", ids["a"], ids["q2"], card(8, 15, 18, 25))
		_, _ = submit(ctx, svc, "s4", "j1", ids["b"], ids["q1"], card(5, 10, 10, 20))
		_, _ = submit(ctx, svc, "s5", "j1", ids["b"], ids["final"], card(10, 20, 20, 40))
		convey.So(waitForCount(ctx, svc, 5), convey.ShouldBeTrue)

		convey.Convey("When querying one round", func() {
			rows, err := svc.Leaderboard(ctx, ids["q1"], "", leaderboard.ByAverage)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then entries are joined and ranked", func() {
				convey.So(rows, convey.ShouldHaveLength, 2)
				convey.So(rows[0].CompetitorName, convey.ShouldEqual, "Alex")
				convey.So(rows[0].ScoreCount, convey.ShouldEqual, 2)
				convey.So(rows[0].AverageScore, convey.ShouldEqual, 78)
				convey.So(rows[0].ClassName, convey.ShouldEqual, "Pro")
				convey.So(rows[1].CompetitorName, convey.ShouldEqual, "Billie")
			})
		})

		convey.Convey("When querying the cumulative standing", func() {
			rows, err := svc.CumulativeLeaderboard(ctx, "", leaderboard.ByAverage)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then only minor rounds contribute", func() {
				convey.So(rows, convey.ShouldHaveLength, 2)
				for _, row := range rows {
					if row.CompetitorID == ids["a"] {
						convey.So(row.ScoreCount, convey.ShouldEqual, 3)
						convey.So(row.RoundsCompeted, convey.ShouldEqual, 2)
					} else {
						convey.So(row.ScoreCount, convey.ShouldEqual, 1)
						convey.So(row.RoundsCompeted, convey.ShouldEqual, 1)
					}
				}
			})
		})

		convey.Convey("When a competitor is deleted after scoring", func() {
			convey.So(svc.DeleteCompetitor(ctx, ids["b"]), convey.ShouldBeNil)

			convey.Convey("Then their records drop out of the round standing", func() {
				rows, err := svc.Leaderboard(ctx, ids["q1"], "", leaderboard.ByAverage)
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 1)
				convey.So(rows[0].CompetitorID, convey.ShouldEqual, ids["a"])
			})

			convey.Convey("And out of the cumulative standing", func() {
				rows, err := svc.CumulativeLeaderboard(ctx, "", leaderboard.ByAverage)
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 1)
				convey.So(rows[0].CompetitorID, convey.ShouldEqual, ids["a"])
			})
		})

		convey.Convey("When querying an unknown round", func() {
			_, err := svc.Leaderboard(ctx, "ghost", "", leaderboard.ByAverage)
			convey.So(errors.Is(err, app.ErrUnknownRound), convey.ShouldBeTrue)
		})

		convey.Convey("When filtering by an empty class", func() {
			rows, err := svc.Leaderboard(ctx, ids["q1"], "no-such-class", leaderboard.ByAverage)
			convey.So(err, convey.ShouldBeNil)
			convey.So(rows, convey.ShouldBeEmpty)
		})
	})
}

func TestServiceReview(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a panel with an outlier and a duplicate", t, func() {
		svc, ids := newEventService(ctx, app.WithSettingsStore(
			repository.NewMemSettingsStore(repository.WithDeviationThreshold(10))))
		defer svc.Stop(ctx)

		_, _ = submit(ctx, svc, "s1", "j1", ids["a"], ids["q1"], card(8, 15, 18, 39))
		_, _ = submit(ctx, svc, "s2", "j2", ids["a"], ids["q1"], card(8, 15, 18, 37))
		_, _ = submit(ctx, svc, "s3", "j3", ids["a"], ids["q1"], card(2, 5, 5, 10))
		_, _ = submit(ctx, svc, "s4", "j1", ids["a"], ids["q1"], card(8, 15, 18, 39))
		convey.So(waitForCount(ctx, svc, 4), convey.ShouldBeTrue)

		convey.Convey("When listing scoring errors", func() {
			findings, err := svc.ScoringErrors(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then both anomaly types surface", func() {
				var duplicates, deviations int
				for _, f := range findings {
					switch f.ErrorType {
					case review.TypeDuplicate:
						duplicates++
					case review.TypeDeviation:
						deviations++
					}
				}
				convey.So(duplicates, convey.ShouldEqual, 1)
				convey.So(deviations, convey.ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		convey.Convey("When acknowledging the outlier", func() {
			convey.So(svc.AcknowledgeDeviation(ctx, "s3", true), convey.ShouldBeNil)
			findings, err := svc.ScoringErrors(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then s3 stops appearing as a deviation", func() {
				for _, f := range findings {
					if f.ErrorType == review.TypeDeviation {
						convey.So(f.ScoreID, convey.ShouldNotEqual, "s3")
					}
				}
			})

			convey.Convey("And unacknowledging brings it back", func() {
				convey.So(svc.AcknowledgeDeviation(ctx, "s3", false), convey.ShouldBeNil)
				findings, _ := svc.ScoringErrors(ctx)
				found := false
				for _, f := range findings {
					if f.ErrorType == review.TypeDeviation && f.ScoreID == "s3" {
						found = true
					}
				}
				convey.So(found, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When tuning the threshold", func() {
			convey.So(svc.DeviationThreshold(ctx), convey.ShouldEqual, 10)
			convey.So(svc.SetDeviationThreshold(ctx, 200), convey.ShouldBeNil)

			convey.Convey("Then deviations disappear under the new tolerance", func() {
				findings, _ := svc.ScoringErrors(ctx)
				for _, f := range findings {
					convey.So(f.ErrorType, convey.ShouldNotEqual, review.TypeDeviation)
				}
			})
		})
	})
}

func TestServiceRosterAndRounds(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a service", t, func() {
		svc := app.New()
		svc.Start(ctx)
		defer svc.Stop(ctx)

		convey.Convey("When creating a competitor in an unknown class", func() {
			_, err := svc.CreateCompetitor(ctx, model.Competitor{Name: "X", CarNumber: "1", ClassID: "ghost"})
			convey.So(errors.Is(err, app.ErrUnknownClass), convey.ShouldBeTrue)
		})

		convey.Convey("When listing competitors with classes", func() {
			pro, _ := svc.CreateClass(ctx, model.CompetitionClass{Name: "Pro"})
			_, err := svc.CreateCompetitor(ctx, model.Competitor{Name: "Alex", CarNumber: "7", ClassID: pro.ID})
			convey.So(err, convey.ShouldBeNil)

			joined, err := svc.ListCompetitors(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(joined, convey.ShouldHaveLength, 1)
			convey.So(joined[0].ClassName, convey.ShouldEqual, "Pro")
		})

		convey.Convey("When creating a round without a status", func() {
			r, err := svc.CreateRound(ctx, model.Round{Name: "Qualifier", Date: "2026-03-14"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(r.Status, convey.ShouldEqual, model.RoundActive)
			convey.So(r.ID, convey.ShouldNotBeEmpty)
		})

		convey.Convey("When reading stats", func() {
			stats := svc.GetStats(ctx)
			convey.So(stats.WorkerCount, convey.ShouldBeGreaterThan, 0)
			convey.So(stats.QueueCapacity, convey.ShouldBeGreaterThan, 0)
			convey.So(stats.ScoreCount, convey.ShouldEqual, 0)
		})
	})
}
