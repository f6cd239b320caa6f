package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/tyresmoke/burnboard/internal/adapters/repository"
	"github.com/tyresmoke/burnboard/internal/domain/model"
)

func TestMemScoreStore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	convey.Convey("Given a score store", t, func() {
		store := repository.NewMemScoreStore()
		rec := model.ScoreRecord{
			ID:           "s1",
			JudgeID:      "j1",
			CompetitorID: "c1",
			RoundID:      "r1",
			FinalScore:   76,
			SubmittedAt:  base,
		}

		convey.Convey("When inserting and reading back", func() {
			convey.So(store.Insert(ctx, rec), convey.ShouldBeNil)
			got, err := store.Get(ctx, "s1")

			convey.Convey("Then the record round-trips", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldResemble, rec)
				convey.So(store.Count(ctx), convey.ShouldEqual, 1)
			})

			convey.Convey("And inserting the same id again conflicts", func() {
				convey.So(errors.Is(store.Insert(ctx, rec), repository.ErrDuplicateID), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When reading a missing id", func() {
			_, err := store.Get(ctx, "nope")

			convey.Convey("Then it reports not found", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When updating", func() {
			convey.So(store.Insert(ctx, rec), convey.ShouldBeNil)
			rec.FinalScore = 80
			convey.So(store.Update(ctx, rec), convey.ShouldBeNil)

			got, _ := store.Get(ctx, "s1")
			convey.So(got.FinalScore, convey.ShouldEqual, 80)

			convey.Convey("And updating a missing id fails", func() {
				missing := rec
				missing.ID = "ghost"
				convey.So(errors.Is(store.Update(ctx, missing), repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When deleting", func() {
			convey.So(store.Insert(ctx, rec), convey.ShouldBeNil)
			convey.So(store.Delete(ctx, "s1"), convey.ShouldBeNil)
			convey.So(store.Count(ctx), convey.ShouldEqual, 0)
			convey.So(errors.Is(store.Delete(ctx, "s1"), repository.ErrNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("When flipping bookkeeping flags", func() {
			convey.So(store.Insert(ctx, rec), convey.ShouldBeNil)
			convey.So(store.SetDeviationAck(ctx, "s1", true), convey.ShouldBeNil)
			convey.So(store.SetEmailSent(ctx, "s1", true), convey.ShouldBeNil)

			got, _ := store.Get(ctx, "s1")
			convey.So(got.DeviationAcknowledged, convey.ShouldBeTrue)
			convey.So(got.EmailSent, convey.ShouldBeTrue)
		})

		convey.Convey("When listing by round and judge", func() {
			records := []model.ScoreRecord{
				{ID: "s1", JudgeID: "j1", RoundID: "r1", SubmittedAt: base.Add(2 * time.Minute)},
				{ID: "s2", JudgeID: "j2", RoundID: "r1", SubmittedAt: base},
				{ID: "s3", JudgeID: "j1", RoundID: "r2", SubmittedAt: base.Add(time.Minute)},
			}
			for _, r := range records {
				convey.So(store.Insert(ctx, r), convey.ShouldBeNil)
			}

			convey.Convey("Then listings are filtered and oldest first", func() {
				all, err := store.List(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(all, convey.ShouldHaveLength, 3)
				convey.So(all[0].ID, convey.ShouldEqual, "s2")

				byRound, _ := store.ListByRound(ctx, "r1")
				convey.So(byRound, convey.ShouldHaveLength, 2)

				byRounds, _ := store.ListByRounds(ctx, []string{"r1", "r2"})
				convey.So(byRounds, convey.ShouldHaveLength, 3)

				byJudge, _ := store.ListByJudge(ctx, "j1")
				convey.So(byJudge, convey.ShouldHaveLength, 2)
				convey.So(byJudge[0].ID, convey.ShouldEqual, "s3")
			})
		})
	})
}

func TestMemRosterStore(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a roster store", t, func() {
		store := repository.NewMemRosterStore()

		convey.Convey("When managing classes", func() {
			pro := model.CompetitionClass{ID: "pro", Name: "Pro"}
			street := model.CompetitionClass{ID: "street", Name: "Street"}
			convey.So(store.CreateClass(ctx, pro), convey.ShouldBeNil)
			convey.So(store.CreateClass(ctx, street), convey.ShouldBeNil)

			convey.Convey("Then listing is sorted by name", func() {
				classes, err := store.ListClasses(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(classes, convey.ShouldHaveLength, 2)
				convey.So(classes[0].Name, convey.ShouldEqual, "Pro")
			})

			convey.Convey("And duplicate ids conflict", func() {
				convey.So(errors.Is(store.CreateClass(ctx, pro), repository.ErrDuplicateID), convey.ShouldBeTrue)
			})

			convey.Convey("And update preserves creation time", func() {
				created := model.CompetitionClass{ID: "dated", Name: "Dated", CreatedAt: time.Now().Add(-time.Hour)}
				convey.So(store.CreateClass(ctx, created), convey.ShouldBeNil)
				convey.So(store.UpdateClass(ctx, model.CompetitionClass{ID: "dated", Name: "Renamed"}), convey.ShouldBeNil)

				got, err := store.GetClass(ctx, "dated")
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Name, convey.ShouldEqual, "Renamed")
				convey.So(got.CreatedAt, convey.ShouldEqual, created.CreatedAt)
			})

			convey.Convey("And delete removes it", func() {
				convey.So(store.DeleteClass(ctx, "pro"), convey.ShouldBeNil)
				_, err := store.GetClass(ctx, "pro")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When managing competitors", func() {
			convey.So(store.CreateCompetitor(ctx, model.Competitor{ID: "c2", Name: "Bo", CarNumber: "42"}), convey.ShouldBeNil)
			convey.So(store.CreateCompetitor(ctx, model.Competitor{ID: "c1", Name: "Al", CarNumber: "07"}), convey.ShouldBeNil)

			convey.Convey("Then listing is sorted by car number", func() {
				competitors, err := store.ListCompetitors(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(competitors[0].CarNumber, convey.ShouldEqual, "07")
			})

			convey.Convey("And unknown ids report not found", func() {
				_, err := store.GetCompetitor(ctx, "ghost")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
				convey.So(errors.Is(store.DeleteCompetitor(ctx, "ghost"), repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMemRoundStore(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a round store", t, func() {
		store := repository.NewMemRoundStore()
		rounds := []model.Round{
			{ID: "r1", Name: "Qualifier 1", Date: "2026-03-14", IsMinor: true},
			{ID: "r2", Name: "Qualifier 2", Date: "2026-03-15", IsMinor: true},
			{ID: "r3", Name: "Final", Date: "2026-03-16"},
		}
		for _, r := range rounds {
			convey.So(store.Create(ctx, r), convey.ShouldBeNil)
		}

		convey.Convey("When listing", func() {
			all, err := store.List(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then rounds are ordered by date", func() {
				convey.So(all, convey.ShouldHaveLength, 3)
				convey.So(all[0].ID, convey.ShouldEqual, "r1")
				convey.So(all[2].ID, convey.ShouldEqual, "r3")
			})
		})

		convey.Convey("When listing minor rounds", func() {
			minors, err := store.ListMinor(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the final is excluded", func() {
				convey.So(minors, convey.ShouldHaveLength, 2)
				for _, r := range minors {
					convey.So(r.IsMinor, convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When updating and deleting", func() {
			updated := rounds[0]
			updated.Status = model.RoundCompleted
			convey.So(store.Update(ctx, updated), convey.ShouldBeNil)
			got, _ := store.Get(ctx, "r1")
			convey.So(got.Status, convey.ShouldEqual, model.RoundCompleted)

			convey.So(store.Delete(ctx, "r3"), convey.ShouldBeNil)
			_, err := store.Get(ctx, "r3")
			convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
		})
	})
}

func TestMemSettingsStore(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a settings store", t, func() {
		convey.Convey("When built with defaults", func() {
			store := repository.NewMemSettingsStore()
			convey.So(store.DeviationThreshold(ctx), convey.ShouldEqual, 5.0)
		})

		convey.Convey("When built with a custom threshold", func() {
			store := repository.NewMemSettingsStore(repository.WithDeviationThreshold(8))
			convey.So(store.DeviationThreshold(ctx), convey.ShouldEqual, 8)
		})

		convey.Convey("When updating the threshold", func() {
			store := repository.NewMemSettingsStore()
			convey.So(store.SetDeviationThreshold(ctx, 12.5), convey.ShouldBeNil)
			convey.So(store.DeviationThreshold(ctx), convey.ShouldEqual, 12.5)

			convey.Convey("Then negative values are rejected", func() {
				err := store.SetDeviationThreshold(ctx, -1)
				convey.So(errors.Is(err, repository.ErrInvalidThreshold), convey.ShouldBeTrue)
				convey.So(store.DeviationThreshold(ctx), convey.ShouldEqual, 12.5)
			})
		})
	})
}
