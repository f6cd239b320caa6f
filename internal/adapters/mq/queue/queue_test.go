package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/tyresmoke/burnboard/internal/adapters/mq/queue"
	"github.com/tyresmoke/burnboard/internal/domain/model"
)

func submission(id string) model.Submission {
	return model.Submission{SubmissionID: id, JudgeID: "j1", CompetitorID: "c1", RoundID: "r1"}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a queue with small capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		convey.Convey("When enqueueing within capacity", func() {
			convey.So(q.Enqueue(ctx, submission("s1")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, submission("s2")), convey.ShouldBeTrue)
			convey.So(q.Len(ctx), convey.ShouldEqual, 2)

			convey.Convey("And the queue is full", func() {
				convey.Convey("Then further enqueues signal backpressure", func() {
					convey.So(q.Enqueue(ctx, submission("s3")), convey.ShouldBeFalse)
				})
			})
		})

		convey.Convey("When dequeueing", func() {
			q.Enqueue(ctx, submission("s1"))
			q.Enqueue(ctx, submission("s2"))

			items := q.Dequeue(ctx)
			first := <-items
			second := <-items

			convey.Convey("Then items come out in order", func() {
				convey.So(first.SubmissionID, convey.ShouldEqual, "s1")
				convey.So(second.SubmissionID, convey.ShouldEqual, "s2")
			})
		})

		convey.Convey("When the queue closes", func() {
			q.Enqueue(ctx, submission("s1"))
			convey.So(q.Close(), convey.ShouldBeNil)

			convey.Convey("Then enqueue refuses new work", func() {
				convey.So(q.Enqueue(ctx, submission("s2")), convey.ShouldBeFalse)
			})

			convey.Convey("And buffered items still drain", func() {
				items := q.Dequeue(ctx)
				got, ok := <-items
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got.SubmissionID, convey.ShouldEqual, "s1")

				_, ok = <-items
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.Convey("And closing again is a no-op", func() {
				convey.So(q.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the consumer context is cancelled", func() {
			q.Enqueue(ctx, submission("s1"))
			cancelled, cancel := context.WithCancel(ctx)
			items := q.Dequeue(cancelled)
			<-items
			cancel()

			convey.Convey("Then the dequeue channel closes", func() {
				q.Enqueue(ctx, submission("s2"))
				select {
				case _, ok := <-items:
					convey.So(ok, convey.ShouldBeFalse)
				case <-time.After(time.Second):
					convey.So("timed out", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given a default-capacity queue under load", t, func() {
		q := queue.NewInMemoryQueue()
		defer func() { _ = q.Close() }()

		convey.Convey("When a thousand items flow through", func() {
			for i := 0; i < 1000; i++ {
				convey.So(q.Enqueue(ctx, submission(fmt.Sprintf("s%d", i))), convey.ShouldBeTrue)
			}
			convey.So(q.Len(ctx), convey.ShouldEqual, 1000)

			items := q.Dequeue(ctx)
			for i := 0; i < 1000; i++ {
				<-items
			}

			convey.Convey("Then the queue is drained", func() {
				convey.So(q.Len(ctx), convey.ShouldEqual, 0)
			})
		})
	})
}
