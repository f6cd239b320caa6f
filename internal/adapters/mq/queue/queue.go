// Package queue buffers score submissions between the HTTP intake and
// the scoring workers.
package queue

import (
	"context"
	"sync"

	"github.com/tyresmoke/burnboard/internal/domain/model"
	"github.com/tyresmoke/burnboard/pkg/metrics"
)

// Submission is the payload type flowing through the queue.
type Submission = model.Submission

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a submission. Returns false when the queue is full or
	// closed; the caller decides how to surface backpressure.
	Enqueue(ctx context.Context, s Submission) bool

	// Dequeue returns a channel that yields submissions until the queue
	// closes or ctx is done.
	Dequeue(ctx context.Context) <-chan Submission

	// Len returns the current queue depth.
	Len(ctx context.Context) int

	// Close stops intake and drains consumers.
	Close() error
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	items    chan Submission
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Submission, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, s Submission) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordComponentError("queue", "closed")
		return false
	}

	select {
	case q.items <- s:
		metrics.RecordQueueEnqueue()
		q.publishDepth()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordComponentError("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordComponentError("queue", "full")
		return false
	}
}

func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Submission {
	out := make(chan Submission)
	go func() {
		defer close(out)
		for s := range q.items {
			select {
			case out <- s:
				metrics.RecordQueueDequeue()
				q.publishDepth()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.items)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.items)
	return nil
}

func (q *InMemoryQueue) publishDepth() {
	depth := len(q.items)
	metrics.UpdateQueueSize(depth)
	metrics.UpdateQueueUtilization(float64(depth) / float64(q.capacity))
}
