package worker

import "github.com/tyresmoke/burnboard/pkg/logger"

const defaultWorkerCount = 4

// Option applies a configuration option to the pool.
type Option func(*Pool)

// WithWorkerCount sets how many workers drain the queue.
func WithWorkerCount(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.count = n
		}
	}
}

// WithReleaser wires the idempotency cache so failed persists can be
// resubmitted.
func WithReleaser(r Releaser) Option {
	return func(p *Pool) {
		p.releaser = r
	}
}

// WithLogger overrides the pool's logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}
