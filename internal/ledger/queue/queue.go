// Package queue implements the single-writer FIFO queue that feeds the
// ledger worker: envelopes are pushed by request handlers and popped one
// at a time by the worker loop, with a context-aware Pop so the worker can
// be cancelled cleanly on shutdown.
package queue

import (
	"context"
	"fmt"

	deadlock "github.com/sasha-s/go-deadlock"

	"onchainpoker/internal/ledger"
)

// Queue is an unbounded FIFO of envelopes for a single hand's worker.
// Guarded by a deadlock-detecting mutex rather than a plain sync.Mutex,
// matching the concurrency tooling the rest of this codebase uses for its
// shared mutable state.
type Queue struct {
	mu     deadlock.Mutex
	items  []ledger.Envelope
	notify chan struct{}
	closed bool
}

func New() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push appends env to the tail. Returns an error if the queue has been
// closed.
func (q *Queue) Push(env ledger.Envelope) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("queue: push on closed queue")
	}
	q.items = append(q.items, env)
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pop blocks until an envelope is available, the queue is closed (in
// which case it returns ok=false), or ctx is cancelled.
func (q *Queue) Pop(ctx context.Context) (env ledger.Envelope, ok bool, err error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			env = q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return env, true, nil
		}
		if q.closed {
			q.mu.Unlock()
			return ledger.Envelope{}, false, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ledger.Envelope{}, false, ctx.Err()
		case <-q.notify:
		}
	}
}

// Len reports the number of envelopes currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed and wakes any blocked Pop callers, which
// then return ok=false once drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
