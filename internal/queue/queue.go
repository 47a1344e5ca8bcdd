// Package queue provides an unbounded FIFO queue with a blocking, context-aware
// Get and join/done accounting.
//
// Put never blocks and never rejects, so memory grows with the backlog when
// producers outrun the consumer. Every item taken with Get must be confirmed
// with Done once processed; Join waits until that has happened for everything
// ever Put.
package queue

import (
	"context"
	"sync"
)

// Queue is safe for concurrent use. The zero value is not usable; call New.
type Queue[T any] struct {
	mu         sync.Mutex
	items      []T
	unfinished int
	ready      chan struct{}
	idle       chan struct{}
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	idle := make(chan struct{})
	close(idle)
	return &Queue[T]{
		ready: make(chan struct{}, 1),
		idle:  idle,
	}
}

// Put appends v to the tail of the queue.
func (q *Queue[T]) Put(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.unfinished++
	if q.unfinished == 1 {
		q.idle = make(chan struct{})
	}
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Get removes and returns the head of the queue, waiting for an item if the
// queue is empty. It returns ctx.Err() if ctx ends first.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			v := q.items[0]
			var zero T
			q.items[0] = zero
			q.items = q.items[1:]
			q.mu.Unlock()
			return v, nil
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Done marks one previously fetched item as processed.
func (q *Queue[T]) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unfinished <= 0 {
		panic("queue: Done called more times than Put")
	}
	q.unfinished--
	if q.unfinished == 0 {
		close(q.idle)
	}
}

// Join blocks until every item Put so far has been marked Done.
func (q *Queue[T]) Join(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of items waiting in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns a copy of the waiting items, head first.
func (q *Queue[T]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
