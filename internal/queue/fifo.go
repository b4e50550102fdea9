// Package queue provides an unbounded FIFO queue with a blocking Pop. It
// backs each agent's pending queue: Push never blocks (backlog depth is not
// bounded), Pop suspends until an item arrives, the queue is closed or the
// context is cancelled.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Push and Pop after Close has been called and the
// backlog has drained.
var ErrClosed = errors.New("queue: closed")

// FIFO is an unbounded first-in first-out queue safe for concurrent use.
type FIFO[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	notify chan struct{} // capacity 1, signals waiting Pop
}

// NewFIFO constructs an empty queue.
func NewFIFO[T any]() *FIFO[T] {
	return &FIFO[T]{notify: make(chan struct{}, 1)}
}

// Push appends an item to the tail. It never blocks; it fails only after Close.
func (q *FIFO[T]) Push(item T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.signal()

	return nil
}

func (q *FIFO[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Pop removes and returns the head item, blocking until one is available.
// It returns ErrClosed once the queue is closed and empty, or ctx.Err() on
// cancellation. Items already queued are still delivered after Close so a
// consumer can drain the backlog.
func (q *FIFO[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()
			if remaining > 0 {
				q.signal() // cascade to other waiters
			}
			return item, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			q.signal() // release any other waiter so it can observe the close
			return zero, ErrClosed
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.notify:
		}
	}
}

// Len reports the current backlog depth.
func (q *FIFO[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops further pushes. Queued items remain poppable until drained.
func (q *FIFO[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.signal()
}
