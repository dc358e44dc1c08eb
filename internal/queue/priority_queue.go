package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by PriorityQueue.Pop once the queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// PriorityQueue is a blocking queue with two lanes. High priority items are popped before
// normal ones; each lane is FIFO. It is safe for concurrent use.
type PriorityQueue[T any] struct {
	mu     sync.Mutex
	high   Queue[T]
	normal Queue[T]
	notify chan struct{}
	closed bool
}

// NewPriorityQueue creates a PriorityQueue with room for prealloc items per lane.
func NewPriorityQueue[T any](prealloc int) *PriorityQueue[T] {
	return &PriorityQueue[T]{
		high:   NewSliceQueue[T](prealloc),
		normal: NewSliceQueue[T](prealloc),
		notify: make(chan struct{}, 1),
	}
}

// Push adds item to the high or the normal lane. It returns false when the queue is closed.
func (q *PriorityQueue[T]) Push(item T, high bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	if high {
		q.high.Enqueue(item)
	} else {
		q.normal.Enqueue(item)
	}

	select {
	case q.notify <- struct{}{}:
	default:
	}

	return true
}

// Pop removes the next item, blocking until one is available, ctx is done or the queue is
// closed. Items pushed before Close are still returned.
func (q *PriorityQueue[T]) Pop(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		item, ok := q.high.Dequeue()
		if !ok {
			item, ok = q.normal.Dequeue()
		}
		closed := q.closed
		q.mu.Unlock()

		if ok {
			return item, nil
		}

		if closed {
			var zero T
			return zero, ErrClosed
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-q.notify:
		}
	}
}

// Close stops accepting items and wakes every blocked Pop.
func (q *PriorityQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.notify)
	}
}

// Length returns the number of queued items in both lanes.
func (q *PriorityQueue[T]) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.high.Length() + q.normal.Length()
}
