// Package queue provides the bounded FIFO behind the game message log.
package queue

import (
	"sync"
)

// Queue is a generic thread-safe FIFO. Once limit items are held, each
// push drops the oldest ones.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	limit int
}

// New creates a queue holding at most limit items. A limit of zero or
// less means unbounded.
func New[T any](limit int) *Queue[T] {
	if limit < 0 {
		limit = 0
	}
	return &Queue[T]{
		items: make([]T, 0),
		limit: limit,
	}
}

// Push appends items, trimming from the front past the limit.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
	if q.limit > 0 && len(q.items) > q.limit {
		q.items = append(q.items[:0], q.items[len(q.items)-q.limit:]...)
	}
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain returns all items and clears the queue.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := q.items
	q.items = make([]T, 0, cap(q.items))
	return result
}

// Peek returns a copy of the items without removing them.
func (q *Queue[T]) Peek() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
