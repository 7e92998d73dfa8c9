// Package pqueue provides a min-priority queue whose ties are broken by
// insertion order, so equal-priority items leave in the order they arrived.
package pqueue

import (
	"errors"

	"github.com/zyedidia/generic/heap"
)

// ErrEmptyQueue is returned by Dequeue when the queue holds no items.
var ErrEmptyQueue = errors.New("pqueue: dequeue from empty queue")

type entry[T any] struct {
	item     T
	priority int
	seq      uint64
}

func less[T any](a, b entry[T]) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

// Queue is a min-priority queue with FIFO tie-breaking.
//
// Invariant: among entries with equal priority, the one enqueued first is
// dequeued first. Duplicate items are never merged.
type Queue[T any] struct {
	h   *heap.Heap[entry[T]]
	seq uint64
}

// New returns an empty Queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{h: heap.New[entry[T]](less[T])}
}

// Enqueue inserts item with the given priority in O(log n).
func (q *Queue[T]) Enqueue(item T, priority int) {
	q.h.Push(entry[T]{item: item, priority: priority, seq: q.seq})
	q.seq++
}

// Dequeue removes and returns the lowest-priority item.
//
// Postcondition: returns ErrEmptyQueue iff Len() == 0 before the call.
func (q *Queue[T]) Dequeue() (T, error) {
	e, ok := q.h.Pop()
	if !ok {
		var zero T
		return zero, ErrEmptyQueue
	}
	return e.item, nil
}

// Len returns the number of queued entries, stale ones included.
func (q *Queue[T]) Len() int {
	return q.h.Size()
}
