package container

import "fmt"

// CircularQueue is a bounded FIFO backed by a ring buffer.
//
// Invariant: 0 <= Len() <= Cap().
type CircularQueue[T any] struct {
	ring  []T
	front int
	size  int
}

// NewCircularQueue returns an empty queue holding at most capacity items.
//
// Precondition: capacity >= 1.
func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &CircularQueue[T]{ring: make([]T, capacity)}
}

// Len returns the number of queued items.
func (q *CircularQueue[T]) Len() int { return q.size }

// Cap returns the capacity bound.
func (q *CircularQueue[T]) Cap() int { return len(q.ring) }

// IsEmpty reports whether the queue has no items.
func (q *CircularQueue[T]) IsEmpty() bool { return q.size == 0 }

// IsFull reports whether the queue is at capacity.
func (q *CircularQueue[T]) IsFull() bool { return q.size == len(q.ring) }

// Append adds item at the rear.
//
// Postcondition: Returns ErrFull at capacity.
func (q *CircularQueue[T]) Append(item T) error {
	if q.IsFull() {
		return fmt.Errorf("append to queue of capacity %d: %w", len(q.ring), ErrFull)
	}
	q.ring[(q.front+q.size)%len(q.ring)] = item
	q.size++
	return nil
}

// Serve removes and returns the front item.
//
// Postcondition: Returns ErrEmpty on an empty queue.
func (q *CircularQueue[T]) Serve() (T, error) {
	var zero T
	if q.IsEmpty() {
		return zero, fmt.Errorf("serve: %w", ErrEmpty)
	}
	item := q.ring[q.front]
	q.ring[q.front] = zero
	q.front = (q.front + 1) % len(q.ring)
	q.size--
	return item, nil
}

// Peek returns the front item without removing it.
func (q *CircularQueue[T]) Peek() (T, error) {
	if q.IsEmpty() {
		var zero T
		return zero, fmt.Errorf("peek: %w", ErrEmpty)
	}
	return q.ring[q.front], nil
}

// Items returns a copy of the queued items from front to rear.
func (q *CircularQueue[T]) Items() []T {
	out := make([]T, q.size)
	for i := range out {
		out[i] = q.ring[(q.front+i)%len(q.ring)]
	}
	return out
}
