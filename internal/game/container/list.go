// Package container provides the bounded sequences that back teams and the
// tower ladder.
package container

import (
	"errors"
	"fmt"
	"slices"
)

// ErrFull is returned when inserting into a container at capacity.
var ErrFull = errors.New("container is full")

// ErrEmpty is returned when serving from an empty queue.
var ErrEmpty = errors.New("container is empty")

// ErrIndexOutOfRange is returned for an index outside the valid range.
var ErrIndexOutOfRange = errors.New("index out of range")

// List is an ordered sequence with a fixed capacity.
//
// Invariant: Len() <= Cap().
type List[T any] struct {
	items    []T
	capacity int
}

// NewList returns an empty List holding at most capacity items.
//
// Precondition: capacity >= 0.
func NewList[T any](capacity int) *List[T] {
	return &List[T]{items: make([]T, 0, capacity), capacity: capacity}
}

// Len returns the number of items.
func (l *List[T]) Len() int { return len(l.items) }

// Cap returns the capacity bound.
func (l *List[T]) Cap() int { return l.capacity }

// IsFull reports whether Len() == Cap().
func (l *List[T]) IsFull() bool { return len(l.items) >= l.capacity }

// Get returns the item at index.
//
// Postcondition: Returns ErrIndexOutOfRange unless 0 <= index < Len().
func (l *List[T]) Get(index int) (T, error) {
	if index < 0 || index >= len(l.items) {
		var zero T
		return zero, fmt.Errorf("get %d of %d: %w", index, len(l.items), ErrIndexOutOfRange)
	}
	return l.items[index], nil
}

// Set replaces the item at index.
func (l *List[T]) Set(index int, item T) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("set %d of %d: %w", index, len(l.items), ErrIndexOutOfRange)
	}
	l.items[index] = item
	return nil
}

// Insert places item at index, shifting later items back.
//
// Postcondition: Returns ErrFull at capacity, ErrIndexOutOfRange unless 0 <= index <= Len().
func (l *List[T]) Insert(index int, item T) error {
	if l.IsFull() {
		return fmt.Errorf("insert into list of capacity %d: %w", l.capacity, ErrFull)
	}
	if index < 0 || index > len(l.items) {
		return fmt.Errorf("insert at %d of %d: %w", index, len(l.items), ErrIndexOutOfRange)
	}
	l.items = slices.Insert(l.items, index, item)
	return nil
}

// Append places item at the end.
func (l *List[T]) Append(item T) error {
	return l.Insert(len(l.items), item)
}

// DeleteAt removes and returns the item at index.
func (l *List[T]) DeleteAt(index int) (T, error) {
	item, err := l.Get(index)
	if err != nil {
		return item, err
	}
	l.items = slices.Delete(l.items, index, index+1)
	return item, nil
}

// Items returns a copy of the items in order.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// Each calls fn for every item in order.
func (l *List[T]) Each(fn func(int, T)) {
	for i, item := range l.items {
		fn(i, item)
	}
}

// SwapFront exchanges the first item with the item dist places ahead, modulo Len().
// A no-op on an empty list.
func (l *List[T]) SwapFront(dist int) {
	n := len(l.items)
	if n == 0 {
		return
	}
	j := ((dist % n) + n) % n
	l.items[0], l.items[j] = l.items[j], l.items[0]
}

// FlipHalves exchanges the front half (the first Len()/2 items) with the back half,
// preserving order within each half.
func (l *List[T]) FlipHalves() {
	n := len(l.items)
	half := n / 2
	flipped := make([]T, 0, cap(l.items))
	flipped = append(flipped, l.items[half:]...)
	flipped = append(flipped, l.items[:half]...)
	l.items = flipped
}

// SortStable orders items by key, descending or ascending, keeping ties in their
// prior relative order.
func (l *List[T]) SortStable(key func(T) int, descending bool) {
	slices.SortStableFunc(l.items, func(a, b T) int {
		ka, kb := key(a), key(b)
		if descending {
			ka, kb = kb, ka
		}
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
}
