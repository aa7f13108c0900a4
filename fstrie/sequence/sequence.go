// Package sequence provides an immutable, structurally shared ordered collection.
//
// A Sequence is a chain of nodes where each node points at the one before it.
// Appending allocates a single node whose parent is the current tail, so every
// sequence derived by Append or Pop shares all of its prefix with the value it
// came from. Nothing reachable from a Sequence is ever written after creation,
// which makes values safe to copy, alias and read from multiple goroutines.
package sequence

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

var (
	ErrEmptySequence   = errors.New("sequence is empty")
	ErrIndexOutOfRange = errors.New("index out of range")
)

type node[T any] struct {
	parent *node[T]
	value  T
}

// Sequence is a persistent ordered collection. The zero value is an empty sequence.
type Sequence[T any] struct {
	tail   *node[T]
	length int
}

// Empty returns a sequence of length 0.
func Empty[T any]() Sequence[T] {
	return Sequence[T]{}
}

// FromSlice returns a sequence holding items in order. The slice is not retained.
func FromSlice[T any](items []T) Sequence[T] {
	s := Sequence[T]{}
	for _, item := range items {
		s = s.Append(item)
	}
	return s
}

// Len returns the number of elements.
func (s Sequence[T]) Len() int {
	return s.length
}

// IsEmpty reports whether the sequence has no elements.
func (s Sequence[T]) IsEmpty() bool {
	return s.length == 0
}

// Append returns a new sequence with item added at the end.
func (s Sequence[T]) Append(item T) Sequence[T] {
	return Sequence[T]{
		tail:   &node[T]{parent: s.tail, value: item},
		length: s.length + 1,
	}
}

// Pop returns the sequence without its last element, together with that element.
func (s Sequence[T]) Pop() (Sequence[T], T, error) {
	if s.length == 0 {
		var zero T
		return s, zero, ErrEmptySequence
	}
	return Sequence[T]{tail: s.tail.parent, length: s.length - 1}, s.tail.value, nil
}

// Last returns the final element.
func (s Sequence[T]) Last() (T, error) {
	if s.length == 0 {
		var zero T
		return zero, ErrEmptySequence
	}
	return s.tail.value, nil
}

// Get returns the element at index. Negative indices count from the end, so -1
// is the last element.
func (s Sequence[T]) Get(index int) (T, error) {
	pos := index
	if pos < 0 {
		pos += s.length
	}
	if pos < 0 || pos >= s.length {
		var zero T
		return zero, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, s.length)
	}
	return s.nodeAt(pos).value, nil
}

// Slice returns the elements in [start, end). Negative bounds count from the
// end and out-of-range bounds are clamped to [0, Len()], so Slice never fails.
// When start >= end after clamping the result is empty. A slice starting at 0
// shares its nodes with s.
func (s Sequence[T]) Slice(start, end int) Sequence[T] {
	start = s.clamp(start)
	end = s.clamp(end)
	if start >= end {
		return Sequence[T]{}
	}

	prefix := Sequence[T]{tail: s.nodeAt(end - 1), length: end}
	if start == 0 {
		return prefix
	}

	items := make([]T, end-start)
	n := prefix.tail
	for i := len(items) - 1; i >= 0; i-- {
		items[i] = n.value
		n = n.parent
	}
	return FromSlice(items)
}

// SliceFrom returns the elements from start to the end of the sequence, with
// the same bound rules as Slice.
func (s Sequence[T]) SliceFrom(start int) Sequence[T] {
	return s.Slice(start, s.length)
}

// Values copies the elements into a new slice, first element first.
func (s Sequence[T]) Values() []T {
	out := make([]T, s.length)
	n := s.tail
	for i := s.length - 1; i >= 0; i-- {
		out[i] = n.value
		n = n.parent
	}
	return out
}

// All iterates over index/value pairs in order.
func (s Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.Values() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Backward iterates from the last element to the first without copying.
func (s Sequence[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := s.length - 1
		for n := s.tail; n != nil; n = n.parent {
			if !yield(i, n.value) {
				return
			}
			i--
		}
	}
}

func (s Sequence[T]) String() string {
	parts := make([]string, 0, s.length)
	for _, v := range s.All() {
		parts = append(parts, fmt.Sprint(v))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Equal reports whether a and b hold the same elements in the same order.
func Equal[T comparable](a, b Sequence[T]) bool {
	if a.length != b.length {
		return false
	}
	na, nb := a.tail, b.tail
	for na != nil {
		if na == nb {
			// shared prefix from here on
			return true
		}
		if na.value != nb.value {
			return false
		}
		na, nb = na.parent, nb.parent
	}
	return true
}

func (s Sequence[T]) clamp(i int) int {
	if i < 0 {
		i += s.length
	}
	return max(0, min(i, s.length))
}

// nodeAt walks back from the tail; pos must be in [0, length).
func (s Sequence[T]) nodeAt(pos int) *node[T] {
	n := s.tail
	for i := s.length - 1; i > pos; i-- {
		n = n.parent
	}
	return n
}
