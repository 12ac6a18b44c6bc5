package timeseq

import (
	"cmp"
	"fmt"
	"iter"
	"math/bits"

	"github.com/rzbill/dunfell/internal/event"
	"golang.org/x/exp/slices"
)

type element[T any] struct {
	ts    event.Timestamp
	value T
}

// Option configures a Sequence.
type Option[T any] func(*Sequence[T])

// WithCleanup registers a function run on every valid element by Clear.
func WithCleanup[T any](fn func(*T)) Option[T] {
	return func(s *Sequence[T]) { s.cleanup = fn }
}

// Sequence is an append-only list of timestamped values.
type Sequence[T any] struct {
	cleanup func(*T)
	n       int
	// len(elements) is the allocated count.
	elements []element[T]
}

// New returns an empty Sequence with room for preallocate elements.
func New[T any](preallocate int, opts ...Option[T]) *Sequence[T] {
	if preallocate < 0 {
		preallocate = 0
	}
	s := &Sequence[T]{elements: make([]element[T], preallocate)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Len returns the number of valid elements.
func (s *Sequence[T]) Len() int { return s.n }

// Cap returns the number of allocated element slots.
func (s *Sequence[T]) Cap() int { return len(s.elements) }

// Append adds an element at ts and returns a pointer to its zeroed value
// for the caller to fill in. ts must not be lower than the last appended
// timestamp.
func (s *Sequence[T]) Append(ts event.Timestamp) *T {
	if s.n > 0 {
		if last := s.elements[s.n-1].ts; ts < last {
			panic(fmt.Sprintf("timeseq: timestamp %d precedes last timestamp %d", ts, last))
		}
	}
	if s.n == len(s.elements) {
		s.grow()
	}
	s.elements[s.n] = element[T]{ts: ts}
	s.n++
	return &s.elements[s.n-1].value
}

// grow doubles the allocation to the next power of two strictly greater
// than the current one.
func (s *Sequence[T]) grow() {
	next := 1 << bits.Len(uint(len(s.elements)))
	grown := make([]element[T], next)
	copy(grown, s.elements[:s.n])
	s.elements = grown
}

// Last returns the most recently appended value and its timestamp, or
// (nil, 0) when empty.
func (s *Sequence[T]) Last() (*T, event.Timestamp) {
	if s.n == 0 {
		return nil, 0
	}
	e := &s.elements[s.n-1]
	return &e.value, e.ts
}

// At returns the i-th value and its timestamp. It panics if i is out of range.
func (s *Sequence[T]) At(i int) (*T, event.Timestamp) {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("timeseq: index %d out of range [0,%d)", i, s.n))
	}
	e := &s.elements[i]
	return &e.value, e.ts
}

// All iterates over the valid elements in insertion order.
func (s *Sequence[T]) All() iter.Seq2[event.Timestamp, *T] {
	return func(yield func(event.Timestamp, *T) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(s.elements[i].ts, &s.elements[i].value) {
				return
			}
		}
	}
}

// Search returns the index of the first element whose timestamp is >= ts,
// or Len() if there is none.
func (s *Sequence[T]) Search(ts event.Timestamp) int {
	i, _ := slices.BinarySearchFunc(s.elements[:s.n], ts, func(e element[T], target event.Timestamp) int {
		return cmp.Compare(e.ts, target)
	})
	return i
}

// Range returns the index bounds [lo, hi) of elements with from <= ts < to.
func (s *Sequence[T]) Range(from, to event.Timestamp) (lo, hi int) {
	if to <= from {
		i := s.Search(from)
		return i, i
	}
	return s.Search(from), s.Search(to)
}

// Window iterates over elements with from <= ts < to.
func (s *Sequence[T]) Window(from, to event.Timestamp) iter.Seq2[event.Timestamp, *T] {
	lo, hi := s.Range(from, to)
	return func(yield func(event.Timestamp, *T) bool) {
		for i := lo; i < hi; i++ {
			if !yield(s.elements[i].ts, &s.elements[i].value) {
				return
			}
		}
	}
}

// Clear runs the cleanup function (if any) over every valid element, then
// releases all storage. The Sequence can be reused afterwards.
func (s *Sequence[T]) Clear() {
	if s.cleanup != nil {
		for i := 0; i < s.n; i++ {
			s.cleanup(&s.elements[i].value)
		}
	}
	s.elements = nil
	s.n = 0
}
