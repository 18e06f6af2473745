package arrayvec

import (
	"iter"
	"slices"

	"github.com/rawbytedev/arrayvec/internal/invariants"
	"github.com/rawbytedev/arrayvec/internal/slots"
)

// header is the length cursor of a slot array. len is the only record of which
// slots are live; draining is set while a Drain holds the storage. shaped
// records that an ArrayVec's backing type has been checked.
type header struct {
	len      int
	draining bool
	shaped   bool
}

// SliceVec is an ArrayVec with its capacity erased: the same slots and the
// same length cursor, seen as a []T. Every container algorithm is written
// once against SliceVec and shared by all capacities.
//
// A SliceVec obtained from ArrayVec.AsSliceVec aliases that container; changes
// through either are visible through both. The zero SliceVec is an empty view
// of capacity 0 that can only be read.
type SliceVec[T any] struct {
	slots []T
	hdr   *header
}

// NewSliceVec returns a view that uses buf's backing array as its slots. The
// first len(buf) elements are live; the rest of the capacity is zeroed.
func NewSliceVec[T any](buf []T) SliceVec[T] {
	clear(buf[len(buf):cap(buf)])
	return SliceVec[T]{
		slots: buf[:cap(buf)],
		hdr:   &header{len: len(buf)},
	}
}

// Len returns the number of live elements.
func (s SliceVec[T]) Len() int {
	if s.hdr == nil {
		return 0
	}
	return s.hdr.len
}

// Cap returns the fixed number of slots.
func (s SliceVec[T]) Cap() int { return len(s.slots) }

// Remaining returns the number of free slots.
func (s SliceVec[T]) Remaining() int { return s.Cap() - s.Len() }

// IsEmpty reports whether there are no live elements.
func (s SliceVec[T]) IsEmpty() bool { return s.Len() == 0 }

// IsFull reports whether every slot is live.
func (s SliceVec[T]) IsFull() bool { return s.Len() == s.Cap() }

// Slice returns the live elements. The slice aliases the storage: writes
// through it are visible to the container, but its length never changes the
// container's.
func (s SliceVec[T]) Slice() []T {
	return s.slots[:s.Len()]
}

// Spare returns the vacant slots after the live elements. Values written
// there become live only through SetLen. Like a mutation, it panics while a
// Drain is open.
func (s SliceVec[T]) Spare() []T {
	s.check()
	return s.slots[s.Len():]
}

// SetLen sets the length cursor directly. Growing vouches that the slots up
// to n were filled through Spare; shrinking forgets the cut elements without
// releasing them. It panics if n is outside [0, Cap].
func (s SliceVec[T]) SetLen(n int) {
	s.check()
	if n < 0 || n > len(s.slots) {
		panic(ErrIndex)
	}
	if s.hdr == nil {
		return
	}
	old := s.hdr.len
	s.hdr.len = n
	if n < old {
		slots.Zero(s.slots[n:old])
	}
	s.verify()
}

// Push appends v. If the container is full it returns a *CapacityError
// holding v and changes nothing.
func (s SliceVec[T]) Push(v T) (*T, error) {
	s.check()
	n := s.Len()
	if n >= len(s.slots) {
		return nil, &CapacityError[T]{Element: v}
	}
	p := slots.Put(s.slots, n, v)
	s.hdr.len = n + 1
	s.verify()
	return p, nil
}

// Pop removes and returns the last element.
func (s SliceVec[T]) Pop() (T, bool) {
	s.check()
	if s.Len() == 0 {
		var zero T
		return zero, false
	}
	s.hdr.len--
	v := slots.Take(s.slots, s.hdr.len)
	s.verify()
	return v, true
}

// Insert places v at index i, shifting the elements after it one slot to the
// right. It fails with *CapacityError when full and with *IndexError when i is
// outside [0, Len]; both hand v back.
func (s SliceVec[T]) Insert(i int, v T) (*T, error) {
	s.check()
	n := s.Len()
	if n >= len(s.slots) {
		return nil, &CapacityError[T]{Element: v}
	}
	if i < 0 || i > n {
		return nil, &IndexError[T]{Index: i, Len: n, Element: v}
	}
	slots.Shift(s.slots, i, i+1, n-i)
	p := slots.Put(s.slots, i, v)
	s.hdr.len = n + 1
	s.verify()
	return p, nil
}

// Remove removes and returns the element at i, shifting the elements after it
// one slot to the left.
func (s SliceVec[T]) Remove(i int) (T, bool) {
	s.check()
	n := s.Len()
	if i < 0 || i >= n {
		var zero T
		return zero, false
	}
	v := s.slots[i]
	s.hdr.len = n - 1
	slots.Shift(s.slots, i+1, i, n-1-i)
	slots.Zero(s.slots[n-1 : n])
	s.verify()
	return v, true
}

// SwapRemove removes and returns the element at i, moving the last element
// into its place. It does not preserve order but is O(1).
func (s SliceVec[T]) SwapRemove(i int) (T, bool) {
	s.check()
	n := s.Len()
	if i < 0 || i >= n {
		var zero T
		return zero, false
	}
	v := s.slots[i]
	last := n - 1
	s.hdr.len = last
	if i != last {
		s.slots[i] = s.slots[last]
	}
	slots.Zero(s.slots[last:n])
	s.verify()
	return v, true
}

// Truncate destroys the elements from index n on. It does nothing if n is at
// least Len.
func (s SliceVec[T]) Truncate(n int) {
	s.check()
	n = max(n, 0)
	old := s.Len()
	if n >= old {
		return
	}
	s.hdr.len = n
	defer s.verify()
	slots.Release(s.slots[n:old])
}

// Clear destroys every element.
func (s SliceVec[T]) Clear() {
	s.Truncate(0)
}

// Append moves every element of other onto the end of s and leaves other
// empty. Ownership moves with the elements; no Release hook runs. If the
// elements do not all fit it returns ErrCapacity and changes nothing.
func (s SliceVec[T]) Append(other SliceVec[T]) error {
	s.check()
	other.check()
	if s.hdr != nil && s.hdr == other.hdr {
		return ErrAliased
	}
	n, m := s.Len(), other.Len()
	if n+m > len(s.slots) {
		return ErrCapacity
	}
	if m == 0 {
		return nil
	}
	copy(s.slots[n:n+m], other.slots[:m])
	other.hdr.len = 0
	slots.Zero(other.slots[:m])
	s.hdr.len = n + m
	s.verify()
	other.verify()
	return nil
}

// ExtendFromSlice copies every element of vs onto the end of s. If they do
// not all fit it returns ErrCapacity and changes nothing.
func (s SliceVec[T]) ExtendFromSlice(vs []T) error {
	s.check()
	n := s.Len()
	if n+len(vs) > len(s.slots) {
		return ErrCapacity
	}
	if len(vs) == 0 {
		return nil
	}
	copy(s.slots[n:], vs)
	s.hdr.len = n + len(vs)
	s.verify()
	return nil
}

// Extend pushes every value seq produces. Running out of room is a broken
// precondition, not an error: Extend panics with a *CapacityError holding the
// first value that did not fit, and the values pushed before it stay. Use
// ExtendFromSlice when the count is not known to fit.
func (s SliceVec[T]) Extend(seq iter.Seq[T]) {
	s.check()
	for v := range seq {
		if _, err := s.Push(v); err != nil {
			panic(err)
		}
	}
}

// Drain removes the elements in [start, end) and returns an iterator over
// them. The bounds are clamped to the live elements. Until the iterator is
// closed the container reports a length of start and panics with
// ErrDrainActive on any mutation.
func (s SliceVec[T]) Drain(start, end int) Drain[T] {
	s.check()
	n := s.Len()
	end = min(max(end, 0), n)
	start = min(max(start, 0), end)
	d := Drain[T]{
		vec:        s,
		rangeStart: start,
		rangeLen:   end - start,
		tailStart:  end,
		tailLen:    n - end,
	}
	if s.hdr == nil {
		d.done = true
		return d
	}
	s.hdr.len = start
	s.hdr.draining = true
	return d
}

// All returns an iterator over index-value pairs of the live elements.
func (s SliceVec[T]) All() iter.Seq2[int, T] {
	return slices.All(s.Slice())
}

// Values returns an iterator over the live elements.
func (s SliceVec[T]) Values() iter.Seq[T] {
	return slices.Values(s.Slice())
}

// Backward returns an iterator over index-value pairs from last to first.
func (s SliceVec[T]) Backward() iter.Seq2[int, T] {
	return slices.Backward(s.Slice())
}

// Get returns the element at i, or false if i is out of range.
func (s SliceVec[T]) Get(i int) (T, bool) {
	if i < 0 || i >= s.Len() {
		var zero T
		return zero, false
	}
	return s.slots[i], true
}

// check guards mutations against an open Drain.
func (s SliceVec[T]) check() {
	if s.hdr != nil && s.hdr.draining {
		panic(ErrDrainActive)
	}
}

func (s SliceVec[T]) verify() {
	if !invariants.Enabled || s.hdr == nil {
		return
	}
	n := s.hdr.len
	invariants.Checkf(n >= 0 && n <= len(s.slots), "len %d outside [0, %d]", n, len(s.slots))
	if !s.hdr.draining {
		invariants.Checkf(slots.IsZero(s.slots[n:]), "vacant slots after %d are not zero", n)
	}
}
