// Package arrayvec provides ArrayVec, a vector whose slots live inline in a
// fixed-size Go array. Its length varies from zero up to the array's length;
// nothing is ever reallocated, and pushes, pops, inserts, removals, drains and
// owned iteration do not allocate.
//
// The backing array is a type parameter, so the capacity is part of the type:
//
//	var v arrayvec.ArrayVec[int, [8]int]
//	v.Push(1)
//
// Elements whose pointer implements Releaser are released exactly once when
// the container destroys them (Truncate, Clear, an unfinished Drain or
// IntoIter being closed). Elements handed back to the caller, by Pop, Remove
// or an iterator, are the caller's to release.
//
// An ArrayVec is not safe for concurrent use. Its first use records that the
// backing type was checked, so even read-only sharing must start after one
// call on the owning goroutine.
package arrayvec

import (
	"fmt"
	"iter"

	"github.com/rawbytedev/arrayvec/internal/slots"
)

// Releaser is implemented by elements that own something beyond their own
// memory, such as a pooled buffer.
type Releaser = slots.Releaser

// Cloner is implemented by elements that need more than a Go value copy to
// be duplicated by Clone.
type Cloner[T any] interface {
	Clone() T
}

// ArrayVec is a vector backed by the array type A, which must be [N]T. The
// zero value is an empty vector ready to use.
//
// Copying an ArrayVec copies its slots. Pointers returned by Push and Insert
// and slices returned by Slice point into the vector they came from.
type ArrayVec[T, A any] struct {
	hdr  header
	data A
}

// New returns an empty ArrayVec. It panics if A is not an array of T; the
// zero value panics the same way on first use.
func New[T, A any]() ArrayVec[T, A] {
	slots.Capacity[T, A]()
	return ArrayVec[T, A]{}
}

// Of returns an ArrayVec holding values. Passing more values than the
// capacity is a programming error and panics.
func Of[T, A any](values ...T) ArrayVec[T, A] {
	var v ArrayVec[T, A]
	if err := v.ExtendFromSlice(values); err != nil {
		panic(fmt.Sprintf("arrayvec: %d values exceed capacity %d", len(values), v.Cap()))
	}
	return v
}

// FromSlice returns an ArrayVec holding copies of values, or ErrCapacity if
// they do not fit.
func FromSlice[T, A any](values []T) (ArrayVec[T, A], error) {
	var v ArrayVec[T, A]
	err := v.ExtendFromSlice(values)
	return v, err
}

// Collect returns an ArrayVec holding everything seq produces. Like Extend
// it panics if seq produces more values than the capacity.
func Collect[T, A any](seq iter.Seq[T]) ArrayVec[T, A] {
	var v ArrayVec[T, A]
	v.Extend(seq)
	return v
}

// AsSliceVec returns the capacity-erased view of v. The view aliases v.
func (v *ArrayVec[T, A]) AsSliceVec() SliceVec[T] {
	if !v.hdr.shaped {
		slots.Capacity[T, A]()
		v.hdr.shaped = true
	}
	return SliceVec[T]{slots: slots.View[T](&v.data), hdr: &v.hdr}
}

// Len returns the number of live elements.
func (v *ArrayVec[T, A]) Len() int { return v.hdr.len }

// Cap returns the capacity, the length of A.
func (v *ArrayVec[T, A]) Cap() int { return slots.Len[T, A]() }

// Remaining returns the number of free slots.
func (v *ArrayVec[T, A]) Remaining() int { return v.Cap() - v.hdr.len }

// IsEmpty reports whether v has no elements.
func (v *ArrayVec[T, A]) IsEmpty() bool { return v.hdr.len == 0 }

// IsFull reports whether v has no free slots.
func (v *ArrayVec[T, A]) IsFull() bool { return v.hdr.len == v.Cap() }

// Slice returns the live elements. Use it with the slices package for
// sorting, searching and comparing.
func (v *ArrayVec[T, A]) Slice() []T { return v.AsSliceVec().Slice() }

// Spare returns the free slots after the live elements.
func (v *ArrayVec[T, A]) Spare() []T { return v.AsSliceVec().Spare() }

// SetLen sets the length directly; see SliceVec.SetLen.
func (v *ArrayVec[T, A]) SetLen(n int) { v.AsSliceVec().SetLen(n) }

// At returns the element at i. It panics if i is out of range.
func (v *ArrayVec[T, A]) At(i int) T { return v.Slice()[i] }

// Get returns the element at i, or false if i is out of range.
func (v *ArrayVec[T, A]) Get(i int) (T, bool) { return v.AsSliceVec().Get(i) }

// Push appends x and returns a pointer to it. When v is full the error is a
// *CapacityError holding x.
func (v *ArrayVec[T, A]) Push(x T) (*T, error) { return v.AsSliceVec().Push(x) }

// Pop removes and returns the last element.
func (v *ArrayVec[T, A]) Pop() (T, bool) { return v.AsSliceVec().Pop() }

// Insert places x at index i and returns a pointer to it.
func (v *ArrayVec[T, A]) Insert(i int, x T) (*T, error) { return v.AsSliceVec().Insert(i, x) }

// Remove removes and returns the element at i, keeping order.
func (v *ArrayVec[T, A]) Remove(i int) (T, bool) { return v.AsSliceVec().Remove(i) }

// SwapRemove removes and returns the element at i, replacing it with the
// last element.
func (v *ArrayVec[T, A]) SwapRemove(i int) (T, bool) { return v.AsSliceVec().SwapRemove(i) }

// Truncate destroys the elements from index n on.
func (v *ArrayVec[T, A]) Truncate(n int) { v.AsSliceVec().Truncate(n) }

// Clear destroys every element. It is the ArrayVec's destructor: call it
// (usually deferred) when elements hold resources that must be released.
func (v *ArrayVec[T, A]) Clear() { v.AsSliceVec().Clear() }

// Append moves all elements of other to the end of v, leaving other empty.
func (v *ArrayVec[T, A]) Append(other SliceVec[T]) error { return v.AsSliceVec().Append(other) }

// ExtendFromSlice appends copies of xs, or returns ErrCapacity and changes
// nothing if they do not fit.
func (v *ArrayVec[T, A]) ExtendFromSlice(xs []T) error {
	return v.AsSliceVec().ExtendFromSlice(xs)
}

// Extend appends everything seq produces and panics on overflow.
func (v *ArrayVec[T, A]) Extend(seq iter.Seq[T]) { v.AsSliceVec().Extend(seq) }

// Drain removes the elements in [start, end) and returns an iterator over
// them; see SliceVec.Drain.
func (v *ArrayVec[T, A]) Drain(start, end int) Drain[T] { return v.AsSliceVec().Drain(start, end) }

// IntoIter moves every element into an owning iterator and leaves v empty.
func (v *ArrayVec[T, A]) IntoIter() IntoIter[T, A] {
	v.AsSliceVec().check()
	it := IntoIter[T, A]{end: v.hdr.len, data: v.data}
	var zero A
	v.hdr.len = 0
	v.data = zero
	return it
}

// All returns an iterator over index-value pairs.
func (v *ArrayVec[T, A]) All() iter.Seq2[int, T] { return v.AsSliceVec().All() }

// Values returns an iterator over the elements.
func (v *ArrayVec[T, A]) Values() iter.Seq[T] { return v.AsSliceVec().Values() }

// Backward returns an iterator over index-value pairs from last to first.
func (v *ArrayVec[T, A]) Backward() iter.Seq2[int, T] { return v.AsSliceVec().Backward() }

// Clone returns a copy of v. Elements implementing Cloner are cloned with it.
func (v *ArrayVec[T, A]) Clone() ArrayVec[T, A] {
	return MapRef[A](v, cloneElem[T])
}

// CloneFrom replaces the contents of v with a clone of src's. The elements
// v held before are destroyed.
func (v *ArrayVec[T, A]) CloneFrom(src *ArrayVec[T, A]) {
	if v == src {
		return
	}
	s := v.AsSliceVec()
	s.Clear()
	for _, e := range src.Slice() {
		if _, err := s.Push(cloneElem(e)); err != nil {
			panic(err)
		}
	}
}

// String formats the elements like a slice.
func (v ArrayVec[T, A]) String() string {
	return fmt.Sprint(v.Slice())
}

// Format implements fmt.Formatter by formatting the elements as a slice.
func (v ArrayVec[T, A]) Format(state fmt.State, verb rune) {
	fmt.Fprintf(state, fmt.FormatString(state, verb), v.Slice())
}

func cloneElem[T any](e T) T {
	if c, ok := any(&e).(Cloner[T]); ok {
		return c.Clone()
	}
	return e
}
