package arrayvec

import (
	"iter"

	"github.com/rawbytedev/arrayvec/internal/slots"
)

// IntoIter owns the storage of a consumed ArrayVec and yields its elements
// from either end. Close destroys whatever has not been yielded; callers that
// may stop early should defer it.
type IntoIter[T, A any] struct {
	start, end int
	data       A
}

// AsSliceIntoIter returns the capacity-erased view of it. The view shares
// its cursors and storage.
func (it *IntoIter[T, A]) AsSliceIntoIter() SliceIntoIter[T] {
	return SliceIntoIter[T]{
		slots: slots.View[T](&it.data),
		start: &it.start,
		end:   &it.end,
	}
}

// Next yields the first remaining element.
func (it *IntoIter[T, A]) Next() (T, bool) { return it.AsSliceIntoIter().Next() }

// NextBack yields the last remaining element.
func (it *IntoIter[T, A]) NextBack() (T, bool) { return it.AsSliceIntoIter().NextBack() }

// Nth destroys the next n elements and yields the one after them.
func (it *IntoIter[T, A]) Nth(n int) (T, bool) { return it.AsSliceIntoIter().Nth(n) }

// NthBack destroys the last n elements and yields the one before them.
func (it *IntoIter[T, A]) NthBack(n int) (T, bool) { return it.AsSliceIntoIter().NthBack(n) }

// Len returns the exact number of remaining elements.
func (it *IntoIter[T, A]) Len() int { return it.end - it.start }

// Slice returns the remaining elements, still owned by the iterator.
func (it *IntoIter[T, A]) Slice() []T { return it.AsSliceIntoIter().Slice() }

// Close destroys the remaining elements. It is safe to call more than once.
func (it *IntoIter[T, A]) Close() { it.AsSliceIntoIter().Close() }

// All yields the remaining elements front to back and closes the iterator
// when the loop ends.
func (it *IntoIter[T, A]) All() iter.Seq[T] { return it.AsSliceIntoIter().All() }

// Backward yields the remaining elements back to front and closes the
// iterator when the loop ends.
func (it *IntoIter[T, A]) Backward() iter.Seq[T] { return it.AsSliceIntoIter().Backward() }

// Clone returns an independent iterator over copies of the remaining
// elements. Elements implementing Cloner are cloned deeply.
func (it *IntoIter[T, A]) Clone() IntoIter[T, A] {
	var v ArrayVec[T, A]
	s := v.AsSliceVec()
	for _, e := range it.Slice() {
		if _, err := s.Push(cloneElem(e)); err != nil {
			panic(err)
		}
	}
	return v.IntoIter()
}

// SliceIntoIter is an IntoIter with its capacity erased.
type SliceIntoIter[T any] struct {
	slots      []T
	start, end *int
}

// Next yields the first remaining element.
func (it SliceIntoIter[T]) Next() (T, bool) {
	if *it.start == *it.end {
		var zero T
		return zero, false
	}
	v := slots.Take(it.slots, *it.start)
	*it.start++
	return v, true
}

// NextBack yields the last remaining element.
func (it SliceIntoIter[T]) NextBack() (T, bool) {
	if *it.start == *it.end {
		var zero T
		return zero, false
	}
	*it.end--
	return slots.Take(it.slots, *it.end), true
}

// Nth destroys the next n elements and yields the one after them.
func (it SliceIntoIter[T]) Nth(n int) (T, bool) {
	skip := min(max(n, 0), it.Len())
	gone := it.slots[*it.start : *it.start+skip]
	*it.start += skip
	slots.Release(gone)
	return it.Next()
}

// NthBack destroys the last n elements and yields the one before them.
func (it SliceIntoIter[T]) NthBack(n int) (T, bool) {
	skip := min(max(n, 0), it.Len())
	*it.end -= skip
	slots.Release(it.slots[*it.end : *it.end+skip])
	return it.NextBack()
}

// Len returns the exact number of remaining elements.
func (it SliceIntoIter[T]) Len() int { return *it.end - *it.start }

// Slice returns the remaining elements, still owned by the iterator.
func (it SliceIntoIter[T]) Slice() []T { return it.slots[*it.start:*it.end] }

// Close destroys the remaining elements.
func (it SliceIntoIter[T]) Close() {
	rest := it.slots[*it.start:*it.end]
	*it.start = *it.end
	slots.Release(rest)
}

// All yields the remaining elements front to back and closes the iterator
// when the loop ends.
func (it SliceIntoIter[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Backward yields the remaining elements back to front and closes the
// iterator when the loop ends.
func (it SliceIntoIter[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for {
			v, ok := it.NextBack()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
