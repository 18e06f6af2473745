package arrayvec

import (
	"iter"

	"github.com/rawbytedev/arrayvec/internal/slots"
)

// Drain yields the elements removed by a call to Drain, from either end, and
// closes the gap they leave once it is closed.
//
// The container stays borrowed until Close runs, so callers should defer it:
//
//	d := v.Drain(1, 3)
//	defer d.Close()
//
// Close destroys whatever was not yielded, slides the untouched tail back
// behind the retained prefix and restores the container's length. A Drain must
// not be copied once used.
type Drain[T any] struct {
	vec SliceVec[T]

	// [rangeStart, rangeStart+rangeLen) are the elements not yet yielded.
	rangeStart int
	rangeLen   int
	// [tailStart, tailStart+tailLen) is the suffix after the drained range.
	tailStart int
	tailLen   int

	done bool
}

// Next yields the first pending element.
func (d *Drain[T]) Next() (T, bool) {
	if d.rangeLen == 0 {
		var zero T
		return zero, false
	}
	v := slots.Take(d.vec.slots, d.rangeStart)
	d.rangeStart++
	d.rangeLen--
	return v, true
}

// NextBack yields the last pending element.
func (d *Drain[T]) NextBack() (T, bool) {
	if d.rangeLen == 0 {
		var zero T
		return zero, false
	}
	d.rangeLen--
	return slots.Take(d.vec.slots, d.rangeStart+d.rangeLen), true
}

// Len returns the number of pending elements.
func (d *Drain[T]) Len() int { return d.rangeLen }

// Slice returns the pending elements. They are still owned by the Drain.
func (d *Drain[T]) Slice() []T {
	return d.vec.slots[d.rangeStart : d.rangeStart+d.rangeLen]
}

// KeepRest puts the pending elements back into the container instead of
// destroying them, then closes the Drain.
func (d *Drain[T]) KeepRest() {
	if d.done || d.vec.hdr == nil {
		return
	}
	at := d.vec.hdr.len
	if at != d.rangeStart {
		slots.Shift(d.vec.slots, d.rangeStart, at, d.rangeLen)
		slots.Zero(d.vec.slots[max(at+d.rangeLen, d.rangeStart) : d.rangeStart+d.rangeLen])
		d.rangeStart = at
	}
	d.vec.hdr.len += d.rangeLen
	d.rangeStart += d.rangeLen
	d.rangeLen = 0
	d.Close()
}

// Close finishes the drain. It is safe to call more than once.
func (d *Drain[T]) Close() {
	if d.done || d.vec.hdr == nil {
		return
	}
	d.done = true
	defer d.closeTail()
	pending := d.vec.slots[d.rangeStart : d.rangeStart+d.rangeLen]
	d.rangeStart += d.rangeLen
	d.rangeLen = 0
	slots.Release(pending)
}

// closeTail moves the tail down to follow the visible length and hands the
// container back.
func (d *Drain[T]) closeTail() {
	hdr := d.vec.hdr
	at := hdr.len
	if at != d.tailStart && d.tailLen > 0 {
		slots.Shift(d.vec.slots, d.tailStart, at, d.tailLen)
		slots.Zero(d.vec.slots[max(at+d.tailLen, d.tailStart) : d.tailStart+d.tailLen])
	}
	hdr.len = at + d.tailLen
	hdr.draining = false
	d.vec.verify()
}

// All yields the pending elements front to back. The Drain is closed when the
// loop ends, including by break or panic.
func (d *Drain[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			v, ok := d.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Backward yields the pending elements back to front and closes the Drain
// when the loop ends.
func (d *Drain[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			v, ok := d.NextBack()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
