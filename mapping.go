package arrayvec

import (
	"fmt"

	"github.com/rawbytedev/arrayvec/internal/slots"
)

// Map consumes v and returns a vector of f applied to each element, in order.
// The result's backing array B is given explicitly; the rest is inferred:
//
//	w := arrayvec.Map[[4]string](&v, strconv.Itoa)
//
// B must hold at least as many slots as A, otherwise Map panics before
// calling f. If f panics, the outputs produced so far and the inputs not yet
// mapped are destroyed. v is left empty.
func Map[B any, T, A, U any](v *ArrayVec[T, A], f func(T) U) ArrayVec[U, B] {
	mustFit[T, A, U, B]()
	it := v.IntoIter()
	defer it.Close()
	var out ArrayVec[U, B]
	fill(&out, func(push func(U)) {
		for {
			e, ok := it.Next()
			if !ok {
				return
			}
			push(f(e))
		}
	})
	return out
}

// MapRef returns a vector of f applied to a copy of each element of v. v is
// left unchanged.
func MapRef[B any, T, A, U any](v *ArrayVec[T, A], f func(T) U) ArrayVec[U, B] {
	mustFit[T, A, U, B]()
	var out ArrayVec[U, B]
	fill(&out, func(push func(U)) {
		for _, e := range v.Slice() {
			push(f(e))
		}
	})
	return out
}

// MapMut returns a vector of f applied to a pointer to each element of v, so
// f may update the elements in place.
func MapMut[B any, T, A, U any](v *ArrayVec[T, A], f func(*T) U) ArrayVec[U, B] {
	mustFit[T, A, U, B]()
	var out ArrayVec[U, B]
	fill(&out, func(push func(U)) {
		s := v.Slice()
		for i := range s {
			push(f(&s[i]))
		}
	})
	return out
}

func mustFit[T, A, U, B any]() {
	if src, dst := slots.Capacity[T, A](), slots.Capacity[U, B](); dst < src {
		panic(fmt.Sprintf("arrayvec: map destination capacity %d is below source capacity %d", dst, src))
	}
}

// fill runs gen against out and destroys out's elements if gen panics.
func fill[U, B any](out *ArrayVec[U, B], gen func(push func(U))) {
	s := out.AsSliceVec()
	done := false
	defer func() {
		if !done {
			s.Clear()
		}
	}()
	gen(func(u U) {
		if _, err := s.Push(u); err != nil {
			panic(err)
		}
	})
	done = true
}
