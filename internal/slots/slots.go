// Package slots holds the raw slot primitives shared by the arrayvec
// container and its iterators. Every read, write and relocation of element
// memory goes through here so the length bookkeeping rules live in one place:
// callers shrink their length cursor before calling Release, and grow it only
// after Put.
package slots

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Releaser is implemented by elements that own something beyond their own
// memory. Release runs exactly once when the container destroys the element.
type Releaser interface {
	Release()
}

// Capacity returns the length of the array type A. It panics if A is not an
// array whose element type is exactly T.
func Capacity[T, A any]() int {
	at := reflect.TypeFor[A]()
	if at.Kind() != reflect.Array || at.Elem() != reflect.TypeFor[T]() {
		panic(fmt.Sprintf("arrayvec: backing type %v is not an array of %v", at, reflect.TypeFor[T]()))
	}
	return at.Len()
}

// Len returns the length of the array type A from the sizes of A and T,
// without reflection. It trusts that A is [N]T; check that once with
// Capacity.
func Len[T, A any]() int {
	elem := unsafe.Sizeof(*new(T))
	if elem == 0 {
		return Capacity[T, A]()
	}
	return int(unsafe.Sizeof(*new(A)) / elem)
}

// View aliases the array behind a as a []T of the array's full length. The
// slice shares memory with *a; nothing is copied. Like Len it trusts the
// shape of A.
func View[T, A any](a *A) []T {
	n := Len[T, A]()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(a)), n)
}

// Take moves the element at i out of s and leaves the zero value behind.
func Take[T any](s []T, i int) T {
	v := s[i]
	var zero T
	s[i] = zero
	return v
}

// Put writes v into the vacant slot i.
func Put[T any](s []T, i int, v T) *T {
	s[i] = v
	return &s[i]
}

// Shift relocates the n elements starting at from so they start at to. The
// ranges may overlap. Slots left behind still hold the old values; callers
// zero whatever part of them is no longer live.
func Shift[T any](s []T, from, to, n int) {
	if n == 0 || from == to {
		return
	}
	copy(s[to:to+n], s[from:from+n])
}

// Zero forgets the values in s without releasing them.
func Zero[T any](s []T) {
	clear(s)
}

// Release destroys every element of s: its Release hook runs, if it has one,
// and the slot is zeroed. A panicking hook does not stop the rest of s from
// being destroyed; the panic resumes once they are.
func Release[T any](s []T) {
	release := hook[T]()
	if release == nil {
		clear(s)
		return
	}
	i := 0
	defer func() {
		if i < len(s) {
			var zero T
			s[i] = zero
			Release(s[i+1:])
		}
	}()
	for ; i < len(s); i++ {
		release(&s[i])
		var zero T
		s[i] = zero
	}
}

// Releases reports whether destroying a T runs a Release hook.
func Releases[T any]() bool {
	return hook[T]() != nil
}

// IsZero reports whether every slot in s holds the zero value. It uses
// reflection and is meant for invariant checks only.
func IsZero[T any](s []T) bool {
	for i := range s {
		if !reflect.ValueOf(&s[i]).Elem().IsZero() {
			return false
		}
	}
	return true
}

func hook[T any]() func(*T) {
	if _, ok := any((*T)(nil)).(Releaser); ok {
		return releasePtr[T]
	}
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer:
		return releasePointee[T]
	case reflect.Interface:
		return releaseIface[T]
	}
	return nil
}

func releasePtr[T any](p *T) {
	any(p).(Releaser).Release()
}

// releasePointee handles pointer element types whose pointee implements
// Releaser. Nil elements are skipped.
func releasePointee[T any](p *T) {
	if *(*unsafe.Pointer)(unsafe.Pointer(p)) == nil {
		return
	}
	if r, ok := any(*p).(Releaser); ok {
		r.Release()
	}
}

// releaseIface handles interface element types. A nil pointer stored in the
// interface is skipped like a nil pointer element.
func releaseIface[T any](p *T) {
	r, ok := any(*p).(Releaser)
	if !ok {
		return
	}
	if rv := reflect.ValueOf(r); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return
	}
	r.Release()
}
