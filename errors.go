package arrayvec

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacity reports that an operation needs more slots than the
	// container has left.
	ErrCapacity = errors.New("arrayvec: capacity exceeded")
	// ErrIndex reports a position outside the live elements.
	ErrIndex = errors.New("arrayvec: index out of range")
	// ErrDrainActive is the panic value raised when a container is mutated
	// while one of its Drain iterators is still open.
	ErrDrainActive = errors.New("arrayvec: container mutated while a Drain is open")
	// ErrAliased reports an Append of a container onto itself.
	ErrAliased = errors.New("arrayvec: source and destination share storage")
)

// CapacityError hands a rejected element back to the caller. It matches
// ErrCapacity under errors.Is.
type CapacityError[T any] struct {
	Element T
}

func (e *CapacityError[T]) Error() string { return ErrCapacity.Error() }

func (e *CapacityError[T]) Unwrap() error { return ErrCapacity }

// IndexError hands back an element whose insertion position was out of range.
// It matches ErrIndex under errors.Is.
type IndexError[T any] struct {
	Index   int
	Len     int
	Element T
}

func (e *IndexError[T]) Error() string {
	return fmt.Sprintf("%v: index %d, len %d", ErrIndex, e.Index, e.Len)
}

func (e *IndexError[T]) Unwrap() error { return ErrIndex }
