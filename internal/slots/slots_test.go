package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type res struct {
	id  int
	log *[]int
}

func (r *res) Release() {
	*r.log = append(*r.log, r.id)
	if r.id < 0 {
		panic(r.id)
	}
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 4, Capacity[int, [4]int]())
	assert.Equal(t, 0, Capacity[string, [0]string]())
	assert.Panics(t, func() { Capacity[int, [4]int32]() })
	assert.Panics(t, func() { Capacity[int, int]() })
}

func TestLenMatchesCapacity(t *testing.T) {
	assert.Equal(t, Capacity[int, [4]int](), Len[int, [4]int]())
	assert.Equal(t, Capacity[byte, [3]byte](), Len[byte, [3]byte]())
	assert.Equal(t, Capacity[string, [0]string](), Len[string, [0]string]())
	assert.Equal(t, 5, Len[struct{}, [5]struct{}]())
	assert.Equal(t, 2, Len[[3]int16, [2][3]int16]())
}

func TestViewAliases(t *testing.T) {
	var a [3]int
	s := View[int](&a)
	require.Len(t, s, 3)
	s[1] = 7
	assert.Equal(t, 7, a[1])

	var empty [0]int
	assert.Nil(t, View[int](&empty))
}

func TestTakePutShift(t *testing.T) {
	s := []string{"a", "b", "c", "", ""}
	assert.Equal(t, "b", Take(s, 1))
	assert.Equal(t, []string{"a", "", "c", "", ""}, s)
	p := Put(s, 1, "x")
	*p = "y"
	assert.Equal(t, "y", s[1])

	Shift(s, 0, 2, 3)
	assert.Equal(t, []string{"a", "y", "a", "y", "c"}, s)
	Shift(s, 2, 0, 3)
	assert.Equal(t, []string{"a", "y", "c", "y", "c"}, s)
	Zero(s[3:])
	assert.Equal(t, []string{"a", "y", "c", "", ""}, s)
	assert.True(t, IsZero(s[3:]))
	assert.False(t, IsZero(s))
}

func TestRelease(t *testing.T) {
	var log []int
	s := []res{{1, &log}, {2, &log}, {3, &log}}
	Release(s)
	assert.Equal(t, []int{1, 2, 3}, log)
	assert.Equal(t, make([]res, 3), s)
	assert.True(t, Releases[res]())
	assert.False(t, Releases[int]())
	assert.True(t, Releases[*res]())
	assert.True(t, Releases[any]())
}

func TestReleaseContinuesAfterPanic(t *testing.T) {
	var log []int
	s := []res{{1, &log}, {-2, &log}, {3, &log}, {-4, &log}, {5, &log}}
	assert.Panics(t, func() { Release(s) })
	assert.Equal(t, []int{1, -2, 3, -4, 5}, log)
	assert.Equal(t, make([]res, 5), s)
}

func TestReleasePointers(t *testing.T) {
	var log []int
	a := &res{1, &log}
	s := []*res{a, nil, {2, &log}}
	Release(s)
	assert.Equal(t, []int{1, 2}, log)
	assert.Equal(t, make([]*res, 3), s)

	s2 := []any{&res{3, &log}, nil, "plain"}
	Release(s2)
	assert.Equal(t, []int{1, 2, 3}, log)
	assert.Equal(t, make([]any, 3), s2)
}

func TestReleaseTypedNilInInterface(t *testing.T) {
	var log []int
	s := []Releaser{(*res)(nil), &res{4, &log}}
	assert.NotPanics(t, func() { Release(s) })
	assert.Equal(t, []int{4}, log)
	assert.Equal(t, make([]Releaser, 2), s)
}
