package arrayvec

import (
	"slices"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

type vec16 = ArrayVec[int, [16]int]

func fill16(xs []int) vec16 {
	var v vec16
	v.ExtendFromSlice(xs[:min(len(xs), 16)])
	return v
}

func TestProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)
	ints := gen.SliceOf(gen.Int())

	properties.Property("push then pop restores the vector", prop.ForAll(
		func(xs []int, x int) bool {
			v := fill16(xs[:min(len(xs), 15)])
			before := slices.Clone(v.Slice())
			if _, err := v.Push(x); err != nil {
				return false
			}
			got, ok := v.Pop()
			return ok && got == x && slices.Equal(before, v.Slice())
		},
		ints, gen.Int(),
	))

	properties.Property("push on a full vector hands the value back", prop.ForAll(
		func(xs []int, x int) bool {
			v := fill16(append(xs, make([]int, 16)...))
			_, err := v.Push(x)
			ce, ok := err.(*CapacityError[int])
			return ok && ce.Element == x && v.Len() == 16
		},
		ints, gen.Int(),
	))

	properties.Property("insert then remove restores the vector", prop.ForAll(
		func(xs []int, at, x int) bool {
			v := fill16(xs[:min(len(xs), 15)])
			before := slices.Clone(v.Slice())
			i := at % (v.Len() + 1)
			if _, err := v.Insert(i, x); err != nil {
				return false
			}
			got, ok := v.Remove(i)
			return ok && got == x && slices.Equal(before, v.Slice())
		},
		ints, gen.IntRange(0, 100), gen.Int(),
	))

	properties.Property("drain yields the range and keeps the rest in order", prop.ForAll(
		func(xs []int, a, b int) bool {
			v := fill16(xs)
			orig := slices.Clone(v.Slice())
			n := len(orig)
			a, b = min(a, n), min(b, n)
			if a > b {
				a, b = b, a
			}
			d := v.Drain(a, b)
			drained := slices.Collect(d.All())
			want := slices.Concat(orig[:a], orig[b:])
			return slices.Equal(drained, orig[a:b]) && slices.Equal(want, v.Slice()) &&
				v.Len() == n-(b-a)
		},
		ints, gen.IntRange(0, 16), gen.IntRange(0, 16),
	))

	properties.Property("owned iteration from both ends yields every element once", prop.ForAll(
		func(xs []int, dirs []bool) bool {
			v := fill16(xs)
			orig := slices.Clone(v.Slice())
			it := v.IntoIter()
			var front, back []int
			for i := 0; it.Len() > 0; i++ {
				if i < len(dirs) && dirs[i] {
					x, _ := it.NextBack()
					back = append(back, x)
				} else {
					x, _ := it.Next()
					front = append(front, x)
				}
			}
			slices.Reverse(back)
			return slices.Equal(orig, slices.Concat(front, back))
		},
		ints, gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

func TestLengthInvariantQuick(t *testing.T) {
	condition := func(xs []int, cut int) bool {
		v := fill16(xs)
		v.Truncate(cut % 17)
		return v.Len() >= 0 && v.Len() <= v.Cap() && v.Len()+len(v.Spare()) == v.Cap()
	}
	err := quick.Check(condition, &quick.Config{})
	if err != nil {
		t.Errorf("Error: %v", err)
	}
}

// FuzzOps replays a byte string as container operations against a plain
// slice model.
func FuzzOps(f *testing.F) {
	f.Add([]byte{0, 1, 0, 2, 1, 3, 2, 0, 4, 1})
	f.Add([]byte{0, 5, 0, 6, 0, 7, 0, 8, 0, 9, 5, 1, 3, 0, 6, 2})
	f.Fuzz(func(t *testing.T, ops []byte) {
		var v ArrayVec[int, [8]int]
		var model []int
		for i := 0; i+1 < len(ops); i += 2 {
			op, arg := ops[i]%7, int(ops[i+1])
			switch op {
			case 0:
				_, err := v.Push(arg)
				if len(model) < 8 {
					require.NoError(t, err)
					model = append(model, arg)
				} else {
					require.ErrorIs(t, err, ErrCapacity)
				}
			case 1:
				x, ok := v.Pop()
				require.Equal(t, len(model) > 0, ok)
				if ok {
					require.Equal(t, model[len(model)-1], x)
					model = model[:len(model)-1]
				}
			case 2:
				at := arg % (len(model) + 1)
				_, err := v.Insert(at, arg)
				if len(model) < 8 {
					require.NoError(t, err)
					model = slices.Insert(model, at, arg)
				} else {
					require.Error(t, err)
				}
			case 3:
				x, ok := v.Remove(arg % 9)
				if arg%9 < len(model) {
					require.True(t, ok)
					require.Equal(t, model[arg%9], x)
					model = slices.Delete(model, arg%9, arg%9+1)
				} else {
					require.False(t, ok)
				}
			case 4:
				v.Truncate(arg % 9)
				model = model[:min(len(model), arg%9)]
			case 5:
				a, b := arg%9, arg/9%9
				d := v.Drain(a, b)
				drained := slices.Collect(d.All())
				b = min(b, len(model))
				a = min(a, b)
				require.True(t, slices.Equal(model[a:b], drained), "drained %v, want %v", drained, model[a:b])
				model = slices.Delete(model, a, b)
			case 6:
				x, ok := v.SwapRemove(arg % 9)
				if j := arg % 9; j < len(model) {
					require.True(t, ok)
					require.Equal(t, model[j], x)
					model[j] = model[len(model)-1]
					model = model[:len(model)-1]
				} else {
					require.False(t, ok)
				}
			}
			if diff := cmp.Diff(model, v.Slice(), cmpEmpty); diff != "" {
				t.Fatalf("after op %d (-model +vec):\n%s", op, diff)
			}
			require.Equal(t, make([]int, 8-len(model)), v.Spare())
		}
	})
}

var cmpEmpty = cmp.Comparer(func(a, b []int) bool { return slices.Equal(a, b) })
