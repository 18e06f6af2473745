package common

import (
	"math"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedSize(t *testing.T) {
	assert.Equal(t, 1, FixedSize(reflect.Bool))
	assert.Equal(t, 2, FixedSize(reflect.Int16))
	assert.Equal(t, 4, FixedSize(reflect.Float32))
	assert.Equal(t, 8, FixedSize(reflect.Uint64))
	assert.Equal(t, -1, FixedSize(reflect.Int))
	assert.False(t, IsFixedKind(reflect.String))
	assert.True(t, IsFixedKind(reflect.Int8))
}

func TestVarUint(t *testing.T) {
	condition := func(x uint64) bool {
		b := WriteVarUint(nil, x)
		got, n := ReadVarUint(b)
		return got == x && n == len(b)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))

	b := WriteVarUint(nil, math.MaxUint64)
	assert.Len(t, b, 10)
	_, n := ReadVarUint(b[:9])
	assert.Zero(t, n)
	_, n = ReadVarUint([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	assert.Zero(t, n)
}

func TestFixedRoundTrip(t *testing.T) {
	src := []int32{-1, 0, 1 << 20, math.MinInt32}
	b := AppendFixed(nil, src, 4)
	require.Len(t, b, 16)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, b[:4])
	dst := make([]int32, 4)
	ReadFixed(dst, b, 4)
	assert.Equal(t, src, dst)

	f := []float64{math.Pi, -0.5}
	g := make([]float64, 2)
	ReadFixed(g, AppendFixed(nil, f, 8), 8)
	assert.Equal(t, f, g)

	if LittleEndian {
		assert.Equal(t, b, Bytes(src, 4))
	}
	assert.Nil(t, Bytes([]int32{}, 4))
}
