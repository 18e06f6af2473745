// Package common holds the byte-level helpers behind pkg/vecwire: varints and
// little-endian fixed-width element conversion.
package common

import (
	"encoding/binary"
	"reflect"
	"unsafe"
)

// LittleEndian reports whether the host stores integers little-endian, in
// which case element memory already has wire layout.
var LittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// IsFixedKind reports whether k is a fixed-size primitive kind.
func IsFixedKind(k reflect.Kind) bool {
	return FixedSize(k) > 0
}

// FixedSize returns the byte width for fixed-size primitive kinds, or -1.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	default:
		return -1
	}
}

// WriteVarUint appends varint-encoded x to dst using a small stack scratch.
func WriteVarUint(dst []byte, x uint64) []byte {
	var scratch [binary.MaxVarintLen64]byte
	i := 0
	for x >= 0x80 {
		scratch[i] = byte(x) | 0x80
		x >>= 7
		i++
	}
	scratch[i] = byte(x)
	i++
	return append(dst, scratch[:i]...)
}

// ReadVarUint decodes a varint from b returning value and bytes consumed.
// It returns 0 bytes consumed if b is truncated or the value overflows.
func ReadVarUint(b []byte) (uint64, int) {
	var x uint64
	var s uint
	for i, c := range b {
		if i == binary.MaxVarintLen64 {
			return 0, 0
		}
		x |= uint64(c&0x7F) << s
		if c&0x80 == 0 {
			return x, i + 1
		}
		s += 7
	}
	return 0, 0
}

// AppendFixed appends the little-endian bytes of every element of src to dst.
// width must be the element size of T, one of 1, 2, 4 or 8.
func AppendFixed[T any](dst []byte, src []T, width int) []byte {
	for i := range src {
		p := unsafe.Pointer(&src[i])
		switch width {
		case 1:
			dst = append(dst, *(*byte)(p))
		case 2:
			dst = binary.LittleEndian.AppendUint16(dst, *(*uint16)(p))
		case 4:
			dst = binary.LittleEndian.AppendUint32(dst, *(*uint32)(p))
		case 8:
			dst = binary.LittleEndian.AppendUint64(dst, *(*uint64)(p))
		}
	}
	return dst
}

// ReadFixed fills dst from little-endian bytes in src, which must hold
// len(dst)*width bytes.
func ReadFixed[T any](dst []T, src []byte, width int) {
	for i := range dst {
		p := unsafe.Pointer(&dst[i])
		b := src[i*width:]
		switch width {
		case 1:
			*(*byte)(p) = b[0]
		case 2:
			*(*uint16)(p) = binary.LittleEndian.Uint16(b)
		case 4:
			*(*uint32)(p) = binary.LittleEndian.Uint32(b)
		case 8:
			*(*uint64)(p) = binary.LittleEndian.Uint64(b)
		}
	}
}

// Bytes aliases the memory of s as bytes without copying. The result is only
// wire-ordered when LittleEndian is true.
func Bytes[T any](s []T, width int) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*width)
}
