// Package plain implements the PLAIN encoding (spec §4.3): values are
// written back-to-back in their natural byte layout, little-endian for
// fixed-width kinds, length-prefixed for BYTE_ARRAY, unprefixed for
// FIXED_LEN_BYTE_ARRAY whose width is already known from the schema.
//
// This mirrors the teacher's encoding/plain package (plain_test.go
// confirms the exact layout this file reproduces): no buffering state,
// just pure encode/decode functions over byte slices, called once per
// page at flush time.
package plain

import (
	"encoding/binary"
	"math"
)

// EncodeBoolean packs one bit per value, LSB first within each byte,
// zero-padding the final byte.
func EncodeBoolean(dst []byte, values []bool) []byte {
	n := (len(values) + 7) / 8
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	for i, v := range values {
		if v {
			dst[start+i/8] |= 1 << uint(i%8)
		}
	}
	return dst
}

// DecodeBoolean is the inverse of EncodeBoolean.
func DecodeBoolean(src []byte, count int) []bool {
	out := make([]bool, count)
	for i := range out {
		out[i] = src[i/8]&(1<<uint(i%8)) != 0
	}
	return out
}

// EncodeInt32 appends each value as 4 little-endian bytes.
func EncodeInt32(dst []byte, values []int32) []byte {
	for _, v := range values {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(v))
		dst = append(dst, tmp[:]...)
	}
	return dst
}

// DecodeInt32 is the inverse of EncodeInt32.
func DecodeInt32(src []byte, count int) []int32 {
	out := make([]int32, count)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return out
}

// EncodeInt64 appends each value as 8 little-endian bytes.
func EncodeInt64(dst []byte, values []int64) []byte {
	for _, v := range values {
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(v))
		dst = append(dst, tmp[:]...)
	}
	return dst
}

// DecodeInt64 is the inverse of EncodeInt64.
func DecodeInt64(src []byte, count int) []int64 {
	out := make([]int64, count)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(src[i*8:]))
	}
	return out
}

// EncodeInt96 appends each value's 12 raw bytes unchanged; callers are
// responsible for producing the three little-endian 32-bit words
// parquet-format's deprecated INT96 layout expects.
func EncodeInt96(dst []byte, values [][12]byte) []byte {
	for _, v := range values {
		dst = append(dst, v[:]...)
	}
	return dst
}

// DecodeInt96 is the inverse of EncodeInt96.
func DecodeInt96(src []byte, count int) [][12]byte {
	out := make([][12]byte, count)
	for i := range out {
		copy(out[i][:], src[i*12:])
	}
	return out
}

// EncodeFloat appends each value as 4 little-endian bytes.
func EncodeFloat(dst []byte, values []float32) []byte {
	for _, v := range values {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(v))
		dst = append(dst, tmp[:]...)
	}
	return dst
}

// DecodeFloat is the inverse of EncodeFloat.
func DecodeFloat(src []byte, count int) []float32 {
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return out
}

// EncodeDouble appends each value as 8 little-endian bytes.
func EncodeDouble(dst []byte, values []float64) []byte {
	for _, v := range values {
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
		dst = append(dst, tmp[:]...)
	}
	return dst
}

// DecodeDouble is the inverse of EncodeDouble.
func DecodeDouble(src []byte, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:]))
	}
	return out
}

// EncodeByteArray appends each value as a 4-byte little-endian length
// prefix followed by its bytes.
func EncodeByteArray(dst []byte, values [][]byte) []byte {
	for _, v := range values {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(len(v)))
		dst = append(dst, tmp[:]...)
		dst = append(dst, v...)
	}
	return dst
}

// DecodeByteArray is the inverse of EncodeByteArray.
func DecodeByteArray(src []byte, count int) [][]byte {
	out := make([][]byte, count)
	pos := 0
	for i := range out {
		n := int(binary.LittleEndian.Uint32(src[pos:]))
		pos += 4
		out[i] = src[pos : pos+n]
		pos += n
	}
	return out
}

// EncodeFixedLenByteArray appends each value's raw bytes unprefixed; the
// element width comes from the schema, not the wire encoding.
func EncodeFixedLenByteArray(dst []byte, values [][]byte) []byte {
	for _, v := range values {
		dst = append(dst, v...)
	}
	return dst
}

// DecodeFixedLenByteArray is the inverse of EncodeFixedLenByteArray.
func DecodeFixedLenByteArray(src []byte, count, width int) [][]byte {
	out := make([][]byte, count)
	for i := range out {
		out[i] = src[i*width : (i+1)*width]
	}
	return out
}
