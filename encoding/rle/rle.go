// Package rle implements the RLE_DICTIONARY/PLAIN_DICTIONARY index stream
// encoding: a single bit-width byte followed by the RLE/bit-packed hybrid
// body internal/levels already implements for repetition/definition
// levels (spec §4.3 notes both streams share the same hybrid codec).
package rle

import "github.com/columnar-go/parquetwrite/internal/levels"

// EncodeIndices encodes dictionary indices at the given bit width,
// prefixed by the one-byte width the dictionary page/data page reader
// needs to decode the hybrid stream that follows.
func EncodeIndices(bitWidth int, indices []int32) []byte {
	values := make([]uint32, len(indices))
	for i, v := range indices {
		values[i] = uint32(v)
	}
	out := make([]byte, 0, 1+len(indices))
	out = append(out, byte(bitWidth))
	out = append(out, levels.Encode(values, bitWidth)...)
	return out
}

// DecodeIndices is the inverse of EncodeIndices, used only by tests.
func DecodeIndices(src []byte, count int) []int32 {
	width := int(src[0])
	values := levels.Decode(src[1:], width, count)
	out := make([]int32, count)
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}
