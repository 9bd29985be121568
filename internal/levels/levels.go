// Package levels implements the RLE/bit-packed hybrid encoding used for
// repetition and definition levels (spec §4.3, §6): a sequence of runs,
// each either a run-length-encoded repeated value or a bit-packed group of
// 8-value blocks, selected greedily so that runs of 8 or more identical
// levels collapse to O(1) bytes.
package levels

import (
	"encoding/binary"

	"github.com/columnar-go/parquetwrite/internal/bitpack"
)

// Encoder accumulates level values and produces the hybrid RLE/bit-packed
// byte stream on demand. It is reset and reused across pages within a
// column writer's lifetime.
type Encoder struct {
	width  int
	values []uint32
}

// NewEncoder creates an Encoder for levels bounded by max (the column's
// max repetition or max definition level). If max is 0 the column never
// needs a level stream at all; callers should skip the encoder entirely
// in that case (spec §4.2).
func NewEncoder(max int) *Encoder {
	return &Encoder{width: bitpack.Width(max)}
}

// Width returns the bit width this encoder packs values at.
func (e *Encoder) Width() int { return e.width }

// Write appends one level value.
func (e *Encoder) Write(v uint32) { e.values = append(e.values, v) }

// WriteRepeat appends n copies of v, used by the shredder when a whole
// run of a column's nulls share the same level.
func (e *Encoder) WriteRepeat(v uint32, n int) {
	for i := 0; i < n; i++ {
		e.values = append(e.values, v)
	}
}

// Len returns the number of buffered level values.
func (e *Encoder) Len() int { return len(e.values) }

// Reset clears the buffered values, keeping the allocated width.
func (e *Encoder) Reset() { e.values = e.values[:0] }

// Bytes encodes the buffered levels into the hybrid format and returns the
// encoded bytes. It does not reset the encoder.
func (e *Encoder) Bytes() []byte {
	return Encode(e.values, e.width)
}

// BufferedSize estimates the encoded size without materializing it
// (used by the column writer's page-flush threshold check).
func (e *Encoder) BufferedSize() int64 {
	return int64(bitpack.ByteCount(e.width, len(e.values))) + int64(len(e.values))/8 + 8
}

// Encode produces the RLE/bit-packed hybrid byte stream for values at the
// given bit width. When width is 0 the result is empty: every value must
// be 0 and is implied.
func Encode(values []uint32, width int) []byte {
	if width == 0 || len(values) == 0 {
		return nil
	}

	var out []byte
	i := 0
	for i < len(values) {
		j := i + 1
		for j < len(values) && values[j] == values[i] {
			j++
		}
		runLen := j - i

		if runLen >= 8 {
			out = appendUvarint(out, uint64(runLen)<<1)
			out = appendFixedWidth(out, values[i], width)
			i = j
			continue
		}

		start := i
		for i < len(values) {
			k := i + 1
			for k < len(values) && values[k] == values[i] {
				k++
			}
			if k-i >= 8 {
				break
			}
			i = k
		}
		// Only the final bit-packed run may end short of a multiple of 8
		// values: a decoder reads every group of 8 in full.
		if end := start + (i-start+7)/8*8; end < len(values) {
			i = end
		} else {
			i = len(values)
		}
		group := values[start:i]
		numGroups := (len(group) + 7) / 8
		out = appendUvarint(out, uint64(numGroups)<<1|1)
		padded := make([]uint64, numGroups*8)
		for idx, v := range group {
			padded[idx] = uint64(v)
		}
		out = bitpack.Pack(out, padded, width)
	}
	return out
}

// Decode is the inverse of Encode, given the number of values expected and
// the bit width they were packed at. Used by tests, directly and through
// rle.DecodeIndices; no write path calls it (the read path is out of
// scope).
func Decode(src []byte, width, count int) []uint32 {
	if width == 0 {
		out := make([]uint32, count)
		return out
	}
	out := make([]uint32, 0, count)
	pos := 0
	for len(out) < count {
		header, n := binary.Uvarint(src[pos:])
		pos += n
		if header&1 == 0 {
			runLen := int(header >> 1)
			v := readFixedWidth(src[pos:], width)
			pos += (width + 7) / 8
			for i := 0; i < runLen; i++ {
				out = append(out, v)
			}
		} else {
			numGroups := int(header >> 1)
			n := numGroups * 8
			unpacked := bitpack.Unpack(make([]uint64, 0, n), src[pos:], width, n)
			pos += bitpack.ByteCount(width, n)
			for _, v := range unpacked {
				out = append(out, uint32(v))
				if len(out) == count {
					break
				}
			}
		}
	}
	return out[:count]
}

func appendUvarint(dst []byte, v uint64) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	return append(dst, buf[:n]...)
}

func appendFixedWidth(dst []byte, v uint32, width int) []byte {
	n := (width + 7) / 8
	for i := 0; i < n; i++ {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

func readFixedWidth(src []byte, width int) uint32 {
	n := (width + 7) / 8
	var v uint32
	for i := 0; i < n && i < len(src); i++ {
		v |= uint32(src[i]) << (8 * i)
	}
	return v
}
