// Package delta implements the DELTA_BINARY_PACKED, DELTA_LENGTH_BYTE_ARRAY
// and DELTA_BYTE_ARRAY encodings (spec §4.3), all built on the same
// block/miniblock delta-packing scheme parquet-format defines: values are
// stored as the first value plus per-block minimum-subtracted deltas,
// bit-packed per miniblock at the narrowest width that fits.
package delta

import (
	"encoding/binary"

	"github.com/columnar-go/parquetwrite/internal/bitpack"
)

const (
	blockSize          = 128
	miniBlocksPerBlock = 4
	valuesPerMiniBlock = blockSize / miniBlocksPerBlock
)

func putUvarint(dst []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(dst, tmp[:n]...)
}

func putZigzag(dst []byte, v int64) []byte {
	return putUvarint(dst, uint64(v<<1)^uint64(v>>63))
}

func getUvarint(src []byte) (uint64, int) {
	return binary.Uvarint(src)
}

func getZigzag(src []byte) (int64, int) {
	u, n := binary.Uvarint(src)
	return int64(u>>1) ^ -int64(u&1), n
}

// EncodeInt64 produces the DELTA_BINARY_PACKED byte stream for values.
func EncodeInt64(values []int64) []byte {
	var out []byte
	out = putUvarint(out, blockSize)
	out = putUvarint(out, miniBlocksPerBlock)
	out = putUvarint(out, uint64(len(values)))
	if len(values) == 0 {
		out = putZigzag(out, 0)
		return out
	}
	out = putZigzag(out, values[0])

	deltas := make([]int64, len(values)-1)
	for i := 1; i < len(values); i++ {
		deltas[i-1] = values[i] - values[i-1]
	}

	for start := 0; start < len(deltas); start += blockSize {
		end := start + blockSize
		if end > len(deltas) {
			end = len(deltas)
		}
		block := deltas[start:end]

		min := block[0]
		for _, d := range block[1:] {
			if d < min {
				min = d
			}
		}
		out = putZigzag(out, min)

		widths := make([]int, miniBlocksPerBlock)
		packed := make([][]uint64, miniBlocksPerBlock)
		for mb := 0; mb < miniBlocksPerBlock; mb++ {
			mbStart := mb * valuesPerMiniBlock
			if mbStart >= len(block) {
				widths[mb] = 0
				continue
			}
			mbEnd := mbStart + valuesPerMiniBlock
			if mbEnd > len(block) {
				mbEnd = len(block)
			}
			var max uint64
			vals := make([]uint64, valuesPerMiniBlock)
			for i := mbStart; i < mbEnd; i++ {
				v := uint64(block[i] - min)
				vals[i-mbStart] = v
				if v > max {
					max = v
				}
			}
			widths[mb] = bitpack.Width(int(max))
			if widths[mb] == 0 && max > 0 {
				widths[mb] = 64
			}
			packed[mb] = vals
		}
		for _, w := range widths {
			out = append(out, byte(w))
		}
		for mb, vals := range packed {
			if widths[mb] == 0 {
				continue
			}
			out = bitpack.Pack(out, vals, widths[mb])
		}
	}
	return out
}

// DecodeInt64 is the inverse of EncodeInt64, used by DecodeInt32 and by
// tests.
func DecodeInt64(src []byte) []int64 {
	bs, n := getUvarint(src)
	src = src[n:]
	mbCount, n := getUvarint(src)
	src = src[n:]
	total, n := getUvarint(src)
	src = src[n:]
	first, n := getZigzag(src)
	src = src[n:]

	out := make([]int64, 0, total)
	if total == 0 {
		return out
	}
	out = append(out, first)

	vpmb := int(bs) / int(mbCount)
	remaining := int(total) - 1
	prev := first
	for remaining > 0 {
		min, n := getZigzag(src)
		src = src[n:]
		widths := make([]int, mbCount)
		for i := range widths {
			widths[i] = int(src[0])
			src = src[1:]
		}
		for _, w := range widths {
			if remaining <= 0 {
				break
			}
			take := vpmb
			if take > remaining {
				take = remaining
			}
			if w == 0 {
				for i := 0; i < take; i++ {
					prev += min
					out = append(out, prev)
				}
				remaining -= take
				continue
			}
			byteCount := bitpack.ByteCount(w, vpmb)
			unpacked := bitpack.Unpack(make([]uint64, 0, vpmb), src, w, vpmb)
			src = src[byteCount:]
			for i := 0; i < take; i++ {
				prev = prev + min + int64(unpacked[i])
				out = append(out, prev)
			}
			remaining -= take
		}
	}
	return out
}

// EncodeInt32 widens values to int64 for the shared block/miniblock
// packer; DecodeInt32 narrows the result back.
func EncodeInt32(values []int32) []byte {
	widened := make([]int64, len(values))
	for i, v := range values {
		widened[i] = int64(v)
	}
	return EncodeInt64(widened)
}

// DecodeInt32 is the inverse of EncodeInt32.
func DecodeInt32(src []byte) []int32 {
	widened := DecodeInt64(src)
	out := make([]int32, len(widened))
	for i, v := range widened {
		out[i] = int32(v)
	}
	return out
}

// EncodeLengthByteArray implements DELTA_LENGTH_BYTE_ARRAY: value lengths
// delta-binary-packed, followed by the concatenated raw bytes.
func EncodeLengthByteArray(values [][]byte) []byte {
	lengths := make([]int32, len(values))
	for i, v := range values {
		lengths[i] = int32(len(v))
	}
	out := EncodeInt32(lengths)
	for _, v := range values {
		out = append(out, v...)
	}
	return out
}

// DecodeLengthByteArray is the inverse of EncodeLengthByteArray.
func DecodeLengthByteArray(src []byte, count int) [][]byte {
	lengths, consumed := decodeInt32Prefix(src, count)
	pos := consumed
	out := make([][]byte, count)
	for i, l := range lengths {
		out[i] = src[pos : pos+int(l)]
		pos += int(l)
	}
	return out
}

// EncodeByteArray implements DELTA_BYTE_ARRAY: each value is split into a
// shared prefix length (with the previous value) and a suffix; prefix and
// suffix lengths are each delta-binary-packed, followed by the
// concatenated suffix bytes.
func EncodeByteArray(values [][]byte) []byte {
	prefixLens := make([]int32, len(values))
	suffixes := make([][]byte, len(values))
	var prev []byte
	for i, v := range values {
		p := commonPrefixLen(prev, v)
		prefixLens[i] = int32(p)
		suffixes[i] = v[p:]
		prev = v
	}
	out := EncodeInt32(prefixLens)
	suffixLens := make([]int32, len(suffixes))
	for i, s := range suffixes {
		suffixLens[i] = int32(len(s))
	}
	out = append(out, EncodeInt32(suffixLens)...)
	for _, s := range suffixes {
		out = append(out, s...)
	}
	return out
}

// DecodeByteArray is the inverse of EncodeByteArray.
func DecodeByteArray(src []byte, count int) [][]byte {
	prefixLens, n1 := decodeInt32Prefix(src, count)
	suffixLens, n2 := decodeInt32Prefix(src[n1:], count)
	pos := n1 + n2
	out := make([][]byte, count)
	var prev []byte
	for i := range out {
		suffix := src[pos : pos+int(suffixLens[i])]
		pos += int(suffixLens[i])
		v := make([]byte, 0, int(prefixLens[i])+len(suffix))
		v = append(v, prev[:prefixLens[i]]...)
		v = append(v, suffix...)
		out[i] = v
		prev = v
	}
	return out
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// decodeInt32Prefix decodes a DELTA_BINARY_PACKED int32 stream of exactly
// count values from the start of src, returning the values and the
// number of bytes consumed.
func decodeInt32Prefix(src []byte, count int) ([]int32, int) {
	pos := 0
	bs, n := getUvarint(src[pos:])
	pos += n
	mbCount, n := getUvarint(src[pos:])
	pos += n
	_, n = getUvarint(src[pos:])
	pos += n
	first, n := getZigzag(src[pos:])
	pos += n

	out := make([]int32, 0, count)
	if count == 0 {
		return out, pos
	}
	out = append(out, int32(first))

	vpmb := int(bs) / int(mbCount)
	remaining := count - 1
	prev := first
	for remaining > 0 {
		min, n := getZigzag(src[pos:])
		pos += n
		widths := make([]int, mbCount)
		for i := range widths {
			widths[i] = int(src[pos])
			pos++
		}
		for _, w := range widths {
			if remaining <= 0 {
				break
			}
			take := vpmb
			if take > remaining {
				take = remaining
			}
			if w == 0 {
				for i := 0; i < take; i++ {
					prev += min
					out = append(out, int32(prev))
				}
				remaining -= take
				continue
			}
			byteCount := bitpack.ByteCount(w, vpmb)
			unpacked := bitpack.Unpack(make([]uint64, 0, vpmb), src[pos:], w, vpmb)
			pos += byteCount
			for i := 0; i < take; i++ {
				prev = prev + min + int64(unpacked[i])
				out = append(out, int32(prev))
			}
			remaining -= take
		}
	}
	return out, pos
}
