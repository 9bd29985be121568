// Package snappy implements the SNAPPY codec via klauspost/compress/s2's
// Snappy-compatible block format, keeping the writer on a single
// compression library (klauspost/compress) instead of adding
// golang/snappy as a second dependency for the same concern.
package snappy

import (
	"github.com/klauspost/compress/s2"

	"github.com/columnar-go/parquetwrite/format"
)

type Codec struct{}

func (Codec) CompressionCodec() format.CompressionCodec { return format.Snappy }

func (Codec) Encode(dst, src []byte) ([]byte, error) {
	return append(dst, s2.EncodeSnappy(nil, src)...), nil
}

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return dst, err
	}
	out := dst
	if cap(out)-len(out) < n {
		grown := make([]byte, len(out), len(out)+n)
		copy(grown, out)
		out = grown
	}
	decoded, err := s2.Decode(out[len(out):len(out)+n], src)
	if err != nil {
		return dst, err
	}
	return append(out[:len(out)], decoded...), nil
}
