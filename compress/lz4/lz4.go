// Package lz4 wraps pierrec/lz4/v4, the same library grafana-tempo's v1
// WriterPool/ReaderPool use. LZ4_RAW is a frameless block codec per
// parquet-format, so this uses the package's block-level
// CompressBlock/UncompressBlock rather than its frame Writer/Reader.
package lz4

import (
	"github.com/pierrec/lz4/v4"

	"github.com/columnar-go/parquetwrite/format"
)

type Codec struct{}

func (Codec) CompressionCodec() format.CompressionCodec { return format.LZ4Raw }

func (Codec) Encode(dst, src []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(src))
	start := len(dst)
	out := append(dst, make([]byte, bound)...)
	var c lz4.Compressor
	n, err := c.CompressBlock(src, out[start:])
	if err != nil {
		return dst, err
	}
	if n == 0 {
		// incompressible input: CompressBlock signals this by returning 0
		return append(dst[:start], src...), nil
	}
	return out[:start+n], nil
}

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	// LZ4_RAW carries no uncompressed-size header, so the caller must
	// size dst to the page's declared uncompressed length before calling.
	n, err := lz4.UncompressBlock(src, dst[len(dst):cap(dst)])
	if err != nil {
		return dst, err
	}
	return dst[:len(dst)+n], nil
}
