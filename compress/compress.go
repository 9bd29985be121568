// Package compress defines the Codec interface every page/column-chunk
// compressor implements, plus a registry keyed by the parquet-format
// CompressionCodec enum (spec §4.7: a row group may mix codecs across
// columns, never within one column chunk).
package compress

import (
	"fmt"

	"github.com/columnar-go/parquetwrite/compress/brotli"
	"github.com/columnar-go/parquetwrite/compress/gzip"
	"github.com/columnar-go/parquetwrite/compress/lz4"
	"github.com/columnar-go/parquetwrite/compress/snappy"
	"github.com/columnar-go/parquetwrite/compress/uncompressed"
	"github.com/columnar-go/parquetwrite/compress/zstd"
	"github.com/columnar-go/parquetwrite/format"
)

// Codec compresses and decompresses whole pages in one call; callers
// provide dst as a scratch buffer to reuse across pages.
type Codec interface {
	CompressionCodec() format.CompressionCodec
	Encode(dst, src []byte) ([]byte, error)
	Decode(dst, src []byte) ([]byte, error)
}

// ByCodec returns the Codec for the given format.CompressionCodec, or an
// error if none is registered.
func ByCodec(c format.CompressionCodec) (Codec, error) {
	codec, ok := registry[c]
	if !ok {
		return nil, fmt.Errorf("compress: unsupported codec %v", c)
	}
	return codec, nil
}

var registry = map[format.CompressionCodec]Codec{
	format.Uncompressed: uncompressed.Codec{},
	format.Snappy:       snappy.Codec{},
	format.Gzip:         gzip.Codec{},
	format.Zstd:         zstd.Codec{},
	format.LZ4Raw:       lz4.Codec{},
	format.Brotli:       brotli.Codec{},
}
