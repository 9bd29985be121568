// Package zstd wraps klauspost/compress/zstd, the codec grafana-tempo's
// v2 data_reader.go and pyroscope's pprof package both reach for.
package zstd

import (
	"github.com/klauspost/compress/zstd"

	"github.com/columnar-go/parquetwrite/format"
)

type Codec struct{}

func (Codec) CompressionCodec() format.CompressionCodec { return format.Zstd }

func (Codec) Encode(dst, src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return dst, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, dst), nil
}

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return dst, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, dst)
}
