// Package uncompressed implements the no-op codec used when a column
// chunk declares CompressionCodec UNCOMPRESSED.
package uncompressed

import "github.com/columnar-go/parquetwrite/format"

type Codec struct{}

func (Codec) CompressionCodec() format.CompressionCodec { return format.Uncompressed }

func (Codec) Encode(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}
