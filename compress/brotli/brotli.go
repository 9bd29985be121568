// Package brotli wraps andybalholm/brotli, the library bento's python
// runtime installer uses for the same io.Writer/io.Reader shape.
package brotli

import (
	"bytes"

	"github.com/andybalholm/brotli"

	"github.com/columnar-go/parquetwrite/format"
)

type Codec struct{}

func (Codec) CompressionCodec() format.CompressionCodec { return format.Brotli }

func (Codec) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w := brotli.NewWriterLevel(buf, brotli.DefaultCompression)
	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(src))
	buf := bytes.NewBuffer(dst)
	if _, err := buf.ReadFrom(r); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
