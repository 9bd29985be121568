// Package gzip wraps klauspost/compress/gzip, the teacher's replacement
// for the stdlib gzip package throughout the retrieved pack (tempodb's
// v1.WriterPool, pyroscope's pprof readers).
package gzip

import (
	"bytes"

	"github.com/klauspost/compress/gzip"

	"github.com/columnar-go/parquetwrite/format"
)

type Codec struct{}

func (Codec) CompressionCodec() format.CompressionCodec { return format.Gzip }

func (Codec) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w, err := gzip.NewWriterLevel(buf, gzip.DefaultCompression)
	if err != nil {
		return dst, err
	}
	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return dst, err
	}
	defer r.Close()
	buf := bytes.NewBuffer(dst)
	if _, err := buf.ReadFrom(r); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
