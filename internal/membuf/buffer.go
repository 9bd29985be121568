// Package membuf provides the chunked byte-buffer plumbing used by page and
// column-chunk assembly: a pooled, zero-copy-on-flush io.ReadWriteSeeker that
// grows in fixed-size chunks instead of one contiguous reallocating slice.
package membuf

import (
	"fmt"
	"io"
	"sync"
)

// Buffer is a chunked, pooled byte buffer implementing io.ReadWriteSeeker
// and io.WriterTo. Chunks are allocated lazily and returned to a pool on
// Reset so repeated page/column-chunk buffering does not churn the heap.
type Buffer struct {
	pool      *sync.Pool
	chunkSize int
	chunks    [][]byte
	idx       int
	off       int
}

// NewBuffer creates a Buffer whose chunks are chunkSize bytes, backed by
// pool for chunk reuse across Buffer instances.
func NewBuffer(chunkSize int, pool *sync.Pool) *Buffer {
	return &Buffer{pool: pool, chunkSize: chunkSize}
}

// Reset releases all chunks back to the pool and rewinds the buffer to
// empty.
func (b *Buffer) Reset() {
	for i := range b.chunks {
		b.pool.Put(b.chunks[i][:0]) //nolint:staticcheck // pool element, not escaping
		b.chunks[i] = nil
	}
	b.chunks = b.chunks[:0]
	b.idx = 0
	b.off = 0
}

// Len returns the number of bytes currently stored, regardless of the
// current read/write cursor.
func (b *Buffer) Len() int64 { return b.endOff() }

func (b *Buffer) getChunk() []byte {
	v := b.pool.Get()
	if v == nil {
		return make([]byte, 0, b.chunkSize)
	}
	return v.([]byte)[:0]
}

// Read implements io.Reader.
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.idx >= len(b.chunks) {
		return 0, io.EOF
	}
	cur := b.chunks[b.idx]
	if b.idx == len(b.chunks)-1 && b.off == len(cur) {
		return 0, io.EOF
	}
	n := copy(p, cur[b.off:])
	b.off += n
	if b.off == cap(cur) && b.idx < len(b.chunks)-1 {
		b.idx++
		b.off = 0
	}
	return n, nil
}

// Write implements io.Writer. Writes never fail except via the pool's
// allocator, which does not itself return errors.
func (b *Buffer) Write(p []byte) (int, error) {
	want := len(p)
	for len(p) > 0 {
		if b.idx == len(b.chunks) {
			b.chunks = append(b.chunks, b.getChunk())
		}
		cur := b.chunks[b.idx]
		n := copy(cur[b.off:cap(cur)], p)
		if newLen := b.off + n; newLen > len(cur) {
			cur = cur[:newLen]
			b.chunks[b.idx] = cur
		}
		b.off += n
		p = p[n:]
		if b.off >= cap(cur) {
			b.idx++
			b.off = 0
		}
	}
	return want, nil
}

// WriteTo implements io.WriterTo, streaming chunks to w without copying
// them into one contiguous slice first.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for b.idx < len(b.chunks) {
		cur := b.chunks[b.idx]
		n, err := w.Write(cur[b.off:])
		total += int64(n)
		b.off += n
		if err != nil {
			return total, err
		}
		if b.idx == len(b.chunks)-1 {
			break
		}
		b.idx++
		b.off = 0
	}
	return total, nil
}

// Seek implements io.Seeker.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	if offset == 0 && whence == io.SeekStart {
		b.idx, b.off = 0, 0
		return 0, nil
	}
	end := b.endOff()
	switch whence {
	case io.SeekCurrent:
		offset += b.currentOff()
	case io.SeekEnd:
		offset += end
	}
	if offset < 0 {
		return 0, fmt.Errorf("membuf: seek: negative offset %d", offset)
	}
	if offset > end {
		offset = end
	}
	if offset == 0 || len(b.chunks) == 0 {
		b.idx, b.off = 0, 0
	} else {
		stride := cap(b.chunks[0])
		b.idx = int(offset) / stride
		b.off = int(offset) % stride
	}
	return offset, nil
}

func (b *Buffer) currentOff() int64 {
	if b.idx == 0 || len(b.chunks) == 0 {
		return int64(b.off)
	}
	return int64(b.idx*cap(b.chunks[0]) + b.off)
}

func (b *Buffer) endOff() int64 {
	if len(b.chunks) == 0 {
		return 0
	}
	n := len(b.chunks)
	return int64(cap(b.chunks[0])*(n-1) + len(b.chunks[n-1]))
}

var (
	_ io.ReadWriteSeeker = (*Buffer)(nil)
	_ io.WriterTo        = (*Buffer)(nil)
)

// Pool is a chunk pool for a fixed chunk size, shared by every Buffer that
// requests that size.
type Pool struct {
	chunkSize int
	pool      sync.Pool
}

// NewPool creates a Pool of chunkSize-byte chunks.
func NewPool(chunkSize int) *Pool {
	return &Pool{chunkSize: chunkSize}
}

// Get returns a Buffer bound to this pool.
func (p *Pool) Get() *Buffer { return NewBuffer(p.chunkSize, &p.pool) }
