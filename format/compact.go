// Package format models the on-disk Thrift-compact structures written to a
// parquet file's footer and page headers (spec §6), plus a compact-protocol
// encoder and a minimal decoder.
//
// The physical Thrift IDL is treated as an external contract, per spec §1:
// this package hand-rolls the compact protocol's wire format (field header
// deltas, zigzag varints, list headers) rather than depending on a Thrift
// code generator or runtime, mirroring the teacher's own
// format/thriftdecode package, which does the same for the read direction.
package format

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	typeStop   = 0
	typeTrue   = 1
	typeFalse  = 2
	typeI8     = 3
	typeI16    = 4
	typeI32    = 5
	typeI64    = 6
	typeDouble = 7
	typeBinary = 8
	typeList   = 9
	typeStruct = 12
)

// Writer encodes values using Thrift's compact protocol. Callers are
// responsible for calling the With* methods in field-id order within a
// struct frame (ascending order lets the 4-bit delta encoding apply; out
// of order fields still encode correctly, just less densely).
type Writer struct {
	buf    []byte
	lastID []int16 // stack, one per open struct frame; empty until the root StructBegin
}

// NewWriter creates an empty compact-protocol Writer. Callers must open the
// root struct with StructBegin before writing any fields, and close it with
// StructEnd when done, exactly like any nested struct.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the encoded buffer so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset empties the writer for reuse.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.lastID = w.lastID[:0]
}

func (w *Writer) top() int16 {
	if len(w.lastID) == 0 {
		return 0
	}
	return w.lastID[len(w.lastID)-1]
}

func (w *Writer) fieldHeader(id int16, typ byte) {
	last := w.top()
	delta := id - last
	if delta > 0 && delta <= 15 {
		w.buf = append(w.buf, byte(delta)<<4|typ)
	} else {
		w.buf = append(w.buf, typ)
		w.buf = appendVarint(w.buf, int64(id))
	}
	w.lastID[len(w.lastID)-1] = id
}

// StructBegin opens a new field-id scope. Every StructBegin must be paired
// with a StructEnd, including the outermost call representing the root
// struct.
func (w *Writer) StructBegin() { w.lastID = append(w.lastID, 0) }

// StructEnd writes the STOP marker and closes the current field-id scope.
func (w *Writer) StructEnd() {
	w.buf = append(w.buf, typeStop)
	w.lastID = w.lastID[:len(w.lastID)-1]
}

// Bool writes a boolean field; compact protocol folds the value into the
// field-header type byte itself.
func (w *Writer) Bool(id int16, v bool) {
	if v {
		w.fieldHeader(id, typeTrue)
	} else {
		w.fieldHeader(id, typeFalse)
	}
}

// I8 writes a one-byte signed integer field.
func (w *Writer) I8(id int16, v int8) {
	w.fieldHeader(id, typeI8)
	w.buf = append(w.buf, byte(v))
}

// I16 writes a zigzag-varint-encoded 16-bit field.
func (w *Writer) I16(id int16, v int16) {
	w.fieldHeader(id, typeI16)
	w.buf = appendVarint(w.buf, int64(v))
}

// I32 writes a zigzag-varint-encoded 32-bit field.
func (w *Writer) I32(id int16, v int32) {
	w.fieldHeader(id, typeI32)
	w.buf = appendVarint(w.buf, int64(v))
}

// I64 writes a zigzag-varint-encoded 64-bit field.
func (w *Writer) I64(id int16, v int64) {
	w.fieldHeader(id, typeI64)
	w.buf = appendVarint(w.buf, v)
}

// Double writes an 8-byte little-endian double field.
func (w *Writer) Double(id int16, v float64) {
	w.fieldHeader(id, typeDouble)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	w.buf = append(w.buf, tmp[:]...)
}

// Binary writes a length-prefixed binary/string field.
func (w *Writer) Binary(id int16, v []byte) {
	w.fieldHeader(id, typeBinary)
	w.buf = appendVarint(w.buf, int64(len(v)))
	w.buf = append(w.buf, v...)
}

// String writes a length-prefixed string field.
func (w *Writer) String(id int16, v string) { w.Binary(id, []byte(v)) }

// StructField opens a nested struct field; the caller must follow with
// struct-body writes and a StructEnd.
func (w *Writer) StructField(id int16) {
	w.fieldHeader(id, typeStruct)
	w.StructBegin()
}

// ListHeader writes a list field header for a list of size elements of
// elemType. Compact protocol inlines sizes <= 14 into the header byte.
func (w *Writer) ListHeader(id int16, elemType byte, size int) {
	w.fieldHeader(id, typeList)
	if size < 15 {
		w.buf = append(w.buf, byte(size)<<4|elemType)
	} else {
		w.buf = append(w.buf, 0xF0|elemType)
		w.buf = appendVarint(w.buf, int64(size))
	}
}

func appendVarint(dst []byte, v int64) []byte {
	u := uint64(v<<1) ^ uint64(v>>63)
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], u)
	return append(dst, tmp[:n]...)
}

// validateStop is a defensive check used by tests: a fully-written value
// must close every struct frame it opened.
func (w *Writer) validateStop() error {
	if len(w.lastID) != 0 {
		return fmt.Errorf("format: %d struct frame(s) left open", len(w.lastID))
	}
	return nil
}
