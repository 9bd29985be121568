package parquet

import (
	"io"

	"github.com/columnar-go/parquetwrite/format"
	"github.com/columnar-go/parquetwrite/internal/membuf"
)

// chunkBufferChunkSize is the membuf chunk granularity for column-chunk
// assembly buffers; small enough to bound per-column overhead, large
// enough that a typical page does not straddle many chunks.
const chunkBufferChunkSize = 64 << 10

// RowGroupWriter buffers one row group's worth of column chunks and
// decides, once per record, whether the group is full (spec §4.7).
type RowGroupWriter struct {
	schema *Schema
	cfg    *WriterConfig
	pool   *membuf.Pool

	columns      []*ColumnWriter
	chunkWriters []*columnChunkWriter

	ordinal                 int
	recordCount             int64
	recordCountForNextCheck int64
}

// NewRowGroupWriter allocates a fresh row group at the given ordinal
// within the file.
func NewRowGroupWriter(schema *Schema, cfg *WriterConfig, ordinal int) (*RowGroupWriter, error) {
	rg := &RowGroupWriter{
		schema:                  schema,
		cfg:                     cfg,
		pool:                    membuf.NewPool(chunkBufferChunkSize),
		columns:                 make([]*ColumnWriter, schema.NumColumns()),
		chunkWriters:            make([]*columnChunkWriter, schema.NumColumns()),
		ordinal:                 ordinal,
		recordCountForNextCheck: cfg.MinRowCountForPageCheck,
	}
	for _, col := range schema.Columns() {
		buf := rg.pool.Get()
		ccw, err := newColumnChunkWriter(col, cfg, buf, ordinal, col.Index)
		if err != nil {
			return nil, err
		}
		rg.chunkWriters[col.Index] = ccw
		rg.columns[col.Index] = NewColumnWriter(col, cfg, ccw)
	}
	return rg, nil
}

// writeValue implements columnSink for the Shredder feeding this row
// group.
func (rg *RowGroupWriter) writeValue(col int, v Value) error {
	return rg.columns[col].writeValue(col, v)
}

// EndRecord applies the row-group size check spec §4.7 describes after
// one record has been fully shredded: every recordCountForNextCheck
// records, probe the buffered size and either signal a flush or
// reschedule the next check. The exact reschedule arithmetic is not
// load-bearing, only the resulting size bound; this mirrors
// parquet-mr's check-then-estimate loop.
func (rg *RowGroupWriter) EndRecord() (shouldFlush bool) {
	rg.recordCount++
	if rg.recordCount < rg.recordCountForNextCheck {
		return false
	}

	buffered := rg.bufferedSize()
	avgRecordBytes := float64(buffered) / float64(rg.recordCount)
	if avgRecordBytes < 1 {
		avgRecordBytes = 1
	}

	if buffered > rg.cfg.RowGroupSizeThreshold-int64(2*avgRecordBytes) {
		return true
	}

	remaining := rg.cfg.RowGroupSizeThreshold - buffered
	recordsUntilFull := int64(float64(remaining) / avgRecordBytes / 2)
	next := rg.recordCount + recordsUntilFull
	if min := rg.recordCount + rg.cfg.MinRowCountForPageCheck; next < min {
		next = min
	}
	if max := rg.recordCount + rg.cfg.MaxRowCountForPageCheck; next > max {
		next = max
	}
	rg.recordCountForNextCheck = next
	return false
}

func (rg *RowGroupWriter) bufferedSize() int64 {
	var n int64
	for _, cw := range rg.columns {
		n += cw.bufferedSize()
	}
	for _, ccw := range rg.chunkWriters {
		n += ccw.buf.Len()
	}
	return n
}

// NumRows reports the record count buffered so far.
func (rg *RowGroupWriter) NumRows() int64 { return rg.recordCount }

// Close flushes every column's last page and dictionary page, streams
// the assembled column-chunk bytes to w starting at baseOffset, and
// returns the row group's Thrift metadata with absolute file offsets.
func (rg *RowGroupWriter) Close(baseOffset int64, w io.Writer) (format.RowGroup, error) {
	group := format.RowGroup{
		NumRows:       rg.recordCount,
		Ordinal:       int16(rg.ordinal),
		HasOrdinal:    true,
		FileOffset:    baseOffset,
		HasFileOffset: true,
	}

	offset := baseOffset
	var totalSize int64
	for _, col := range rg.schema.Columns() {
		cw := rg.columns[col.Index]
		ccw := rg.chunkWriters[col.Index]

		if err := cw.flush(); err != nil {
			return format.RowGroup{}, err
		}
		if _, err := cw.closeChunk(); err != nil {
			return format.RowGroup{}, err
		}

		chunk, err := ccw.columnChunk(cw, offset)
		if err != nil {
			return format.RowGroup{}, err
		}
		group.Columns = append(group.Columns, chunk)

		n, err := ccw.writeTo(w)
		if err != nil {
			return format.RowGroup{}, err
		}
		offset += n
		totalSize += n
	}

	// Page indexes (spec §6, supplemented feature C.5) are written after
	// every column chunk's data in the row group, so their own byte range
	// does not shift the DataPageOffset/DictionaryPageOffset already
	// baked into each ColumnChunk above.
	for _, col := range rg.schema.Columns() {
		ccw := rg.chunkWriters[col.Index]
		before := offset
		if err := ccw.writeIndexes(&group.Columns[col.Index], w, &offset); err != nil {
			return format.RowGroup{}, err
		}
		totalSize += offset - before
	}

	group.TotalByteSize = totalSize
	group.TotalCompressedSize = totalSize
	group.HasTotalCompressedSize = true
	return group, nil
}
