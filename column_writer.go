package parquet

import (
	"github.com/columnar-go/parquetwrite/bloomfilter"
	"github.com/columnar-go/parquetwrite/encoding/delta"
	"github.com/columnar-go/parquetwrite/encoding/plain"
	"github.com/columnar-go/parquetwrite/encoding/rle"
	"github.com/columnar-go/parquetwrite/format"
	"github.com/columnar-go/parquetwrite/internal/bitpack"
	"github.com/columnar-go/parquetwrite/internal/levels"
	"github.com/columnar-go/parquetwrite/perrors"
)

// valueDict boxes one of the five generic dictionary[T] instantiations (or
// byteArrayDictionary) behind a Value-typed interface, so ColumnWriter does
// not itself need to be generic over its column's Kind (spec §4.4; the
// generic/non-generic split is explained in dictionary.go).
type valueDict struct {
	kind Kind
	i32  *dictionary[int32]
	i64  *dictionary[int64]
	i96  *dictionary[[12]byte]
	f32  *dictionary[float32]
	f64  *dictionary[float64]
	ba   *byteArrayDictionary
}

func newValueDict(kind Kind, cap int64) *valueDict {
	d := &valueDict{kind: kind}
	switch kind {
	case Int32:
		d.i32 = newDictionary(cap, func(int32) int64 { return 4 })
	case Int64:
		d.i64 = newDictionary(cap, func(int64) int64 { return 8 })
	case Int96:
		d.i96 = newDictionary(cap, func([12]byte) int64 { return 12 })
	case Float:
		d.f32 = newDictionary(cap, func(float32) int64 { return 4 })
	case Double:
		d.f64 = newDictionary(cap, func(float64) int64 { return 8 })
	case ByteArray, FixedLenByteArray:
		d.ba = newByteArrayDictionary(cap)
	}
	return d
}

func (d *valueDict) lookup(v Value, pageIdx int) (int32, bool) {
	switch d.kind {
	case Int32:
		return d.i32.Lookup(v.Int32(), pageIdx)
	case Int64:
		return d.i64.Lookup(v.Int64(), pageIdx)
	case Int96:
		return d.i96.Lookup(v.Int96(), pageIdx)
	case Float:
		return d.f32.Lookup(v.Float32(), pageIdx)
	case Double:
		return d.f64.Lookup(v.Float64(), pageIdx)
	default:
		return d.ba.Lookup(v.Bytes(), pageIdx)
	}
}

func (d *valueDict) fellBack() bool {
	switch d.kind {
	case Int32:
		return d.i32.FellBack()
	case Int64:
		return d.i64.FellBack()
	case Int96:
		return d.i96.FellBack()
	case Float:
		return d.f32.FellBack()
	case Double:
		return d.f64.FellBack()
	default:
		return d.ba.FellBack()
	}
}

func (d *valueDict) lastFlushedPage() int {
	switch d.kind {
	case Int32:
		return d.i32.LastFlushedPage()
	case Int64:
		return d.i64.LastFlushedPage()
	case Int96:
		return d.i96.LastFlushedPage()
	case Float:
		return d.f32.LastFlushedPage()
	case Double:
		return d.f64.LastFlushedPage()
	default:
		return d.ba.LastFlushedPage()
	}
}

func (d *valueDict) len() int {
	switch d.kind {
	case Int32:
		return d.i32.Len()
	case Int64:
		return d.i64.Len()
	case Int96:
		return d.i96.Len()
	case Float:
		return d.f32.Len()
	case Double:
		return d.f64.Len()
	default:
		return d.ba.Len()
	}
}

// plainBody returns the dictionary page payload: every stored value,
// PLAIN-encoded, in insertion order.
func (d *valueDict) plainBody() []byte {
	switch d.kind {
	case Int32:
		return plain.EncodeInt32(nil, d.i32.Values())
	case Int64:
		return plain.EncodeInt64(nil, d.i64.Values())
	case Int96:
		return plain.EncodeInt96(nil, d.i96.Values())
	case Float:
		return plain.EncodeFloat(nil, d.f32.Values())
	case Double:
		return plain.EncodeDouble(nil, d.f64.Values())
	case FixedLenByteArray:
		return plain.EncodeFixedLenByteArray(nil, d.ba.Values())
	default:
		return plain.EncodeByteArray(nil, d.ba.Values())
	}
}

// encodedPage is one data page as handed from the column writer to the
// page writer, before compression/CRC/encryption (spec §4.6).
type encodedPage struct {
	v2           bool
	numValues    int32
	numNulls     int32
	numRows      int32
	encoding     format.Encoding
	repLevels    []byte
	defLevels    []byte
	values       []byte
	stats        *format.Statistics
	firstRowSeen bool
}

// dictionaryPage is the one-per-chunk values table written before the
// chunk's first data page, when dictionary encoding was used at all.
type dictionaryPage struct {
	numValues int32
	encoding  format.Encoding
	values    []byte
}

// bloomFilterPage is the one-per-chunk Bloom filter bitset, written after
// the chunk's dictionary page if the column has one (supplemented
// feature C.1).
type bloomFilterPage struct {
	header format.BloomFilterHeader
	bitset []byte
}

// pageSink receives finished pages from a ColumnWriter, in order, for one
// column chunk (spec §4.6: the page writer / column-chunk assembler).
type pageSink interface {
	writeDictionaryPage(page dictionaryPage) error
	writeDataPage(page encodedPage) error
	writeBloomFilter(page bloomFilterPage) error
}

// ColumnWriter buffers ⟨r,d,v⟩ triples for one leaf column, choosing an
// encoding (dictionary-first with fallback) and emitting pages to its
// pageSink as thresholds are crossed (spec §4.2).
type ColumnWriter struct {
	col  *ColumnDescriptor
	cfg  *WriterConfig
	sink pageSink

	repEnc *levels.Encoder
	defEnc *levels.Encoder

	pageValues    []Value // non-null values buffered for the current page
	pageNumValues int32
	pageNumNulls  int32
	pageNumRows   int32

	pageStats  *Statistics
	chunkStats *Statistics

	dict         *valueDict
	dictFellBack bool
	fallback     format.Encoding

	bloom *bloomfilter.Filter

	pageIndex      int // pages emitted so far this chunk
	recordsSinceCheck int64
	encodingsUsed  map[format.Encoding]bool
	pageEncStats   []format.PageEncodingStats

	chunkNumValues int64
	chunkUncompressedBytes int64 // values bytes only, pre level/compression accounting done by page writer
}

// NewColumnWriter constructs a writer for col, handing finished pages to
// sink.
func NewColumnWriter(col *ColumnDescriptor, cfg *WriterConfig, sink pageSink) *ColumnWriter {
	cw := &ColumnWriter{
		col:           col,
		cfg:           cfg,
		sink:          sink,
		pageStats:     NewStatistics(comparatorFor(col), cfg.TrackDistinctCount),
		chunkStats:    NewStatistics(comparatorFor(col), cfg.TrackDistinctCount),
		encodingsUsed: map[format.Encoding]bool{},
	}
	if col.MaxRepetitionLevel > 0 {
		cw.repEnc = levels.NewEncoder(col.MaxRepetitionLevel)
	}
	if col.MaxDefinitionLevel > 0 {
		cw.defEnc = levels.NewEncoder(col.MaxDefinitionLevel)
	}
	cw.fallback = fallbackEncoding(cfg.Version, col.Node.Kind())
	if cfg.EnableDictionary && col.Node.Kind() != Boolean {
		cw.dict = newValueDict(col.Node.Kind(), cfg.DictionarySizeThreshold)
	}
	if bf, ok := cfg.BloomFilterColumns[col.PathString()]; ok {
		cw.bloom = bloomfilter.NewFilter(bf.NDV, bf.FPP)
	}
	return cw
}

func fallbackEncoding(version WriterVersion, kind Kind) format.Encoding {
	if version == V1 {
		return format.Plain
	}
	switch kind {
	case Int32, Int64, ByteArray:
		return format.DeltaBinaryPacked // overridden to DeltaByteArray for ByteArray below
	default:
		return format.Plain
	}
}

// writeValue implements columnSink: the shredder's per-triple callback.
func (cw *ColumnWriter) writeValue(col int, v Value) error {
	if cw.repEnc != nil {
		cw.repEnc.Write(uint32(v.RepetitionLevel()))
	}
	if cw.defEnc != nil {
		cw.defEnc.Write(uint32(v.DefinitionLevel()))
	}
	cw.pageNumValues++
	if v.RepetitionLevel() == 0 {
		cw.pageNumRows++
	}
	if v.IsNull() {
		cw.pageNumNulls++
		cw.pageStats.Observe(v)
		cw.chunkStats.Observe(v)
	} else {
		cw.pageValues = append(cw.pageValues, v)
		cw.pageStats.Observe(v)
		cw.chunkStats.Observe(v)
		if cw.bloom != nil {
			cw.bloom.Insert(bloomfilter.Hash64(encodeStatValue(v, cw.col.Node.Kind())))
		}
	}
	if cw.shouldFlushPage() {
		return cw.flushPage()
	}
	return nil
}

// shouldFlushPage implements spec §4.2's flush condition: buffered_size
// over threshold, or (v2 only) enough records accumulated since the last
// check.
func (cw *ColumnWriter) shouldFlushPage() bool {
	size := cw.bufferedSize()
	if size >= cw.cfg.PageSizeThreshold {
		return true
	}
	if cw.cfg.Version == V2 {
		return int64(cw.pageNumRows) >= cw.cfg.MinRowCountForPageCheck
	}
	return false
}

func (cw *ColumnWriter) bufferedSize() int64 {
	var n int64
	if cw.repEnc != nil {
		n += cw.repEnc.BufferedSize()
	}
	if cw.defEnc != nil {
		n += cw.defEnc.BufferedSize()
	}
	n += int64(len(cw.pageValues)) * 8 // coarse estimate, refined at encode time
	return n
}

// flushPage encodes the buffered triples into one page and hands it to
// the sink, then resets the per-page buffers.
func (cw *ColumnWriter) flushPage() error {
	values, encoding, err := cw.encodeValues()
	if err != nil {
		return err
	}
	cw.encodingsUsed[encoding] = true
	cw.recordEncodingStat(encoding)

	page := encodedPage{
		v2:        cw.cfg.Version == V2,
		numValues: cw.pageNumValues,
		numNulls:  cw.pageNumNulls,
		numRows:   cw.pageNumRows,
		encoding:  encoding,
		values:    values,
		stats:     cw.pageLevelStatistics(),
	}
	if cw.repEnc != nil {
		page.repLevels = cw.repEnc.Bytes()
	}
	if cw.defEnc != nil {
		page.defLevels = cw.defEnc.Bytes()
	}

	cw.chunkNumValues += int64(cw.pageNumValues)
	cw.pageIndex++

	if err := cw.sink.writeDataPage(page); err != nil {
		return err
	}

	cw.pageValues = cw.pageValues[:0]
	cw.pageNumValues = 0
	cw.pageNumNulls = 0
	cw.pageNumRows = 0
	if cw.repEnc != nil {
		cw.repEnc.Reset()
	}
	if cw.defEnc != nil {
		cw.defEnc.Reset()
	}
	cw.pageStats = NewStatistics(comparatorFor(cw.col), cw.cfg.TrackDistinctCount)
	return nil
}

func (cw *ColumnWriter) recordEncodingStat(enc format.Encoding) {
	pt := format.DataPage
	if cw.cfg.Version == V2 {
		pt = format.DataPageV2
	}
	for i := range cw.pageEncStats {
		if cw.pageEncStats[i].PageType == pt && cw.pageEncStats[i].Encoding == enc {
			cw.pageEncStats[i].Count++
			return
		}
	}
	cw.pageEncStats = append(cw.pageEncStats, format.PageEncodingStats{PageType: pt, Encoding: enc, Count: 1})
}

func (cw *ColumnWriter) pageLevelStatistics() *format.Statistics {
	return statisticsToFormat(cw.pageStats, cw.col.Node.Kind())
}

// encodeValues picks the column's current encoding (dictionary, unless
// fallen back) and returns the encoded value-bytes stream plus the
// format.Encoding tag that describes it.
func (cw *ColumnWriter) encodeValues() ([]byte, format.Encoding, error) {
	kind := cw.col.Node.Kind()

	if cw.dict != nil && !cw.dictFellBack {
		ids := make([]int32, 0, len(cw.pageValues))
		ok := true
		for _, v := range cw.pageValues {
			id, lookupOK := cw.dict.lookup(v, cw.pageIndex)
			if !lookupOK {
				ok = false
				break
			}
			ids = append(ids, id)
		}
		if ok {
			width := bitpack.Width(max(cw.dict.len()-1, 0))
			enc := format.RLEDictionary
			if cw.cfg.Version == V1 {
				enc = format.PlainDictionary
			}
			return rle.EncodeIndices(width, ids), enc, nil
		}
		cw.dictFellBack = true
	}

	switch kind {
	case Boolean:
		values := make([]bool, len(cw.pageValues))
		for i, v := range cw.pageValues {
			values[i] = v.Boolean()
		}
		return plain.EncodeBoolean(nil, values), format.Plain, nil
	case Int32:
		values := make([]int32, len(cw.pageValues))
		for i, v := range cw.pageValues {
			values[i] = v.Int32()
		}
		if cw.fallback == format.DeltaBinaryPacked {
			return delta.EncodeInt32(values), format.DeltaBinaryPacked, nil
		}
		return plain.EncodeInt32(nil, values), format.Plain, nil
	case Int64:
		values := make([]int64, len(cw.pageValues))
		for i, v := range cw.pageValues {
			values[i] = v.Int64()
		}
		if cw.fallback == format.DeltaBinaryPacked {
			return delta.EncodeInt64(values), format.DeltaBinaryPacked, nil
		}
		return plain.EncodeInt64(nil, values), format.Plain, nil
	case Int96:
		values := make([][12]byte, len(cw.pageValues))
		for i, v := range cw.pageValues {
			values[i] = v.Int96()
		}
		return plain.EncodeInt96(nil, values), format.Plain, nil
	case Float:
		values := make([]float32, len(cw.pageValues))
		for i, v := range cw.pageValues {
			values[i] = v.Float32()
		}
		return plain.EncodeFloat(nil, values), format.Plain, nil
	case Double:
		values := make([]float64, len(cw.pageValues))
		for i, v := range cw.pageValues {
			values[i] = v.Float64()
		}
		return plain.EncodeDouble(nil, values), format.Plain, nil
	case ByteArray:
		values := make([][]byte, len(cw.pageValues))
		for i, v := range cw.pageValues {
			values[i] = v.Bytes()
		}
		if cw.cfg.Version == V2 {
			return delta.EncodeByteArray(values), format.DeltaByteArray, nil
		}
		return plain.EncodeByteArray(nil, values), format.Plain, nil
	case FixedLenByteArray:
		values := make([][]byte, len(cw.pageValues))
		for i, v := range cw.pageValues {
			values[i] = v.Bytes()
		}
		return plain.EncodeFixedLenByteArray(nil, values), format.Plain, nil
	default:
		return nil, 0, perrors.NewEncodingError(cw.col.PathString(), "unsupported column kind")
	}
}

// statisticsToFormat renders a Statistics accumulator into the wire
// Statistics struct, encoding min/max the same way PLAIN does (minus the
// byte-array length prefix, since the footer stores raw value bytes).
func statisticsToFormat(s *Statistics, kind Kind) *format.Statistics {
	out := &format.Statistics{NullCount: s.NullCount(), HasNullCount: true}
	if dc, ok := s.DistinctCount(); ok {
		out.DistinctCount = dc
		out.HasDistinct = true
	}
	minV, hasMin := s.Min()
	maxV, hasMax := s.Max()
	if hasMin {
		b := encodeStatValue(minV, kind)
		out.Min, out.MinValue = b, b
	}
	if hasMax {
		b := encodeStatValue(maxV, kind)
		out.Max, out.MaxValue = b, b
	}
	return out
}

func encodeStatValue(v Value, kind Kind) []byte {
	switch kind {
	case Boolean:
		if v.Boolean() {
			return []byte{1}
		}
		return []byte{0}
	case Int32:
		return plain.EncodeInt32(nil, []int32{v.Int32()})
	case Int64:
		return plain.EncodeInt64(nil, []int64{v.Int64()})
	case Int96:
		return plain.EncodeInt96(nil, [][12]byte{v.Int96()})
	case Float:
		return plain.EncodeFloat(nil, []float32{v.Float32()})
	case Double:
		return plain.EncodeDouble(nil, []float64{v.Float64()})
	default:
		return v.Bytes()
	}
}

// flush forces out the current page even if under threshold (called at
// row-group close, spec §4.7).
func (cw *ColumnWriter) flush() error {
	if cw.pageNumValues == 0 {
		return nil
	}
	return cw.flushPage()
}

// closeChunk finalizes the dictionary page (if the column ever used one)
// and returns the aggregated column-chunk metadata fragments the file
// writer needs (spec §4.6: "aggregates statistics and encodings used").
func (cw *ColumnWriter) closeChunk() (hasDictionary bool, err error) {
	if cw.dict != nil && cw.dict.len() > 0 {
		enc := format.PlainDictionary
		if err := cw.sink.writeDictionaryPage(dictionaryPage{
			numValues: int32(cw.dict.len()),
			encoding:  enc,
			values:    cw.dict.plainBody(),
		}); err != nil {
			return false, err
		}
		cw.encodingsUsed[format.Plain] = true
		hasDictionary = true
	}
	if cw.bloom != nil {
		bits := cw.bloom.Bytes()
		if err := cw.sink.writeBloomFilter(bloomFilterPage{
			header: format.BloomFilterHeader{NumBytes: int32(len(bits))},
			bitset: bits,
		}); err != nil {
			return hasDictionary, err
		}
	}
	return hasDictionary, nil
}

// ChunkStatistics returns the statistics accumulated across every page of
// the chunk just closed.
func (cw *ColumnWriter) ChunkStatistics() *Statistics { return cw.chunkStats }

// ChunkNumValues returns the total triple count (including nulls) written
// to the chunk just closed.
func (cw *ColumnWriter) ChunkNumValues() int64 { return cw.chunkNumValues }

// EncodingsUsed returns every value encoding this chunk's pages used,
// order unspecified (format.ColumnMetaData.Encoding is a set, not an
// ordered log).
func (cw *ColumnWriter) EncodingsUsed() []format.Encoding {
	out := make([]format.Encoding, 0, len(cw.encodingsUsed))
	for e := range cw.encodingsUsed {
		out = append(out, e)
	}
	return out
}

// EncodingStats returns the per-page-type/encoding page counts for this
// chunk (format.ColumnMetaData.EncodingStats).
func (cw *ColumnWriter) EncodingStats() []format.PageEncodingStats { return cw.pageEncStats }

// reset prepares the writer for the next row group: dictionary contents,
// chunk statistics and encodings-used are all scoped to one chunk.
func (cw *ColumnWriter) reset() {
	cw.pageIndex = 0
	cw.chunkNumValues = 0
	cw.dictFellBack = false
	cw.encodingsUsed = map[format.Encoding]bool{}
	cw.pageEncStats = nil
	cw.chunkStats = NewStatistics(comparatorFor(cw.col), cw.cfg.TrackDistinctCount)
	if cw.dict != nil {
		cw.dict = newValueDict(cw.col.Node.Kind(), cw.cfg.DictionarySizeThreshold)
	}
	if bf, ok := cw.cfg.BloomFilterColumns[cw.col.PathString()]; ok {
		cw.bloom = bloomfilter.NewFilter(bf.NDV, bf.FPP)
	}
}
