package parquet

import (
	"bytes"
	"hash/crc32"
	"io"

	"github.com/columnar-go/parquetwrite/compress"
	"github.com/columnar-go/parquetwrite/format"
	"github.com/columnar-go/parquetwrite/internal/membuf"
	"github.com/columnar-go/parquetwrite/pcrypto"
	"github.com/columnar-go/parquetwrite/perrors"
)

// columnChunkWriter implements pageSink: it takes the pages a ColumnWriter
// produces, compresses and optionally encrypts and checksums them, and
// serializes them into one contiguous column-chunk byte range (spec §4.6).
type columnChunkWriter struct {
	col   *ColumnDescriptor
	cfg   *WriterConfig
	codec compress.Codec
	buf   *membuf.Buffer

	rowGroupOrdinal int
	columnOrdinal   int
	pageOrdinal     int

	encKey    []byte
	encrypted bool
	aadPrefix []byte

	// dictPage holds the dictionary page's encoded header+body, built by
	// writeDictionaryPage. It is kept apart from buf, which only ever
	// collects data pages, so that the dictionary page can be spliced in
	// ahead of every data page at writeTo time regardless of the order
	// writeDictionaryPage/writeDataPage were called in (closeChunk always
	// finalizes and writes the dictionary after the chunk's data pages
	// have already been flushed, since its contents aren't known until
	// then).
	dictPage                []byte
	hasDictionaryPageOffset bool
	firstPageOffset         int64
	firstPageSet            bool
	totalUncompressedSize   int64
	totalCompressedSize     int64

	bloomFilterOffset    int64
	hasBloomFilterOffset bool
	bloomFilterLength    int32

	firstRowIndex  int64
	pageLocations  []format.PageLocation
	pageNullPages  []bool
	pageMinValues  [][]byte
	pageMaxValues  [][]byte
	pageNullCounts []int64
}

func newColumnChunkWriter(col *ColumnDescriptor, cfg *WriterConfig, buf *membuf.Buffer, rowGroupOrdinal, columnOrdinal int) (*columnChunkWriter, error) {
	codec, err := compress.ByCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}
	w := &columnChunkWriter{
		col:             col,
		cfg:             cfg,
		codec:           codec,
		buf:             buf,
		rowGroupOrdinal: rowGroupOrdinal,
		columnOrdinal:   columnOrdinal,
	}
	if cfg.Encryption != nil {
		if key, ok := cfg.Encryption.keyForColumn(col.Path); ok {
			w.encKey = key
			w.encrypted = true
			w.aadPrefix = cfg.Encryption.AADPrefix
		}
	}
	return w, nil
}

func (w *columnChunkWriter) moduleAAD(module pcrypto.ModuleType) []byte {
	columnOrdinal, pageOrdinal := -1, -1
	if module != pcrypto.ModuleFooter {
		columnOrdinal = w.columnOrdinal
	}
	switch module {
	case pcrypto.ModuleDataPage, pcrypto.ModuleDataPageHeader, pcrypto.ModuleDictionaryPage, pcrypto.ModuleDictionaryPageHeader:
		pageOrdinal = w.pageOrdinal
	}
	return pcrypto.ModuleAAD(w.aadPrefix, module, w.rowGroupOrdinal, columnOrdinal, pageOrdinal)
}

func (w *columnChunkWriter) encryptIfNeeded(plaintext []byte, module pcrypto.ModuleType) ([]byte, error) {
	if !w.encrypted {
		return plaintext, nil
	}
	return w.cfg.Encryption.encryptModule(w.encKey, w.moduleAAD(module), plaintext, module)
}

// verifyRoundTrip decodes compressed and compares it against plain,
// catching a codec that silently produced a page it cannot itself read
// back (supplemented feature C.2, WriterConfig.VerifyChecksums). dst is
// pre-sized to plain's length: codecs such as LZ4_RAW carry no embedded
// uncompressed-size header and require Decode's dst to already have the
// right capacity, unlike the self-growing codecs that tolerate a nil dst.
func (w *columnChunkWriter) verifyRoundTrip(compressed, plain []byte) error {
	dst := make([]byte, 0, len(plain))
	got, err := w.codec.Decode(dst, compressed)
	if err != nil {
		return perrors.Wrapf(err, "checksum self-verify decode failed for column %q", w.col.Path)
	}
	if !bytes.Equal(got, plain) {
		return perrors.ErrChecksumMismatch
	}
	return nil
}

// writeDictionaryPage encodes the chunk's dictionary page into dictPage
// rather than buf. closeChunk only calls this once the column's values
// (and therefore its dictionary) are fully known, which is after every
// data page has already been flushed into buf; keeping the two separate
// lets writeTo place the dictionary page first in the chunk's byte range
// regardless of write order (spec §3, §4.6: dictionary page precedes the
// chunk's data pages).
func (w *columnChunkWriter) writeDictionaryPage(p dictionaryPage) error {
	w.hasDictionaryPageOffset = true

	compressed, err := w.codec.Encode(nil, p.values)
	if err != nil {
		return err
	}
	if w.cfg.VerifyChecksums {
		if err := w.verifyRoundTrip(compressed, p.values); err != nil {
			return err
		}
	}
	compressed, err = w.encryptIfNeeded(compressed, pcrypto.ModuleDictionaryPage)
	if err != nil {
		return err
	}

	header := &format.PageHeader{
		Type:                 format.DictionaryPage,
		UncompressedPageSize: int32(len(p.values)),
		CompressedPageSize:   int32(len(compressed)),
		DictionaryPageHeader: &format.DictionaryPageHeader{NumValues: p.numValues, Encoding: p.encoding},
	}
	if w.cfg.EnableCRC {
		header.CRC = int32(crc32.ChecksumIEEE(compressed))
		header.HasCRC = true
	}
	headerBytes := format.EncodePageHeader(header)
	headerBytes, err = w.encryptIfNeeded(headerBytes, pcrypto.ModuleDictionaryPageHeader)
	if err != nil {
		return err
	}

	w.totalUncompressedSize += int64(len(headerBytes)) + int64(len(p.values))
	w.totalCompressedSize += int64(len(headerBytes)) + int64(len(compressed))
	w.dictPage = append(w.dictPage, headerBytes...)
	w.dictPage = append(w.dictPage, compressed...)
	return nil
}

// writeBloomFilter appends the chunk's Bloom filter header and bitset
// (supplemented feature C.1), unencrypted: parquet-format currently
// defines no encryption module for the Bloom filter side-channel.
func (w *columnChunkWriter) writeBloomFilter(p bloomFilterPage) error {
	w.bloomFilterOffset = w.buf.Len()
	w.hasBloomFilterOffset = true
	headerBytes := format.EncodeBloomFilterHeader(&p.header)
	w.bloomFilterLength = int32(len(headerBytes) + len(p.bitset))
	if _, err := w.buf.Write(headerBytes); err != nil {
		return err
	}
	_, err := w.buf.Write(p.bitset)
	return err
}

func (w *columnChunkWriter) writeDataPage(p encodedPage) error {
	offset := w.buf.Len()
	if !w.firstPageSet {
		w.firstPageOffset = offset
		w.firstPageSet = true
	}

	var err error
	if p.v2 {
		err = w.writeDataPageV2(p)
	} else {
		err = w.writeDataPageV1(p)
	}
	if err != nil {
		return err
	}

	w.recordPageIndex(p, offset)
	w.firstRowIndex += int64(p.numRows)
	return nil
}

// recordPageIndex appends the per-page entries the column/offset index
// (supplemented feature, spec §6 "page indexes") are assembled from once
// the row group closes.
func (w *columnChunkWriter) recordPageIndex(p encodedPage, offset int64) {
	w.pageLocations = append(w.pageLocations, format.PageLocation{
		Offset:             offset,
		CompressedPageSize: int32(w.buf.Len() - offset),
		FirstRowIndex:      w.firstRowIndex,
	})
	nullPage := p.stats != nil && p.stats.HasNullCount && p.stats.NullCount == int64(p.numValues)
	w.pageNullPages = append(w.pageNullPages, nullPage)
	var nullCount int64
	if p.stats != nil {
		nullCount = p.stats.NullCount
	}
	w.pageNullCounts = append(w.pageNullCounts, nullCount)
	if nullPage || p.stats == nil {
		w.pageMinValues = append(w.pageMinValues, nil)
		w.pageMaxValues = append(w.pageMaxValues, nil)
	} else {
		w.pageMinValues = append(w.pageMinValues, p.stats.MinValue)
		w.pageMaxValues = append(w.pageMaxValues, p.stats.MaxValue)
	}
}

// writeDataPageV1 concatenates rep levels, def levels and values, then
// compresses and (optionally) encrypts the whole module together (spec
// §4.6, §6).
func (w *columnChunkWriter) writeDataPageV1(p encodedPage) error {
	plain := make([]byte, 0, len(p.repLevels)+len(p.defLevels)+len(p.values)+16)
	plain = appendLevelBlock(plain, p.repLevels)
	plain = appendLevelBlock(plain, p.defLevels)
	plain = append(plain, p.values...)

	compressed, err := w.codec.Encode(nil, plain)
	if err != nil {
		return err
	}
	if w.cfg.VerifyChecksums {
		if err := w.verifyRoundTrip(compressed, plain); err != nil {
			return err
		}
	}
	compressed, err = w.encryptIfNeeded(compressed, pcrypto.ModuleDataPage)
	if err != nil {
		return err
	}

	header := &format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(plain)),
		CompressedPageSize:   int32(len(compressed)),
		DataPageHeader: &format.DataPageHeader{
			NumValues:               p.numValues,
			Encoding:                p.encoding,
			DefinitionLevelEncoding: format.RLE,
			RepetitionLevelEncoding: format.RLE,
			Statistics:              p.stats,
		},
	}
	if w.cfg.EnableCRC {
		header.CRC = int32(crc32.ChecksumIEEE(compressed))
		header.HasCRC = true
	}
	return w.emitPage(header, compressed, len(plain))
}

// writeDataPageV2 leaves levels uncompressed and outside the page's CRC
// scope, compressing only the values stream (spec §4.6).
func (w *columnChunkWriter) writeDataPageV2(p encodedPage) error {
	compressedValues, err := w.codec.Encode(nil, p.values)
	if err != nil {
		return err
	}
	if w.cfg.VerifyChecksums {
		if err := w.verifyRoundTrip(compressedValues, p.values); err != nil {
			return err
		}
	}
	compressedValues, err = w.encryptIfNeeded(compressedValues, pcrypto.ModuleDataPage)
	if err != nil {
		return err
	}

	header := &format.PageHeader{
		Type:                 format.DataPageV2,
		UncompressedPageSize: int32(len(p.repLevels) + len(p.defLevels) + len(p.values)),
		CompressedPageSize:   int32(len(p.repLevels) + len(p.defLevels) + len(compressedValues)),
		DataPageHeaderV2: &format.DataPageHeaderV2{
			NumValues:                  p.numValues,
			NumNulls:                   p.numNulls,
			NumRows:                    p.numRows,
			Encoding:                   p.encoding,
			DefinitionLevelsByteLength: int32(len(p.defLevels)),
			RepetitionLevelsByteLength: int32(len(p.repLevels)),
			IsCompressed:               w.cfg.Compression != format.Uncompressed,
			HasIsCompressed:            true,
			Statistics:                 p.stats,
		},
	}
	if w.cfg.EnableCRC {
		crc := crc32.NewIEEE()
		crc.Write(compressedValues)
		header.CRC = int32(crc.Sum32())
		header.HasCRC = true
	}

	payload := make([]byte, 0, len(p.repLevels)+len(p.defLevels)+len(compressedValues))
	payload = append(payload, p.repLevels...)
	payload = append(payload, p.defLevels...)
	payload = append(payload, compressedValues...)
	return w.emitPage(header, payload, len(p.repLevels)+len(p.defLevels)+len(p.values))
}

func appendLevelBlock(dst, levelBytes []byte) []byte {
	if len(levelBytes) == 0 {
		return dst
	}
	var lenPrefix [4]byte
	lenPrefix[0] = byte(len(levelBytes))
	lenPrefix[1] = byte(len(levelBytes) >> 8)
	lenPrefix[2] = byte(len(levelBytes) >> 16)
	lenPrefix[3] = byte(len(levelBytes) >> 24)
	dst = append(dst, lenPrefix[:]...)
	return append(dst, levelBytes...)
}

func (w *columnChunkWriter) emitPage(header *format.PageHeader, compressedBody []byte, uncompressedBodyLen int) error {
	headerBytes := format.EncodePageHeader(header)
	headerBytes, err := w.encryptIfNeeded(headerBytes, pcrypto.ModuleDataPageHeader)
	if err != nil {
		return err
	}

	w.totalUncompressedSize += int64(len(headerBytes)) + int64(uncompressedBodyLen)
	w.totalCompressedSize += int64(len(headerBytes)) + int64(len(compressedBody))

	if _, err := w.buf.Write(headerBytes); err != nil {
		return err
	}
	if _, err := w.buf.Write(compressedBody); err != nil {
		return err
	}
	w.pageOrdinal++
	return nil
}

// columnMetaData builds the column chunk's Thrift metadata record once
// its ColumnWriter has been closed, with page offsets made absolute by
// adding fileOffset (the chunk's starting position in the output file).
// Every offset recorded against buf (firstPageOffset, bloomFilterOffset,
// pageLocations) is relative to buf alone; once the dictionary page
// (dictPage) is spliced ahead of buf by writeTo, those offsets must also
// be pushed forward by the dictionary page's length.
func (w *columnChunkWriter) columnMetaData(cw *ColumnWriter, fileOffset int64) format.ColumnMetaData {
	dictLen := int64(len(w.dictPage))
	base := fileOffset + dictLen

	md := format.ColumnMetaData{
		Type:                  w.col.Node.Kind().format(),
		Encoding:              cw.EncodingsUsed(),
		PathInSchema:          w.col.Path,
		Codec:                 w.cfg.Compression,
		NumValues:             cw.ChunkNumValues(),
		TotalUncompressedSize: w.totalUncompressedSize,
		TotalCompressedSize:   w.totalCompressedSize,
		DataPageOffset:        w.firstPageOffset + base,
		EncodingStats:         cw.EncodingStats(),
	}
	if w.hasDictionaryPageOffset {
		md.DictionaryPageOffset = fileOffset
		md.HasDictionaryPageOffset = true
	}
	if w.hasBloomFilterOffset {
		md.BloomFilterOffset = w.bloomFilterOffset + base
		md.HasBloomFilterOffset = true
		md.BloomFilterLength = w.bloomFilterLength
		md.HasBloomFilterLength = true
	}
	for i := range w.pageLocations {
		w.pageLocations[i].Offset += base
	}
	stats := statisticsToFormat(cw.ChunkStatistics(), w.col.Node.Kind())
	md.Statistics = *stats
	md.HasStatistics = true
	return md
}

// writeTo streams the chunk's assembled bytes to out: the dictionary page
// (if any) first, then every data page and the Bloom filter buffered in
// buf, matching the offsets columnMetaData already computed.
func (w *columnChunkWriter) writeTo(out io.Writer) (int64, error) {
	var written int64
	if len(w.dictPage) > 0 {
		n, err := out.Write(w.dictPage)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	if _, err := w.buf.Seek(0, io.SeekStart); err != nil {
		return written, err
	}
	n, err := w.buf.WriteTo(out)
	written += n
	return written, err
}

// columnChunk assembles the full format.ColumnChunk entry for this
// column, including crypto metadata and (when the column is encrypted)
// the metadata encrypted into EncryptedColumnMetadata rather than stored
// in the clear (spec §4.8).
func (w *columnChunkWriter) columnChunk(cw *ColumnWriter, fileOffset int64) (format.ColumnChunk, error) {
	md := w.columnMetaData(cw, fileOffset)
	chunk := format.ColumnChunk{FileOffset: fileOffset}

	if !w.encrypted {
		chunk.MetaData = md
		chunk.HasMetaData = true
		return chunk, nil
	}

	if len(w.cfg.Encryption.Columns) == 0 {
		chunk.CryptoMetadata = &format.ColumnCryptoMetaData{EncryptionWithFooterKey: &format.EncryptionWithFooterKey{}}
	} else {
		chunk.CryptoMetadata = &format.ColumnCryptoMetaData{EncryptionWithColumnKey: &format.EncryptionWithColumnKey{PathInSchema: w.col.Path}}
	}

	plainBytes := format.EncodeColumnMetaData(&md)
	encrypted, err := w.encryptIfNeeded(plainBytes, pcrypto.ModuleColumnMetaData)
	if err != nil {
		return format.ColumnChunk{}, err
	}
	chunk.EncryptedColumnMetadata = encrypted
	if w.cfg.Encryption.PlaintextFooter {
		chunk.MetaData = md
		chunk.HasMetaData = true
	}
	return chunk, nil
}

// writeIndexes emits this column's ColumnIndex and OffsetIndex (spec §6,
// supplemented feature C.5) to out at *fileOffset, encrypting each module
// independently when the column is encrypted, and patches their offsets
// and lengths into chunk. A column that wrote no data pages (an all-empty
// row group slot) gets no index entries.
func (w *columnChunkWriter) writeIndexes(chunk *format.ColumnChunk, out io.Writer, fileOffset *int64) error {
	if len(w.pageLocations) == 0 {
		return nil
	}

	ci := &format.ColumnIndex{
		NullPages:     w.pageNullPages,
		MinValues:     w.pageMinValues,
		MaxValues:     w.pageMaxValues,
		BoundaryOrder: 0,
		NullCounts:    w.pageNullCounts,
		HasNullCounts: true,
	}
	ciBytes, err := w.encryptIfNeeded(format.EncodeColumnIndex(ci), pcrypto.ModuleColumnIndex)
	if err != nil {
		return err
	}
	if _, err := out.Write(ciBytes); err != nil {
		return err
	}
	chunk.ColumnIndexOffset = *fileOffset
	chunk.HasColumnIndexOffset = true
	chunk.ColumnIndexLength = int32(len(ciBytes))
	chunk.HasColumnIndexLength = true
	*fileOffset += int64(len(ciBytes))

	oi := &format.OffsetIndex{PageLocations: w.pageLocations}
	oiBytes, err := w.encryptIfNeeded(format.EncodeOffsetIndex(oi), pcrypto.ModuleOffsetIndex)
	if err != nil {
		return err
	}
	if _, err := out.Write(oiBytes); err != nil {
		return err
	}
	chunk.OffsetIndexOffset = *fileOffset
	chunk.HasOffsetIndexOffset = true
	chunk.OffsetIndexLength = int32(len(oiBytes))
	chunk.HasOffsetIndexLength = true
	*fileOffset += int64(len(oiBytes))
	return nil
}
