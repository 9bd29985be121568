package format

// The field IDs below mirror github.com/parquet-go/parquet-go's
// format/thriftdecode/decode.go exactly for every struct that file covers
// (Statistics, KeyValue, SortingColumn, PageEncodingStats, DecimalType,
// TimeUnit/TimeType/TimestampType, IntType, LogicalType, SchemaElement,
// ColumnMetaData, ColumnChunk, RowGroup, ColumnOrder,
// AesGcmV1/AesGcmCtrV1, EncryptionWithColumnKey, PageLocation,
// OffsetIndex, FileMetaData); this file is the encoder, that one the
// decoder, same wire contract in both directions. Structs the teacher's
// file does not cover (PageHeader and its sub-structs, ColumnIndex,
// EncryptionAlgorithm, FileCryptoMetaData, ColumnCryptoMetaData) use the
// field IDs from the published parquet-format Thrift IDL that spec §6
// treats as an external contract.

func writeKeyValue(w *Writer, kv KeyValue) {
	w.StructBegin()
	w.String(1, kv.Key)
	w.String(2, kv.Value)
	w.StructEnd()
}

func writeSortingColumn(w *Writer, sc SortingColumn) {
	w.StructBegin()
	w.I32(1, sc.ColumnIdx)
	w.Bool(2, sc.Descending)
	w.Bool(3, sc.NullsFirst)
	w.StructEnd()
}

func writePageEncodingStats(w *Writer, pes PageEncodingStats) {
	w.StructBegin()
	w.I32(1, int32(pes.PageType))
	w.I32(2, int32(pes.Encoding))
	w.I32(3, pes.Count)
	w.StructEnd()
}

func writeTimeUnitBody(w *Writer, tu TimeUnit) {
	switch {
	case tu.Millis != nil:
		w.StructField(1)
		w.StructEnd()
	case tu.Micros != nil:
		w.StructField(2)
		w.StructEnd()
	case tu.Nanos != nil:
		w.StructField(3)
		w.StructEnd()
	}
}

// nestedField writes a struct-typed field whose body is produced by body,
// handling the StructField/StructEnd bracketing so callers cannot forget
// to close a frame.
func (w *Writer) nestedField(id int16, body func()) {
	w.StructField(id)
	body()
	w.StructEnd()
}

func writeSchemaElement(w *Writer, se *SchemaElement) {
	w.StructBegin()
	if se.Type != nil {
		w.I32(1, int32(*se.Type))
	}
	if se.TypeLength != nil {
		w.I32(2, *se.TypeLength)
	}
	if se.RepetitionType != nil {
		w.I32(3, int32(*se.RepetitionType))
	}
	w.String(4, se.Name)
	if se.NumChildren != nil {
		w.I32(5, *se.NumChildren)
	}
	if se.ConvertedType != nil {
		w.I32(6, int32(*se.ConvertedType))
	}
	if se.Scale != nil {
		w.I32(7, *se.Scale)
	}
	if se.Precision != nil {
		w.I32(8, *se.Precision)
	}
	w.I32(9, se.FieldID)
	if se.LogicalType != nil {
		w.StructField(10)
		writeLogicalTypeBody(w, se.LogicalType)
		w.StructEnd()
	}
	w.StructEnd()
}

// writeLogicalTypeBody writes the field contents of a LogicalType without
// the enclosing StructBegin/StructEnd, for embedding as a nested field.
func writeLogicalTypeBody(w *Writer, lt *LogicalType) {
	switch {
	case lt.UTF8 != nil:
		w.nestedField(1, func() {})
	case lt.Map != nil:
		w.nestedField(2, func() {})
	case lt.List != nil:
		w.nestedField(3, func() {})
	case lt.Enum != nil:
		w.nestedField(4, func() {})
	case lt.Decimal != nil:
		w.StructField(5)
		w.I32(1, lt.Decimal.Scale)
		w.I32(2, lt.Decimal.Precision)
		w.StructEnd()
	case lt.Date != nil:
		w.nestedField(6, func() {})
	case lt.Time != nil:
		w.StructField(7)
		w.Bool(1, lt.Time.IsAdjustedToUTC)
		w.nestedField(2, func() { writeTimeUnitBody(w, lt.Time.Unit) })
		w.StructEnd()
	case lt.Timestamp != nil:
		w.StructField(8)
		w.Bool(1, lt.Timestamp.IsAdjustedToUTC)
		w.nestedField(2, func() { writeTimeUnitBody(w, lt.Timestamp.Unit) })
		w.StructEnd()
	case lt.Integer != nil:
		w.StructField(10)
		w.I8(1, lt.Integer.BitWidth)
		w.Bool(2, lt.Integer.IsSigned)
		w.StructEnd()
	case lt.Unknown != nil:
		w.nestedField(11, func() {})
	case lt.JSON != nil:
		w.nestedField(12, func() {})
	case lt.BSON != nil:
		w.nestedField(13, func() {})
	case lt.UUID != nil:
		w.nestedField(14, func() {})
	}
}

func writeStatisticsBody(w *Writer, s *Statistics) {
	if s.Max != nil {
		w.Binary(1, s.Max)
	}
	if s.Min != nil {
		w.Binary(2, s.Min)
	}
	if s.HasNullCount {
		w.I64(3, s.NullCount)
	}
	if s.HasDistinct {
		w.I64(4, s.DistinctCount)
	}
	if s.MaxValue != nil {
		w.Binary(5, s.MaxValue)
	}
	if s.MinValue != nil {
		w.Binary(6, s.MinValue)
	}
}

func writeColumnChunk(w *Writer, cc *ColumnChunk) {
	w.StructBegin()
	if cc.HasFilePath {
		w.String(1, cc.FilePath)
	}
	w.I64(2, cc.FileOffset)
	if cc.HasMetaData {
		w.StructField(3)
		writeColumnMetaDataBody(w, &cc.MetaData)
		w.StructEnd()
	}
	if cc.HasOffsetIndexOffset {
		w.I64(4, cc.OffsetIndexOffset)
	}
	if cc.HasOffsetIndexLength {
		w.I32(5, cc.OffsetIndexLength)
	}
	if cc.HasColumnIndexOffset {
		w.I64(6, cc.ColumnIndexOffset)
	}
	if cc.HasColumnIndexLength {
		w.I32(7, cc.ColumnIndexLength)
	}
	if cc.CryptoMetadata != nil {
		w.StructField(8)
		writeColumnCryptoMetaDataBody(w, cc.CryptoMetadata)
		w.StructEnd()
	}
	if cc.EncryptedColumnMetadata != nil {
		w.Binary(9, cc.EncryptedColumnMetadata)
	}
	w.StructEnd()
}

func writeColumnMetaDataBody(w *Writer, cmd *ColumnMetaData) {
	w.I32(1, int32(cmd.Type))
	w.ListHeader(2, typeI32, len(cmd.Encoding))
	for _, e := range cmd.Encoding {
		w.buf = appendVarint(w.buf, int64(e))
	}
	w.ListHeader(3, typeBinary, len(cmd.PathInSchema))
	for _, p := range cmd.PathInSchema {
		w.buf = appendVarint(w.buf, int64(len(p)))
		w.buf = append(w.buf, p...)
	}
	w.I32(4, int32(cmd.Codec))
	w.I64(5, cmd.NumValues)
	w.I64(6, cmd.TotalUncompressedSize)
	w.I64(7, cmd.TotalCompressedSize)
	if len(cmd.KeyValueMetadata) > 0 {
		w.ListHeader(8, typeStruct, len(cmd.KeyValueMetadata))
		for _, kv := range cmd.KeyValueMetadata {
			writeKeyValue(w, kv)
		}
	}
	w.I64(9, cmd.DataPageOffset)
	if cmd.HasIndexPageOffset {
		w.I64(10, cmd.IndexPageOffset)
	}
	if cmd.HasDictionaryPageOffset {
		w.I64(11, cmd.DictionaryPageOffset)
	}
	if cmd.HasStatistics {
		w.StructField(12)
		writeStatisticsBody(w, &cmd.Statistics)
		w.StructEnd()
	}
	if len(cmd.EncodingStats) > 0 {
		w.ListHeader(13, typeStruct, len(cmd.EncodingStats))
		for _, pes := range cmd.EncodingStats {
			writePageEncodingStats(w, pes)
		}
	}
	if cmd.HasBloomFilterOffset {
		w.I64(14, cmd.BloomFilterOffset)
	}
	if cmd.HasBloomFilterLength {
		w.I32(15, cmd.BloomFilterLength)
	}
}

func writeColumnCryptoMetaDataBody(w *Writer, ccmd *ColumnCryptoMetaData) {
	switch {
	case ccmd.EncryptionWithFooterKey != nil:
		w.nestedField(1, func() {})
	case ccmd.EncryptionWithColumnKey != nil:
		w.StructField(2)
		ek := ccmd.EncryptionWithColumnKey
		w.ListHeader(1, typeBinary, len(ek.PathInSchema))
		for _, p := range ek.PathInSchema {
			w.buf = appendVarint(w.buf, int64(len(p)))
			w.buf = append(w.buf, p...)
		}
		if ek.KeyMetadata != nil {
			w.Binary(2, ek.KeyMetadata)
		}
		w.StructEnd()
	}
}

func writeRowGroup(w *Writer, rg *RowGroup) {
	w.StructBegin()
	w.ListHeader(1, typeStruct, len(rg.Columns))
	for i := range rg.Columns {
		writeColumnChunk(w, &rg.Columns[i])
	}
	w.I64(2, rg.TotalByteSize)
	w.I64(3, rg.NumRows)
	if len(rg.SortingColumns) > 0 {
		w.ListHeader(4, typeStruct, len(rg.SortingColumns))
		for _, sc := range rg.SortingColumns {
			writeSortingColumn(w, sc)
		}
	}
	if rg.HasFileOffset {
		w.I64(5, rg.FileOffset)
	}
	if rg.HasTotalCompressedSize {
		w.I64(6, rg.TotalCompressedSize)
	}
	if rg.HasOrdinal {
		w.I16(7, rg.Ordinal)
	}
	w.StructEnd()
}

func writeColumnOrder(w *Writer, co ColumnOrder) {
	w.StructBegin()
	if co.TypeOrder != nil {
		w.nestedField(1, func() {})
	}
	w.StructEnd()
}

// EncodeFileMetaData serializes fmd using Thrift compact protocol,
// matching spec §6's FileMetaData layout field-for-field against
// format/thriftdecode's decoder.
func EncodeFileMetaData(fmd *FileMetaData) []byte {
	w := NewWriter()
	w.StructBegin()
	w.I32(1, fmd.Version)
	w.ListHeader(2, typeStruct, len(fmd.Schema))
	for i := range fmd.Schema {
		writeSchemaElement(w, &fmd.Schema[i])
	}
	w.I64(3, fmd.NumRows)
	w.ListHeader(4, typeStruct, len(fmd.RowGroups))
	for i := range fmd.RowGroups {
		writeRowGroup(w, &fmd.RowGroups[i])
	}
	if len(fmd.KeyValueMetadata) > 0 {
		w.ListHeader(5, typeStruct, len(fmd.KeyValueMetadata))
		for _, kv := range fmd.KeyValueMetadata {
			writeKeyValue(w, kv)
		}
	}
	if fmd.HasCreatedBy {
		w.String(6, fmd.CreatedBy)
	}
	if len(fmd.ColumnOrders) > 0 {
		w.ListHeader(7, typeStruct, len(fmd.ColumnOrders))
		for _, co := range fmd.ColumnOrders {
			writeColumnOrder(w, co)
		}
	}
	if fmd.EncryptionAlgorithm != nil {
		w.StructField(8)
		writeEncryptionAlgorithmBody(w, fmd.EncryptionAlgorithm)
		w.StructEnd()
	}
	if fmd.FooterSigningKeyMetadata != nil {
		w.Binary(9, fmd.FooterSigningKeyMetadata)
	}
	w.StructEnd()
	return w.Bytes()
}

func writeEncryptionAlgorithmBody(w *Writer, ea *EncryptionAlgorithm) {
	switch {
	case ea.AesGcmV1 != nil:
		w.StructField(1)
		a := ea.AesGcmV1
		if a.AadPrefix != nil {
			w.Binary(1, a.AadPrefix)
		}
		if a.AadFileUnique != nil {
			w.Binary(2, a.AadFileUnique)
		}
		w.Bool(3, a.SupplyAadPrefix)
		w.StructEnd()
	case ea.AesGcmCtrV1 != nil:
		w.StructField(2)
		a := ea.AesGcmCtrV1
		if a.AadPrefix != nil {
			w.Binary(1, a.AadPrefix)
		}
		if a.AadFileUnique != nil {
			w.Binary(2, a.AadFileUnique)
		}
		w.Bool(3, a.SupplyAadPrefix)
		w.StructEnd()
	}
}

// EncodePageHeader serializes a page header (spec §6); field IDs follow
// the published parquet-format Thrift IDL, which spec §1 treats as an
// external contract not covered by the retrieved decoder file.
func EncodePageHeader(h *PageHeader) []byte {
	w := NewWriter()
	w.StructBegin()
	w.I32(1, int32(h.Type))
	w.I32(2, h.UncompressedPageSize)
	w.I32(3, h.CompressedPageSize)
	if h.HasCRC {
		w.I32(4, h.CRC)
	}
	if h.DataPageHeader != nil {
		w.StructField(5)
		dph := h.DataPageHeader
		w.I32(1, dph.NumValues)
		w.I32(2, int32(dph.Encoding))
		w.I32(3, int32(dph.DefinitionLevelEncoding))
		w.I32(4, int32(dph.RepetitionLevelEncoding))
		if dph.Statistics != nil {
			w.StructField(5)
			writeStatisticsBody(w, dph.Statistics)
			w.StructEnd()
		}
		w.StructEnd()
	}
	if h.DictionaryPageHeader != nil {
		w.StructField(7)
		dph := h.DictionaryPageHeader
		w.I32(1, dph.NumValues)
		w.I32(2, int32(dph.Encoding))
		if dph.HasSorted {
			w.Bool(3, dph.IsSorted)
		}
		w.StructEnd()
	}
	if h.DataPageHeaderV2 != nil {
		w.StructField(8)
		dph := h.DataPageHeaderV2
		w.I32(1, dph.NumValues)
		w.I32(2, dph.NumNulls)
		w.I32(3, dph.NumRows)
		w.I32(4, int32(dph.Encoding))
		w.I32(5, dph.DefinitionLevelsByteLength)
		w.I32(6, dph.RepetitionLevelsByteLength)
		if dph.HasIsCompressed {
			w.Bool(7, dph.IsCompressed)
		}
		if dph.Statistics != nil {
			w.StructField(8)
			writeStatisticsBody(w, dph.Statistics)
			w.StructEnd()
		}
		w.StructEnd()
	}
	w.StructEnd()
	return w.Bytes()
}

// EncodeColumnIndex serializes a ColumnIndex (supplemented feature C.5).
func EncodeColumnIndex(ci *ColumnIndex) []byte {
	w := NewWriter()
	w.StructBegin()
	w.ListHeader(1, typeTrue, len(ci.NullPages))
	// Thrift compact bools inside a list are encoded one byte each
	// (0x01/0x02), not folded into a field header as struct bools are.
	for _, np := range ci.NullPages {
		if np {
			w.buf = append(w.buf, 1)
		} else {
			w.buf = append(w.buf, 2)
		}
	}
	w.ListHeader(2, typeBinary, len(ci.MinValues))
	for _, v := range ci.MinValues {
		w.buf = appendVarint(w.buf, int64(len(v)))
		w.buf = append(w.buf, v...)
	}
	w.ListHeader(3, typeBinary, len(ci.MaxValues))
	for _, v := range ci.MaxValues {
		w.buf = appendVarint(w.buf, int64(len(v)))
		w.buf = append(w.buf, v...)
	}
	w.I32(4, ci.BoundaryOrder)
	if ci.HasNullCounts {
		w.ListHeader(5, typeI64, len(ci.NullCounts))
		for _, c := range ci.NullCounts {
			w.buf = appendVarint(w.buf, c)
		}
	}
	w.StructEnd()
	return w.Bytes()
}

// EncodeOffsetIndex serializes an OffsetIndex (supplemented feature C.5).
func EncodeOffsetIndex(oi *OffsetIndex) []byte {
	w := NewWriter()
	w.StructBegin()
	w.ListHeader(1, typeStruct, len(oi.PageLocations))
	for _, pl := range oi.PageLocations {
		w.StructBegin()
		w.I64(1, pl.Offset)
		w.I32(2, pl.CompressedPageSize)
		w.I64(3, pl.FirstRowIndex)
		w.StructEnd()
	}
	if len(oi.UnencodedByteArrayDataBytes) > 0 {
		w.ListHeader(2, typeI64, len(oi.UnencodedByteArrayDataBytes))
		for _, v := range oi.UnencodedByteArrayDataBytes {
			w.buf = appendVarint(w.buf, v)
		}
	}
	w.StructEnd()
	return w.Bytes()
}

// EncodeFileCryptoMetaData serializes the crypto metadata that precedes an
// encrypted footer (spec §6).
func EncodeFileCryptoMetaData(fcmd *FileCryptoMetaData) []byte {
	w := NewWriter()
	w.StructBegin()
	w.StructField(1)
	writeEncryptionAlgorithmBody(w, &fcmd.EncryptionAlgorithm)
	w.StructEnd()
	if fcmd.HasKeyMetadata {
		w.Binary(2, fcmd.KeyMetadata)
	}
	w.StructEnd()
	return w.Bytes()
}

// EncodeColumnMetaData serializes a standalone ColumnMetaData, used when a
// column's metadata is encrypted separately from the footer (spec §4.8:
// per-column encrypted_column_metadata).
func EncodeColumnMetaData(cmd *ColumnMetaData) []byte {
	w := NewWriter()
	w.StructBegin()
	writeColumnMetaDataBody(w, cmd)
	w.StructEnd()
	return w.Bytes()
}

// EncodeBloomFilterHeader serializes a BloomFilterHeader (supplemented
// feature C.1); every union field here has exactly one variant in the
// current parquet-format IDL, so the body always writes that variant's
// empty struct rather than branching on a pointer.
func EncodeBloomFilterHeader(h *BloomFilterHeader) []byte {
	w := NewWriter()
	w.StructBegin()
	w.I32(1, h.NumBytes)
	w.nestedField(2, func() { w.nestedField(1, func() {}) }) // BloomFilterAlgorithm.BLOCK
	w.nestedField(3, func() { w.nestedField(1, func() {}) }) // BloomFilterHash.XXHASH
	w.nestedField(4, func() { w.nestedField(1, func() {}) }) // BloomFilterCompression.UNCOMPRESSED
	w.StructEnd()
	return w.Bytes()
}
