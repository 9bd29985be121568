package format

// Type is the physical primitive type of a schema leaf.
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FieldRepetitionType is a schema node's repetition.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// Encoding identifies a value or level encoding used on a page.
type Encoding int32

const (
	Plain Encoding = iota
	// GroupVarInt is defined by parquet-format but unused by any writer;
	// kept only so the enum numbering matches the wire contract.
	GroupVarInt
	PlainDictionary
	RLE
	BitPackedDeprecated
	DeltaBinaryPacked
	DeltaLengthByteArray
	DeltaByteArray
	RLEDictionary
	ByteStreamSplit
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the page/column-chunk compression codec.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	LZOCompression
	Brotli
	LZ4 // deprecated hadoop-framed variant, not implemented by this writer
	Zstd
	LZ4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case Brotli:
		return "BROTLI"
	case Zstd:
		return "ZSTD"
	case LZ4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN"
	}
}

// PageType identifies the kind of page a PageHeader describes.
type PageType int32

const (
	DataPage PageType = iota
	IndexPage
	DictionaryPage
	DataPageV2
)

// ConvertedType is the deprecated predecessor of LogicalType, still
// required for backward-compatible readers.
type ConvertedType int32

const (
	ConvertedUTF8 ConvertedType = iota
	ConvertedMap
	ConvertedMapKeyValue
	ConvertedList
	ConvertedEnum
	ConvertedDecimal
	ConvertedDate
	ConvertedTimeMillis
	ConvertedTimeMicros
	ConvertedTimestampMillis
	ConvertedTimestampMicros
	ConvertedUint8
	ConvertedUint16
	ConvertedUint32
	ConvertedUint64
	ConvertedInt8
	ConvertedInt16
	ConvertedInt32
	ConvertedInt64
	ConvertedJSON
	ConvertedBSON
	ConvertedInterval
)

// TimeUnit selects the unit for TIME_*/TIMESTAMP_* logical types.
type TimeUnit struct {
	Millis *struct{}
	Micros *struct{}
	Nanos  *struct{}
}

// DecimalType is the DECIMAL logical type annotation.
type DecimalType struct {
	Scale     int32
	Precision int32
}

// TimeType is the TIME_* logical type annotation.
type TimeType struct {
	IsAdjustedToUTC bool
	Unit            TimeUnit
}

// TimestampType is the TIMESTAMP_* logical type annotation.
type TimestampType struct {
	IsAdjustedToUTC bool
	Unit            TimeUnit
}

// IntType is the INT(bitWidth, isSigned) logical type annotation.
type IntType struct {
	BitWidth int8
	IsSigned bool
}

// LogicalType is a tagged union of the annotations spec §3 lists; exactly
// one field is non-nil.
type LogicalType struct {
	UTF8      *struct{}
	Map       *struct{}
	List      *struct{}
	Enum      *struct{}
	Decimal   *DecimalType
	Date      *struct{}
	Time      *TimeType
	Timestamp *TimestampType
	Integer   *IntType
	Unknown   *struct{}
	JSON      *struct{}
	BSON      *struct{}
	UUID      *struct{}
}

// SchemaElement is one pre-order node of FileMetaData.Schema: a group when
// Type is nil, a leaf otherwise.
type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	ConvertedType  *ConvertedType
	Scale          *int32
	Precision      *int32
	FieldID        int32
	LogicalType    *LogicalType
}

// Statistics holds per-column (or per-page, in a DataPageHeader) value
// statistics.
type Statistics struct {
	Max           []byte
	Min           []byte
	NullCount     int64
	HasNullCount  bool
	DistinctCount int64
	HasDistinct   bool
	MaxValue      []byte
	MinValue      []byte
}

// KeyValue is one FileMetaData.KeyValueMetadata entry.
type KeyValue struct {
	Key   string
	Value string
}

// SortingColumn describes one column of a row group's sort order.
type SortingColumn struct {
	ColumnIdx  int32
	Descending bool
	NullsFirst bool
}

// PageEncodingStats counts pages of one PageType/Encoding combination
// within a column chunk.
type PageEncodingStats struct {
	PageType PageType
	Encoding Encoding
	Count    int32
}

// DataPageHeader is the V1 data-page sub-struct.
type DataPageHeader struct {
	NumValues               int32
	Encoding                Encoding
	DefinitionLevelEncoding Encoding
	RepetitionLevelEncoding Encoding
	Statistics               *Statistics
}

// DataPageHeaderV2 is the V2 data-page sub-struct.
type DataPageHeaderV2 struct {
	NumValues                 int32
	NumNulls                  int32
	NumRows                   int32
	Encoding                  Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
	IsCompressed               bool
	HasIsCompressed            bool
	Statistics                 *Statistics
}

// DictionaryPageHeader is the dictionary-page sub-struct.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  bool
	HasSorted bool
}

// PageHeader is the common header every page type shares, plus exactly one
// populated type-specific sub-struct.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	CRC                  int32
	HasCRC               bool
	DataPageHeader       *DataPageHeader
	DictionaryPageHeader *DictionaryPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
}

// ColumnMetaData is the per-column-chunk metadata record.
type ColumnMetaData struct {
	Type                  Type
	Encoding              []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []KeyValue
	DataPageOffset        int64
	IndexPageOffset       int64
	HasIndexPageOffset    bool
	DictionaryPageOffset  int64
	HasDictionaryPageOffset bool
	Statistics            Statistics
	HasStatistics         bool
	EncodingStats         []PageEncodingStats
	BloomFilterOffset     int64
	HasBloomFilterOffset  bool
	BloomFilterLength     int32
	HasBloomFilterLength  bool
}

// EncryptionWithFooterKey marks a column as encrypted with the file's
// single footer key.
type EncryptionWithFooterKey struct{}

// EncryptionWithColumnKey marks a column as encrypted with its own key.
type EncryptionWithColumnKey struct {
	PathInSchema []string
	KeyMetadata  []byte
}

// ColumnCryptoMetaData is the tagged union of the two key modes above.
type ColumnCryptoMetaData struct {
	EncryptionWithFooterKey *EncryptionWithFooterKey
	EncryptionWithColumnKey *EncryptionWithColumnKey
}

// ColumnChunk locates and describes one column's data within a row group.
type ColumnChunk struct {
	FilePath                string
	HasFilePath             bool
	FileOffset              int64
	MetaData                ColumnMetaData
	HasMetaData             bool
	OffsetIndexOffset       int64
	HasOffsetIndexOffset    bool
	OffsetIndexLength       int32
	HasOffsetIndexLength    bool
	ColumnIndexOffset       int64
	HasColumnIndexOffset    bool
	ColumnIndexLength       int32
	HasColumnIndexLength    bool
	CryptoMetadata          *ColumnCryptoMetaData
	EncryptedColumnMetadata []byte
}

// RowGroup is an ordered list of column chunks plus row-group level
// metadata.
type RowGroup struct {
	Columns             []ColumnChunk
	TotalByteSize       int64
	NumRows             int64
	SortingColumns      []SortingColumn
	FileOffset          int64
	HasFileOffset       bool
	TotalCompressedSize int64
	HasTotalCompressedSize bool
	Ordinal             int16
	HasOrdinal          bool
}

// TypeDefinedOrder marks a column as using its type's natural ordering.
type TypeDefinedOrder struct{}

// ColumnOrder is currently always TypeDefinedOrder in files this writer
// produces.
type ColumnOrder struct {
	TypeOrder *TypeDefinedOrder
}

// AesGcmV1 carries AAD derivation parameters for the AES_GCM_V1 algorithm.
type AesGcmV1 struct {
	AadPrefix       []byte
	AadFileUnique   []byte
	SupplyAadPrefix bool
}

// AesGcmCtrV1 carries AAD derivation parameters for the AES_GCM_CTR_V1
// algorithm.
type AesGcmCtrV1 struct {
	AadPrefix       []byte
	AadFileUnique   []byte
	SupplyAadPrefix bool
}

// EncryptionAlgorithm is the tagged union of the two supported algorithms.
type EncryptionAlgorithm struct {
	AesGcmV1    *AesGcmV1
	AesGcmCtrV1 *AesGcmCtrV1
}

// FileCryptoMetaData precedes the encrypted footer for encrypted-footer
// files (spec §6).
type FileCryptoMetaData struct {
	EncryptionAlgorithm EncryptionAlgorithm
	KeyMetadata         []byte
	HasKeyMetadata      bool
}

// PageLocation is one OffsetIndex entry.
type PageLocation struct {
	Offset             int64
	CompressedPageSize int32
	FirstRowIndex      int64
}

// OffsetIndex records the byte offset of every page in a column chunk
// (supplemented feature C.5).
type OffsetIndex struct {
	PageLocations               []PageLocation
	UnencodedByteArrayDataBytes []int64
}

// ColumnIndex records per-page min/max/null statistics for a column chunk
// (supplemented feature C.5).
type ColumnIndex struct {
	NullPages     []bool
	MinValues     [][]byte
	MaxValues     [][]byte
	BoundaryOrder int32 // 0=UNORDERED 1=ASCENDING 2=DESCENDING
	NullCounts    []int64
	HasNullCounts bool
}

// BloomFilterHeader precedes a column chunk's Bloom filter bitset
// (supplemented feature C.1). NumBytes is the bitset length; Algorithm,
// Hash and Compression are all fixed at 0 (the only variant
// parquet-format currently defines: SPLIT_BLOCK / XXHASH / UNCOMPRESSED).
type BloomFilterHeader struct {
	NumBytes    int32
	Algorithm   int8 // 0 = SPLIT_BLOCK
	Hash        int8 // 0 = XXHASH
	Compression int8 // 0 = UNCOMPRESSED
}

// FileMetaData is the root footer structure (spec §6).
type FileMetaData struct {
	Version              int32
	Schema               []SchemaElement
	NumRows              int64
	RowGroups            []RowGroup
	KeyValueMetadata     []KeyValue
	CreatedBy            string
	HasCreatedBy         bool
	ColumnOrders         []ColumnOrder
	EncryptionAlgorithm  *EncryptionAlgorithm
	FooterSigningKeyMetadata []byte
}
