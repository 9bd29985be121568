package parquet

import "github.com/columnar-go/parquetwrite/format"

// WriterVersion selects the column-writer policy spec §4.2 describes:
// V1 concatenates levels and values before compressing; V2 compresses
// values independently of (uncompressed) levels and exposes num_rows/
// num_nulls explicitly on the page header.
type WriterVersion int8

const (
	V1 WriterVersion = iota
	V2
)

// WriterConfig configures a Writer. Use Options.Apply to build one from
// a variadic Option list, the same functional-options shape the
// teacher's schema.Options/Option pair uses.
type WriterConfig struct {
	Version                 WriterVersion
	Compression             format.CompressionCodec
	PageSizeThreshold       int64
	RowGroupSizeThreshold   int64
	DictionarySizeThreshold int64
	EnableCRC               bool
	VerifyChecksums         bool
	EnableDictionary        bool
	TrackDistinctCount      bool
	MinRowCountForPageCheck int64
	MaxRowCountForPageCheck int64
	BlockAlignPadding       bool
	CreatedBy               string
	KeyValueMetadata        map[string]string
	Encryption              *EncryptionConfig
	BloomFilterColumns      map[string]BloomFilterOptions
}

// BloomFilterOptions sizes the block-split Bloom filter side-channel for
// one column (supplemented feature C.1): NDV is the expected number of
// distinct values, FPP the target false-positive probability.
type BloomFilterOptions struct {
	NDV int64
	FPP float64
}

// Option mutates a WriterConfig during construction.
type Option func(*WriterConfig)

// Options is an ordered list of Option values that can be applied to a
// fresh default config.
type Options []Option

// Apply builds a WriterConfig starting from DefaultWriterConfig and
// applying each option in order.
func (opts Options) Apply() *WriterConfig {
	cfg := DefaultWriterConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// DefaultWriterConfig returns the baseline configuration: V2 writer,
// uncompressed, 1 MiB pages, 128 MiB row groups, 1 MiB dictionary cap,
// CRC and dictionary encoding enabled.
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Version:                 V2,
		Compression:             format.Uncompressed,
		PageSizeThreshold:       1 << 20,
		RowGroupSizeThreshold:   128 << 20,
		DictionarySizeThreshold: 1 << 20,
		EnableCRC:               true,
		EnableDictionary:        true,
		MinRowCountForPageCheck: 100,
		MaxRowCountForPageCheck: 10000,
		CreatedBy:               "parquetwrite version 1.0.0 (build dev)",
		KeyValueMetadata:        map[string]string{},
		BloomFilterColumns:      map[string]BloomFilterOptions{},
	}
}

func WithVersion(v WriterVersion) Option { return func(c *WriterConfig) { c.Version = v } }

func WithCompression(codec format.CompressionCodec) Option {
	return func(c *WriterConfig) { c.Compression = codec }
}

func WithPageSize(n int64) Option { return func(c *WriterConfig) { c.PageSizeThreshold = n } }

func WithRowGroupSize(n int64) Option {
	return func(c *WriterConfig) { c.RowGroupSizeThreshold = n }
}

func WithDictionarySize(n int64) Option {
	return func(c *WriterConfig) { c.DictionarySizeThreshold = n }
}

func WithCRC(enabled bool) Option { return func(c *WriterConfig) { c.EnableCRC = enabled } }

// WithVerifyChecksums decodes every compressed page immediately after
// encoding it and compares the result with the uncompressed input,
// returning ErrChecksumMismatch if the configured codec produced a page
// that does not decode back to the same bytes. Off by default; a debug
// aid against a misbehaving compression codec, not a normal-path cost.
func WithVerifyChecksums(enabled bool) Option {
	return func(c *WriterConfig) { c.VerifyChecksums = enabled }
}

// WithBloomFilter enables a block-split Bloom filter side-channel on the
// named column (dotted path), sized for ndv expected distinct values at
// the given false-positive probability.
func WithBloomFilter(path string, ndv int64, fpp float64) Option {
	return func(c *WriterConfig) { c.BloomFilterColumns[path] = BloomFilterOptions{NDV: ndv, FPP: fpp} }
}

func WithDictionaryEncoding(enabled bool) Option {
	return func(c *WriterConfig) { c.EnableDictionary = enabled }
}

func WithDistinctCount(enabled bool) Option {
	return func(c *WriterConfig) { c.TrackDistinctCount = enabled }
}

func WithBlockAlignPadding(enabled bool) Option {
	return func(c *WriterConfig) { c.BlockAlignPadding = enabled }
}

func WithKeyValueMetadata(key, value string) Option {
	return func(c *WriterConfig) { c.KeyValueMetadata[key] = value }
}

func WithEncryption(enc *EncryptionConfig) Option {
	return func(c *WriterConfig) { c.Encryption = enc }
}
