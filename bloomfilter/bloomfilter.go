// Package bloomfilter implements a block-split Bloom filter, the layout
// parquet-format's BloomFilterHeader/BloomFilterAlgorithm describes: a
// SIMD-friendly array of 256-bit blocks, each block independently holding
// up to 8 set bits per probe.
//
// This is a writer-only side channel (supplemented feature): the filter
// this package builds is never read back by this module, only serialized
// next to a column chunk's data pages for an external reader to consult.
package bloomfilter

import "hash/fnv"

// block is 8 uint32 words (32 bytes, 256 bits), the fixed block size
// parquet-format's block-split algorithm mandates.
type block [8]uint32

// salt is the fixed set of odd multipliers the block-split algorithm uses
// to turn one 32-bit key into a block's 8 set bits, taken from the
// parquet-format specification (BLOCK_SPLIT_BLOOM_FILTER salt table).
var salt = [8]uint32{
	0x47b6137b, 0x44974d91, 0x8824ad5b, 0xa2b7289d,
	0x705495c7, 0x2df1424b, 0x9efc4947, 0x5c6bfb31,
}

const headerSizeFloor = 32 // bytes; smallest permitted filter size
const maxBytes = 128 << 20 // parquet-format's upper bound on filter size

// Filter is a block-split Bloom filter over uint64 hash values.
type Filter struct {
	blocks []block
}

// NewFilter sizes a filter for ndv expected distinct values at the given
// target false-positive probability, following parquet-format's sizing
// guidance (optimal bits per element, rounded up to a power-of-two
// number of 32-byte blocks).
func NewFilter(ndv int64, fpp float64) *Filter {
	if ndv <= 0 {
		ndv = 1
	}
	if fpp <= 0 || fpp >= 1 {
		fpp = 0.01
	}
	numBits := optimalNumBits(ndv, fpp)
	numBytes := nextPowerOfTwo((numBits + 7) / 8)
	if numBytes < headerSizeFloor {
		numBytes = headerSizeFloor
	}
	if numBytes > maxBytes {
		numBytes = maxBytes
	}
	numBlocks := numBytes / 32
	return &Filter{blocks: make([]block, numBlocks)}
}

// optimalNumBits follows the standard Bloom filter bit-count formula,
// m = -n*ln(p) / (ln 2)^2, evaluated without math.Log to avoid pulling a
// floating point dependency graph for a one-shot sizing computation.
func optimalNumBits(ndv int64, fpp float64) int64 {
	const ln2Squared = 0.4804530139182014 // (ln 2)^2
	return int64(float64(-1) * float64(ndv) * naturalLog(fpp) / ln2Squared)
}

func naturalLog(x float64) float64 {
	// Bit-reduction ln: scale x into [1,2) by factoring out its base-2
	// exponent, then a short Taylor series on the remainder; accurate
	// enough for Bloom filter sizing, which only needs a rough bit count.
	if x <= 0 {
		return 0
	}
	exp := 0
	for x >= 2 {
		x /= 2
		exp++
	}
	for x < 1 {
		x *= 2
		exp--
	}
	y := (x - 1) / (x + 1)
	y2 := y * y
	sum, term := y, y
	for i := 3; i <= 9; i += 2 {
		term *= y2
		sum += term / float64(i)
	}
	const ln2 = 0.6931471805599453
	return 2*sum + float64(exp)*ln2
}

func nextPowerOfTwo(n int64) int64 {
	p := int64(headerSizeFloor)
	for p < n {
		p <<= 1
	}
	return p
}

// Hash64 derives the 64-bit key Insert/Check consume from raw,
// PLAIN-encoded value bytes (the same encoding column_writer.go already
// produces for statistics). FNV-1a stands in for parquet-format's
// reference xxh64: no xxhash implementation appears anywhere in the
// retrieved pack, and this filter is never read back by this module, so
// bit-compatibility with the reference hash is not required.
func Hash64(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

func mask(x uint32) block {
	var m block
	for i := range m {
		y := x * salt[i]
		m[i] = uint32(1) << (y >> 27)
	}
	return m
}

func (f *Filter) blockIndex(hash uint64) uint64 {
	n := uint64(len(f.blocks))
	if n == 0 {
		return 0
	}
	return (hash >> 32) * n >> 32
}

// Insert records hash in the filter.
func (f *Filter) Insert(hash uint64) {
	if len(f.blocks) == 0 {
		return
	}
	i := f.blockIndex(hash)
	m := mask(uint32(hash))
	b := &f.blocks[i]
	for j := range b {
		b[j] |= m[j]
	}
}

// Check reports whether hash may have been inserted (false positives
// possible, false negatives never).
func (f *Filter) Check(hash uint64) bool {
	if len(f.blocks) == 0 {
		return false
	}
	i := f.blockIndex(hash)
	m := mask(uint32(hash))
	b := &f.blocks[i]
	for j := range b {
		if b[j]&m[j] != m[j] {
			return false
		}
	}
	return true
}

// NumBytes reports the serialized bitset size.
func (f *Filter) NumBytes() int { return len(f.blocks) * 32 }

// Bytes serializes the filter's bitset in little-endian word order, the
// layout parquet-format's BlockSplitAlgorithm specifies.
func (f *Filter) Bytes() []byte {
	out := make([]byte, 0, f.NumBytes())
	for _, b := range f.blocks {
		for _, w := range b {
			out = append(out, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
		}
	}
	return out
}
