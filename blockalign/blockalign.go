// Package blockalign detects the filesystem block size backing a
// writer's output file, so a parquet file writer can pad row-group
// boundaries to land on block boundaries (fewer blocks touched per
// scan, at the cost of some wasted space).
package blockalign

import "os"

// DefaultBlockSize is used when the underlying writer isn't a regular
// file, or block-size detection isn't supported on this platform.
const DefaultBlockSize = 4096

// Detect returns the filesystem block size for w's backing file, or
// DefaultBlockSize if w is not an *os.File or the probe fails.
func Detect(w any) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultBlockSize
	}
	size, ok := detectFile(f)
	if !ok || size <= 0 {
		return DefaultBlockSize
	}
	return size
}

// Padding returns the number of zero bytes needed to advance offset to
// the next multiple of blockSize, 0 if already aligned.
func Padding(offset int64, blockSize int) int64 {
	if blockSize <= 0 {
		return 0
	}
	rem := offset % int64(blockSize)
	if rem == 0 {
		return 0
	}
	return int64(blockSize) - rem
}
