//go:build !linux && !darwin

package blockalign

import "os"

// detectFile has no portable block-size syscall outside linux/darwin;
// callers fall back to DefaultBlockSize.
func detectFile(f *os.File) (int, bool) {
	return 0, false
}
