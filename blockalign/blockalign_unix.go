//go:build linux || darwin

package blockalign

import (
	"os"

	"golang.org/x/sys/unix"
)

// detectFile returns f's filesystem block size via Fstatfs, or ok=false if
// the syscall fails (e.g. f is backed by an unusual filesystem).
func detectFile(f *os.File) (int, bool) {
	var st unix.Statfs_t
	if err := unix.Fstatfs(int(f.Fd()), &st); err != nil {
		return 0, false
	}
	if st.Bsize <= 0 {
		return 0, false
	}
	return int(st.Bsize), true
}
