//go:build darwin

package blockdev

import (
	"os"

	"golang.org/x/sys/unix"
)

func sectorSize(*os.File) (int64, error) {
	return 0, nil
}

// syncFile uses F_FULLFSYNC when full is set, fsync otherwise. macOS has
// no fdatasync.
func syncFile(f *os.File, full bool) error {
	if full {
		_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(int(f.Fd()))
}
