//go:build linux

package blockdev

import (
	"os"

	"golang.org/x/sys/unix"
)

// sectorSize asks the kernel for the logical block size of block devices.
// Regular files report zero.
func sectorSize(f *os.File) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Mode()&os.ModeDevice == 0 {
		return 0, nil
	}
	n, err := unix.IoctlGetInt(int(f.Fd()), unix.BLKSSZGET)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// syncFile uses fdatasync. The full flag is ignored on Linux.
func syncFile(f *os.File, _ bool) error {
	return unix.Fdatasync(int(f.Fd()))
}
