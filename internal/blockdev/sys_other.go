//go:build !linux && !darwin

package blockdev

import "os"

func sectorSize(*os.File) (int64, error) {
	return 0, nil
}

func syncFile(f *os.File, _ bool) error {
	return f.Sync()
}
