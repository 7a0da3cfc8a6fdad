// Package testutil builds GPT disk images for tests without touching real
// block devices.
package testutil

import (
	"fmt"
	"io"
)

// MemDisk is a fixed-size in-memory disk implementing io.ReaderAt and
// io.WriterAt. Writes past the end fail, as they would on a device.
type MemDisk struct {
	data   []byte
	Writes int // number of successful WriteAt calls
}

// NewMemDisk returns a zero-filled disk of size bytes.
func NewMemDisk(size int64) *MemDisk {
	return &MemDisk{data: make([]byte, size)}
}

// ReadAt implements io.ReaderAt.
func (d *MemDisk) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("memdisk: negative offset %d", off)
	}
	if off >= int64(len(d.data)) {
		return 0, io.EOF
	}
	n := copy(p, d.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt.
func (d *MemDisk) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(d.data)) {
		return 0, fmt.Errorf("memdisk: write [%d,%d) outside disk of %d bytes", off, off+int64(len(p)), len(d.data))
	}
	copy(d.data[off:], p)
	d.Writes++
	return len(p), nil
}

// Size returns the disk size in bytes.
func (d *MemDisk) Size() int64 {
	return int64(len(d.data))
}

// Bytes exposes the backing buffer. Tests use it to corrupt or snapshot the
// image.
func (d *MemDisk) Bytes() []byte {
	return d.data
}

// Snapshot returns a copy of the backing buffer.
func (d *MemDisk) Snapshot() []byte {
	return append([]byte(nil), d.data...)
}
