// Package blockdev opens disks and disk images for positioned I/O.
//
// A Device remembers every byte range written through it so callers can
// report what changed and flush only when something did.
package blockdev

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/slotkit/internal/format"
)

// ErrReadOnly is returned by WriteAt on a device opened without Writable.
var ErrReadOnly = errors.New("blockdev: device opened read-only")

// FlushMode controls how much Sync asks of the kernel.
type FlushMode int

const (
	// FlushAuto issues fdatasync (fsync where fdatasync is unavailable).
	FlushAuto FlushMode = iota
	// FlushNone skips the sync call entirely. Writes are left to the page
	// cache.
	FlushNone
	// FlushFull additionally requests F_FULLFSYNC on macOS.
	FlushFull
)

// Options configures Open.
type Options struct {
	// Writable opens the device read-write.
	Writable bool
	// SectorSize overrides detection. Zero means detect, falling back to
	// 512 for regular files.
	SectorSize int64
}

// Device is an open disk or image file.
//
// NOT thread-safe for writes. Reads may run concurrently.
type Device struct {
	f          *os.File
	path       string
	size       int64
	sectorSize int64
	writable   bool
	ranges     []Range
}

// Open opens path as a device.
func Open(path string, opts Options) (*Device, error) {
	flag := os.O_RDONLY
	if opts.Writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}

	d := &Device{f: f, path: path, writable: opts.Writable}
	if err := d.probe(opts.SectorSize); err != nil {
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) probe(override int64) error {
	// Seek works for both regular files and block devices, where Stat
	// reports a zero size.
	size, err := d.f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("blockdev: size of %s: %w", d.path, err)
	}
	d.size = size

	ss := override
	if ss == 0 {
		ss, err = sectorSize(d.f)
		if err != nil {
			return fmt.Errorf("blockdev: sector size of %s: %w", d.path, err)
		}
	}
	if ss == 0 {
		ss = format.DefaultSectorSize
	}
	if ss < format.DefaultSectorSize || ss&(ss-1) != 0 {
		return fmt.Errorf("blockdev: invalid sector size %d", ss)
	}
	d.sectorSize = ss
	return nil
}

// Path returns the path the device was opened with.
func (d *Device) Path() string { return d.path }

// Size returns the device size in bytes.
func (d *Device) Size() int64 { return d.size }

// SectorSize returns the logical block size.
func (d *Device) SectorSize() int64 { return d.sectorSize }

// Writable reports whether WriteAt is permitted.
func (d *Device) Writable() bool { return d.writable }

// ReadAt implements io.ReaderAt.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	return d.f.ReadAt(p, off)
}

// WriteAt implements io.WriterAt and records the written range.
func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	if !d.writable {
		return 0, ErrReadOnly
	}
	if off < 0 || off+int64(len(p)) > d.size {
		return 0, fmt.Errorf("blockdev: write [%d,%d) outside %d-byte device", off, off+int64(len(p)), d.size)
	}
	n, err := d.f.WriteAt(p, off)
	if n > 0 {
		d.ranges = append(d.ranges, Range{Off: off, Len: int64(n)})
	}
	return n, err
}

// Written returns the sector-aligned, coalesced ranges written since Open
// or the last Sync.
func (d *Device) Written() []Range {
	return coalesce(d.ranges, d.sectorSize)
}

// Sync flushes written data according to mode. It is a no-op when nothing
// was written.
func (d *Device) Sync(ctx context.Context, mode FlushMode) error {
	if len(d.ranges) == 0 || mode == FlushNone {
		d.ranges = d.ranges[:0]
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := syncFile(d.f, mode == FlushFull); err != nil {
		return fmt.Errorf("blockdev: sync %s: %w", d.path, err)
	}
	d.ranges = d.ranges[:0]
	return nil
}

// Close releases the device.
func (d *Device) Close() error {
	return d.f.Close()
}
