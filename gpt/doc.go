// Package gpt reads and writes GUID Partition Tables.
//
// # Overview
//
// This package loads the primary (or, failing that, the backup) GPT from any
// io.ReaderAt, exposes the partition entries as plain values that callers
// may mutate in place, and writes both copies back with freshly computed
// CRC32 checksums.
//
// # Key Types
//
//   - Table: header, entry array, and the geometry it was read with
//   - Entry: one partition entry, including the 64-bit attribute field
//   - GUID: a 16-byte identifier in on-disk (mixed-endian) byte order
//
// # Disk Layout
//
//	LBA 0          protective MBR
//	LBA 1          primary header
//	LBA 2..        primary entry array
//	...            partitions
//	LBA N-33..N-2  backup entry array
//	LBA N-1        backup header
//
// # Loading a Table
//
//	t, err := gpt.Read(dev, dev.SectorSize(), dev.Size())
//	if errors.Is(err, gpt.ErrNoTable) {
//	    // neither header was usable
//	}
//
// # Status Words
//
// Bits 48..63 of Entry.Attributes are reserved for the partition type. A/B
// boot schemes keep their per-slot state there; StatusWord and
// SetStatusWord access that field without touching the other bits.
//
// # Thread Safety
//
// A Table is a plain value. It is not safe for concurrent mutation.
//
// # Related Packages
//
//   - github.com/joshuapare/slotkit/ab: slot selection over Table.Entries
//   - github.com/joshuapare/slotkit/pkg/slots: device-level operations
package gpt
