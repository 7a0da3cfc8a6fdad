package gpt

import (
	"fmt"
	"io"
	"math"

	"github.com/joshuapare/slotkit/internal/buf"
	"github.com/joshuapare/slotkit/internal/format"
)

// New returns an empty table sized for a disk of diskSize bytes with the
// usual 128 entries of 128 bytes each. Nothing is written until Write.
func New(diskSize, sectorSize int64) (*Table, error) {
	if sectorSize < format.HeaderMinSize || sectorSize%format.DefaultSectorSize != 0 {
		return nil, fmt.Errorf("%w: sector size %d", ErrGeometry, sectorSize)
	}
	arr, err := buf.ArraySize(format.DefaultNumEntries, format.EntryMinSize, sectorSize)
	if err != nil {
		return nil, err
	}
	arraySectors := uint64(arr / sectorSize)
	sectors := uint64(diskSize / sectorSize)
	// MBR + 2 headers + 2 arrays + at least one usable sector.
	if sectors < 2*arraySectors+4 {
		return nil, fmt.Errorf("%w: disk of %d bytes too small", ErrGeometry, diskSize)
	}
	lastLBA := sectors - 1

	return &Table{
		Header: Header{
			Revision:       format.Revision10,
			HeaderSize:     format.HeaderMinSize,
			MyLBA:          format.PrimaryHeaderLBA,
			AlternateLBA:   lastLBA,
			FirstUsableLBA: format.PrimaryHeaderLBA + 1 + arraySectors,
			LastUsableLBA:  lastLBA - arraySectors - 1,
			DiskGUID:       NewGUID(),
			EntriesLBA:     format.PrimaryHeaderLBA + 1,
			NumEntries:     format.DefaultNumEntries,
			EntrySize:      format.EntryMinSize,
		},
		Entries:    make([]Entry, format.DefaultNumEntries),
		SectorSize: sectorSize,
	}, nil
}

// Add stores e in the first unused entry and returns its index.
func (t *Table) Add(e Entry) (int, error) {
	if !e.IsUsed() {
		return 0, fmt.Errorf("gpt: add entry with zero type guid")
	}
	for i := range t.Entries {
		if !t.Entries[i].IsUsed() {
			t.Entries[i] = e
			return i, nil
		}
	}
	return 0, ErrTableFull
}

// WriteProtectiveMBR writes the LBA 0 protective MBR for a GPT disk of
// diskSize bytes.
func WriteProtectiveMBR(w io.WriterAt, diskSize, sectorSize int64) error {
	if sectorSize < format.DefaultSectorSize {
		return fmt.Errorf("%w: sector size %d", ErrGeometry, sectorSize)
	}
	mbr := make([]byte, sectorSize)
	p := mbr[format.MBRPartitionOffset:]
	p[1], p[2], p[3] = 0x00, 0x02, 0x00 // CHS 0/0/2
	p[format.MBRTypeOffset] = format.MBRProtectiveType
	p[5], p[6], p[7] = 0xFF, 0xFF, 0xFF
	buf.PutU32LE(p, format.MBRStartLBAOffset, format.PrimaryHeaderLBA)

	size := uint64(diskSize/sectorSize) - 1
	if size > math.MaxUint32 {
		size = math.MaxUint32
	}
	buf.PutU32LE(p, format.MBRSizeOffset, uint32(size))
	copy(mbr[format.MBRSignatureOffset:], format.MBRSignature)

	return writeFull(w, mbr, 0)
}
