package gpt

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/slotkit/internal/buf"
	"github.com/joshuapare/slotkit/internal/format"
)

// maxEntryArray bounds the entry array allocation. Real tables use 16 KiB;
// anything past 1 MiB is corruption.
const maxEntryArray = 1 << 20

// Header is the decoded GPT header.
type Header = format.Header

// Source identifies which on-disk copy a Table was loaded from.
type Source int

const (
	// SourcePrimary means the header at LBA 1 was valid.
	SourcePrimary Source = iota
	// SourceBackup means the primary copy was rejected and the table was
	// recovered from the header at the last LBA.
	SourceBackup
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceBackup:
		return "backup"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Table is an in-memory GPT. Header is always kept in primary form
// (MyLBA == 1) regardless of Source; Write derives the backup copy from it.
type Table struct {
	Header     Header
	Entries    []Entry
	SectorSize int64
	Source     Source
}

// Read loads the partition table from r. diskSize is used to locate the
// backup header when the primary is unusable; pass 0 to disable fallback.
func Read(r io.ReaderAt, sectorSize, diskSize int64) (*Table, error) {
	if sectorSize < format.HeaderMinSize || sectorSize%format.DefaultSectorSize != 0 {
		return nil, fmt.Errorf("%w: sector size %d", ErrGeometry, sectorSize)
	}

	t, primaryErr := readCopy(r, sectorSize, format.PrimaryHeaderLBA)
	if primaryErr == nil {
		t.Source = SourcePrimary
		return t, nil
	}

	var backupErr error
	if diskSize/sectorSize <= format.PrimaryHeaderLBA+1 {
		backupErr = fmt.Errorf("%w: disk size %d", ErrGeometry, diskSize)
	} else {
		lastLBA := uint64(diskSize/sectorSize) - 1
		t, backupErr = readCopy(r, sectorSize, lastLBA)
		if backupErr == nil {
			t.Source = SourceBackup
			t.Header = primaryForm(t.Header)
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: primary: %w; backup: %w", ErrNoTable, primaryErr, backupErr)
}

func readCopy(r io.ReaderAt, sectorSize int64, lba uint64) (*Table, error) {
	block := make([]byte, sectorSize)
	if err := readFull(r, block, int64(lba)*sectorSize); err != nil {
		return nil, fmt.Errorf("read header at lba %d: %w", lba, err)
	}
	h, err := format.ParseHeader(block)
	if err != nil {
		return nil, err
	}
	if h.MyLBA != lba {
		return nil, fmt.Errorf("header at lba %d claims lba %d: %w", lba, h.MyLBA, ErrGeometry)
	}

	size, err := buf.ArraySize(int64(h.NumEntries), int64(h.EntrySize), sectorSize)
	if err != nil {
		return nil, fmt.Errorf("entry array: %w", err)
	}
	if size > maxEntryArray {
		return nil, fmt.Errorf("entry array of %d bytes: %w", size, format.ErrUnsupported)
	}
	arr := make([]byte, size)
	if err := readFull(r, arr, int64(h.EntriesLBA)*sectorSize); err != nil {
		return nil, fmt.Errorf("read entry array at lba %d: %w", h.EntriesLBA, err)
	}
	crc, err := format.EntriesChecksum(arr, h.NumEntries, h.EntrySize)
	if err != nil {
		return nil, err
	}
	if crc != h.EntriesCRC {
		return nil, fmt.Errorf("entry array crc %#08x, want %#08x: %w", crc, h.EntriesCRC, ErrBadCRC)
	}

	es := int(h.EntrySize)
	entries := make([]Entry, h.NumEntries)
	for i := range entries {
		entries[i] = decodeEntry(arr[i*es : (i+1)*es])
	}
	return &Table{Header: h, Entries: entries, SectorSize: sectorSize}, nil
}

// primaryForm rewrites a backup header as the primary that should sit at
// LBA 1, with its entry array immediately after it.
func primaryForm(backup Header) Header {
	h := backup
	h.MyLBA = format.PrimaryHeaderLBA
	h.AlternateLBA = backup.MyLBA
	h.EntriesLBA = format.PrimaryHeaderLBA + 1
	return h
}

// backupForm is the inverse of primaryForm. The backup entry array sits
// right after the last usable LBA.
func backupForm(primary Header) Header {
	h := primary
	h.MyLBA = primary.AlternateLBA
	h.AlternateLBA = primary.MyLBA
	h.EntriesLBA = primary.LastUsableLBA + 1
	return h
}

// Write stores both copies of the table: primary entry array and header,
// then backup entry array and header. Checksums are recomputed; t.Header is
// updated with the new values on success. The protective MBR is untouched.
func (t *Table) Write(w io.WriterAt) error {
	h := t.Header
	if int(h.NumEntries) != len(t.Entries) {
		return fmt.Errorf("gpt: header declares %d entries, table has %d", h.NumEntries, len(t.Entries))
	}
	if h.MyLBA != format.PrimaryHeaderLBA {
		return fmt.Errorf("%w: header not in primary form (lba %d)", ErrGeometry, h.MyLBA)
	}

	size, err := buf.ArraySize(int64(h.NumEntries), int64(h.EntrySize), t.SectorSize)
	if err != nil {
		return fmt.Errorf("gpt: entry array: %w", err)
	}
	arr := make([]byte, size)
	es := int(h.EntrySize)
	for i := range t.Entries {
		encodeEntry(arr[i*es:(i+1)*es], &t.Entries[i])
	}
	if h.EntriesCRC, err = format.EntriesChecksum(arr, h.NumEntries, h.EntrySize); err != nil {
		return err
	}

	block := make([]byte, t.SectorSize)
	primary, err := h.Encode(block)
	if err != nil {
		return err
	}
	if err := writeFull(w, arr, int64(primary.EntriesLBA)*t.SectorSize); err != nil {
		return fmt.Errorf("gpt: write primary entries: %w", err)
	}
	if err := writeFull(w, block, int64(primary.MyLBA)*t.SectorSize); err != nil {
		return fmt.Errorf("gpt: write primary header: %w", err)
	}

	backup, err := backupForm(h).Encode(block)
	if err != nil {
		return err
	}
	if err := writeFull(w, arr, int64(backup.EntriesLBA)*t.SectorSize); err != nil {
		return fmt.Errorf("gpt: write backup entries: %w", err)
	}
	if err := writeFull(w, block, int64(backup.MyLBA)*t.SectorSize); err != nil {
		return fmt.Errorf("gpt: write backup header: %w", err)
	}

	t.Header = primary
	return nil
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := *t
	c.Entries = make([]Entry, len(t.Entries))
	for i, e := range t.Entries {
		if e.extra != nil {
			e.extra = append([]byte(nil), e.extra...)
		}
		c.Entries[i] = e
	}
	return &c
}

// Find returns the index of the first used entry with the given unique
// GUID.
func (t *Table) Find(unique GUID) (int, bool) {
	for i := range t.Entries {
		if t.Entries[i].IsUsed() && t.Entries[i].Unique == unique {
			return i, true
		}
	}
	return 0, false
}

func readFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func writeFull(w io.WriterAt, p []byte, off int64) error {
	n, err := w.WriteAt(p, off)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}
