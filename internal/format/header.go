package format

import (
	"bytes"
	"fmt"
	"hash/crc32"

	"github.com/joshuapare/slotkit/internal/buf"
)

// Header captures a GPT header. The same layout is used for the primary copy
// at LBA 1 and the backup copy at the last LBA of the disk; only MyLBA,
// AlternateLBA and EntriesLBA differ between the two.
type Header struct {
	Revision       uint32
	HeaderSize     uint32
	HeaderCRC      uint32
	MyLBA          uint64
	AlternateLBA   uint64
	FirstUsableLBA uint64
	LastUsableLBA  uint64
	DiskGUID       [GUIDSize]byte
	EntriesLBA     uint64
	NumEntries     uint32
	EntrySize      uint32
	EntriesCRC     uint32
}

// ParseHeader validates and decodes a GPT header from one logical block.
// The header CRC is verified; the entry array CRC is left to the caller
// because it covers bytes outside b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderMinSize {
		return Header{}, fmt.Errorf("gpt header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:HeaderSignatureSize], HeaderSignature) {
		return Header{}, fmt.Errorf("gpt header: %w", ErrSignatureMismatch)
	}
	h := Header{
		Revision:       buf.U32LE(b[HeaderRevisionOffset:]),
		HeaderSize:     buf.U32LE(b[HeaderSizeOffset:]),
		HeaderCRC:      buf.U32LE(b[HeaderCRCOffset:]),
		MyLBA:          buf.U64LE(b[HeaderMyLBAOffset:]),
		AlternateLBA:   buf.U64LE(b[HeaderAltLBAOffset:]),
		FirstUsableLBA: buf.U64LE(b[HeaderFirstUsableLBA:]),
		LastUsableLBA:  buf.U64LE(b[HeaderLastUsableLBA:]),
		EntriesLBA:     buf.U64LE(b[HeaderEntriesLBAOffset:]),
		NumEntries:     buf.U32LE(b[HeaderNumEntriesOffset:]),
		EntrySize:      buf.U32LE(b[HeaderEntrySizeOffset:]),
		EntriesCRC:     buf.U32LE(b[HeaderEntriesCRCOffset:]),
	}
	copy(h.DiskGUID[:], b[HeaderDiskGUIDOffset:HeaderDiskGUIDOffset+GUIDSize])

	if h.HeaderSize < HeaderMinSize || int(h.HeaderSize) > len(b) {
		return Header{}, fmt.Errorf("gpt header: size %d: %w", h.HeaderSize, ErrUnsupported)
	}
	if h.EntrySize < EntryMinSize || h.EntrySize%EntryMinSize != 0 {
		return Header{}, fmt.Errorf("gpt header: entry size %d: %w", h.EntrySize, ErrUnsupported)
	}
	if got := HeaderChecksum(b[:h.HeaderSize]); got != h.HeaderCRC {
		return Header{}, fmt.Errorf("gpt header: crc %#08x, want %#08x: %w", got, h.HeaderCRC, ErrChecksum)
	}
	return h, nil
}

// Encode writes h into b, which must be at least HeaderSize bytes long, and
// recomputes HeaderCRC. Bytes between HeaderMinSize and len(b) are zeroed.
// The updated header (with its new CRC) is returned.
func (h Header) Encode(b []byte) (Header, error) {
	if h.HeaderSize == 0 {
		h.HeaderSize = HeaderMinSize
	}
	if int(h.HeaderSize) > len(b) || h.HeaderSize < HeaderMinSize {
		return h, fmt.Errorf("gpt header: encode size %d into %d bytes: %w", h.HeaderSize, len(b), ErrTruncated)
	}
	clear(b)
	copy(b, HeaderSignature)
	buf.PutU32LE(b, HeaderRevisionOffset, h.Revision)
	buf.PutU32LE(b, HeaderSizeOffset, h.HeaderSize)
	buf.PutU64LE(b, HeaderMyLBAOffset, h.MyLBA)
	buf.PutU64LE(b, HeaderAltLBAOffset, h.AlternateLBA)
	buf.PutU64LE(b, HeaderFirstUsableLBA, h.FirstUsableLBA)
	buf.PutU64LE(b, HeaderLastUsableLBA, h.LastUsableLBA)
	copy(b[HeaderDiskGUIDOffset:], h.DiskGUID[:])
	buf.PutU64LE(b, HeaderEntriesLBAOffset, h.EntriesLBA)
	buf.PutU32LE(b, HeaderNumEntriesOffset, h.NumEntries)
	buf.PutU32LE(b, HeaderEntrySizeOffset, h.EntrySize)
	buf.PutU32LE(b, HeaderEntriesCRCOffset, h.EntriesCRC)

	h.HeaderCRC = HeaderChecksum(b[:h.HeaderSize])
	buf.PutU32LE(b, HeaderCRCOffset, h.HeaderCRC)
	return h, nil
}

// HeaderChecksum computes the CRC32 of a header as if its CRC field were
// zero. b must cover exactly HeaderSize bytes.
func HeaderChecksum(b []byte) uint32 {
	if len(b) < HeaderMinSize {
		return 0
	}
	crc := crc32.Update(0, crc32.IEEETable, b[:HeaderCRCOffset])
	crc = crc32.Update(crc, crc32.IEEETable, []byte{0, 0, 0, 0})
	return crc32.Update(crc, crc32.IEEETable, b[HeaderCRCOffset+4:])
}

// EntriesChecksum computes the CRC32 over NumEntries*EntrySize bytes of the
// partition entry array.
func EntriesChecksum(entries []byte, numEntries, entrySize uint32) (uint32, error) {
	n, ok := buf.MulOverflowSafe(int64(numEntries), int64(entrySize))
	if !ok || n > int64(len(entries)) {
		return 0, fmt.Errorf("gpt entries: need %d bytes, have %d: %w", n, len(entries), ErrTruncated)
	}
	return crc32.ChecksumIEEE(entries[:n]), nil
}
