package gpt

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/slotkit/internal/buf"
	"github.com/joshuapare/slotkit/internal/format"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Entry is one partition entry. Entries are values; the Table owns the
// backing slice and callers mutate entries through &t.Entries[i].
type Entry struct {
	Type       GUID
	Unique     GUID
	FirstLBA   uint64
	LastLBA    uint64
	Attributes uint64
	RawName    [format.NameUnits]uint16

	// extra holds bytes past the 128-byte layout when the header declares a
	// larger entry size, so they survive a read/write cycle.
	extra []byte
}

// IsUsed reports whether the entry describes a partition.
func (e *Entry) IsUsed() bool {
	return !e.Type.IsZero()
}

// StatusWord returns the type-specific attribute bits 48..63.
func (e *Entry) StatusWord() uint16 {
	return uint16(e.Attributes >> format.TypeSpecificShift)
}

// SetStatusWord replaces bits 48..63 and leaves bits 0..47 alone.
func (e *Entry) SetStatusWord(w uint16) {
	e.Attributes = e.Attributes&^format.TypeSpecificMask | uint64(w)<<format.TypeSpecificShift
}

// Name decodes the UTF-16LE partition name up to the first NUL.
func (e *Entry) Name() string {
	raw := make([]byte, 0, format.EntryNameSize)
	for _, u := range e.RawName {
		if u == 0 {
			break
		}
		raw = append(raw, byte(u), byte(u>>8))
	}
	s, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return e.Label()
	}
	return string(s)
}

// Label returns the name as printable ASCII. Every code unit outside
// 0x20..0x7e becomes '.', so the result is always one byte per code unit
// and safe to export into boot environment variables.
func (e *Entry) Label() string {
	out := make([]byte, 0, format.NameUnits)
	for _, u := range e.RawName {
		if u == 0 {
			break
		}
		if u >= 0x20 && u < 0x7f {
			out = append(out, byte(u))
		} else {
			out = append(out, '.')
		}
	}
	return string(out)
}

// SetName encodes name as UTF-16LE. Names longer than 36 code units are
// rejected rather than truncated.
func (e *Entry) SetName(name string) error {
	b, err := utf16le.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return fmt.Errorf("gpt: encode name %q: %w", name, err)
	}
	if len(b)/2 > format.NameUnits {
		return fmt.Errorf("%w: %q is %d code units", ErrNameTooLong, name, len(b)/2)
	}
	var raw [format.NameUnits]uint16
	for i := 0; i+1 < len(b); i += 2 {
		raw[i/2] = buf.U16LE(b[i:])
	}
	e.RawName = raw
	return nil
}

func decodeEntry(b []byte) Entry {
	var e Entry
	copy(e.Type[:], b[format.EntryTypeGUIDOffset:])
	copy(e.Unique[:], b[format.EntryUniqueGUIDOffset:])
	e.FirstLBA = buf.U64LE(b[format.EntryFirstLBAOffset:])
	e.LastLBA = buf.U64LE(b[format.EntryLastLBAOffset:])
	e.Attributes = buf.U64LE(b[format.EntryAttrOffset:])
	for i := range e.RawName {
		e.RawName[i] = buf.U16LE(b[format.EntryNameOffset+2*i:])
	}
	if len(b) > format.EntryMinSize {
		e.extra = append([]byte(nil), b[format.EntryMinSize:]...)
	}
	return e
}

func encodeEntry(b []byte, e *Entry) {
	clear(b)
	copy(b[format.EntryTypeGUIDOffset:], e.Type[:])
	copy(b[format.EntryUniqueGUIDOffset:], e.Unique[:])
	buf.PutU64LE(b, format.EntryFirstLBAOffset, e.FirstLBA)
	buf.PutU64LE(b, format.EntryLastLBAOffset, e.LastLBA)
	buf.PutU64LE(b, format.EntryAttrOffset, e.Attributes)
	for i, u := range e.RawName {
		buf.PutU16LE(b, format.EntryNameOffset+2*i, u)
	}
	if len(b) > format.EntryMinSize {
		copy(b[format.EntryMinSize:], e.extra)
	}
}
