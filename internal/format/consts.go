// Package format houses low-level decoders and encoders for the GUID
// Partition Table (GPT) on-disk format. It knows byte offsets, sizes and
// checksums, and nothing about what partitions mean; the public gpt package
// builds the ergonomic table model on top of it.
package format

// HeaderSignature is the eight-byte signature at the start of a GPT header.
//
//	0x00  'E' 'F' 'I' ' ' 'P' 'A' 'R' 'T'
var HeaderSignature = []byte{'E', 'F', 'I', ' ', 'P', 'A', 'R', 'T'}

const (
	// DefaultSectorSize is the logical block size assumed when the device
	// cannot report one (regular image files).
	DefaultSectorSize = 512

	// PrimaryHeaderLBA is the LBA of the primary header. LBA 0 holds the
	// protective MBR.
	PrimaryHeaderLBA = 1

	// Revision10 is the only GPT revision in the wild (1.0).
	Revision10 = 0x00010000

	// HeaderMinSize is the size of the defined header fields (92 bytes).
	// HeaderSize in the header may be larger, up to one logical block.
	HeaderMinSize = 0x5C

	// EntryMinSize is the smallest legal partition entry size. Entry size
	// must be 128 * 2^n.
	EntryMinSize = 128

	// DefaultNumEntries is the entry count written by common partitioners.
	DefaultNumEntries = 128

	// NameUnits is the number of UTF-16 code units in an entry name.
	NameUnits = 36
)

// GPT header field offsets.
//
//	Offset  Size  Field
//	0x00    8     Signature "EFI PART"
//	0x08    4     Revision
//	0x0C    4     Header size
//	0x10    4     Header CRC32 (computed with this field zeroed)
//	0x14    4     Reserved, must be zero
//	0x18    8     My LBA
//	0x20    8     Alternate LBA
//	0x28    8     First usable LBA
//	0x30    8     Last usable LBA
//	0x38    16    Disk GUID
//	0x48    8     Partition entry array LBA
//	0x50    4     Number of partition entries
//	0x54    4     Size of a partition entry
//	0x58    4     Partition entry array CRC32
const (
	HeaderSignatureOffset  = 0x00
	HeaderSignatureSize    = 8
	HeaderRevisionOffset   = 0x08
	HeaderSizeOffset       = 0x0C
	HeaderCRCOffset        = 0x10
	HeaderReservedOffset   = 0x14
	HeaderMyLBAOffset      = 0x18
	HeaderAltLBAOffset     = 0x20
	HeaderFirstUsableLBA   = 0x28
	HeaderLastUsableLBA    = 0x30
	HeaderDiskGUIDOffset   = 0x38
	HeaderEntriesLBAOffset = 0x48
	HeaderNumEntriesOffset = 0x50
	HeaderEntrySizeOffset  = 0x54
	HeaderEntriesCRCOffset = 0x58
)

// Partition entry field offsets.
//
//	Offset  Size  Field
//	0x00    16    Partition type GUID
//	0x10    16    Unique partition GUID
//	0x20    8     First LBA
//	0x28    8     Last LBA (inclusive)
//	0x30    8     Attribute flags
//	0x38    72    Partition name, 36 UTF-16LE code units
const (
	EntryTypeGUIDOffset   = 0x00
	EntryUniqueGUIDOffset = 0x10
	EntryFirstLBAOffset   = 0x20
	EntryLastLBAOffset    = 0x28
	EntryAttrOffset       = 0x30
	EntryNameOffset       = 0x38
	EntryNameSize         = NameUnits * 2
	GUIDSize              = 16
)

// Attribute bits. Bits 48..63 are reserved for the partition type and carry
// the vendor boot-status word.
const (
	AttrRequiredPartition = 1 << 0
	AttrNoBlockIOProtocol = 1 << 1
	AttrLegacyBIOSBoot    = 1 << 2

	// TypeSpecificShift positions the 16-bit type-specific field.
	TypeSpecificShift = 48
	// TypeSpecificMask selects bits 48..63.
	TypeSpecificMask = uint64(0xFFFF) << TypeSpecificShift
)

// Protective MBR layout (LBA 0).
const (
	MBRPartitionOffset = 0x1BE
	MBRSignatureOffset = 0x1FE
	MBRTypeOffset      = 4
	MBRStartLBAOffset  = 8
	MBRSizeOffset      = 12

	// MBRProtectiveType marks the single MBR partition covering a GPT disk.
	MBRProtectiveType = 0xEE
)

// MBRSignature terminates every MBR.
var MBRSignature = []byte{0x55, 0xAA}
