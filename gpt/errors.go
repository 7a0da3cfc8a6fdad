package gpt

import (
	"errors"

	"github.com/joshuapare/slotkit/internal/format"
)

var (
	// ErrNoTable indicates that neither the primary nor the backup GPT could
	// be loaded. The wrapped errors describe why each copy was rejected.
	ErrNoTable = errors.New("gpt: no valid partition table")
	// ErrBadCRC indicates a header or entry array checksum mismatch.
	ErrBadCRC = format.ErrChecksum
	// ErrBadSignature indicates a header without the "EFI PART" signature.
	ErrBadSignature = format.ErrSignatureMismatch
	// ErrTruncated indicates the device is too small for the table it claims.
	ErrTruncated = format.ErrTruncated
	// ErrNameTooLong indicates a name exceeding 36 UTF-16 code units.
	ErrNameTooLong = errors.New("gpt: partition name too long")
	// ErrTableFull indicates every entry in the array is already in use.
	ErrTableFull = errors.New("gpt: partition table full")
	// ErrGeometry indicates an unusable sector size or disk size.
	ErrGeometry = errors.New("gpt: invalid disk geometry")
)
