package format

import "errors"

var (
	// ErrSignatureMismatch indicates a header did not start with "EFI PART".
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrChecksum indicates a CRC32 did not match the covered bytes.
	ErrChecksum = errors.New("format: checksum mismatch")
	// ErrUnsupported indicates a header field outside what this package handles.
	ErrUnsupported = errors.New("format: unsupported feature")
)
