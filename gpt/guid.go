package gpt

import (
	"fmt"

	"github.com/google/uuid"
)

// GUID is a 16-byte identifier stored the way GPT stores it: the first three
// groups little-endian, the last two big-endian.
type GUID [16]byte

// swapGUID converts between the on-disk mixed-endian layout and RFC 4122
// byte order. The transformation is its own inverse.
func swapGUID(b [16]byte) [16]byte {
	return [16]byte{
		b[3], b[2], b[1], b[0],
		b[5], b[4],
		b[7], b[6],
		b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15],
	}
}

// ParseGUID parses the canonical text form, e.g.
// "fe3a2a5d-4f32-41a7-b725-accc3285a309".
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("gpt: parse guid %q: %w", s, err)
	}
	return FromUUID(u), nil
}

// MustParseGUID is like ParseGUID but panics on error. It is meant for
// package-level well-known type GUIDs.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGUID returns a random (version 4) GUID.
func NewGUID() GUID {
	return FromUUID(uuid.New())
}

// FromUUID converts an RFC 4122 UUID to on-disk GUID order.
func FromUUID(u uuid.UUID) GUID {
	return GUID(swapGUID(u))
}

// UUID converts g to RFC 4122 byte order.
func (g GUID) UUID() uuid.UUID {
	return uuid.UUID(swapGUID(g))
}

// String returns the lowercase canonical text form.
func (g GUID) String() string {
	return g.UUID().String()
}

// IsZero reports whether g is the all-zero GUID, which marks an unused entry.
func (g GUID) IsZero() bool {
	return g == GUID{}
}
