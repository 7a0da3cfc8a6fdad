package ab

import "errors"

var (
	// ErrOverCapacity indicates more candidate partitions than slots.
	// Nothing is mutated when it is returned.
	ErrOverCapacity = errors.New("ab: more slots than supported")
	// ErrNoBootableSlot indicates that no candidate was bootable. Slots
	// disabled during the pass stay disabled and Result.Dirty reports it.
	ErrNoBootableSlot = errors.New("ab: no bootable slot")
	// ErrUnknownScheme indicates an unrecognised scheme name.
	ErrUnknownScheme = errors.New("ab: unknown scheme")
	// ErrNoSuchSlot indicates a slot index with no partition behind it.
	ErrNoSuchSlot = errors.New("ab: no such slot")
)
