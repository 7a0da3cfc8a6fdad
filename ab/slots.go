package ab

import "fmt"

// SlotRef binds a slot to an index in the caller's entry slice.
// Present is false when no partition occupies the slot.
type SlotRef struct {
	Entry   int
	Present bool
}

// Slots maps slot index to entry for one selection pass. Its length is the
// scheme's slot capacity.
type Slots []SlotRef

// Count returns how many slots are occupied.
func (s Slots) Count() int {
	n := 0
	for _, ref := range s {
		if ref.Present {
			n++
		}
	}
	return n
}

// SlotLetter returns the conventional slot suffix: 0 -> 'a', 1 -> 'b'.
func SlotLetter(slot int) byte {
	return byte('a' + slot)
}

// ParseSlot accepts a slot letter ("a", "B") or index ("0", "1"). Whether
// the slot exists is checked against the table later.
func ParseSlot(s string) (int, error) {
	if len(s) == 1 {
		switch c := s[0]; {
		case c >= 'a' && c <= 'z':
			return int(c - 'a'), nil
		case c >= 'A' && c <= 'Z':
			return int(c - 'A'), nil
		case c >= '0' && c <= '9':
			return int(c - '0'), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNoSuchSlot, s)
}

// Identity names the slot chosen by SelectNextSlot. ChromeOS callers
// usually consume Name and UUID; Qualcomm callers consume Letter.
type Identity struct {
	Slot   int    `json:"slot"`
	Letter string `json:"letter"`
	Name   string `json:"name"`
	UUID   string `json:"uuid"`
}
