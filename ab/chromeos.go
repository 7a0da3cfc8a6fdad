package ab

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/slotkit/gpt"
)

// ChromeOS status word layout (bit 0 = GPT attribute bit 48):
//
//	Bits   Field
//	0-3    priority
//	4-7    tries remaining
//	8      successful
//	9-15   reserved, zero on encode
const (
	crosPriorityShift   = 0
	crosPriorityMask    = 0xF
	crosTriesShift      = 4
	crosTriesMask       = 0xF
	crosSuccessfulShift = 8
)

// ChromeOSAttributes is the decoded ChromeOS kernel status word.
type ChromeOSAttributes struct {
	Priority   uint8 // 0-15, 0 = never boot
	Tries      uint8 // 0-15
	Successful bool
}

// DecodeChromeOS unpacks w. Reserved bits are ignored.
func DecodeChromeOS(w uint16) ChromeOSAttributes {
	return ChromeOSAttributes{
		Priority:   uint8(w>>crosPriorityShift) & crosPriorityMask,
		Tries:      uint8(w>>crosTriesShift) & crosTriesMask,
		Successful: w>>crosSuccessfulShift&1 == 1,
	}
}

// Encode packs a. Out-of-range fields are truncated to their bit width.
func (a ChromeOSAttributes) Encode() uint16 {
	w := uint16(a.Priority&crosPriorityMask)<<crosPriorityShift |
		uint16(a.Tries&crosTriesMask)<<crosTriesShift
	if a.Successful {
		w |= 1 << crosSuccessfulShift
	}
	return w
}

// Disabled reports the all-zero pattern left behind by MarkUnbootable.
func (a ChromeOSAttributes) Disabled() bool {
	return a.Priority == 0 && a.Tries == 0 && !a.Successful
}

// Bootable reports a slot that has either booted before or has tries left.
func (a ChromeOSAttributes) Bootable() bool {
	return a.Successful || a.Tries > 0
}

// MarkUnbootable returns the disabled pattern.
func (a ChromeOSAttributes) MarkUnbootable() ChromeOSAttributes {
	return ChromeOSAttributes{}
}

// DecrementTries consumes one try, saturating at zero.
func (a ChromeOSAttributes) DecrementTries() ChromeOSAttributes {
	if a.Tries > 0 {
		a.Tries--
	}
	return a
}

// MarkSuccessful records a confirmed boot the way chromeos-setgoodkernel
// does: successful set, tries cleared, priority kept.
func (a ChromeOSAttributes) MarkSuccessful() ChromeOSAttributes {
	a.Successful = true
	a.Tries = 0
	return a
}

func (a ChromeOSAttributes) String() string {
	return fmt.Sprintf("priority=%d tries=%d successful=%t", a.Priority, a.Tries, a.Successful)
}

// ChromeOS is the Scheme for ChromeOS kernel partitions. Slots are assigned
// in partition table order.
type ChromeOS struct {
	// MaxSlots caps the number of kernel partitions. Zero means NumSlots.
	MaxSlots int
}

var _ Scheme = ChromeOS{}

func (ChromeOS) Name() string { return "chromeos" }

// Locate assigns slots to ChromeOS kernel partitions in table order. More
// kernels than MaxSlots is an error and yields no slots.
func (c ChromeOS) Locate(entries []gpt.Entry, log *slog.Logger) (Slots, error) {
	limit := capacity(c.MaxSlots)
	slots := make(Slots, limit)
	n := 0
	for i := range entries {
		if entries[i].Type != ChromeOSKernelType {
			continue
		}
		if n >= limit {
			log.Error("more kernel partitions than supported", "scheme", c.Name(), "max", limit)
			return nil, fmt.Errorf("%w: %s allows %d kernel partitions", ErrOverCapacity, c.Name(), limit)
		}
		slots[n] = SlotRef{Entry: i, Present: true}
		log.Debug("found kernel partition", "scheme", c.Name(), "slot", string(SlotLetter(n)), "name", entries[i].Label())
		n++
	}
	return slots, nil
}

func (ChromeOS) Disabled(w uint16) bool { return DecodeChromeOS(w).Disabled() }
func (ChromeOS) Bootable(w uint16) bool { return DecodeChromeOS(w).Bootable() }

func (ChromeOS) ComparePriority(a, b uint16) int {
	return int(DecodeChromeOS(a).Priority) - int(DecodeChromeOS(b).Priority)
}

func (ChromeOS) MarkUnbootable(w uint16) uint16 {
	return DecodeChromeOS(w).MarkUnbootable().Encode()
}

func (ChromeOS) DecrementTries(w uint16) uint16 {
	return DecodeChromeOS(w).DecrementTries().Encode()
}

func (ChromeOS) MarkSuccessful(w uint16) uint16 {
	return DecodeChromeOS(w).MarkSuccessful().Encode()
}

func (ChromeOS) Describe(w uint16) Attributes {
	a := DecodeChromeOS(w)
	return Attributes{Priority: a.Priority, Tries: a.Tries, Successful: a.Successful}
}
