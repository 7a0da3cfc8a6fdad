package ab

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuapare/slotkit/gpt"
)

// Qualcomm status word layout (bit 0 = GPT attribute bit 48):
//
//	Bits   Field
//	0-1    priority
//	2      active
//	3-5    tries remaining
//	6      successful
//	7      unbootable
//	8-15   reserved, zero on encode
const (
	qcomPriorityShift   = 0
	qcomPriorityMask    = 0x3
	qcomActiveShift     = 2
	qcomTriesShift      = 3
	qcomTriesMask       = 0x7
	qcomSuccessfulShift = 6
	qcomUnbootableShift = 7
)

// qcomBootPrefix is the name every Qualcomm boot image partition carries,
// followed by the slot letter.
const qcomBootPrefix = "boot_"

// QualcommAttributes is the decoded Qualcomm boot image status word.
type QualcommAttributes struct {
	Priority   uint8 // 0-3
	Active     bool
	Tries      uint8 // 0-7
	Successful bool
	Unbootable bool
}

// DecodeQualcomm unpacks w. Reserved bits are ignored.
func DecodeQualcomm(w uint16) QualcommAttributes {
	return QualcommAttributes{
		Priority:   uint8(w>>qcomPriorityShift) & qcomPriorityMask,
		Active:     w>>qcomActiveShift&1 == 1,
		Tries:      uint8(w>>qcomTriesShift) & qcomTriesMask,
		Successful: w>>qcomSuccessfulShift&1 == 1,
		Unbootable: w>>qcomUnbootableShift&1 == 1,
	}
}

// Encode packs a. Out-of-range fields are truncated to their bit width.
func (a QualcommAttributes) Encode() uint16 {
	w := uint16(a.Priority&qcomPriorityMask)<<qcomPriorityShift |
		uint16(a.Tries&qcomTriesMask)<<qcomTriesShift
	if a.Active {
		w |= 1 << qcomActiveShift
	}
	if a.Successful {
		w |= 1 << qcomSuccessfulShift
	}
	if a.Unbootable {
		w |= 1 << qcomUnbootableShift
	}
	return w
}

// Disabled reports the explicit unbootable bit.
func (a QualcommAttributes) Disabled() bool {
	return a.Unbootable
}

// Bootable requires tries left and no unbootable bit. Successful is not
// consulted: a slot that drained its tries is retired even if it once
// booted.
func (a QualcommAttributes) Bootable() bool {
	return !a.Unbootable && a.Tries > 0
}

// MarkUnbootable sets unbootable and clears priority, tries and successful.
// Active is preserved.
func (a QualcommAttributes) MarkUnbootable() QualcommAttributes {
	a.Unbootable = true
	a.Successful = false
	a.Tries = 0
	a.Priority = 0
	return a
}

// DecrementTries consumes one try, saturating at zero.
func (a QualcommAttributes) DecrementTries() QualcommAttributes {
	if a.Tries > 0 {
		a.Tries--
	}
	return a
}

// MarkSuccessful sets successful and clears unbootable. Tries are kept so
// the slot stays Bootable.
func (a QualcommAttributes) MarkSuccessful() QualcommAttributes {
	a.Successful = true
	a.Unbootable = false
	return a
}

func (a QualcommAttributes) String() string {
	return fmt.Sprintf("priority=%d active=%t tries=%d successful=%t unbootable=%t",
		a.Priority, a.Active, a.Tries, a.Successful, a.Unbootable)
}

// Qualcomm is the Scheme for Qualcomm boot image partitions. Slots are
// assigned by the letter in the partition name, not by table order.
type Qualcomm struct {
	// MaxSlots bounds the accepted letters to 'a'..'a'+MaxSlots-1. Zero
	// means NumSlots.
	MaxSlots int
}

var _ Scheme = Qualcomm{}

func (Qualcomm) Name() string { return "qcom" }

// Locate maps boot_a/boot_b partitions to slots 0/1. Boot image partitions
// with any other name are logged and skipped. If two partitions claim the
// same letter the later one wins.
func (q Qualcomm) Locate(entries []gpt.Entry, log *slog.Logger) (Slots, error) {
	slots := make(Slots, capacity(q.MaxSlots))
	for i := range entries {
		if entries[i].Type != QualcommBootType {
			continue
		}
		name := entries[i].Label()
		slot, ok := qcomSlotFromName(name, len(slots))
		if !ok {
			log.Error("boot image partition with unexpected name", "scheme", q.Name(), "name", name)
			continue
		}
		if slots[slot].Present {
			log.Warn("duplicate boot partition, using the later one", "scheme", q.Name(), "name", name)
		}
		slots[slot] = SlotRef{Entry: i, Present: true}
		log.Debug("found boot partition", "scheme", q.Name(), "name", name)
	}
	return slots, nil
}

// qcomSlotFromName parses "boot_" followed by exactly one slot letter
// below 'a'+limit.
func qcomSlotFromName(name string, limit int) (int, bool) {
	if len(name) != len(qcomBootPrefix)+1 || !strings.HasPrefix(name, qcomBootPrefix) {
		return 0, false
	}
	slot := int(name[len(qcomBootPrefix)]) - 'a'
	if slot < 0 || slot >= limit {
		return 0, false
	}
	return slot, true
}

func (Qualcomm) Disabled(w uint16) bool { return DecodeQualcomm(w).Disabled() }
func (Qualcomm) Bootable(w uint16) bool { return DecodeQualcomm(w).Bootable() }

func (Qualcomm) ComparePriority(a, b uint16) int {
	return int(DecodeQualcomm(a).Priority) - int(DecodeQualcomm(b).Priority)
}

func (Qualcomm) MarkUnbootable(w uint16) uint16 {
	return DecodeQualcomm(w).MarkUnbootable().Encode()
}

func (Qualcomm) DecrementTries(w uint16) uint16 {
	return DecodeQualcomm(w).DecrementTries().Encode()
}

func (Qualcomm) MarkSuccessful(w uint16) uint16 {
	return DecodeQualcomm(w).MarkSuccessful().Encode()
}

func (Qualcomm) Describe(w uint16) Attributes {
	a := DecodeQualcomm(w)
	return Attributes{
		Priority:   a.Priority,
		Tries:      a.Tries,
		Successful: a.Successful,
		Active:     a.Active,
		Unbootable: a.Unbootable,
	}
}
