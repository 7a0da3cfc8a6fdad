package ab

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuapare/slotkit/gpt"
)

// NumSlots is the default number of redundant slots per scheme.
const NumSlots = 2

// capacity resolves a scheme's MaxSlots field.
func capacity(maxSlots int) int {
	if maxSlots <= 0 {
		return NumSlots
	}
	return maxSlots
}

// Well-known partition type GUIDs.
var (
	// ChromeOSKernelType marks ChromeOS kernel partitions (KERN-A, KERN-B).
	ChromeOSKernelType = gpt.MustParseGUID("fe3a2a5d-4f32-41a7-b725-accc3285a309")
	// QualcommBootType marks Android boot image partitions on Qualcomm
	// platforms (boot_a, boot_b).
	QualcommBootType = gpt.MustParseGUID("20117f86-e985-4357-b9ee-374bc1d8487d")
)

// Scheme is one encoding of the boot status word together with the rule
// that identifies its candidate partitions. The selection algorithm is
// written once against this interface.
//
// All word methods are pure: mutators return the new word and never touch
// an entry themselves.
type Scheme interface {
	// Name is the short scheme identifier ("chromeos", "qcom").
	Name() string
	// Locate maps candidate entries to slots. It never mutates entries.
	Locate(entries []gpt.Entry, log *slog.Logger) (Slots, error)

	// Disabled reports the terminal "never boot again" pattern.
	Disabled(word uint16) bool
	// Bootable reports whether the slot may be chosen this boot.
	Bootable(word uint16) bool
	// ComparePriority returns >0 if a outranks b, <0 if b outranks a, and
	// 0 when they are equal.
	ComparePriority(a, b uint16) int

	// MarkUnbootable returns word reset to the disabled pattern.
	MarkUnbootable(word uint16) uint16
	// DecrementTries returns word with one try consumed, saturating at 0.
	DecrementTries(word uint16) uint16
	// MarkSuccessful returns word flagged as having booted successfully.
	MarkSuccessful(word uint16) uint16

	// Describe decodes word into the scheme-neutral view.
	Describe(word uint16) Attributes
}

// Attributes is a scheme-neutral view of a status word used for reporting.
// Fields a scheme does not define are always false.
type Attributes struct {
	Priority   uint8 `json:"priority"`
	Tries      uint8 `json:"tries"`
	Successful bool  `json:"successful"`
	Active     bool  `json:"active"`
	Unbootable bool  `json:"unbootable"`
}

// SchemeByName resolves a scheme from its name or a common alias.
func SchemeByName(name string) (Scheme, error) {
	switch strings.ToLower(name) {
	case "chromeos", "cros":
		return ChromeOS{}, nil
	case "qcom", "qualcomm":
		return Qualcomm{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want chromeos or qcom)", ErrUnknownScheme, name)
	}
}

// Schemes lists every supported scheme.
func Schemes() []Scheme {
	return []Scheme{ChromeOS{}, Qualcomm{}}
}
