package ab

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/slotkit/gpt"
)

// Result reports the outcome of one selection pass.
type Result struct {
	// Identity is the chosen slot. Zero when no slot was bootable.
	Identity Identity `json:"identity"`
	// Dirty is true when any entry was mutated; the caller must persist
	// the table.
	Dirty bool `json:"dirty"`
	// Disabled lists the slots retired during this pass.
	Disabled []int `json:"disabled,omitempty"`
}

// Option configures SelectNextSlot.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger routes diagnostics to l. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// SelectNextSlot chooses the slot to boot, mutating entries in place:
//
//  1. disabled slots are skipped untouched;
//  2. slots that are not bootable are reset to the disabled pattern;
//  3. the bootable slot with the strictly highest priority wins, ties going
//     to the lower slot index;
//  4. the winner loses one try.
//
// Only the status word (attribute bits 48..63) of located candidates is
// ever changed. On ErrOverCapacity nothing is mutated and Dirty is false.
// On ErrNoBootableSlot the returned Result is still meaningful: Dirty and
// Disabled describe the slots retired during the pass, and the caller
// should persist them.
//
// SelectNextSlot must not be called concurrently on the same slice.
func SelectNextSlot(entries []gpt.Entry, s Scheme, opts ...Option) (Result, error) {
	o := newOptions(opts)

	slots, err := s.Locate(entries, o.log)
	if err != nil {
		return Result{}, err
	}

	var (
		res      Result
		best     int
		haveBest bool
	)
	for slot, ref := range slots {
		if !ref.Present {
			continue
		}
		e := &entries[ref.Entry]
		w := e.StatusWord()
		if s.Disabled(w) {
			continue
		}
		if !s.Bootable(w) {
			o.log.Debug("marking slot unbootable", "scheme", s.Name(), "name", e.Label(), "attributes", s.Describe(w))
			e.SetStatusWord(s.MarkUnbootable(w))
			res.Dirty = true
			res.Disabled = append(res.Disabled, slot)
			continue
		}
		if !haveBest || s.ComparePriority(w, entries[slots[best].Entry].StatusWord()) > 0 {
			best, haveBest = slot, true
		}
	}

	if !haveBest {
		o.log.Error("no bootable partition found", "scheme", s.Name(), "candidates", slots.Count())
		return res, fmt.Errorf("%s: %w", s.Name(), ErrNoBootableSlot)
	}

	e := &entries[slots[best].Entry]
	e.SetStatusWord(s.DecrementTries(e.StatusWord()))
	res.Dirty = true
	res.Identity = Identity{
		Slot:   best,
		Letter: string(SlotLetter(best)),
		Name:   e.Label(),
		UUID:   e.Unique.String(),
	}
	o.log.Debug("next slot selected", "scheme", s.Name(), "slot", res.Identity.Letter,
		"name", res.Identity.Name, "uuid", res.Identity.UUID)
	return res, nil
}

// MarkSuccessful flags slot as having booted successfully. It returns
// ErrNoSuchSlot when no partition occupies the slot. The returned bool
// reports whether the status word changed.
func MarkSuccessful(entries []gpt.Entry, s Scheme, slot int, opts ...Option) (bool, error) {
	o := newOptions(opts)
	slots, err := s.Locate(entries, o.log)
	if err != nil {
		return false, err
	}
	if slot < 0 || slot >= len(slots) || !slots[slot].Present {
		return false, fmt.Errorf("%w: %s has no slot %d", ErrNoSuchSlot, s.Name(), slot)
	}
	ref := slots[slot]
	e := &entries[ref.Entry]
	old := e.StatusWord()
	w := s.MarkSuccessful(old)
	if w == old {
		return false, nil
	}
	e.SetStatusWord(w)
	o.log.Debug("slot marked successful", "scheme", s.Name(), "name", e.Label(), "attributes", s.Describe(w))
	return true, nil
}
