package slots

import (
	"context"
	"fmt"

	"github.com/joshuapare/slotkit/ab"
	"github.com/joshuapare/slotkit/gpt"
	"github.com/joshuapare/slotkit/internal/blockdev"
)

// SlotStatus describes one occupied slot.
type SlotStatus struct {
	Slot       int           `json:"slot"`
	Letter     string        `json:"letter"`
	Entry      int           `json:"entry"`
	Name       string        `json:"name"`
	UUID       string        `json:"uuid"`
	Word       uint16        `json:"status_word"`
	Attributes ab.Attributes `json:"attributes"`
	Disabled   bool          `json:"disabled"`
	Bootable   bool          `json:"bootable"`
}

// Report is the read-only view returned by Status.
type Report struct {
	Path     string       `json:"path"`
	Scheme   string       `json:"scheme"`
	Table    string       `json:"table"`
	DiskGUID string       `json:"disk_guid"`
	Slots    []SlotStatus `json:"slots"`
}

// Status lists the occupied slots of scheme on the disk at path. It never
// writes.
func Status(ctx context.Context, path string, scheme ab.Scheme, opts *Options) (*Report, error) {
	o := opts.withDefaults()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dev, err := blockdev.Open(path, blockdev.Options{SectorSize: o.SectorSize})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer dev.Close()

	t, err := load(dev, o)
	if err != nil {
		return nil, err
	}
	return describe(path, t, scheme, o)
}

func describe(path string, t *gpt.Table, scheme ab.Scheme, o Options) (*Report, error) {
	located, err := scheme.Locate(t.Entries, o.Logger)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Path:     path,
		Scheme:   scheme.Name(),
		Table:    t.Source.String(),
		DiskGUID: gpt.GUID(t.Header.DiskGUID).String(),
		Slots:    make([]SlotStatus, 0, located.Count()),
	}
	for slot, ref := range located {
		if !ref.Present {
			continue
		}
		e := &t.Entries[ref.Entry]
		w := e.StatusWord()
		r.Slots = append(r.Slots, SlotStatus{
			Slot:       slot,
			Letter:     string(ab.SlotLetter(slot)),
			Entry:      ref.Entry,
			Name:       e.Label(),
			UUID:       e.Unique.String(),
			Word:       w,
			Attributes: scheme.Describe(w),
			Disabled:   scheme.Disabled(w),
			Bootable:   scheme.Bootable(w),
		})
	}
	return r, nil
}
