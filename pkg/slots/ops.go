package slots

import (
	"context"

	"github.com/joshuapare/slotkit/ab"
	"github.com/joshuapare/slotkit/gpt"
)

// Select picks the slot to boot from the disk at path and records the
// attempt on disk.
//
// When no slot is bootable the error wraps ab.ErrNoBootableSlot and the
// returned Result still describes slots disabled during the pass; those
// changes have already been written. ab.ErrOverCapacity leaves the disk
// untouched.
func Select(ctx context.Context, path string, scheme ab.Scheme, opts *Options) (ab.Result, error) {
	o := opts.withDefaults()

	var res ab.Result
	err := update(ctx, path, o, func(t *gpt.Table) (bool, error) {
		var err error
		res, err = ab.SelectNextSlot(t.Entries, scheme, ab.WithLogger(o.Logger))
		return res.Dirty, err
	})
	if err != nil {
		return res, err
	}
	o.Logger.Info("next slot selected", "path", path, "scheme", scheme.Name(),
		"slot", res.Identity.Letter, "name", res.Identity.Name, "uuid", res.Identity.UUID)
	return res, nil
}

// MarkSuccessful flags slot as having booted successfully. The returned
// bool is false when the slot was already marked and nothing was written.
func MarkSuccessful(ctx context.Context, path string, scheme ab.Scheme, slot int, opts *Options) (bool, error) {
	o := opts.withDefaults()

	var changed bool
	err := update(ctx, path, o, func(t *gpt.Table) (bool, error) {
		var err error
		changed, err = ab.MarkSuccessful(t.Entries, scheme, slot, ab.WithLogger(o.Logger))
		return changed, err
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}
