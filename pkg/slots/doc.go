// Package slots runs A/B slot arbitration against a disk or disk image.
//
// It binds the pure policy in package ab to a device: the partition table
// is loaded, the scheme's status words are updated, and the table is
// written back (primary and backup copies) only when something changed.
//
// Example:
//
//	res, err := slots.Select(ctx, "/dev/mmcblk0", ab.ChromeOS{}, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Println("booting", res.Identity.Name, res.Identity.UUID)
//
// ab.ErrNoBootableSlot is returned after the table has been persisted, so
// slots retired during the failed pass stay retired.
package slots
