// Package ab arbitrates between redundant A/B boot slots recorded in a GPT.
//
// Each slot is a partition whose type-specific attribute bits (48..63) hold
// a boot status word holding a priority, a retry budget and a "successful"
// flag. On every boot SelectNextSlot picks the bootable slot with the
// highest priority and consumes one try from it. Slots that ran out of
// tries without ever succeeding are permanently disabled. A failed update therefore rolls
// back to the previous image after a bounded number of attempts.
//
// Two encodings of the status word are supported, both implementing Scheme:
//
//   - ChromeOS: kernel partitions, 4-bit priority and tries, slot = table order
//   - Qualcomm: boot_a/boot_b image partitions, 2-bit priority, 3-bit tries,
//     explicit unbootable bit, slot = name suffix
//
// The package performs no I/O. It mutates Entry.Attributes in the slice it
// is given and reports through Result.Dirty whether the caller must write
// the table back.
package ab
