package ab

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/gpt"
	"github.com/joshuapare/slotkit/internal/testutil"
)

var linuxData = gpt.MustParseGUID("0fc63daf-8483-4772-8e79-3d69e47de4c4")

func cros(priority, tries uint8, successful bool) uint16 {
	return ChromeOSAttributes{Priority: priority, Tries: tries, Successful: successful}.Encode()
}

func qcom(priority, tries uint8, unbootable bool) uint16 {
	return QualcommAttributes{Priority: priority, Tries: tries, Unbootable: unbootable}.Encode()
}

func kernel(name string, status uint16) testutil.Part {
	return testutil.Part{Type: ChromeOSKernelType, Name: name, Status: status}
}

func bootImage(name string, status uint16) testutil.Part {
	return testutil.Part{Type: QualcommBootType, Name: name, Status: status}
}

func words(entries []gpt.Entry) []uint16 {
	out := make([]uint16, 0, len(entries))
	for i := range entries {
		if entries[i].IsUsed() {
			out = append(out, entries[i].StatusWord())
		}
	}
	return out
}

func TestChromeOSScenario(t *testing.T) {
	tbl := testutil.NewTable(t,
		kernel("KERN-A", cros(2, 0, true)),
		kernel("KERN-B", cros(3, 2, false)),
		kernel("KERN-C", cros(0, 0, false)),
	)
	entries := tbl.Entries

	res, err := SelectNextSlot(entries, ChromeOS{MaxSlots: 3})
	require.NoError(t, err)

	assert.True(t, res.Dirty)
	assert.Empty(t, res.Disabled)
	assert.Equal(t, 1, res.Identity.Slot)
	assert.Equal(t, "b", res.Identity.Letter)
	assert.Equal(t, "KERN-B", res.Identity.Name)
	assert.Equal(t, entries[1].Unique.String(), res.Identity.UUID)

	assert.Equal(t, []uint16{cros(2, 0, true), cros(3, 1, false), cros(0, 0, false)}, words(entries))
}

func TestQualcommScenario(t *testing.T) {
	tbl := testutil.NewTable(t,
		bootImage("boot_a", qcom(1, 0, false)),
		bootImage("boot_b", qcom(0, 2, false)),
	)

	res, err := SelectNextSlot(tbl.Entries, Qualcomm{})
	require.NoError(t, err)

	assert.True(t, res.Dirty)
	assert.Equal(t, []int{0}, res.Disabled)
	assert.Equal(t, "b", res.Identity.Letter)
	assert.Equal(t, "boot_b", res.Identity.Name)

	a := DecodeQualcomm(tbl.Entries[0].StatusWord())
	assert.True(t, a.Unbootable)
	assert.Zero(t, a.Priority)
	assert.Equal(t, uint8(1), DecodeQualcomm(tbl.Entries[1].StatusWord()).Tries)
}

func TestHigherPriorityWinsRegardlessOfOrder(t *testing.T) {
	for _, order := range [][2]uint8{{3, 1}, {1, 3}} {
		tbl := testutil.NewTable(t,
			kernel("KERN-A", cros(order[0], 5, false)),
			kernel("KERN-B", cros(order[1], 5, false)),
		)
		res, err := SelectNextSlot(tbl.Entries, ChromeOS{})
		require.NoError(t, err)
		won := DecodeChromeOS(tbl.Entries[res.Identity.Slot].StatusWord())
		assert.Equal(t, uint8(3), won.Priority, "order %v", order)
		assert.Equal(t, uint8(4), won.Tries)
	}
}

func TestEqualPriorityFirstWins(t *testing.T) {
	tbl := testutil.NewTable(t,
		kernel("KERN-A", cros(2, 1, false)),
		kernel("KERN-B", cros(2, 9, false)),
	)
	res, err := SelectNextSlot(tbl.Entries, ChromeOS{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Identity.Slot)

	// Qualcomm ties break on letter, not table position.
	qtbl := testutil.NewTable(t,
		bootImage("boot_b", qcom(2, 3, false)),
		bootImage("boot_a", qcom(2, 3, false)),
	)
	qres, err := SelectNextSlot(qtbl.Entries, Qualcomm{})
	require.NoError(t, err)
	assert.Equal(t, "a", qres.Identity.Letter)
	assert.Equal(t, "boot_a", qres.Identity.Name)
}

func TestNoCandidates(t *testing.T) {
	tbl := testutil.NewTable(t, testutil.Part{Type: linuxData, Name: "rootfs"})
	before := words(tbl.Entries)

	for _, s := range Schemes() {
		res, err := SelectNextSlot(tbl.Entries, s)
		require.ErrorIs(t, err, ErrNoBootableSlot, s.Name())
		assert.False(t, res.Dirty, s.Name())
		assert.Zero(t, res.Identity, s.Name())
	}
	assert.Equal(t, before, words(tbl.Entries))
}

func TestNoBootableSlotKeepsDisablements(t *testing.T) {
	tbl := testutil.NewTable(t,
		kernel("KERN-A", cros(1, 0, false)),
		kernel("KERN-B", cros(0, 0, false)),
	)
	res, err := SelectNextSlot(tbl.Entries, ChromeOS{})
	require.ErrorIs(t, err, ErrNoBootableSlot)
	assert.True(t, res.Dirty)
	assert.Equal(t, []int{0}, res.Disabled)
	assert.Equal(t, []uint16{0, 0}, words(tbl.Entries))

	// A second pass finds nothing left to change.
	res, err = SelectNextSlot(tbl.Entries, ChromeOS{})
	require.ErrorIs(t, err, ErrNoBootableSlot)
	assert.False(t, res.Dirty)
}

func TestOverCapacityLeavesTableUntouched(t *testing.T) {
	tbl := testutil.NewTable(t,
		kernel("KERN-A", cros(1, 0, false)),
		kernel("KERN-B", cros(2, 3, false)),
		kernel("KERN-C", cros(3, 3, false)),
	)
	snapshot := tbl.Clone()

	res, err := SelectNextSlot(tbl.Entries, ChromeOS{})
	require.ErrorIs(t, err, ErrOverCapacity)
	assert.False(t, res.Dirty)
	assert.Equal(t, snapshot.Entries, tbl.Entries)
}

func TestOnlyStatusWordChanges(t *testing.T) {
	tbl := testutil.NewTable(t,
		kernel("KERN-A", cros(1, 0, false)),
		kernel("KERN-B", cros(2, 3, false)),
	)
	tbl.Entries[0].Attributes |= 1 // required partition bit
	snapshot := tbl.Clone()

	_, err := SelectNextSlot(tbl.Entries, ChromeOS{})
	require.NoError(t, err)
	for i := range tbl.Entries {
		got, want := tbl.Entries[i], snapshot.Entries[i]
		got.SetStatusWord(0)
		want.SetStatusWord(0)
		assert.Equal(t, want, got, "entry %d", i)
	}
	assert.Equal(t, uint64(1), tbl.Entries[0].Attributes&1)
}

func TestTriesDrainThenFallback(t *testing.T) {
	// Slot B holds a fresh update with two tries; slot A is the known-good
	// image. Every boot of B fails, so after two attempts A takes over.
	tbl := testutil.NewTable(t,
		kernel("KERN-A", cros(1, 0, true)),
		kernel("KERN-B", cros(2, 2, false)),
	)
	var picked []string
	for i := 0; i < 4; i++ {
		res, err := SelectNextSlot(tbl.Entries, ChromeOS{})
		require.NoError(t, err)
		picked = append(picked, res.Identity.Letter)
	}
	assert.Equal(t, []string{"b", "b", "a", "a"}, picked)
	assert.Equal(t, uint16(0), tbl.Entries[1].StatusWord(), "failed update disabled")
}

func TestQualcommLocateSkipsBadNames(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tbl := testutil.NewTable(t,
		bootImage("boot", qcom(3, 3, false)),
		bootImage("boot_c", qcom(3, 3, false)),
		bootImage("boot_b_old", qcom(3, 3, false)),
		bootImage("BOOT_A", qcom(3, 3, false)),
		bootImage("boot_b", qcom(1, 1, false)),
		kernel("boot_a", cros(3, 3, false)),
	)

	slots, err := Qualcomm{}.Locate(tbl.Entries, log)
	require.NoError(t, err)
	assert.Equal(t, Slots{{}, {Entry: 4, Present: true}}, slots)
	assert.Contains(t, logs.String(), "unexpected name")
	assert.Contains(t, logs.String(), "boot_c")

	res, err := SelectNextSlot(tbl.Entries, Qualcomm{}, WithLogger(log))
	require.NoError(t, err)
	assert.Equal(t, "b", res.Identity.Letter)
	assert.Equal(t, qcom(3, 3, false), tbl.Entries[0].StatusWord(), "skipped entries untouched")
}

func TestQualcommDuplicateLetterLaterWins(t *testing.T) {
	tbl := testutil.NewTable(t,
		bootImage("boot_a", qcom(3, 3, false)),
		bootImage("boot_a", qcom(1, 3, false)),
	)
	slots, err := Qualcomm{}.Locate(tbl.Entries, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	assert.Equal(t, 1, slots[0].Entry)
}

func TestQualcommMissingSlot(t *testing.T) {
	tbl := testutil.NewTable(t, bootImage("boot_b", qcom(1, 3, false)))
	res, err := SelectNextSlot(tbl.Entries, Qualcomm{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Identity.Slot)
}

func TestSuccessfulChromeOSSlotStaysBootable(t *testing.T) {
	tbl := testutil.NewTable(t, kernel("KERN-A", cros(1, 0, true)))
	for i := 0; i < 3; i++ {
		res, err := SelectNextSlot(tbl.Entries, ChromeOS{})
		require.NoError(t, err)
		assert.True(t, res.Dirty)
	}
	assert.Equal(t, cros(1, 0, true), tbl.Entries[0].StatusWord())
}

func TestMarkSuccessful(t *testing.T) {
	tbl := testutil.NewTable(t,
		kernel("KERN-A", cros(1, 0, true)),
		kernel("KERN-B", cros(2, 1, false)),
	)
	changed, err := MarkSuccessful(tbl.Entries, ChromeOS{}, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, cros(2, 0, true), tbl.Entries[1].StatusWord())

	changed, err = MarkSuccessful(tbl.Entries, ChromeOS{}, 1)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = MarkSuccessful(tbl.Entries, Qualcomm{}, 0)
	assert.ErrorIs(t, err, ErrNoSuchSlot)
	_, err = MarkSuccessful(tbl.Entries, ChromeOS{}, 5)
	assert.ErrorIs(t, err, ErrNoSuchSlot)
}
