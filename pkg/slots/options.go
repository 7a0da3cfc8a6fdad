package slots

import (
	"io"
	"log/slog"

	"github.com/joshuapare/slotkit/internal/blockdev"
)

// Options controls device-level operations. A nil *Options uses the
// defaults.
type Options struct {
	// SectorSize overrides the logical block size. Zero detects it from
	// the device, falling back to 512 for image files.
	SectorSize int64

	// DryRun opens the device read-only and never writes. Results report
	// what would have changed.
	DryRun bool

	// BackupPath, if set, receives a raw copy of the sectors in front of
	// the first usable LBA (protective MBR, primary header and entry array)
	// before the table is rewritten.
	BackupPath string

	// FullSync requests F_FULLFSYNC on macOS. Elsewhere it behaves like a
	// plain fdatasync.
	FullSync bool

	// Logger receives diagnostics. Default: discard.
	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Logger == nil {
		out.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return out
}

func (o Options) flushMode() blockdev.FlushMode {
	if o.FullSync {
		return blockdev.FlushFull
	}
	return blockdev.FlushAuto
}
