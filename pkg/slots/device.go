package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshuapare/slotkit/ab"
	"github.com/joshuapare/slotkit/gpt"
	"github.com/joshuapare/slotkit/internal/blockdev"
	"github.com/joshuapare/slotkit/internal/writer"
)

// mutateFunc edits t in place and reports whether it must be persisted.
type mutateFunc func(t *gpt.Table) (dirty bool, err error)

// update loads the table at path, applies fn and writes the table back when
// fn reports it dirty. Errors wrapping ab.ErrNoBootableSlot still persist.
func update(ctx context.Context, path string, o Options, fn mutateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dev, err := blockdev.Open(path, blockdev.Options{Writable: !o.DryRun, SectorSize: o.SectorSize})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer dev.Close()

	t, err := load(dev, o)
	if err != nil {
		return err
	}

	dirty, fnErr := fn(t)
	if fnErr != nil && !errors.Is(fnErr, ab.ErrNoBootableSlot) {
		return fnErr
	}
	if !dirty {
		o.Logger.Debug("table unchanged", "path", path)
		return fnErr
	}
	if o.DryRun {
		o.Logger.Info("dry run, table not written", "path", path)
		return fnErr
	}

	if o.BackupPath != "" {
		if err := snapshot(dev, t, &writer.FileWriter{Path: o.BackupPath}); err != nil {
			return fmt.Errorf("backup %s: %w", o.BackupPath, err)
		}
		o.Logger.Info("table sectors saved", "path", o.BackupPath)
	}
	if err := persist(ctx, dev, t, o); err != nil {
		return err
	}
	return fnErr
}

func load(dev *blockdev.Device, o Options) (*gpt.Table, error) {
	t, err := gpt.Read(dev, dev.SectorSize(), dev.Size())
	if err != nil {
		return nil, fmt.Errorf("read partition table from %s: %w", dev.Path(), err)
	}
	if t.Source == gpt.SourceBackup {
		o.Logger.Warn("primary partition table invalid, using backup copy", "path", dev.Path())
	}
	o.Logger.Debug("partition table loaded", "path", dev.Path(), "source", t.Source,
		"sector_size", dev.SectorSize(), "entries", len(t.Entries))
	return t, nil
}

func persist(ctx context.Context, dev *blockdev.Device, t *gpt.Table, o Options) error {
	if err := t.Write(dev); err != nil {
		return fmt.Errorf("write partition table to %s: %w", dev.Path(), err)
	}
	written := dev.Written()
	if err := dev.Sync(ctx, o.flushMode()); err != nil {
		return err
	}
	o.Logger.Debug("partition table written", "path", dev.Path(), "ranges", len(written))
	return nil
}

// snapshot hands the raw bytes in front of the first usable LBA to sink.
func snapshot(dev *blockdev.Device, t *gpt.Table, sink writer.Sink) error {
	n := int64(t.Header.FirstUsableLBA) * dev.SectorSize()
	if n <= 0 || n > dev.Size() {
		return fmt.Errorf("%w: first usable LBA %d", gpt.ErrGeometry, t.Header.FirstUsableLBA)
	}
	buf := make([]byte, n)
	if _, err := dev.ReadAt(buf, 0); err != nil {
		return err
	}
	return sink.WriteAll(buf)
}
