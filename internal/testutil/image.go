package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/slotkit/gpt"
)

const (
	// DiskSize is the size of generated images: 2 MiB, 4096 sectors.
	DiskSize = 2 << 20
	// SectorSize is the logical block size of generated images.
	SectorSize = 512
	// partSectors is the size of every generated partition.
	partSectors = 64
)

// Part describes one partition of a generated image.
type Part struct {
	Type   gpt.GUID
	Name   string
	Status uint16 // type-specific attribute bits 48..63
	Unique gpt.GUID
}

// NewTable returns a fresh table holding parts, laid out back to back from
// the first usable LBA. Zero Unique GUIDs are replaced with random ones.
func NewTable(t testing.TB, parts ...Part) *gpt.Table {
	t.Helper()

	tbl, err := gpt.New(DiskSize, SectorSize)
	if err != nil {
		t.Fatalf("gpt.New: %v", err)
	}
	lba := tbl.Header.FirstUsableLBA
	for _, p := range parts {
		e := gpt.Entry{
			Type:     p.Type,
			Unique:   p.Unique,
			FirstLBA: lba,
			LastLBA:  lba + partSectors - 1,
		}
		if e.Unique.IsZero() {
			e.Unique = gpt.NewGUID()
		}
		if err := e.SetName(p.Name); err != nil {
			t.Fatalf("SetName(%q): %v", p.Name, err)
		}
		e.SetStatusWord(p.Status)
		if _, err := tbl.Add(e); err != nil {
			t.Fatalf("Add(%q): %v", p.Name, err)
		}
		lba += partSectors
	}
	return tbl
}

// NewImage writes a protective MBR and a table holding parts to a new
// MemDisk.
func NewImage(t testing.TB, parts ...Part) *MemDisk {
	t.Helper()

	disk := NewMemDisk(DiskSize)
	if err := gpt.WriteProtectiveMBR(disk, DiskSize, SectorSize); err != nil {
		t.Fatalf("WriteProtectiveMBR: %v", err)
	}
	tbl := NewTable(t, parts...)
	if err := tbl.Write(disk); err != nil {
		t.Fatalf("Write: %v", err)
	}
	disk.Writes = 0
	return disk
}

// WriteImageFile writes an image holding parts to a file in t.TempDir and
// returns its path.
func WriteImageFile(t testing.TB, parts ...Part) string {
	t.Helper()

	disk := NewImage(t, parts...)
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := os.WriteFile(path, disk.Bytes(), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

// ReadImageFile loads the table stored in the image at path.
func ReadImageFile(t testing.TB, path string) *gpt.Table {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	disk := &MemDisk{data: data}
	tbl, err := gpt.Read(disk, SectorSize, disk.Size())
	if err != nil {
		t.Fatalf("gpt.Read: %v", err)
	}
	return tbl
}
