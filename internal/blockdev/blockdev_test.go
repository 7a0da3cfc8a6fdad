package blockdev

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestOpenRegularFile(t *testing.T) {
	path := writeImage(t, 64<<10)

	d, err := Open(path, Options{})
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, int64(64<<10), d.Size())
	assert.Equal(t, int64(512), d.SectorSize())
	assert.Equal(t, path, d.Path())
	assert.False(t, d.Writable())
}

func TestSectorSizeOverride(t *testing.T) {
	path := writeImage(t, 64<<10)

	d, err := Open(path, Options{SectorSize: 4096})
	require.NoError(t, err)
	assert.Equal(t, int64(4096), d.SectorSize())
	require.NoError(t, d.Close())

	for _, bad := range []int64{256, 520, 3000} {
		_, err := Open(path, Options{SectorSize: bad})
		assert.Error(t, err, "sector size %d", bad)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	d, err := Open(writeImage(t, 4096), Options{})
	require.NoError(t, err)
	defer d.Close()

	_, err = d.WriteAt([]byte{1}, 0)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestWriteReadAndTrack(t *testing.T) {
	path := writeImage(t, 16<<10)
	d, err := Open(path, Options{Writable: true})
	require.NoError(t, err)

	_, err = d.WriteAt([]byte("EFI PART"), 512)
	require.NoError(t, err)
	_, err = d.WriteAt([]byte{0xAA}, 1100)
	require.NoError(t, err)
	_, err = d.WriteAt([]byte{0xBB}, 8192)
	require.NoError(t, err)

	assert.Equal(t, []Range{{Off: 512, Len: 1024}, {Off: 8192, Len: 512}}, d.Written())

	got := make([]byte, 8)
	_, err = d.ReadAt(got, 512)
	require.NoError(t, err)
	assert.Equal(t, "EFI PART", string(got))

	require.NoError(t, d.Sync(context.Background(), FlushAuto))
	assert.Empty(t, d.Written())
	require.NoError(t, d.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte(0xBB), data[8192])
}

func TestWriteOutsideDevice(t *testing.T) {
	d, err := Open(writeImage(t, 4096), Options{Writable: true})
	require.NoError(t, err)
	defer d.Close()

	_, err = d.WriteAt(make([]byte, 10), 4090)
	assert.Error(t, err)
	assert.Empty(t, d.Written())
}

func TestSyncCancelled(t *testing.T) {
	d, err := Open(writeImage(t, 4096), Options{Writable: true})
	require.NoError(t, err)
	defer d.Close()

	_, err = d.WriteAt([]byte{1}, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Sync(ctx, FlushAuto), context.Canceled)
	assert.NotEmpty(t, d.Written(), "ranges kept for a retry")

	require.NoError(t, d.Sync(context.Background(), FlushNone))
	assert.Empty(t, d.Written())
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name string
		in   []Range
		want []Range
	}{
		{"empty", nil, nil},
		{"single unaligned", []Range{{Off: 10, Len: 5}}, []Range{{Off: 0, Len: 512}}},
		{"adjacent", []Range{{Off: 512, Len: 512}, {Off: 0, Len: 512}}, []Range{{Off: 0, Len: 1024}}},
		{"contained", []Range{{Off: 0, Len: 2048}, {Off: 600, Len: 10}}, []Range{{Off: 0, Len: 2048}}},
		{"gap", []Range{{Off: 0, Len: 1}, {Off: 2048, Len: 1}}, []Range{{Off: 0, Len: 512}, {Off: 2048, Len: 512}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coalesce(tt.in, 512))
		})
	}
}
