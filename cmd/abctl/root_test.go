package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/internal/testutil"
)

func TestRootSelectEndToEnd(t *testing.T) {
	resetGlobals(t)
	isolateConfig(t)
	path := chromeOSImage(t)

	rootCmd.SetArgs([]string{"select", "-q", "--slot-var", "", "--uuid-var", "", path})
	out, err := captureOutput(t, rootCmd.Execute)
	require.NoError(t, err)
	assert.Equal(t, "SLOT_NAME=KERN-B\n", out)

	tbl := testutil.ReadImageFile(t, path)
	assert.Equal(t, crosWord(2, 2, false), tbl.Entries[1].StatusWord())
}

func TestRootRejectsMissingDevice(t *testing.T) {
	resetGlobals(t)
	isolateConfig(t)

	rootCmd.SetArgs([]string{"status", "-q", "/nonexistent/disk.img"})
	_, err := captureOutput(t, rootCmd.Execute)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
