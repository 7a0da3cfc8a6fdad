package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/ab"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"KERN-B", "KERN-B"},
		{"b", "b"},
		{"", "''"},
		{"boot image", "'boot image'"},
		{"it's", `'it'\''s'`},
		{"$(reboot)", "'$(reboot)'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shellQuote(tt.in), tt.in)
	}
}

func TestWriteVars(t *testing.T) {
	vars, err := exportVars(
		ExportConfig{SlotVar: "S", NameVar: "N"},
		ab.Identity{Letter: "a", Name: "KERN A", UUID: "ignored"},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeVars(&buf, vars))
	assert.Equal(t, "S=a\nN='KERN A'\n", buf.String())
}

func TestExportVarsRejectsBadNames(t *testing.T) {
	for _, name := range []string{"1A", "A-B", "A B", "A=B"} {
		_, err := exportVars(ExportConfig{SlotVar: name}, ab.Identity{})
		assert.Error(t, err, name)
	}
}
