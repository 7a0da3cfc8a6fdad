package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slotkit/pkg/slots"
)

func TestStatusCommand(t *testing.T) {
	resetGlobals(t)
	quiet = false
	path := chromeOSImage(t)

	out, err := captureOutput(t, func() error {
		return runStatus(context.Background(), []string{path})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Scheme: chromeos")
	assert.Contains(t, out, "SLOT")
	assert.Contains(t, out, "KERN-A")
	assert.Contains(t, out, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	assert.Contains(t, out, "bootable")
}

func TestStatusCommandJSON(t *testing.T) {
	resetGlobals(t)
	jsonOut = true

	out, err := captureOutput(t, func() error {
		return runStatus(context.Background(), []string{chromeOSImage(t)})
	})
	require.NoError(t, err)

	var r slots.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Len(t, r.Slots, 2)
	assert.Equal(t, "KERN-B", r.Slots[1].Name)
	assert.Equal(t, uint8(3), r.Slots[1].Attributes.Tries)
}

func TestStatusCommandNoSlots(t *testing.T) {
	resetGlobals(t)
	quiet = false
	cfg.Scheme = "qcom"

	out, err := captureOutput(t, func() error {
		return runStatus(context.Background(), []string{chromeOSImage(t)})
	})
	require.NoError(t, err)
	assert.Contains(t, out, "No slots found")
}

func TestSlotState(t *testing.T) {
	assert.Equal(t, "disabled", slotState(slots.SlotStatus{Disabled: true}))
	assert.Equal(t, "bootable", slotState(slots.SlotStatus{Bootable: true}))
	assert.Equal(t, "exhausted", slotState(slots.SlotStatus{}))
}
