package gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGUIDOnDiskOrder(t *testing.T) {
	g, err := ParseGUID("FE3A2A5D-4F32-41A7-B725-ACCC3285A309")
	require.NoError(t, err)
	want := GUID{
		0x5d, 0x2a, 0x3a, 0xfe,
		0x32, 0x4f,
		0xa7, 0x41,
		0xb7, 0x25, 0xac, 0xcc, 0x32, 0x85, 0xa3, 0x09,
	}
	assert.Equal(t, want, g)
	assert.Equal(t, "fe3a2a5d-4f32-41a7-b725-accc3285a309", g.String())
}

func TestGUIDParseError(t *testing.T) {
	_, err := ParseGUID("not-a-guid")
	assert.Error(t, err)
	assert.Panics(t, func() { MustParseGUID("nope") })
}

func TestNewGUID(t *testing.T) {
	a, b := NewGUID(), NewGUID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
	assert.True(t, GUID{}.IsZero())

	back, err := ParseGUID(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, back)
}
