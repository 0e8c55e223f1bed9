package mwgc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySplitAt(t *testing.T) {
	data := make([]byte, 16)
	m := NewMemory(data)
	prefix, suffix := m.SplitAt(10)
	assert.Equal(t, uintptr(10), prefix.Len())
	assert.Equal(t, uintptr(6), suffix.Len())
	assert.Equal(t, prefix.End(), suffix.Start())
}

func TestMemoryClear(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	m := NewMemory(data)
	m.Clear()
	for _, b := range data {
		assert.Equal(t, byte(0), b)
	}
}

func TestMemoryFromAddressesRoundTrips(t *testing.T) {
	data := make([]byte, 32)
	m := NewMemory(data)
	require.Equal(t, uintptr(32), m.Len())

	reconstructed := memoryFromAddresses(m.Start(), m.End())
	assert.Equal(t, m.Len(), reconstructed.Len())
	assert.Equal(t, m.Start(), reconstructed.Start())
}
