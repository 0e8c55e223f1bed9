package mwgc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHeap builds the 256-byte/block-16 heap spec.md's scenarios use:
// a 4-byte color map plus 12 bytes of padding leaves a 240-byte, 15-block
// pool.
func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	region := make([]byte, 256)
	h := New(region)
	require.Equal(t, uintptr(240), h.GetStats().TotalBytes)
	return h
}

func TestHeapFreshHeap(t *testing.T) {
	h := newTestHeap(t)
	assert.Equal(t, "FREE[240]", h.Dump())

	stats := h.GetStats()
	assert.Equal(t, uintptr(240), stats.TotalBytes)
	assert.Equal(t, uintptr(240), stats.FreeBytes)
}

func TestHeapSingleAllocation(t *testing.T) {
	h := newTestHeap(t)
	m, ok := h.Allocate(32)
	require.True(t, ok)
	assert.Equal(t, h.start, m.Start())
	assert.Equal(t, "Blue[32], FREE[208]", h.Dump())
}

func TestHeapRetireRestores(t *testing.T) {
	h := newTestHeap(t)
	m1, ok := h.Allocate(32)
	require.True(t, ok)
	m2, ok := h.Allocate(32)
	require.True(t, ok)

	h.Retire(m1)
	assert.Equal(t, "FREE[32], Blue[32], FREE[176]", h.Dump())

	h.Retire(m2)
	assert.Equal(t, "FREE[240]", h.Dump())
}

func TestHeapAllocateRoundsUpToBlockSize(t *testing.T) {
	h := newTestHeap(t)
	m, ok := h.Allocate(1)
	require.True(t, ok)
	assert.Equal(t, uintptr(16), m.Len())
}

func TestHeapAllocateZeroesMemory(t *testing.T) {
	h := newTestHeap(t)
	m, ok := h.Allocate(32)
	require.True(t, ok)
	for _, b := range m.Bytes() {
		assert.Equal(t, byte(0), b)
	}
}

func TestHeapAllocateObjectAndSizeOf(t *testing.T) {
	type widget struct {
		a, b uintptr
	}
	h := newTestHeap(t)
	w, ok := AllocateObject[widget](h)
	require.True(t, ok)
	assert.Equal(t, widget{}, *w)
	assert.GreaterOrEqual(t, SizeOf(h, w), uintptr(16))
}

func TestHeapAllocateArray(t *testing.T) {
	h := newTestHeap(t)
	arr, ok := AllocateArray[uintptr](h, 4)
	require.True(t, ok)
	assert.Len(t, arr, 4)
	for _, v := range arr {
		assert.Equal(t, uintptr(0), v)
	}
}

func TestHeapAllocateExhaustion(t *testing.T) {
	h := newTestHeap(t)
	for i := 0; i < 15; i++ {
		_, ok := h.Allocate(16)
		require.True(t, ok, "allocation %d should succeed", i)
	}
	_, ok := h.Allocate(16)
	assert.False(t, ok)
}

func TestHeapRetireObject(t *testing.T) {
	type widget struct{ x uintptr }
	h := newTestHeap(t)
	w, ok := AllocateObject[widget](h)
	require.True(t, ok)
	RetireObject(h, w)
	assert.Equal(t, "FREE[240]", h.Dump())
}
