package mwgc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorMapInit(t *testing.T) {
	data := make([]byte, 4)
	m := newColorMap(data)
	assert.Equal(t, "ColorMap(CCCCCCCCCCCCCCCC)", m.String())
}

func TestColorMapSetAndGetRanges(t *testing.T) {
	data := make([]byte, 4)
	m := newColorMap(data)

	m.SetRange(BlockRange{Start: 0, End: 2, Color: Green})
	assert.Equal(t, "ColorMap(G.CCCCCCCCCCCCCC)", m.String())
	assert.Equal(t, BlockRange{Start: 0, End: 2, Color: Green}, m.GetRange(0))

	m.SetRange(BlockRange{Start: 2, End: 3, Color: Blue})
	assert.Equal(t, BlockRange{Start: 2, End: 3, Color: Blue}, m.GetRange(2))
	assert.Equal(t, BlockRange{Start: 0, End: 2, Color: Green}, m.GetRange(0))
	assert.Equal(t, "ColorMap(G.BCCCCCCCCCCCCC)", m.String())
}

func TestColorMapGetRangeWalksBackToRunStart(t *testing.T) {
	data := make([]byte, 4)
	m := newColorMap(data)
	m.SetRange(BlockRange{Start: 0, End: 4, Color: Green})

	// Querying any block inside the run finds the run's true start.
	assert.Equal(t, BlockRange{Start: 0, End: 4, Color: Green}, m.GetRange(3))
}

func TestColorMapFreeRange(t *testing.T) {
	data := make([]byte, 4)
	m := newColorMap(data)
	m.SetRange(BlockRange{Start: 0, End: 4, Color: Green})

	m.FreeRange(BlockRange{Start: 0, End: 4})
	for n := uintptr(0); n < 4; n++ {
		assert.Equal(t, Check, m.Get(n))
	}
}

func TestColorMapRangesIterator(t *testing.T) {
	data := make([]byte, 4)
	m := newColorMap(data)
	m.SetRange(BlockRange{Start: 0, End: 2, Color: Green})
	m.SetRange(BlockRange{Start: 2, End: 3, Color: Blue})

	it := m.Ranges()
	r1, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, BlockRange{Start: 0, End: 2, Color: Green}, r1)

	r2, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, BlockRange{Start: 2, End: 3, Color: Blue}, r2)

	r3, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, Check, r3.Color)
}
