package mwgc

import "strings"

// ColorMap is a packed 2-bit-per-block array, indexed by block number. It
// lives in the trailing slice of the backing region handed to a Heap.
//
// An allocated run of blocks has one of {Blue, Green, Check} at its first
// block, and Continue at every subsequent block in the run. A free region
// carries Check at every block in its span (see FreeRange), so it always
// terminates an immediately preceding allocation's Continue run.
type ColorMap struct {
	bits []byte
}

// newColorMap wraps bits as a color map and initializes every block to
// Check (the "free" state), matching the construction-time invariant that
// a brand new heap is entirely free.
func newColorMap(bits []byte) ColorMap {
	for i := range bits {
		bits[i] = 0xff
	}
	return ColorMap{bits: bits}
}

// Len returns the number of block slots this map can address.
func (m ColorMap) Len() uintptr {
	return uintptr(len(m.bits)) * blocksPerColorMapByte
}

// Get returns the color stored for block n.
func (m ColorMap) Get(n uintptr) Color {
	shift := (n & 3) * 2
	mask := byte(3 << shift)
	return Color((m.bits[n/4] & mask) >> shift)
}

// Set stores color for block n.
func (m ColorMap) Set(n uintptr, color Color) {
	shift := (n & 3) * 2
	mask := byte(3 << shift)
	m.bits[n/4] = (m.bits[n/4] &^ mask) | byte(color)<<shift
}

// GetRange returns the block range that n belongs to: start is the block
// that begins the run containing n (found by walking backwards while the
// current block is Continue), and end is the block just past the last
// Continue in the run.
//
// On a free block this returns a single-block range (end == start+1),
// because free regions are all-Check with no Continue tail by
// construction (invariant I3); callers that need the true extent of a
// free region must consult the free list, not the color map.
func (m ColorMap) GetRange(n uintptr) BlockRange {
	start := n
	for start > 0 && m.Get(start) == Continue {
		start--
	}
	color := m.Get(start)
	end := start + 1
	max := m.Len()
	for end < max && m.Get(end) == Continue {
		end++
	}
	return BlockRange{Start: start, End: end, Color: color}
}

// SetRange writes r.Color at r.Start and Continue at every block in
// (r.Start, r.End).
func (m ColorMap) SetRange(r BlockRange) {
	m.Set(r.Start, r.Color)
	for i := r.Start + 1; i < r.End; i++ {
		m.Set(i, Continue)
	}
}

// FreeRange writes Check across every block in [r.Start, r.End), so that
// an allocation placed immediately before this range cannot accidentally
// absorb it as a Continue tail.
func (m ColorMap) FreeRange(r BlockRange) {
	for i := r.Start; i < r.End; i++ {
		m.Set(i, Check)
	}
}

// RangeIter walks successive BlockRanges across a whole ColorMap.
type RangeIter struct {
	m       ColorMap
	current uintptr
}

// Ranges returns a pull iterator over every BlockRange in the map, in
// ascending order.
func (m ColorMap) Ranges() *RangeIter {
	return &RangeIter{m: m, current: 0}
}

// Next returns the next BlockRange, or false once the map is exhausted.
func (it *RangeIter) Next() (BlockRange, bool) {
	if it.current >= it.m.Len() {
		return BlockRange{}, false
	}
	r := it.m.GetRange(it.current)
	it.current = r.End
	return r, true
}

func (m ColorMap) String() string {
	var b strings.Builder
	b.WriteString("ColorMap(")
	for n := uintptr(0); n < m.Len(); n++ {
		b.WriteString(m.Get(n).String())
	}
	b.WriteString(")")
	return b.String()
}
