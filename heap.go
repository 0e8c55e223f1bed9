package mwgc

import "unsafe"

// Heap owns a single fixed byte region, carves a color map out of its
// tail, and treats the remainder as an allocatable pool. See spec.md §4.4
// and the package doc comment for the full design.
type Heap struct {
	// region is retained for as long as the Heap exists purely so the
	// host Go runtime's own garbage collector never reclaims the backing
	// buffer out from under us; TinyGo doesn't need this (its allocator
	// *is* the runtime) and the Rust original encodes the same guarantee
	// with a 'heap lifetime instead.
	region []byte

	start     uintptr
	end       uintptr
	blocks    uintptr
	blockSize uintptr

	colorMap ColorMap
	freeList FreeList

	currentColor Color
	phase        phase

	checkStart uintptr
	checkEnd   uintptr
	hasCheck   bool
}

type phase int

const (
	phaseQuiet phase = iota
	phaseMarking
	phaseMarked
)

// New builds a Heap out of region using DefaultHeapConfig.
func New(region []byte) *Heap {
	return NewWithConfig(region, DefaultHeapConfig())
}

// NewWithConfig builds a Heap out of region, carving off a trailing color
// map sized so that every pool block gets a 2-bit slot (spec.md §4.4
// construction steps 1-7).
func NewWithConfig(region []byte, cfg HeapConfig) *Heap {
	cfg.validate()
	blockSize := cfg.BlockSizeBytes

	// Split the backing region into [pool][unused padding][color map].
	divisor := 1 + blocksPerColorMapByte*blockSize
	colorMapSize := divCeil(uintptr(len(region)), divisor)
	poolSize := floorTo(uintptr(len(region))-colorMapSize, blockSize)

	pool := Memory{data: region[:poolSize]}
	colorMapBytes := region[uintptr(len(region))-colorMapSize:]
	blocks := poolSize / blockSize

	h := &Heap{
		region:       region,
		start:        pool.Start(),
		end:          pool.End(),
		blocks:       blocks,
		blockSize:    blockSize,
		colorMap:     newColorMap(colorMapBytes),
		freeList:     newFreeList(pool),
		currentColor: Blue,
		phase:        phaseQuiet,
	}
	return h
}

func (h *Heap) addressOf(block uintptr) uintptr {
	return h.start + block*h.blockSize
}

func (h *Heap) blockOf(p uintptr) uintptr {
	b := (p - h.start) / h.blockSize
	for h.colorMap.Get(b) == Continue {
		b--
	}
	return b
}

// isBlock reports whether p lies within the pool and is word-aligned;
// misaligned pointers can't be conservatively scanned and are never
// treated as heap addresses.
func (h *Heap) isBlock(p uintptr) bool {
	return p >= h.start && p < h.end && p%unsafe.Alignof(p) == 0
}

func (h *Heap) blockRangeOf(m Memory, color Color) BlockRange {
	start := h.blockOf(m.Start())
	end := start + m.Len()/h.blockSize
	return BlockRange{Start: start, End: end, Color: color}
}

func (h *Heap) getRange(p uintptr) BlockRange {
	return h.colorMap.GetRange(h.blockOf(p))
}

// Allocate requests amount bytes of memory, rounded up to a multiple of
// the block size. Returns false if no free region is big enough.
func (h *Heap) Allocate(amount uintptr) (Memory, bool) {
	// blockSize is already guaranteed >= freeBlockHeaderSize by
	// HeapConfig.validate, so any nonzero rounded amount is automatically
	// large enough for a free-block header.
	rounded := ceilTo(amount, h.blockSize)
	m, ok := h.freeList.Allocate(rounded)
	if !ok {
		return Memory{}, false
	}

	color := h.currentColor
	if h.phase == phaseMarking {
		color = Check
	}
	h.colorMap.SetRange(h.blockRangeOf(m, color))
	if h.phase == phaseMarking {
		h.addToCheckSpan(m.Start())
	}
	m.Clear()
	return m, true
}

// AllocateObject requests enough memory to hold a T, default-initialized
// (Go's zero value, the idiomatic stand-in for the Rust original's
// T: Default bound). Returns false if not enough memory is free.
func AllocateObject[T any](h *Heap) (*T, bool) {
	var zero T
	m, ok := h.Allocate(unsafe.Sizeof(zero))
	if !ok {
		return nil, false
	}
	return (*T)(unsafe.Pointer(&m.Bytes()[0])), true
}

// AllocateDynamicObject requests enough memory to hold a T followed by
// padding extra bytes, for objects with a dynamically-sized tail.
func AllocateDynamicObject[T any](h *Heap, padding uintptr) (*T, bool) {
	var zero T
	m, ok := h.Allocate(unsafe.Sizeof(zero) + padding)
	if !ok {
		return nil, false
	}
	return (*T)(unsafe.Pointer(&m.Bytes()[0])), true
}

// AllocateArray requests enough memory to hold count default-initialized
// values of type T.
func AllocateArray[T any](h *Heap, count uintptr) ([]T, bool) {
	var zero T
	m, ok := h.Allocate(unsafe.Sizeof(zero) * count)
	if !ok {
		return nil, false
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&m.Bytes()[0])), count), true
}

// SizeOf returns the byte extent of the allocation containing obj.
func SizeOf[T any](h *Heap, obj *T) uintptr {
	r := h.getRange(uintptr(unsafe.Pointer(obj)))
	return h.addressOf(r.End) - h.addressOf(r.Start)
}

// Retire gives back an allocation without waiting for a GC round.
func (h *Heap) Retire(m Memory) {
	h.colorMap.FreeRange(h.blockRangeOf(m, Check))
	h.freeList.Retire(m)
}

// RetireObject gives back an allocated object without waiting for a GC
// round.
func RetireObject[T any](h *Heap, obj *T) {
	r := h.getRange(uintptr(unsafe.Pointer(obj)))
	m := memoryFromAddresses(h.addressOf(r.Start), h.addressOf(r.End))
	h.colorMap.FreeRange(r)
	h.freeList.Retire(m)
}

// GetStats reports the pool's total and currently-free byte counts.
func (h *Heap) GetStats() HeapStats {
	return HeapStats{
		TotalBytes: h.blocks * h.blockSize,
		FreeBytes:  h.freeList.Bytes(),
		Start:      h.start,
		End:        h.end,
	}
}

// Dump renders the size and color of every span in the heap, for
// debugging.
func (h *Heap) Dump() string {
	s := ""
	first := true
	it := h.iter()
	for {
		span, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			s += ", "
		}
		first = false
		s += span.String()
	}
	return s
}

// DumpSpans renders only the color of every span in the heap, omitting
// sizes.
func (h *Heap) DumpSpans() string {
	s := ""
	first := true
	it := h.iter()
	for {
		span, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			s += ", "
		}
		first = false
		s += span.typeString()
	}
	return s
}

func (h *Heap) String() string {
	return "Heap(pool=" + itoa(h.start) + ", blocks=" + itoa(h.blocks) + "x" + itoa(h.blockSize) +
		", " + h.colorMap.String() + ", " + h.freeList.String() + ")"
}
